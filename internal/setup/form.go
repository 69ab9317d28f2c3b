package setup

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// HuhFormRunner는 charmbracelet/huh 기반의 FormRunner 구현이다.
type HuhFormRunner struct{}

var _ FormRunner = (*HuhFormRunner)(nil)

// RunSetupForm은 setup 입력 폼을 실행한다.
func (h *HuhFormRunner) RunSetupForm(defaults Input) (Input, error) {
	input := defaults

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("셸 유형").
			Description("prompt hook을 설치할 셸").
			Options(
				huh.NewOption("zsh", "zsh"),
				huh.NewOption("bash", "bash"),
				huh.NewOption("fish", "fish"),
			).
			Value(&input.Shell),
		huh.NewSelect[string]().
			Title("환경 매니저").
			Description("mamba 선호 시 없으면 conda로 fallback합니다").
			Options(
				huh.NewOption("conda", "conda"),
				huh.NewOption("mamba (빠름)", "mamba"),
			).
			Value(&input.Manager),
		huh.NewSelect[int]().
			Title("descriptor 검사 수준").
			Options(
				huh.NewOption("0 — 검사 없음", 0),
				huh.NewOption("1 — 구문 + 외부 명령 스캔", 1),
				huh.NewOption("2 — 1 + 패키지/채널 정책", 2),
			).
			Value(&input.Strictness),
		huh.NewConfirm().
			Title("셸 RC 파일에 hook을 설치할까요?").
			Value(&input.InstallHook),
	))
	if err := form.Run(); err != nil {
		return Input{}, fmt.Errorf("setup.RunSetupForm: %w", err)
	}

	return input, nil
}
