package setup

import (
	"fmt"
	"os"

	"github.com/hbjs97/envctx/internal/config"
)

// Runner는 interactive setup의 진입점이다.
type Runner struct {
	CfgPath    string
	FormRunner FormRunner
	RCPath     string // 테스트용. 비어있으면 셸별 기본 경로.
}

// Run은 setup 플로우를 실행한다: 폼 입력 → 설정 저장 → hook 설치.
// 기존 설정이 있으면 그 값을 폼의 초기값으로 쓴다.
func (r *Runner) Run() error {
	cfg, err := config.Load(r.CfgPath)
	if err != nil {
		// 깨진 설정은 기본값에서 다시 시작한다.
		fmt.Fprintf(os.Stderr, "경고: 기존 설정을 읽을 수 없어 기본값으로 시작합니다: %v\n", err)
		cfg = config.Default()
	}

	defaults := Input{
		Shell:       DetectShell(),
		Manager:     cfg.Manager,
		Strictness:  cfg.Strictness,
		InstallHook: true,
	}
	if defaults.Shell != "zsh" && defaults.Shell != "bash" && defaults.Shell != "fish" {
		defaults.Shell = "zsh"
	}

	input, err := r.FormRunner.RunSetupForm(defaults)
	if err != nil {
		return err
	}

	cfg.Manager = input.Manager
	cfg.Strictness = input.Strictness
	if err := config.Save(r.CfgPath, cfg); err != nil {
		return err
	}
	fmt.Printf("설정 파일이 저장되었습니다: %s\n", r.CfgPath)

	if !input.InstallHook {
		return nil
	}

	rcPath := r.RCPath
	if rcPath == "" {
		rcPath = ShellRCPath(input.Shell)
	}
	if rcPath == "" {
		return fmt.Errorf("setup.Run: RC 파일 경로를 찾을 수 없습니다: %s", input.Shell)
	}
	if err := InstallShellHook(input.Shell, rcPath); err != nil {
		return err
	}
	fmt.Printf("셸 hook이 설치되었습니다: %s\n", rcPath)
	fmt.Println("새 셸을 열거나 RC 파일을 source하면 적용됩니다.")
	return nil
}
