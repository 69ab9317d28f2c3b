// Package doctor diagnoses the envctx environment: required binaries,
// configuration, and shell hook installation state.
package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbjs97/envctx/internal/cmdexec"
	"github.com/hbjs97/envctx/internal/config"
	"github.com/hbjs97/envctx/internal/setup"
)

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// CheckBinaries는 환경 매니저와 가상환경 도구의 존재 여부를 확인한다.
// conda만 필수고 나머지는 없어도 경고다 — mamba/uv는 선택적 고속 대안이다.
func CheckBinaries(ctx context.Context, cmd cmdexec.Commander) []DiagResult {
	binaries := []struct {
		name     string
		required bool
		install  string
	}{
		{"conda", true, "https://docs.conda.io/en/latest/miniconda.html"},
		{"mamba", false, "https://mamba.readthedocs.io/"},
		{"python3", false, "python3를 설치하세요"},
		{"uv", false, "https://docs.astral.sh/uv/"},
	}

	var results []DiagResult
	for _, b := range binaries {
		out, err := cmd.Run(ctx, b.name, "--version")
		if err != nil {
			status := StatusWarn
			if b.required {
				status = StatusFail
			}
			results = append(results, DiagResult{
				Name:    b.name,
				Status:  status,
				Message: fmt.Sprintf("%s 없음", b.name),
				Fix:     fmt.Sprintf("설치: %s", b.install),
			})
			continue
		}
		results = append(results, DiagResult{
			Name:    b.name,
			Status:  StatusOK,
			Message: firstLine(string(out)),
		})
	}
	return results
}

// CheckConfig는 설정 파일을 로드해 본다.
func CheckConfig(cfgPath string) DiagResult {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return DiagResult{
			Name:    "config",
			Status:  StatusFail,
			Message: err.Error(),
			Fix:     "envctx setup을 다시 실행하세요",
		}
	}
	return DiagResult{
		Name:   "config",
		Status: StatusOK,
		Message: fmt.Sprintf("manager=%s strictness=%d target_dirs=%d개",
			cfg.Manager, cfg.Strictness, len(cfg.TargetDirs)),
	}
}

// CheckHook는 셸 RC 파일에 hook이 설치되어 있는지 확인한다.
func CheckHook(shellType, rcPath string) DiagResult {
	if rcPath == "" {
		return DiagResult{
			Name:    "shell_hook",
			Status:  StatusWarn,
			Message: fmt.Sprintf("지원하지 않는 셸: %s", shellType),
		}
	}
	if !setup.IsHookInstalled(rcPath) {
		return DiagResult{
			Name:    "shell_hook",
			Status:  StatusWarn,
			Message: fmt.Sprintf("hook이 설치되지 않았습니다: %s", rcPath),
			Fix:     "envctx setup을 실행하세요",
		}
	}
	return DiagResult{
		Name:    "shell_hook",
		Status:  StatusOK,
		Message: fmt.Sprintf("hook 설치됨: %s", rcPath),
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
