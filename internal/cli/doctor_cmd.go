package cli

import (
	"context"
	"fmt"

	"github.com/hbjs97/envctx/internal/doctor"
	"github.com/hbjs97/envctx/internal/setup"
	"github.com/spf13/cobra"
)

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "envctx 환경을 진단한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.runDoctor(ctx)
		},
	}
}

func (a *App) runDoctor(ctx context.Context) error {
	var results []doctor.DiagResult
	results = append(results, doctor.CheckBinaries(ctx, a.Commander)...)
	results = append(results, doctor.CheckConfig(a.CfgPath))

	shellType := setup.DetectShell()
	results = append(results, doctor.CheckHook(shellType, setup.ShellRCPath(shellType)))

	printDiagResults(results)
	return nil
}

// printDiagResults는 진단 결과 목록을 출력한다.
func printDiagResults(results []doctor.DiagResult) {
	for _, r := range results {
		fmt.Printf("  [%s] %s: %s\n", statusIcon(r.Status), r.Name, r.Message)
		if r.Fix != "" {
			fmt.Printf("      Fix: %s\n", r.Fix)
		}
	}
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return "OK"
	case doctor.StatusWarn:
		return "!!"
	case doctor.StatusFail:
		return "FAIL"
	default:
		return "??"
	}
}
