package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hbjs97/envctx/internal/config"
	"github.com/hbjs97/envctx/internal/descriptor"
	"github.com/hbjs97/envctx/internal/manager"
	"github.com/hbjs97/envctx/internal/scope"
	"github.com/spf13/cobra"
)

func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "현재 디렉토리의 envctx 상태를 표시한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd)
		},
	}
}

func (a *App) runStatus(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cli.status: %w", err)
	}

	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}

	mgr := manager.Select(cfg.Manager, a.Commander)
	fmt.Fprintf(out, "매니저: %s (선호: %s)\n", mgr.Binary(), cfg.Manager)

	targets := cfg.TargetDirs
	source := "설정"
	if len(targets) == 0 {
		targets, _ = mgr.EnvsDirs(ctx)
		source = "envs_dirs"
	}
	fmt.Fprintf(out, "대상 디렉토리 (%s): %d개\n", source, len(targets))
	fmt.Fprintf(out, "대상 여부: %v\n", scope.IsTargetDir(cwd, targets))

	if path, ok := descriptor.Locate(cwd); ok {
		fmt.Fprintf(out, "descriptor: %s\n", path)
		if data, err := os.ReadFile(path); err == nil {
			d := descriptor.Parse(data)
			if d.Name == "" {
				fmt.Fprintln(out, "환경 이름: (없음 — name: 키 필요)")
			} else {
				fmt.Fprintf(out, "환경 이름: %s\n", d.Name)
			}
		}
	} else {
		fmt.Fprintln(out, "descriptor: 없음")
	}

	if active := os.Getenv("CONDA_DEFAULT_ENV"); active != "" {
		fmt.Fprintf(out, "활성 환경: %s\n", active)
	} else if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		fmt.Fprintf(out, "활성 가상환경: %s\n", venv)
	} else {
		fmt.Fprintln(out, "활성 환경: 없음")
	}

	return nil
}
