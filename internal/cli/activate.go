package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hbjs97/envctx/internal/config"
	"github.com/hbjs97/envctx/internal/manager"
	"github.com/hbjs97/envctx/internal/resolver"
	"github.com/hbjs97/envctx/internal/shell"
	"github.com/spf13/cobra"
)

func (a *App) newActivateCmd() *cobra.Command {
	var shellType string
	var hookOnly bool
	var initMode bool

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "현재 디렉토리에 맞는 환경을 활성화한다",
		Long: `현재 디렉토리의 environment.yml, env/, venv/, .venv/를 순서대로 확인해
활성화할 환경을 결정하고, 호스팅 셸이 eval할 명령을 stdout으로 출력한다.
prompt hook이 매 프롬프트마다 호출하는 것을 전제로 하며 반복 호출에 안전하다.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if hookOnly {
				snippet := shell.HookSnippet(shellType)
				if snippet == "" {
					return fmt.Errorf("cli.activate: 지원하지 않는 셸: %s", shellType)
				}
				fmt.Fprint(cmd.OutOrStdout(), snippet)
				return nil
			}
			return a.runActivate(cmd, shellType, initMode)
		},
	}
	cmd.Flags().StringVar(&shellType, "shell", "zsh", "셸 유형 (bash, zsh, fish)")
	cmd.Flags().BoolVar(&hookOnly, "hook", false, "hook 스니펫만 출력")
	cmd.Flags().BoolVar(&initMode, "init", false, "현재 디렉토리만 대상으로 1회 실행")
	return cmd
}

func (a *App) runActivate(cmd *cobra.Command, shellType string, initMode bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cli.activate: %w", err)
	}

	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}
	if initMode {
		// 직접 실행 모드: 설정과 무관하게 현재 디렉토리만 대상으로 한다.
		scoped := *cfg
		scoped.TargetDirs = []string{cwd}
		cfg = &scoped
	}

	mgr := manager.Select(cfg.Manager, a.Commander)
	r := resolver.New(cfg, a.Commander, mgr)

	res, err := r.Resolve(ctx, cwd, shellType)
	if err != nil {
		return err
	}

	if a.verbose {
		fmt.Fprintf(os.Stderr, "envctx: %s kind=%s name=%s prefix=%s\n",
			res.Reason, res.Kind, res.Name, res.Prefix)
	}
	// stdout은 셸이 eval하는 명령 스트림이다 — 스크립트 외에는 아무것도 쓰지 않는다.
	fmt.Fprint(cmd.OutOrStdout(), res.Script)
	return nil
}
