package cli

import (
	"github.com/hbjs97/envctx/internal/setup"
	"github.com/spf13/cobra"
)

func (a *App) newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "envctx 초기 설정을 시작한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &setup.Runner{
				CfgPath:    a.CfgPath,
				FormRunner: &setup.HuhFormRunner{},
			}
			return r.Run()
		},
	}
}
