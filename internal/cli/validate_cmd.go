package cli

import (
	"fmt"
	"os"

	"github.com/hbjs97/envctx/internal/config"
	"github.com/hbjs97/envctx/internal/descriptor"
	"github.com/spf13/cobra"
)

func (a *App) newValidateCmd() *cobra.Command {
	var strictness int

	cmd := &cobra.Command{
		Use:   "validate [descriptor]",
		Short: "환경 descriptor를 검사한다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, args, strictness)
		},
	}
	cmd.Flags().IntVar(&strictness, "strictness", -1, "검사 수준 override (0~2)")
	return cmd
}

func (a *App) runValidate(cmd *cobra.Command, args []string, strictness int) error {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}
	if strictness >= 0 {
		scoped := *cfg
		scoped.Strictness = strictness
		cfg = &scoped
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cli.validate: %w", err)
		}
		var ok bool
		if path, ok = descriptor.Locate(cwd); !ok {
			return fmt.Errorf("cli.validate: descriptor가 없습니다: %s", cwd)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cli.validate: %w: %s를 읽을 수 없습니다", config.ErrConfig, path)
	}

	if err := descriptor.Validate(data, cfg); err != nil {
		return fmt.Errorf("cli.validate: %s: %w", path, err)
	}

	d := descriptor.Parse(data)
	if d.Name == "" {
		return fmt.Errorf("cli.validate: %s: %w", path, descriptor.ErrMissingName)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: %s (name=%s, strictness=%d)\n", path, d.Name, cfg.Strictness)
	return nil
}
