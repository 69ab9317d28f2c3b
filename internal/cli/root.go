package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hbjs97/envctx/internal/cmdexec"
	"github.com/spf13/cobra"
)

// App은 CLI 전역 의존성을 묶는다. 테스트에서는 FakeCommander를 주입한다.
type App struct {
	Commander cmdexec.Commander
	CfgPath   string

	verbose bool
}

// NewRootCmd는 envctx CLI의 루트 명령을 생성한다.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "envctx",
		Short:        "디렉토리 기반 Python 환경 자동 활성화",
		SilenceUsage: true,
	}

	if a.CfgPath == "" {
		a.CfgPath = filepath.Join(homeDir(), ".config", "envctx", "config.toml")
	}
	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", a.CfgPath, "설정 파일 경로")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "상세 출력")

	cmd.AddCommand(
		a.newActivateCmd(),
		a.newValidateCmd(),
		a.newStatusCmd(),
		a.newDoctorCmd(),
		a.newSetupCmd(),
	)
	return cmd
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "경고: 홈 디렉토리 확인 실패: %v\n", err)
		return "."
	}
	return home
}
