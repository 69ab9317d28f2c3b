package shell

import (
	"fmt"
	"path/filepath"
)

// ActivateEnv는 매니저가 관리하는 환경을 활성화하는 shell 명령을 생성한다.
// target은 환경 이름 또는 prefix 경로다. conda/mamba의 activate는 셸 함수로
// 주입되므로 모든 셸에서 같은 형태다.
func ActivateEnv(binary, target, shellType string) string {
	return fmt.Sprintf("%s activate %q\n", binary, target)
}

// ActivateVenv는 경량 가상환경의 activation 진입점을 source하는 명령을 생성한다.
func ActivateVenv(venvPath, shellType string) string {
	switch shellType {
	case "fish":
		return fmt.Sprintf("source %q\n", filepath.Join(venvPath, "bin", "activate.fish"))
	default: // bash, zsh, sh
		return fmt.Sprintf(". %q\n", filepath.Join(venvPath, "bin", "activate"))
	}
}

// VenvEntryPoint는 셸 유형에 맞는 activation 진입점 파일 경로를 반환한다.
func VenvEntryPoint(venvPath, shellType string) string {
	if shellType == "fish" {
		return filepath.Join(venvPath, "bin", "activate.fish")
	}
	return filepath.Join(venvPath, "bin", "activate")
}

// HookSnippet는 셸별 prompt hook 스니펫을 반환한다.
// 스니펫 자체가 포함 여부를 검사하므로 여러 번 eval되어도 hook은 한 번만
// 등록되며, 기존 hook 항목 앞에 자신을 추가한다.
func HookSnippet(shellType string) string {
	switch shellType {
	case "zsh":
		return `# envctx shell integration (zsh)
_envctx_chpwd() {
  eval "$(envctx activate --shell zsh 2>/dev/null)"
}
if [[ ${chpwd_functions[(Ie)_envctx_chpwd]} -eq 0 ]]; then
  chpwd_functions=(_envctx_chpwd $chpwd_functions)
fi
_envctx_chpwd
`
	case "bash":
		return `# envctx shell integration (bash)
_envctx_prompt_command() {
  eval "$(envctx activate --shell bash 2>/dev/null)"
}
case ";${PROMPT_COMMAND};" in
  *"_envctx_prompt_command"*) ;;
  *) PROMPT_COMMAND="_envctx_prompt_command;${PROMPT_COMMAND}" ;;
esac
_envctx_prompt_command
`
	case "fish":
		return `# envctx shell integration (fish)
function _envctx_chpwd --on-variable PWD
  eval (envctx activate --shell fish 2>/dev/null)
end
_envctx_chpwd
`
	default:
		return ""
	}
}
