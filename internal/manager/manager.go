// Package manager adapts the external environment-manager CLIs (conda, mamba)
// behind a typed interface so the resolver can be tested against a fake.
package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hbjs97/envctx/internal/cmdexec"
)

// Env는 매니저 목록의 한 항목이다.
type Env struct {
	Name string
	Path string
}

// Manager는 환경 매니저 CLI의 capability interface다.
type Manager interface {
	// Binary는 이 매니저의 실행 파일 이름을 반환한다.
	Binary() string

	// List는 매니저가 알고 있는 환경 목록을 반환한다.
	List(ctx context.Context) ([]Env, error)

	// Create는 descriptor 파일로 환경을 생성한다.
	// prefix가 비어 있으면 중앙 저장소에 이름으로, 아니면 해당 경로에 생성한다.
	Create(ctx context.Context, descriptorPath, prefix string) error

	// EnvsDirs는 매니저에 설정된 환경 저장 루트 목록을 반환한다.
	EnvsDirs(ctx context.Context) ([]string, error)
}

// CLIManager는 conda/mamba CLI를 Commander를 통해 실행하는 Manager 구현이다.
type CLIManager struct {
	binary string
	cmd    cmdexec.Commander
}

var _ Manager = (*CLIManager)(nil)

// New는 주어진 실행 파일 이름의 CLIManager를 생성한다.
func New(binary string, cmd cmdexec.Commander) *CLIManager {
	return &CLIManager{binary: binary, cmd: cmd}
}

// Select는 설정의 선호 매니저와 실행 파일 가용성으로 매니저를 고른다.
// 선호가 mamba이고 실행 가능하면 mamba, 그 외에는 무조건 conda다.
// 가용성은 호출마다 다시 확인한다 — 셸 세션 사이에 바뀔 수 있다.
func Select(preferred string, cmd cmdexec.Commander) Manager {
	if preferred == "mamba" {
		if _, err := cmd.LookPath("mamba"); err == nil {
			return New("mamba", cmd)
		}
	}
	return New("conda", cmd)
}

// Binary는 실행 파일 이름을 반환한다.
func (m *CLIManager) Binary() string {
	return m.binary
}

// List는 "<binary> env list" 출력을 파싱한다.
func (m *CLIManager) List(ctx context.Context) ([]Env, error) {
	out, err := m.cmd.Run(ctx, m.binary, "env", "list")
	if err != nil {
		return nil, fmt.Errorf("manager.List: %s env list 실패: %w", m.binary, err)
	}
	return ParseEnvList(out), nil
}

// Create는 "<binary> env create -q -f <file> [-p <prefix>]"를 실행한다.
func (m *CLIManager) Create(ctx context.Context, descriptorPath, prefix string) error {
	args := []string{"env", "create", "-q", "-f", descriptorPath}
	if prefix != "" {
		args = append(args, "-p", prefix)
	}
	if out, err := m.cmd.Run(ctx, m.binary, args...); err != nil {
		return fmt.Errorf("manager.Create: %s env create 실패: %w: %s",
			m.binary, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// EnvsDirs는 "<binary> config --json --show envs_dirs" 출력을 파싱한다.
func (m *CLIManager) EnvsDirs(ctx context.Context) ([]string, error) {
	out, err := m.cmd.Run(ctx, m.binary, "config", "--json", "--show", "envs_dirs")
	if err != nil {
		return nil, fmt.Errorf("manager.EnvsDirs: %w", err)
	}
	var resp struct {
		EnvsDirs []string `json:"envs_dirs"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("manager.EnvsDirs: JSON 파싱 실패: %w", err)
	}
	return resp.EnvsDirs, nil
}

// ParseEnvList는 env list의 표 형식 출력을 파싱한다.
// 첫 컬럼이 이름, 마지막 컬럼이 경로다. 이름 없는 prefix 환경은 경로만 갖는다.
func ParseEnvList(out []byte) []Env {
	var envs []Env
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if strings.HasPrefix(fields[0], "/") {
			envs = append(envs, Env{Path: fields[0]})
			continue
		}
		envs = append(envs, Env{Name: fields[0], Path: fields[len(fields)-1]})
	}
	return envs
}

// FindByName은 이름이 정확히 일치하는 환경을 찾는다.
// 부분 일치는 false positive를 만들므로 (test-env2 vs test-env) 허용하지 않는다.
func FindByName(envs []Env, name string) (Env, bool) {
	for _, e := range envs {
		if e.Name == name {
			return e, true
		}
	}
	return Env{}, false
}

// FindByPath는 경로가 정확히 일치하는 환경을 찾는다.
// -p로 생성된 prefix 환경은 목록에 이름 없이 경로만 나타나므로
// 이름 검색으로는 찾을 수 없다.
func FindByPath(envs []Env, path string) (Env, bool) {
	for _, e := range envs {
		if e.Path == path {
			return e, true
		}
	}
	return Env{}, false
}

// OwnerBinary는 환경을 만든 매니저를 경로 마커로 추정한다.
// 활성화는 환경을 만든 매니저로 해야 한다.
func OwnerBinary(envPath string) string {
	if strings.Contains(envPath, "mamba") {
		return "mamba"
	}
	return "conda"
}
