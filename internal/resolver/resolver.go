// Package resolver implements the create-vs-activate state machine that runs
// on every prompt redraw. One pass decides: out of scope, already active,
// activate an existing environment, or create one and then activate it.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hbjs97/envctx/internal/cmdexec"
	"github.com/hbjs97/envctx/internal/config"
	"github.com/hbjs97/envctx/internal/descriptor"
	"github.com/hbjs97/envctx/internal/manager"
	"github.com/hbjs97/envctx/internal/scope"
	"github.com/hbjs97/envctx/internal/shell"
)

// ErrActivation은 환경은 존재하지만 활성화할 수 없을 때 반환된다.
// 생성 직후라면 환경은 이미 만들어진 상태이므로 생성 재시도를 안내하면 안 된다.
var ErrActivation = errors.New("환경 활성화 실패")

// ErrCreation은 매니저의 환경 생성이 실패했을 때 반환된다.
var ErrCreation = errors.New("환경 생성 실패")

// envSubdir는 매니저 네이티브 환경 하위 디렉토리 이름이다.
// descriptor 없이도 이 디렉토리가 있으면 prefix 환경으로 활성화한다.
const envSubdir = "env"

// dotVenvSubdir는 숨김 가상환경 하위 디렉토리 이름이다.
const dotVenvSubdir = ".venv"

// Kind는 환경의 종류다. 종류마다 생성/활성화 방법이 다르다.
type Kind string

const (
	// KindManaged는 descriptor 기반으로 매니저가 관리하는 환경이다.
	KindManaged Kind = "managed"
	// KindSubfolder는 로컬 env/ 하위 디렉토리의 prefix 환경이다.
	KindSubfolder Kind = "subfolder"
	// KindVenv는 경량 가상환경이다 (venv/).
	KindVenv Kind = "venv"
	// KindDotVenv는 숨김 가상환경이다 (.venv/).
	KindDotVenv Kind = "dotvenv"
	// KindUv는 uv로 생성된 경량 가상환경이다.
	KindUv Kind = "uv"
	// KindNone은 아무 동작도 하지 않았음을 뜻한다.
	KindNone Kind = "none"
)

// Result는 한 번의 resolution pass 결과다.
type Result struct {
	Kind   Kind
	Name   string // 이름 기반 활성화일 때의 환경 이름
	Prefix string // 경로 기반 활성화일 때의 환경 경로
	Script string // 호스팅 셸이 eval할 명령 스트림. no-op이면 빈 문자열.
	Reason string // "out_of_scope", "already_active", "exists", "created", "subfolder", "fallback"
}

// Resolver는 매 prompt마다 실행되는 resolution 파이프라인이다.
// 설정은 생성 시점에 주입되는 불변 객체이며 호출 사이 상태를 갖지 않는다 —
// 매 호출이 re-entrant해야 한다.
type Resolver struct {
	cfg *config.Config
	cmd cmdexec.Commander
	mgr manager.Manager
}

// New는 새 Resolver를 생성한다.
func New(cfg *config.Config, cmd cmdexec.Commander, mgr manager.Manager) *Resolver {
	return &Resolver{cfg: cfg, cmd: cmd, mgr: mgr}
}

// Resolve는 현재 디렉토리에 대해 한 번의 resolution pass를 실행한다.
// 실패해도 호스팅 셸 세션은 유지된다 — 에러는 반환될 뿐 프로세스를 중단하지
// 않는다.
func (r *Resolver) Resolve(ctx context.Context, cwd, shellType string) (*Result, error) {
	// Step 1: Gate — 대상 디렉토리가 아니면 no-op 성공.
	targets := r.cfg.TargetDirs
	if len(targets) == 0 {
		// 명시 설정이 없으면 매니저의 환경 저장 루트에서 동적으로 유도한다.
		targets, _ = r.mgr.EnvsDirs(ctx)
	}
	if !scope.IsTargetDir(cwd, targets) {
		return &Result{Kind: KindNone, Reason: "out_of_scope"}, nil
	}

	// Step 2: descriptor가 있으면 declarative 경로.
	if path, ok := descriptor.Locate(cwd); ok {
		return r.resolveDescriptor(ctx, cwd, path, shellType)
	}

	// Step 3: descriptor 없음 — 하위 디렉토리를 우선순위대로 탐색.
	if res, ok, err := r.resolveSubdir(cwd, shellType); ok || err != nil {
		return res, err
	}

	// Step 4: 아무것도 없음 — 경량 가상환경을 만들어 활성화한다.
	return r.createFallbackVenv(ctx, cwd, shellType)
}

func (r *Resolver) resolveDescriptor(ctx context.Context, cwd, path, shellType string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %w: descriptor를 읽을 수 없습니다: %s", config.ErrConfig, path)
	}

	if err := descriptor.Validate(data, r.cfg); err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %s: %w", path, err)
	}

	d := descriptor.Parse(data)
	if d.Name == "" {
		return nil, fmt.Errorf("resolver.Resolve: %s: %w", path, descriptor.ErrMissingName)
	}

	// 이미 활성화된 환경이면 no-op — prompt hook이 반복 호출해도 안전하다.
	// 이름의 정확 일치로 판정한다 (경로 부분 문자열 비교는 false positive가 있다).
	if os.Getenv("CONDA_DEFAULT_ENV") == d.Name {
		return &Result{Kind: KindManaged, Name: d.Name, Reason: "already_active"}, nil
	}

	// -p로 생성된 로컬 prefix 환경은 CONDA_DEFAULT_ENV에 이름이 아닌
	// prefix 경로가 들어간다.
	prefix := filepath.Join(cwd, envSubdir)
	if os.Getenv("CONDA_DEFAULT_ENV") == prefix || os.Getenv("CONDA_PREFIX") == prefix {
		return &Result{Kind: KindManaged, Name: d.Name, Prefix: prefix, Reason: "already_active"}, nil
	}

	envs, err := r.mgr.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %w", err)
	}

	if e, found := manager.FindByName(envs, d.Name); found {
		// 환경을 만든 매니저로 활성화한다.
		binary := manager.OwnerBinary(e.Path)
		return &Result{
			Kind:   KindManaged,
			Name:   d.Name,
			Prefix: e.Path,
			Script: shell.ActivateEnv(binary, d.Name, shellType),
			Reason: "exists",
		}, nil
	}

	// 로컬 prefix 환경은 목록에 이름 없이 경로로만 나타난다 — 경로로 찾고,
	// 목록에 없어도 prefix 디렉토리가 이미 있으면 재생성하지 않는다.
	if _, found := manager.FindByPath(envs, prefix); found {
		return r.activatePrefix(d.Name, prefix, shellType), nil
	}
	if info, err := os.Stat(prefix); err == nil && info.IsDir() {
		return r.activatePrefix(d.Name, prefix, shellType), nil
	}

	return r.createManaged(ctx, cwd, path, d.Name, shellType)
}

// activatePrefix는 기존 로컬 prefix 환경의 활성화 결과를 만든다.
func (r *Resolver) activatePrefix(name, prefix, shellType string) *Result {
	return &Result{
		Kind:   KindManaged,
		Name:   name,
		Prefix: prefix,
		Script: shell.ActivateEnv(manager.OwnerBinary(prefix), prefix, shellType),
		Reason: "exists",
	}
}

// createManaged는 descriptor로 환경을 생성하고 활성화 스크립트를 만든다.
// 배치 규칙: 매니저의 환경 저장 트리 안에서는 중앙 저장소에 이름으로,
// 그 외에는 현재 디렉토리의 로컬 하위 디렉토리에 생성한다.
func (r *Resolver) createManaged(ctx context.Context, cwd, path, name, shellType string) (*Result, error) {
	envsDirs, _ := r.mgr.EnvsDirs(ctx)

	if scope.IsEnvsDir(cwd, envsDirs) {
		if err := r.mgr.Create(ctx, path, ""); err != nil {
			return nil, fmt.Errorf("resolver.Resolve: %s: %w: %v", name, ErrCreation, err)
		}
		// 생성은 성공했다 — 목록에 나타나지 않으면 활성화 실패로 구분해서
		// 보고한다. 사용자에게 생성 재시도를 안내하면 안 된다.
		envs, err := r.mgr.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolver.Resolve: %s: %w: %v", name, ErrActivation, err)
		}
		if _, found := manager.FindByName(envs, name); !found {
			return nil, fmt.Errorf("resolver.Resolve: %w: 생성된 환경 %s이 목록에 없습니다", ErrActivation, name)
		}
		return &Result{
			Kind:   KindManaged,
			Name:   name,
			Script: shell.ActivateEnv(r.mgr.Binary(), name, shellType),
			Reason: "created",
		}, nil
	}

	prefix := filepath.Join(cwd, envSubdir)
	if err := r.mgr.Create(ctx, path, prefix); err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %s: %w: %v", name, ErrCreation, err)
	}
	if _, err := os.Stat(prefix); err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %w: 생성된 prefix가 없습니다: %s", ErrActivation, prefix)
	}
	return &Result{
		Kind:   KindManaged,
		Name:   name,
		Prefix: prefix,
		Script: shell.ActivateEnv(r.mgr.Binary(), prefix, shellType),
		Reason: "created",
	}, nil
}

// resolveSubdir는 고정 우선순위로 환경 하위 디렉토리를 탐색한다:
// env/ (매니저 prefix 환경) → venv/ → .venv/. 처음 발견된 것을 활성화한다.
func (r *Resolver) resolveSubdir(cwd, shellType string) (*Result, bool, error) {
	probes := []struct {
		dir  string
		kind Kind
	}{
		{envSubdir, KindSubfolder},
		{r.cfg.VenvDir, KindVenv},
		{dotVenvSubdir, KindDotVenv},
	}

	for _, p := range probes {
		dir := filepath.Join(cwd, p.dir)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		if p.kind == KindSubfolder {
			if os.Getenv("CONDA_PREFIX") == dir {
				return &Result{Kind: p.kind, Prefix: dir, Reason: "already_active"}, true, nil
			}
			return &Result{
				Kind:   p.kind,
				Prefix: dir,
				Script: shell.ActivateEnv(manager.OwnerBinary(dir), dir, shellType),
				Reason: "subfolder",
			}, true, nil
		}

		if os.Getenv("VIRTUAL_ENV") == dir {
			return &Result{Kind: p.kind, Prefix: dir, Reason: "already_active"}, true, nil
		}
		entry := shell.VenvEntryPoint(dir, shellType)
		if _, err := os.Stat(entry); err != nil {
			// 디렉토리는 있는데 진입점이 없다 — 조용히 넘어가지 않는다.
			return nil, true, fmt.Errorf("resolver.Resolve: %w: activation 진입점이 없습니다: %s", ErrActivation, entry)
		}
		return &Result{
			Kind:   p.kind,
			Prefix: dir,
			Script: shell.ActivateVenv(dir, shellType),
			Reason: "subfolder",
		}, true, nil
	}

	return nil, false, nil
}

// createFallbackVenv는 uv가 있으면 uv로, 없으면 python3 -m venv로
// 경량 가상환경을 만들고 활성화 스크립트를 반환한다.
func (r *Resolver) createFallbackVenv(ctx context.Context, cwd, shellType string) (*Result, error) {
	venvPath := filepath.Join(cwd, r.cfg.VenvDir)
	kind := KindVenv

	var err error
	if _, lookErr := r.cmd.LookPath("uv"); lookErr == nil {
		kind = KindUv
		_, err = r.cmd.Run(ctx, "uv", "venv", venvPath)
	} else {
		_, err = r.cmd.Run(ctx, "python3", "-m", "venv", venvPath)
	}
	if err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %w: %s: %v", ErrCreation, venvPath, err)
	}

	entry := shell.VenvEntryPoint(venvPath, shellType)
	if _, err := os.Stat(entry); err != nil {
		return nil, fmt.Errorf("resolver.Resolve: %w: 생성된 가상환경에 진입점이 없습니다: %s", ErrActivation, entry)
	}

	return &Result{
		Kind:   kind,
		Prefix: venvPath,
		Script: shell.ActivateVenv(venvPath, shellType),
		Reason: "fallback",
	}, nil
}
