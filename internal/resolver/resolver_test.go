package resolver_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbjs97/envctx/internal/config"
	"github.com/hbjs97/envctx/internal/descriptor"
	"github.com/hbjs97/envctx/internal/manager"
	"github.com/hbjs97/envctx/internal/resolver"
	"github.com/hbjs97/envctx/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// condaFake simulates the conda CLI with state that changes across calls:
// created environments show up in later list output, and venv/prefix
// creation actually makes the directories the resolver verifies.
type condaFake struct {
	envsDirs   []string
	names      map[string]string // name -> path of central envs
	prefixes   []string          // -p로 생성된 prefix 환경 (목록에 경로만 나타남)
	available  map[string]bool
	calls      []string
	failCreate bool
}

func newCondaFake() *condaFake {
	return &condaFake{
		names:     make(map[string]string),
		available: map[string]bool{"conda": true},
	}
}

func (f *condaFake) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	cmd := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, cmd)

	switch {
	case strings.HasSuffix(cmd, "env list"):
		var b strings.Builder
		b.WriteString("# conda environments:\n#\n")
		b.WriteString("base                  *  /opt/conda\n")
		for n, p := range f.names {
			fmt.Fprintf(&b, "%s    %s\n", n, p)
		}
		for _, p := range f.prefixes {
			fmt.Fprintf(&b, "%s\n", p)
		}
		return []byte(b.String()), nil

	case strings.Contains(cmd, "env create"):
		if f.failCreate {
			return []byte("ResolvePackageNotFound"), errors.New("exit status 1")
		}
		var file, prefix string
		for i, a := range args {
			if a == "-f" && i+1 < len(args) {
				file = args[i+1]
			}
			if a == "-p" && i+1 < len(args) {
				prefix = args[i+1]
			}
		}
		if prefix != "" {
			f.prefixes = append(f.prefixes, prefix)
			return nil, os.MkdirAll(prefix, 0755)
		}
		d := descriptor.Parse(mustRead(file))
		f.names[d.Name] = "/opt/conda/envs/" + d.Name
		return nil, nil

	case strings.Contains(cmd, "config --json --show envs_dirs"):
		quoted := make([]string, len(f.envsDirs))
		for i, d := range f.envsDirs {
			quoted[i] = fmt.Sprintf("%q", d)
		}
		return []byte(fmt.Sprintf(`{"envs_dirs": [%s]}`, strings.Join(quoted, ", "))), nil

	case strings.HasPrefix(cmd, "uv venv ") || strings.HasPrefix(cmd, "python3 -m venv "):
		venvPath := args[len(args)-1]
		binDir := filepath.Join(venvPath, "bin")
		if err := os.MkdirAll(binDir, 0755); err != nil {
			return nil, err
		}
		for _, e := range []string{"activate", "activate.fish"} {
			if err := os.WriteFile(filepath.Join(binDir, e), []byte("# stub\n"), 0644); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	return nil, fmt.Errorf("condaFake: unexpected command %q", cmd)
}

func (f *condaFake) RunWithEnv(ctx context.Context, _ map[string]string, name string, args ...string) ([]byte, error) {
	return f.Run(ctx, name, args...)
}

func (f *condaFake) LookPath(name string) (string, error) {
	if f.available[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("condaFake: %q not available", name)
}

func (f *condaFake) callCount(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func mustRead(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	return data
}

func newResolver(cfg *config.Config, fake *condaFake) *resolver.Resolver {
	return resolver.New(cfg, fake, manager.New("conda", fake))
}

func clearActiveEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONDA_DEFAULT_ENV", "")
	t.Setenv("CONDA_PREFIX", "")
	t.Setenv("VIRTUAL_ENV", "")
}

func TestResolve_OutOfScope(t *testing.T) {
	clearActiveEnv(t)
	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{"/somewhere/else"}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), "/home/alice/project", "bash")
	require.NoError(t, err)
	assert.Equal(t, resolver.KindNone, res.Kind)
	assert.Equal(t, "out_of_scope", res.Reason)
	assert.Empty(t, res.Script)
}

func TestResolve_EmptyTargetsDerivedFromEnvsDirs(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))

	fake := newCondaFake()
	fake.envsDirs = []string{filepath.Dir(dir)}
	fake.names["test-env"] = "/opt/conda/envs/test-env"

	cfg := config.Default() // TargetDirs 비어 있음 — envs_dirs에서 유도
	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "exists", res.Reason)
}

func TestResolve_ValidationFailureBlocksActivation(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, "name: test-env\ndependencies:\n  - curl\n")

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}
	cfg.Strictness = 2
	cfg.BlockedPackages = []string{"curl"}

	_, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.Error(t, err)
	assert.ErrorIs(t, err, descriptor.ErrValidation)
	// 검사 실패 시 매니저 호출 자체가 없어야 한다.
	assert.Zero(t, fake.callCount("conda env list"))
	assert.Zero(t, fake.callCount("conda env create"))
}

func TestResolve_MissingName(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, "channels:\n  - conda-forge\ndependencies:\n  - python\n")

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}
	cfg.Strictness = 1

	_, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	assert.ErrorIs(t, err, descriptor.ErrMissingName)
}

func TestResolve_AlreadyActiveIsNoop(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))
	t.Setenv("CONDA_DEFAULT_ENV", "test-env")

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "already_active", res.Reason)
	assert.Empty(t, res.Script)
	// 이미 활성화된 상태에서는 외부 명령을 실행하지 않는다.
	assert.Zero(t, fake.callCount("conda"))
}

func TestResolve_ExistsActivatesByName(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))

	fake := newCondaFake()
	fake.names["test-env"] = "/opt/conda/envs/test-env"
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, resolver.KindManaged, res.Kind)
	assert.Equal(t, "exists", res.Reason)
	assert.Equal(t, "conda activate \"test-env\"\n", res.Script)
	assert.Zero(t, fake.callCount("conda env create"))
}

func TestResolve_ExistsUsesOwnerManager(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))

	fake := newCondaFake()
	// mamba 루트 아래의 환경은 mamba로 활성화해야 한다.
	fake.names["test-env"] = "/opt/micromamba/envs/test-env"
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "mamba activate \"test-env\"\n", res.Script)
}

func TestResolve_CreatesNamedInsideEnvsDirs(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))

	fake := newCondaFake()
	fake.envsDirs = []string{filepath.Dir(dir)}
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "created", res.Reason)
	assert.Equal(t, "conda activate \"test-env\"\n", res.Script)
	// 중앙 저장소 생성은 -p 없이 이름으로 한다.
	assert.Equal(t, 1, fake.callCount("conda env create"))
	for _, c := range fake.calls {
		assert.NotContains(t, c, " -p ")
	}
}

func TestResolve_CreatesLocalPrefixOutsideEnvsDirs(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))

	fake := newCondaFake()
	fake.envsDirs = []string{"/opt/conda/envs"}
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "created", res.Reason)
	prefix := filepath.Join(dir, "env")
	assert.Equal(t, prefix, res.Prefix)
	assert.Equal(t, fmt.Sprintf("conda activate %q\n", prefix), res.Script)
	assert.Equal(t, 1, fake.callCount("conda env create"))
}

// Round trip: 생성 직후 재실행하면 create가 아닌 exists 분기로 활성화된다.
func TestResolve_RoundTripCreateThenExists(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))

	fake := newCondaFake()
	fake.envsDirs = []string{filepath.Dir(dir)}
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}
	r := newResolver(cfg, fake)

	res1, err := r.Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "created", res1.Reason)

	res2, err := r.Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "exists", res2.Reason)
	assert.Equal(t, 1, fake.callCount("conda env create"))
}

// Round trip (로컬 prefix): -p로 생성된 환경은 목록에 이름 없이 경로로만
// 나타난다 — 재실행은 경로로 찾아 활성화해야 하며 재생성하면 안 된다.
func TestResolve_LocalPrefixRoundTrip(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))

	fake := newCondaFake()
	fake.envsDirs = []string{"/opt/conda/envs"}
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}
	r := newResolver(cfg, fake)

	prefix := filepath.Join(dir, "env")

	res1, err := r.Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "created", res1.Reason)
	assert.Equal(t, prefix, res1.Prefix)

	res2, err := r.Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "exists", res2.Reason)
	assert.Equal(t, prefix, res2.Prefix)
	assert.Equal(t, fmt.Sprintf("conda activate %q\n", prefix), res2.Script)
	assert.Equal(t, 1, fake.callCount("conda env create"))
}

// 활성화된 로컬 prefix 환경은 CONDA_DEFAULT_ENV에 경로가 들어간다 — no-op.
func TestResolve_LocalPrefixAlreadyActiveIsNoop(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))
	prefix := filepath.Join(dir, "env")
	t.Setenv("CONDA_DEFAULT_ENV", prefix)
	t.Setenv("CONDA_PREFIX", prefix)

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "already_active", res.Reason)
	assert.Empty(t, res.Script)
	assert.Zero(t, fake.callCount("conda env create"))
}

// 새 셸 세션: 목록에는 없지만 env/ prefix 디렉토리가 이미 있으면
// 재생성하지 않고 경로로 활성화한다.
func TestResolve_LocalPrefixDirWithoutListing(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))
	prefix := testutil.MakeSubdir(t, dir, "env")

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "exists", res.Reason)
	assert.Equal(t, prefix, res.Prefix)
	assert.Zero(t, fake.callCount("conda env create"))
}

func TestResolve_CreationFailure(t *testing.T) {
	clearActiveEnv(t)
	dir := testutil.TempProjectDir(t, testutil.SampleDescriptor("test-env"))

	fake := newCondaFake()
	fake.failCreate = true
	fake.envsDirs = []string{filepath.Dir(dir)}
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	_, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.Error(t, err)
	assert.ErrorIs(t, err, resolver.ErrCreation)
	// 생성 실패는 재시도하지 않는다.
	assert.Equal(t, 1, fake.callCount("conda env create"))
}

func TestResolve_SubfolderEnvActivatedByPath(t *testing.T) {
	clearActiveEnv(t)
	dir := t.TempDir()
	envDir := testutil.MakeSubdir(t, dir, "env")

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, resolver.KindSubfolder, res.Kind)
	assert.Equal(t, fmt.Sprintf("conda activate %q\n", envDir), res.Script)
}

func TestResolve_SubfolderPriorityOrder(t *testing.T) {
	clearActiveEnv(t)
	dir := t.TempDir()
	// env/, venv/, .venv/ 모두 존재 — env/가 이긴다.
	envDir := testutil.MakeSubdir(t, dir, "env")
	testutil.MakeVenv(t, dir, "venv")
	testutil.MakeVenv(t, dir, ".venv")

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, resolver.KindSubfolder, res.Kind)
	assert.Equal(t, envDir, res.Prefix)
}

func TestResolve_VenvSubfolderSourced(t *testing.T) {
	clearActiveEnv(t)
	dir := t.TempDir()
	venv := testutil.MakeVenv(t, dir, "venv")

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, resolver.KindVenv, res.Kind)
	assert.Equal(t, fmt.Sprintf(". %q\n", filepath.Join(venv, "bin", "activate")), res.Script)
}

func TestResolve_DotVenvSubfolder(t *testing.T) {
	clearActiveEnv(t)
	dir := t.TempDir()
	venv := testutil.MakeVenv(t, dir, ".venv")

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, resolver.KindDotVenv, res.Kind)
	assert.Equal(t, venv, res.Prefix)
}

func TestResolve_VenvAlreadyActiveIsNoop(t *testing.T) {
	clearActiveEnv(t)
	dir := t.TempDir()
	venv := testutil.MakeVenv(t, dir, "venv")
	t.Setenv("VIRTUAL_ENV", venv)

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, "already_active", res.Reason)
	assert.Empty(t, res.Script)
}

func TestResolve_BrokenVenvEntryPointFails(t *testing.T) {
	clearActiveEnv(t)
	dir := t.TempDir()
	testutil.MakeSubdir(t, dir, "venv") // bin/activate 없음

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	_, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	assert.ErrorIs(t, err, resolver.ErrActivation)
}

func TestResolve_FallbackCreatesVenvWithPython(t *testing.T) {
	clearActiveEnv(t)
	dir := t.TempDir()

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, resolver.KindVenv, res.Kind)
	assert.Equal(t, "fallback", res.Reason)
	assert.Equal(t, 1, fake.callCount("python3 -m venv"))
	assert.Contains(t, res.Script, filepath.Join(dir, "venv", "bin", "activate"))
}

func TestResolve_FallbackPrefersUvWhenAvailable(t *testing.T) {
	clearActiveEnv(t)
	dir := t.TempDir()

	fake := newCondaFake()
	fake.available["uv"] = true
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	res, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	require.NoError(t, err)
	assert.Equal(t, resolver.KindUv, res.Kind)
	assert.Equal(t, 1, fake.callCount("uv venv"))
	assert.Zero(t, fake.callCount("python3"))
}

func TestResolve_UnreadableDescriptor(t *testing.T) {
	clearActiveEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "environment.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0000))
	if _, err := os.ReadFile(path); err == nil {
		t.Skip("권한이 적용되지 않는 파일시스템 (root 등)")
	}

	fake := newCondaFake()
	cfg := config.Default()
	cfg.TargetDirs = []string{dir}

	_, err := newResolver(cfg, fake).Resolve(context.Background(), dir, "bash")
	assert.ErrorIs(t, err, config.ErrConfig)
}
