package scope_test

import (
	"testing"

	"github.com/hbjs97/envctx/internal/scope"
	"github.com/stretchr/testify/assert"
)

func TestIsTargetDir_Match(t *testing.T) {
	targets := []string{"/home/alice/projects"}
	assert.True(t, scope.IsTargetDir("/home/alice/projects/api", targets))
	assert.True(t, scope.IsTargetDir("/home/alice/projects", targets))
}

func TestIsTargetDir_NoMatch(t *testing.T) {
	targets := []string{"/home/alice/projects"}
	assert.False(t, scope.IsTargetDir("/home/bob/projects", targets))
}

// 부분 문자열 매칭 quirk: 대상 경로가 포함되기만 하면 매칭된다.
// /home/alice/myproject-old는 /home/alice/myproject의 대상에 매칭된다.
func TestIsTargetDir_SubstringQuirk(t *testing.T) {
	targets := []string{"/home/alice/myproject"}
	assert.True(t, scope.IsTargetDir("/home/alice/myproject-old", targets))
}

func TestIsTargetDir_EmptySet(t *testing.T) {
	assert.False(t, scope.IsTargetDir("/home/alice/projects", nil))
	assert.False(t, scope.IsTargetDir("/home/alice/projects", []string{}))
}

func TestIsTargetDir_MultipleTargets(t *testing.T) {
	targets := []string{"/srv/work", "/home/alice"}
	assert.True(t, scope.IsTargetDir("/home/alice/x", targets))
	assert.True(t, scope.IsTargetDir("/srv/work/y", targets))
	assert.False(t, scope.IsTargetDir("/opt/other", targets))
}

func TestIsEnvsDir_Inside(t *testing.T) {
	dirs := []string{"/opt/conda/envs", "/home/alice/.conda/envs"}
	assert.True(t, scope.IsEnvsDir("/opt/conda/envs/myenv", dirs))
	assert.True(t, scope.IsEnvsDir("/opt/conda/envs", dirs))
}

func TestIsEnvsDir_Outside(t *testing.T) {
	dirs := []string{"/opt/conda/envs"}
	assert.False(t, scope.IsEnvsDir("/home/alice/project", dirs))
	// 경로 prefix 매칭은 엄밀해야 한다 — envs-backup은 envs 아래가 아니다.
	assert.False(t, scope.IsEnvsDir("/opt/conda/envs-backup", dirs))
}

func TestIsEnvsDir_Empty(t *testing.T) {
	assert.False(t, scope.IsEnvsDir("/opt/conda/envs/x", nil))
}
