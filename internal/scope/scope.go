// Package scope decides whether a directory is in scope for automatic
// environment activation, and where a new environment should be placed.
package scope

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsTargetDir는 현재 경로가 대상 경로 목록 중 하나를 부분 문자열로 포함하면
// true를 반환한다. 엄밀한 경로 prefix 매칭이 아니다 — /home/a/proj가 대상이면
// /home/a/proj-old도 매칭된다. 관측된 동작을 의도적으로 보존한다.
// 대상 목록이 비어 있으면 진단을 출력하고 false를 반환한다 (non-fatal).
func IsTargetDir(cwd string, targets []string) bool {
	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "envctx: 대상 디렉토리가 설정되지 않았습니다 — 건너뜁니다")
		return false
	}
	for _, t := range targets {
		if t != "" && strings.Contains(cwd, t) {
			return true
		}
	}
	return false
}

// IsEnvsDir는 현재 경로가 매니저의 환경 저장 루트 아래에 있는지 확인한다.
// 새 환경을 중앙 저장소에 이름으로 만들지, 로컬 하위 디렉토리에 만들지
// 결정하는 데 쓰인다 — 다른 환경의 저장 트리 안에 환경을 중첩시키지 않기
// 위해서다.
func IsEnvsDir(cwd string, envsDirs []string) bool {
	cwd = filepath.Clean(cwd)
	for _, dir := range envsDirs {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if cwd == dir || strings.HasPrefix(cwd, dir+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
