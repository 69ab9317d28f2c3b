package descriptor

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// FileNames는 descriptor 파일로 인식하는 이름들이다. 앞쪽이 우선한다.
var FileNames = []string{"environment.yml", "environment.yaml"}

// Descriptor는 환경 descriptor 파일의 파싱 결과다.
type Descriptor struct {
	// Name은 첫 번째 비주석 name: 라인의 값이다. 활성화/생성에 필수다.
	Name string
	// Channels는 channels: 블록 아래의 소스 식별자 목록이다.
	Channels []string
	// Dependencies는 dependencies: 블록 아래의 패키지 지정자 목록이다
	// (버전 지정자 포함 원문 그대로).
	Dependencies []string
}

// Locate는 디렉토리에서 descriptor 파일을 찾는다.
func Locate(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Parse는 descriptor 텍스트에서 name/channels/dependencies를 추출한다.
// 라인 단위 스캔이며, 최상위 키를 만날 때마다 현재 섹션 경계를 갱신한다.
func Parse(data []byte) *Descriptor {
	d := &Descriptor{}
	section := ""

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		// 들여쓰기 없는 key: 라인은 최상위 키 — 섹션 경계가 바뀐다.
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") &&
			!strings.HasPrefix(trimmed, "-") && strings.Contains(trimmed, ":") {
			key, value, _ := strings.Cut(trimmed, ":")
			switch strings.TrimSpace(key) {
			case "name":
				// 첫 번째 name: 라인이 이긴다.
				if d.Name == "" {
					d.Name = stripComment(strings.TrimSpace(value))
				}
				section = ""
			case "channels":
				section = "channels"
			case "dependencies":
				section = "dependencies"
			default:
				section = ""
			}
			continue
		}

		if strings.HasPrefix(trimmed, "- ") || trimmed == "-" {
			item := stripComment(strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
			// "- pip:" 같은 중첩 목록 키는 그 자체를 항목으로 취급한다.
			// 하위 항목들도 같은 섹션의 항목으로 계속 수집되므로 검사 대상에서
			// 빠지지 않는다 (fail closed).
			item = strings.TrimSuffix(item, ":")
			if item == "" {
				continue
			}
			switch section {
			case "channels":
				d.Channels = append(d.Channels, item)
			case "dependencies":
				d.Dependencies = append(d.Dependencies, item)
			}
		}
	}

	return d
}

// PackageName은 패키지 지정자에서 버전 제약을 제거한 이름을 반환한다.
// "python=3.8" -> "python", "numpy>=1.20" -> "numpy".
func PackageName(spec string) string {
	spec = strings.TrimSpace(spec)
	if i := strings.IndexAny(spec, "=<>!~ "); i >= 0 {
		spec = spec[:i]
	}
	return spec
}

// stripComment는 항목 뒤에 붙은 인라인 주석을 제거한다.
func stripComment(s string) string {
	if i := strings.Index(s, " #"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.Trim(s, `"'`))
}
