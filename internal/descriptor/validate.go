package descriptor

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/hbjs97/envctx/internal/config"
	"gopkg.in/yaml.v3"
)

// ErrValidation은 descriptor 검사 실패를 나타내는 sentinel error다.
var ErrValidation = errors.New("descriptor 검사 실패")

// ErrMissingName은 descriptor에 name: 키가 없을 때 반환된다.
var ErrMissingName = errors.New("descriptor에 name이 없습니다")

// commandTokenRe는 descriptor 본문에서 금지되는 외부 명령 토큰이다.
// descriptor는 선언적 데이터여야 하며, 실행 가능한 명령이 섞여 있으면
// 변조/주입 신호로 간주한다.
var commandTokenRe = regexp.MustCompile(
	`(?m)\b(bash|sh|zsh|fish|eval|exec|source|curl|wget|nc|ncat|netcat|ssh|scp|rsync|sudo|chmod|chown)\b`)

// Validate는 descriptor 본문을 설정된 strictness 수준으로 검사한다.
// 수준 N은 N-1의 모든 검사를 포함한다. 위반은 처음 발견된 것 하나로
// 즉시 실패한다 (short-circuit).
func Validate(data []byte, cfg *config.Config) error {
	if cfg.Strictness < 1 {
		fmt.Fprintln(os.Stderr, "envctx: descriptor 검사 건너뜀 (strictness 0)")
		return nil
	}

	// Level 1: YAML 구문 검사. syntax_check = false로 우회 가능 —
	// 구문 검사는 편의 기능이지 보안 경계가 아니다.
	if cfg.IsSyntaxCheck() {
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return fmt.Errorf("descriptor.Validate: %w: YAML 구문 오류: %v", ErrValidation, err)
		}
	}

	// Level 1: 외부 명령 토큰 스캔 (전체 본문 대상).
	if m := commandTokenRe.Find(data); m != nil {
		return fmt.Errorf("descriptor.Validate: %w: 외부 명령 토큰 발견: %q", ErrValidation, string(m))
	}

	if cfg.Strictness < 2 {
		return nil
	}

	// Level 2: 패키지 denylist + 채널 allowlist. 분류 불가 항목은
	// 신뢰하지 않는 것으로 간주한다 (fail closed).
	d := Parse(data)

	for _, dep := range d.Dependencies {
		name := PackageName(dep)
		if name == "" {
			return fmt.Errorf("descriptor.Validate: %w: 분류할 수 없는 dependency 항목: %q", ErrValidation, dep)
		}
		for _, blocked := range cfg.BlockedPackages {
			if name == blocked {
				return fmt.Errorf("descriptor.Validate: %w: 차단된 패키지: %s", ErrValidation, name)
			}
		}
	}

	for _, ch := range d.Channels {
		if !contains(cfg.AllowedChannels, ch) {
			return fmt.Errorf("descriptor.Validate: %w: 허용되지 않은 채널: %s", ErrValidation, ch)
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
