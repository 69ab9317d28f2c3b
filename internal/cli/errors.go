package cli

import (
	"github.com/hbjs97/envctx/internal/config"
	"github.com/hbjs97/envctx/internal/descriptor"
	"github.com/hbjs97/envctx/internal/resolver"
)

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrConfig는 설정/descriptor 읽기 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
	// ErrValidation은 descriptor 검사 실패의 sentinel error다.
	ErrValidation = descriptor.ErrValidation
	// ErrMissingName은 descriptor에 name: 키가 없을 때의 sentinel error다.
	ErrMissingName = descriptor.ErrMissingName
	// ErrActivation은 환경 활성화 실패의 sentinel error다.
	ErrActivation = resolver.ErrActivation
	// ErrCreation은 환경 생성 실패의 sentinel error다.
	ErrCreation = resolver.ErrCreation
)
