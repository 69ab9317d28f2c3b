package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
var ErrConfig = errors.New("설정 오류")

// Config는 envctx 설정 파일의 최상위 구조체다.
// Resolver에 생성 시점에 주입되는 불변 객체이며, 호출 사이에 숨은 상태를 갖지 않는다.
type Config struct {
	Version int `toml:"version"`

	// Manager는 선호 환경 매니저다 ("conda" 또는 "mamba").
	// mamba를 선호해도 실행 파일이 없으면 conda로 fallback한다.
	Manager string `toml:"manager"`

	// Strictness는 descriptor 검사 수준이다 (0: 없음, 1: 구문+외부 명령 스캔,
	// 2: 1단계 + 패키지 denylist + 채널 allowlist).
	Strictness int `toml:"strictness"`

	// SyntaxCheck가 false면 strictness >= 1에서도 YAML 구문 검사를 건너뛴다.
	// 엄밀한 YAML이 아닌 descriptor를 위한 우회 수단이다.
	SyntaxCheck *bool `toml:"syntax_check"`

	// BlockedPackages는 strictness 2에서 거부되는 패키지 이름 목록이다 (정확 일치).
	BlockedPackages []string `toml:"blocked_packages"`

	// AllowedChannels는 strictness 2에서 허용되는 채널 목록이다.
	// 목록에 없는 채널은 신뢰하지 않는 것으로 간주한다 (fail closed).
	AllowedChannels []string `toml:"allowed_channels"`

	// TargetDirs는 자동 활성화 대상 경로 목록이다.
	// 비어 있으면 매니저의 envs_dirs 설정에서 동적으로 유도한다.
	TargetDirs []string `toml:"target_dirs"`

	// VenvDir는 fallback 가상환경을 생성할 하위 디렉토리 이름이다.
	VenvDir string `toml:"venv_dir"`
}

// Load는 config.toml을 파싱하여 Config를 반환한다.
// 파일이 없으면 기본 설정을 반환한다 — envctx는 설정 없이도 동작해야 한다.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w: %v", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default는 설정 파일 없이 동작할 때의 기본 Config를 반환한다.
func Default() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// Save는 Config를 TOML 파일로 저장한다 (0600 권한).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

// IsSyntaxCheck는 syntax_check 설정값을 반환한다.
func (c *Config) IsSyntaxCheck() bool {
	if c.SyntaxCheck == nil {
		return true
	}
	return *c.SyntaxCheck
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Manager == "" {
		c.Manager = "conda"
	}
	if c.SyntaxCheck == nil {
		t := true
		c.SyntaxCheck = &t
	}
	if c.AllowedChannels == nil {
		c.AllowedChannels = []string{"defaults", "conda-forge"}
	}
	if c.VenvDir == "" {
		c.VenvDir = "venv"
	}
}

func (c *Config) validate() error {
	if c.Manager != "conda" && c.Manager != "mamba" {
		return fmt.Errorf("config.Load: %w: manager는 conda 또는 mamba여야 합니다: %s", ErrConfig, c.Manager)
	}
	if c.Strictness < 0 || c.Strictness > 2 {
		return fmt.Errorf("config.Load: %w: strictness는 0~2 범위여야 합니다: %d", ErrConfig, c.Strictness)
	}
	if strings.ContainsRune(c.VenvDir, os.PathSeparator) {
		return fmt.Errorf("config.Load: %w: venv_dir는 단일 디렉토리 이름이어야 합니다: %s", ErrConfig, c.VenvDir)
	}
	return nil
}
