package setup

// Input은 interactive setup에서 수집하는 사용자 입력이다.
type Input struct {
	// Shell은 hook을 설치할 셸 유형이다 (bash, zsh, fish).
	Shell string
	// Manager는 선호 환경 매니저다 (conda, mamba).
	Manager string
	// Strictness는 descriptor 검사 수준이다 (0~2).
	Strictness int
	// InstallHook이 true면 셸 RC 파일에 hook 스니펫을 설치한다.
	InstallHook bool
}

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 mock을 사용한다.
type FormRunner interface {
	// RunSetupForm은 setup 입력 폼을 실행한다. defaults는 초기값이다.
	RunSetupForm(defaults Input) (Input, error)
}
