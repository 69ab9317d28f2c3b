package cli

// ExitCode는 envctx의 종료 코드다.
// 호출 계약상 성공/no-op은 0, 검사·생성·활성화 실패는 모두 1이다 —
// hook이 eval하는 출력이므로 세분화된 코드는 쓰지 않는다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료 또는 no-op이다.
	ExitSuccess ExitCode = 0
	// ExitFailure는 검사/생성/활성화 실패다.
	ExitFailure ExitCode = 1
)

// MapExitCode는 에러를 종료 코드로 변환한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}
