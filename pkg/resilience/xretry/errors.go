package xretry

import "errors"

var (
	// ErrNilRetryer nil 接收者
	ErrNilRetryer = errors.New("xretry: nil retryer")
	// ErrNilFunc 传入的函数为 nil
	ErrNilFunc = errors.New("xretry: nil function")
)

// RetryableError 自行声明能否重试的错误，如熔断器拒绝。
type RetryableError interface {
	error
	Retryable() bool
}

// PermanentError 不应重试的错误。
type PermanentError struct {
	Err error
}

// NewPermanentError 包装为永久性错误。
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func (e *PermanentError) Retryable() bool { return false }

// IsRetryable 错误链中有 RetryableError 时以其为准，其余非 nil 错误均可重试。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return true
}

// IsPermanent 非 nil 且不可重试。
func IsPermanent(err error) bool {
	return err != nil && !IsRetryable(err)
}
