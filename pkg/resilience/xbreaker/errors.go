package xbreaker

import (
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrNilBreaker 传入的 Breaker 为 nil
	ErrNilBreaker = errors.New("xbreaker: breaker cannot be nil")
	// ErrNilRetryer 传入的 Retryer 为 nil
	ErrNilRetryer = errors.New("xbreaker: retryer cannot be nil")
	// ErrNilBreakerRetryer 传入的 BreakerRetryer 为 nil
	ErrNilBreakerRetryer = errors.New("xbreaker: breaker-retryer cannot be nil")
	// ErrNilFunc 传入的操作函数为 nil
	ErrNilFunc = errors.New("xbreaker: function cannot be nil")
)

// BreakerError 熔断器拒绝执行，包装 gobreaker.ErrOpenState 或 ErrTooManyRequests。
// 实现 xretry.RetryableError，重试器遇到后立即停止。
type BreakerError struct {
	Err   error
	Name  string
	State State
}

func (e *BreakerError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("breaker %s: %v", e.Name, e.Err)
	}
	return e.Err.Error()
}

func (e *BreakerError) Unwrap() error { return e.Err }

func (e *BreakerError) Retryable() bool { return false }

// wrapBreakerError 只包装 gobreaker 直接返回的哨兵错误，已包装的错误原样返回，
// 避免嵌套熔断器时把内层的拒绝记到外层名下。状态由错误类型推出。
func wrapBreakerError(err error, name string) error {
	var be *BreakerError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &be):
		return err
	case err == gobreaker.ErrOpenState: //nolint:errorlint // 只匹配当前熔断器的哨兵
		return &BreakerError{Err: err, Name: name, State: StateOpen}
	case err == gobreaker.ErrTooManyRequests: //nolint:errorlint
		return &BreakerError{Err: err, Name: name, State: StateHalfOpen}
	default:
		return err
	}
}

// IsOpen 熔断器处于 Open 而拒绝
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState)
}

// IsTooManyRequests HalfOpen 探测名额已满而拒绝
func IsTooManyRequests(err error) bool {
	return errors.Is(err, gobreaker.ErrTooManyRequests)
}

// IsBreakerError 熔断器拒绝，区别于业务错误
func IsBreakerError(err error) bool {
	return IsOpen(err) || IsTooManyRequests(err)
}
