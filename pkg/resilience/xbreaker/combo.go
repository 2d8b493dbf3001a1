package xbreaker

import (
	"context"

	"github.com/omeyang/xons/pkg/resilience/xretry"
)

// BreakerRetryer 熔断器与重试组合：每次尝试都经过熔断器并计入统计，
// 重试过程中触发熔断时后续尝试被拒绝，重试随即停止。
type BreakerRetryer struct {
	breaker *Breaker
	retryer *xretry.Retryer
}

// NewBreakerRetryer breaker 与 retryer 均不能为 nil。
func NewBreakerRetryer(breaker *Breaker, retryer *xretry.Retryer) (*BreakerRetryer, error) {
	if breaker == nil {
		return nil, ErrNilBreaker
	}
	if retryer == nil {
		return nil, ErrNilRetryer
	}
	return &BreakerRetryer{breaker: breaker, retryer: retryer}, nil
}

// DoWithRetry 执行带熔断与重试的操作。
func (br *BreakerRetryer) DoWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	if br == nil {
		return ErrNilBreakerRetryer
	}
	if fn == nil {
		return ErrNilFunc
	}
	return br.retryer.Do(ctx, func(ctx context.Context) error {
		return br.breaker.Do(ctx, func() error {
			return fn(ctx)
		})
	})
}

// ExecuteWithRetry DoWithRetry 的带返回值版本。fn 收到的 ctx 在重试间共享。
func ExecuteWithRetry[T any](ctx context.Context, br *BreakerRetryer, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if br == nil {
		return zero, ErrNilBreakerRetryer
	}
	if fn == nil {
		return zero, ErrNilFunc
	}
	return xretry.DoWithResult(ctx, br.retryer, func(ctx context.Context) (T, error) {
		return Execute(ctx, br.breaker, func() (T, error) {
			return fn(ctx)
		})
	})
}

func (br *BreakerRetryer) Breaker() *Breaker {
	return br.breaker
}

func (br *BreakerRetryer) Retryer() *xretry.Retryer {
	return br.retryer
}
