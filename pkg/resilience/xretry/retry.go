package xretry

import (
	"context"
	"time"
)

// RetryPolicy 重试策略。
type RetryPolicy interface {
	// MaxAttempts 最大尝试次数（含首次），0 表示无限
	MaxAttempts() int

	// ShouldRetry 每次失败后调用，attempt 从 1 开始
	ShouldRetry(ctx context.Context, attempt int, err error) bool
}

// BackoffPolicy 退避策略。
type BackoffPolicy interface {
	// NextDelay attempt 从 1 开始
	NextDelay(attempt int) time.Duration
}
