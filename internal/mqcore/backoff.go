package mqcore

import (
	"context"
	"time"

	"github.com/omeyang/xons/pkg/resilience/xretry"
)

// PollFunc 一次拉取处理。返回 error 触发退避，返回 nil 重置退避。
type PollFunc func(ctx context.Context) error

// PollLoopOption 拉取循环选项。
type PollLoopOption func(*pollLoopOptions)

type pollLoopOptions struct {
	backoff xretry.BackoffPolicy
	onError func(err error)
}

// WithBackoff nil 忽略，默认 xretry.NewExponentialBackoff()。
func WithBackoff(b xretry.BackoffPolicy) PollLoopOption {
	return func(o *pollLoopOptions) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithOnError 每次 poll 出错时回调
func WithOnError(fn func(err error)) PollLoopOption {
	return func(o *pollLoopOptions) {
		o.onError = fn
	}
}

// RunPollLoop 循环调用 poll 直到 ctx 取消，返回 ctx.Err()。
func RunPollLoop(ctx context.Context, poll PollFunc, opts ...PollLoopOption) error {
	if poll == nil {
		return ErrNilHandler
	}
	o := &pollLoopOptions{backoff: xretry.NewExponentialBackoff()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := poll(ctx); err == nil {
			attempt = 0
			continue
		} else if o.onError != nil {
			o.onError(err)
		}

		attempt++
		timer := time.NewTimer(o.backoff.NextDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
