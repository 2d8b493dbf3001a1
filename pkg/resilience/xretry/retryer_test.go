package xretry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryer(attempts int, opts ...RetryerOption) *Retryer {
	base := []RetryerOption{
		WithRetryPolicy(NewFixedRetry(attempts)),
		WithBackoffPolicy(NewFixedBackoff(time.Millisecond)),
	}
	return NewRetryer(append(base, opts...)...)
}

func TestRetryer_SucceedsAfterFailures(t *testing.T) {
	var retries []int
	r := fastRetryer(3, WithOnRetry(func(attempt int, _ error) {
		retries = append(retries, attempt)
	}))

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("broker busy")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestRetryer_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := fastRetryer(2).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("timeout")
	})

	assert.EqualError(t, err, "timeout")
	assert.Equal(t, 2, calls)
}

func TestRetryer_PermanentStops(t *testing.T) {
	calls := 0
	cause := errors.New("circuit open")
	err := fastRetryer(5).Do(context.Background(), func(context.Context) error {
		calls++
		return NewPermanentError(cause)
	})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, calls)
}

func TestRetryer_NilGuards(t *testing.T) {
	var r *Retryer
	assert.ErrorIs(t, r.Do(context.Background(), func(context.Context) error { return nil }), ErrNilRetryer)
	assert.ErrorIs(t, NewRetryer().Do(context.Background(), nil), ErrNilFunc)
}

func TestExponentialBackoff_Bounds(t *testing.T) {
	b := NewExponentialBackoff(
		WithInitialDelay(10*time.Millisecond),
		WithMaxDelay(50*time.Millisecond),
		WithJitter(0),
	)
	assert.Equal(t, 10*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 20*time.Millisecond, b.NextDelay(2))
	assert.Equal(t, 50*time.Millisecond, b.NextDelay(10))
	assert.Equal(t, 50*time.Millisecond, b.NextDelay(5000))
}

func TestFixedRetry_Policy(t *testing.T) {
	p := NewFixedRetry(0)
	assert.Equal(t, 1, p.MaxAttempts())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, NewFixedRetry(3).ShouldRetry(ctx, 1, errors.New("x")))
	assert.True(t, NewFixedRetry(3).ShouldRetry(context.Background(), 2, errors.New("x")))
}

// rejected 模拟熔断器拒绝，自行声明不可重试。
type rejected struct{}

func (rejected) Error() string   { return "rejected" }
func (rejected) Retryable() bool { return false }

func TestRetryer_RetryableErrorStops(t *testing.T) {
	calls := 0
	err := fastRetryer(5).Do(context.Background(), func(context.Context) error {
		calls++
		return fmt.Errorf("send: %w", rejected{})
	})

	assert.ErrorAs(t, err, new(rejected))
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(errors.New("timeout")))
	assert.False(t, IsRetryable(NewPermanentError(errors.New("bad"))))
	assert.False(t, IsRetryable(rejected{}))

	assert.False(t, IsPermanent(nil))
	assert.False(t, IsPermanent(errors.New("timeout")))
	assert.True(t, IsPermanent(rejected{}))
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), fastRetryer(3), func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("broker busy")
		}
		return "M1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "M1", got)
	assert.Equal(t, 2, calls)

	_, err = DoWithResult[string](context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilRetryer)
	_, err = DoWithResult[string](context.Background(), NewRetryer(), nil)
	assert.ErrorIs(t, err, ErrNilFunc)
}
