package xconf

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeTemp(t, "config.yaml", testYAML)
	cfg, err := New(path)
	require.NoError(t, err)

	var reloads atomic.Int32
	w, err := NewWatcher(cfg, func(_ Config, err error) {
		if err == nil {
			reloads.Add(1)
		}
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	updated := []byte("ons:\n  AccessKey: rotated\n")
	require.NoError(t, os.WriteFile(path, updated, 0o600))

	assert.Eventually(t, func() bool {
		return reloads.Load() > 0
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, "rotated", cfg.Client().String("ons.AccessKey"))

	cancel()
	require.NoError(t, <-done)
}

func TestNewWatcher_Errors(t *testing.T) {
	_, err := NewWatcher(nil, nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	cfg, err := NewFromBytes(nil, FormatYAML)
	require.NoError(t, err)
	_, err = NewWatcher(cfg, nil)
	assert.ErrorIs(t, err, ErrNotReloadable)
}
