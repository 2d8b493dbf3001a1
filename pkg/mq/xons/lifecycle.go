package xons

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/pkg/observability/xlog"
)

// nativeClient 底层客户端的公共生命周期。
type nativeClient interface {
	Start() error
	Shutdown() error
}

// holder 持有可替换的底层客户端，负责启动、关闭与凭证轮换时的替换。
type holder[T nativeClient] struct {
	op     string
	opts   *options
	build  func(cfg rmq.ClientConfig) (T, error)
	mu     sync.RWMutex
	cfg    rmq.ClientConfig
	client T

	started atomic.Bool
	closed  atomic.Bool
}

func newHolder[T nativeClient](op string, cfg rmq.ClientConfig, o *options, build func(rmq.ClientConfig) (T, error)) (*holder[T], error) {
	client, err := build(cfg)
	if err != nil {
		return nil, err
	}
	return &holder[T]{op: op, opts: o, build: build, cfg: cfg, client: client}, nil
}

// current 返回当前底层客户端，关闭后返回 ErrClosed。
func (h *holder[T]) current() (T, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed.Load() {
		var zero T
		return zero, ErrClosed
	}
	return h.client, nil
}

// withClient 持读锁执行 fn，保证与凭证轮换互斥。
func (h *holder[T]) withClient(fn func(T) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed.Load() {
		return ErrClosed
	}
	return fn(h.client)
}

// running 要求客户端已启动且未关闭。
func (h *holder[T]) running() (T, error) {
	client, err := h.current()
	if err != nil {
		return client, err
	}
	if !h.started.Load() {
		return client, fmt.Errorf("%w: %s must be started before use", ErrNotStarted, h.op)
	}
	return client, nil
}

func (h *holder[T]) group() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg.GroupName
}

func (h *holder[T]) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed.Load() {
		return ErrClosed
	}
	if h.started.Load() {
		return nil
	}
	if err := h.client.Start(); err != nil {
		return err
	}
	h.started.Store(true)
	h.opts.log().Info(context.Background(), "client started",
		xlog.Component(componentName), xlog.Operation(h.op), xlog.Group(h.cfg.GroupName))
	return nil
}

// Shutdown 幂等。只有启动过的底层客户端才会被关闭。
func (h *holder[T]) Shutdown() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	if !h.started.Load() {
		return nil
	}
	if err := h.client.Shutdown(); err != nil {
		return err
	}
	h.opts.log().Info(context.Background(), "client shutdown",
		xlog.Component(componentName), xlog.Operation(h.op), xlog.Group(h.cfg.GroupName))
	return nil
}

func (h *holder[T]) IsStarted() bool {
	return h.started.Load() && !h.closed.Load()
}

func (h *holder[T]) IsClosed() bool {
	return h.closed.Load()
}

// replace 以 cfg 构建新客户端，prepare 用于回放订阅。
// 已启动时先启动新客户端再替换，旧客户端关闭失败只记录日志。
func (h *holder[T]) replace(cfg rmq.ClientConfig, prepare func(T) error) error {
	h.mu.Lock()
	if h.closed.Load() {
		h.mu.Unlock()
		return ErrClosed
	}
	next, err := h.build(cfg)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	if prepare != nil {
		if err := prepare(next); err != nil {
			h.mu.Unlock()
			h.abandon(next)
			return err
		}
	}
	started := h.started.Load()
	if started {
		if err := next.Start(); err != nil {
			h.mu.Unlock()
			h.abandon(next)
			return err
		}
	}
	prev := h.client
	h.client, h.cfg = next, cfg
	h.mu.Unlock()

	ctx := context.Background()
	if started {
		if err := prev.Shutdown(); err != nil {
			h.opts.log().Warn(ctx, "shutdown replaced client failed",
				xlog.Component(componentName), xlog.Operation(h.op), xlog.Err(err))
		}
	}
	h.opts.log().Info(ctx, "credential updated",
		xlog.Component(componentName), xlog.Operation(h.op), xlog.Group(cfg.GroupName))
	return nil
}

// abandon 关闭替换失败的新客户端，错误只记录日志。
func (h *holder[T]) abandon(next T) {
	if err := next.Shutdown(); err != nil {
		h.opts.log().Warn(context.Background(), "shutdown abandoned client failed",
			xlog.Component(componentName), xlog.Operation(h.op), xlog.Err(err))
	}
}

// updateCredential 校验新凭证后替换底层客户端。
func (h *holder[T]) updateCredential(props Properties, prepare func(T) error) error {
	h.mu.RLock()
	base := h.cfg
	h.mu.RUnlock()
	cfg, err := withCredential(base, props)
	if err != nil {
		return err
	}
	return h.replace(cfg, prepare)
}
