package xonstrace

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/pkg/mq/xons"
	"github.com/omeyang/xons/pkg/observability/xlog"
)

const (
	componentName = "xonstrace"

	// TraceProducerSuffix 共享生产者分组后缀
	TraceProducerSuffix = "_INNER_TRACE_PRODUCER"

	// DefaultMaxMsgSize MaxMsgSize 缺省值
	DefaultMaxMsgSize = 128000

	// MaxMsgSizeMargin 轨迹消息相对 MaxMsgSize 预留的余量
	MaxMsgSizeMargin = 10000

	traceSendTimeout = 5 * time.Second
)

// SharedProducer 进程内共享的轨迹生产者。
type SharedProducer struct {
	Producer       rmq.Producer
	Group          string
	MaxMessageSize int
}

// RegistryOption Registry 配置选项。
type RegistryOption func(*Registry)

// WithClientFactory 替换底层客户端构造，测试用
func WithClientFactory(f rmq.Factory) RegistryOption {
	return func(r *Registry) {
		if f != nil {
			r.clients = f
		}
	}
}

// WithResolver 替换地址服务解析
func WithResolver(resolver Resolver) RegistryOption {
	return func(r *Registry) {
		if resolver != nil {
			r.resolver = resolver
		}
	}
}

// WithRegistryLogger nil 时使用 xlog.Default()
func WithRegistryLogger(logger xlog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry 管理共享轨迹生产者及引用它的 dispatcher 集合。
//
// 生产者首次构造后不再替换；登记集合由空变为非空时启动一次，
// 由非空变为空时关闭一次。关闭后不会重新启动。
type Registry struct {
	clients  rmq.Factory
	resolver Resolver
	logger   xlog.Logger
	now      func() time.Time

	mu          sync.Mutex
	shared      atomic.Pointer[SharedProducer]
	dispatchers *xsync.Map[string, struct{}]

	// startMu 保护 attempt；attempt 非空表示启动进行中
	startMu sync.Mutex
	attempt *startAttempt
	started atomic.Bool
	stopped atomic.Bool
	closed  atomic.Bool
}

// startAttempt 一次生产者启动，done 关闭后 err 可读。
type startAttempt struct {
	done chan struct{}
	err  error
}

// NewRegistry 创建 Registry，进程内通常只需要一个。
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		clients:     rmq.DefaultFactory{},
		resolver:    NewHTTPResolver(),
		now:         time.Now,
		dispatchers: xsync.NewMap[string, struct{}](),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = xlog.Default()
	}
	return r
}

// Producer 返回共享生产者，首次调用时按 props 构造。之后的调用忽略 props。
func (r *Registry) Producer(ctx context.Context, props xons.Properties) (*SharedProducer, error) {
	if r.closed.Load() {
		return nil, ErrRegistryClosed
	}
	if p := r.shared.Load(); p != nil {
		return p, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.shared.Load(); p != nil {
		return p, nil
	}
	p, err := r.build(ctx, props)
	if err != nil {
		return nil, err
	}
	r.shared.Store(p)
	r.logger.Info(ctx, "trace producer constructed",
		xlog.Component(componentName),
		xlog.Group(p.Group),
		slog.Int("max_message_size", p.MaxMessageSize),
	)
	return p, nil
}

func (r *Registry) build(ctx context.Context, props xons.Properties) (*SharedProducer, error) {
	nameServers, err := r.nameServers(ctx, props)
	if err != nil {
		return nil, err
	}
	maxSize, err := props.Int(xons.KeyMaxMsgSize, DefaultMaxMsgSize)
	if err != nil {
		return nil, err
	}
	if maxSize <= MaxMsgSizeMargin {
		return nil, fmt.Errorf("%w: %s=%d must exceed %d", xons.ErrInvalidProperty, xons.KeyMaxMsgSize, maxSize, MaxMsgSizeMargin)
	}

	accessKey := props[xons.KeyAccessKey]
	cfg := rmq.ClientConfig{
		GroupName:   strings.ReplaceAll(accessKey, ".", "-") + TraceProducerSuffix,
		NameServers: nameServers,
		Credentials: primitive.Credentials{
			AccessKey:     accessKey,
			SecretKey:     props[xons.KeySecretKey],
			SecurityToken: props[xons.KeySecurityToken],
		},
		InstanceName: props.Get(xons.KeyInstanceName, strconv.FormatInt(r.now().UnixMilli(), 10)),
		SendTimeout:  traceSendTimeout,
	}
	producer, err := r.clients.NewProducer(cfg)
	if err != nil {
		return nil, fmt.Errorf("xonstrace: create trace producer: %w", err)
	}
	return &SharedProducer{
		Producer:       producer,
		Group:          cfg.GroupName,
		MaxMessageSize: maxSize - MaxMsgSizeMargin,
	}, nil
}

// nameServers NAMESRV_ADDR 优先，缺失时请求 ADDRSRV_URL，不重试。
func (r *Registry) nameServers(ctx context.Context, props xons.Properties) ([]string, error) {
	if addrs := props.NameServers(); len(addrs) > 0 {
		return addrs, nil
	}
	url := strings.TrimSpace(props[xons.KeyAddrSrvURL])
	if url == "" {
		return nil, ErrMissingAddress
	}
	raw, err := r.resolver.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}
	addrs := xons.Properties{xons.KeyNameSrvAddr: raw}.NameServers()
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: no address in %q", ErrResolveFailed, raw)
	}
	return addrs, nil
}

// RegisterDispatcher 登记 id，并在生产者已构造时保证其只启动一次。
// 启动进行中时等待其结果；启动失败时所有等待者得到同一错误并撤销各自的登记。
func (r *Registry) RegisterDispatcher(id string) error {
	if r.closed.Load() {
		return ErrRegistryClosed
	}
	r.dispatchers.Store(id, struct{}{})

	p := r.shared.Load()
	if p == nil {
		return nil
	}
	if r.stopped.Load() {
		r.logger.Warn(context.Background(), "trace producer already stopped, dispatcher registered without tracing",
			xlog.Component(componentName),
			xlog.DispatcherID(id),
		)
		return nil
	}

	a, owner := r.beginStart()
	if a == nil {
		return nil
	}
	if owner {
		r.finishStart(a, p.Producer.Start())
		if a.err == nil {
			r.logger.Info(context.Background(), "trace producer started",
				xlog.Component(componentName),
				xlog.Group(p.Group),
				xlog.DispatcherID(id),
			)
		}
	} else {
		<-a.done
	}
	if a.err != nil {
		r.dispatchers.Delete(id)
		return fmt.Errorf("xonstrace: start trace producer: %w", a.err)
	}
	return nil
}

// beginStart 已启动时返回 nil；否则返回进行中的启动，owner 表示由调用方执行。
func (r *Registry) beginStart() (a *startAttempt, owner bool) {
	r.startMu.Lock()
	defer r.startMu.Unlock()
	if r.started.Load() {
		return nil, false
	}
	if r.attempt != nil {
		return r.attempt, false
	}
	r.attempt = &startAttempt{done: make(chan struct{})}
	return r.attempt, true
}

func (r *Registry) finishStart(a *startAttempt, err error) {
	r.startMu.Lock()
	a.err = err
	r.attempt = nil
	if err == nil {
		r.started.Store(true)
	}
	r.startMu.Unlock()
	close(a.done)
}

// awaitStart 等待进行中的启动结束。
func (r *Registry) awaitStart() {
	r.startMu.Lock()
	a := r.attempt
	r.startMu.Unlock()
	if a != nil {
		<-a.done
	}
}

// UnregisterDispatcher 移除 id；集合变空且生产者已启动时关闭生产者，最多一次。
func (r *Registry) UnregisterDispatcher(id string) error {
	if _, ok := r.dispatchers.LoadAndDelete(id); !ok {
		return nil
	}
	if r.dispatchers.Size() != 0 {
		return nil
	}
	return r.stop(id)
}

func (r *Registry) stop(id string) error {
	r.awaitStart()
	p := r.shared.Load()
	if p == nil || !r.started.Load() || !r.stopped.CompareAndSwap(false, true) {
		return nil
	}
	if err := p.Producer.Shutdown(); err != nil {
		return fmt.Errorf("xonstrace: shutdown trace producer: %w", err)
	}
	r.logger.Info(context.Background(), "trace producer stopped",
		xlog.Component(componentName),
		xlog.Group(p.Group),
		xlog.DispatcherID(id),
	)
	return nil
}

// Started 生产者的 Start 已成功返回且未关闭。
func (r *Registry) Started() bool {
	return r.started.Load() && !r.stopped.Load()
}

// Dispatchers 当前登记的 dispatcher 数量
func (r *Registry) Dispatchers() int {
	return r.dispatchers.Size()
}

// MaxMessageSize 单条轨迹消息的大小上限，生产者未构造时为 0。
func (r *Registry) MaxMessageSize() int {
	if p := r.shared.Load(); p != nil {
		return p.MaxMessageSize
	}
	return 0
}

// Close 关闭 Registry 与已启动的生产者，可重复调用。
func (r *Registry) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.dispatchers.Clear()
	return r.stop("")
}
