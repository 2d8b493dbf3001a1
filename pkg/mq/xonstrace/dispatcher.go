package xonstrace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/google/uuid"

	"github.com/omeyang/xons/pkg/mq/xons"
	"github.com/omeyang/xons/pkg/observability/xlog"
	"github.com/omeyang/xons/pkg/observability/xmetrics"
	"github.com/omeyang/xons/pkg/resilience/xbreaker"
)

const (
	stateNew int32 = iota
	stateRunning
	stateClosed
)

// Dispatcher 异步批量上报轨迹。
type Dispatcher struct {
	id       string
	registry *Registry
	props    xons.Properties
	opts     *options
	logger   xlog.Logger
	sender   *xbreaker.BreakerRetryer

	state    atomic.Int32
	mu       sync.Mutex
	producer *SharedProducer
	ctx      context.Context
	cancel   context.CancelFunc

	queue    chan TraceContext
	flushReq chan chan struct{}
	stop     chan struct{}
	done     chan struct{}

	discarded atomic.Int64
	failed    atomic.Int64
}

// NewDispatcher 创建 Dispatcher，props 用于首次构造共享生产者。
func NewDispatcher(registry *Registry, props xons.Properties, opts ...Option) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	logger := o.logger
	if logger == nil {
		logger = xlog.Default()
	}
	id := uuid.NewString()
	d := &Dispatcher{
		id:       id,
		registry: registry,
		props:    props.Normalize(),
		opts:     o,
		logger:   logger.With(xlog.Component(componentName), xlog.DispatcherID(id)),
		queue:    make(chan TraceContext, o.queueSize),
		flushReq: make(chan chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	breaker := xbreaker.NewBreaker("xonstrace-"+id,
		xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(5)),
		xbreaker.WithTimeout(10*time.Second),
		xbreaker.WithOnStateChange(func(name string, from, to xbreaker.State) {
			d.logger.Warn(context.Background(), "trace breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		}),
	)
	sender, err := xbreaker.NewBreakerRetryer(breaker, o.retryer)
	if err != nil {
		return nil, err
	}
	d.sender = sender
	return d, nil
}

// ID 在 Registry 中登记的标识
func (d *Dispatcher) ID() string { return d.id }

// Discarded 因队列已满或未启动而丢弃的轨迹数
func (d *Dispatcher) Discarded() int64 { return d.discarded.Load() }

// Failed 发送失败的轨迹数
func (d *Dispatcher) Failed() int64 { return d.failed.Load() }

// Start 获取共享生产者并登记，随后启动后台发送。重复调用返回 nil。
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state.Load() {
	case stateRunning:
		return nil
	case stateClosed:
		return ErrDispatcherClosed
	}

	producer, err := d.registry.Producer(ctx, d.props)
	if err != nil {
		return err
	}
	if err := d.registry.RegisterDispatcher(d.id); err != nil {
		return err
	}
	d.producer = producer
	d.ctx, d.cancel = context.WithCancel(context.WithoutCancel(ctx))
	d.state.Store(stateRunning)
	go d.loop()
	return nil
}

// Append 非阻塞入队，未启动或队列已满时丢弃并返回 false。
func (d *Dispatcher) Append(tc TraceContext) bool {
	if d.state.Load() != stateRunning {
		d.discarded.Add(1)
		return false
	}
	select {
	case d.queue <- tc:
		return true
	default:
		d.discarded.Add(1)
		return false
	}
}

// Flush 发送队列中已有的轨迹并等待完成。
func (d *Dispatcher) Flush(ctx context.Context) error {
	if d.state.Load() != stateRunning {
		return ErrDispatcherNotStarted
	}
	ack := make(chan struct{})
	select {
	case d.flushReq <- ack:
	case <-d.done:
		return ErrDispatcherClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown 发送剩余轨迹后注销，可重复调用。ctx 结束时放弃剩余发送，返回 ctx 的错误。
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.state.Swap(stateClosed)
	if prev != stateRunning {
		return nil
	}
	close(d.stop)

	// 超时后取消在途发送，仍须等循环退出再注销，否则可能向已关闭的生产者发送
	var waitErr error
	select {
	case <-d.done:
	case <-ctx.Done():
		waitErr = ctx.Err()
		d.cancel()
		<-d.done
	}
	d.cancel()
	return errors.Join(waitErr, d.registry.UnregisterDispatcher(d.id))
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	ticker := time.NewTicker(d.opts.flushInterval)
	defer ticker.Stop()

	batch := make([]TraceContext, 0, d.opts.batchSize)
	flush := func() {
		d.send(batch)
		clear(batch)
		batch = batch[:0]
	}
	for {
		select {
		case tc := <-d.queue:
			batch = append(batch, tc)
			if len(batch) >= d.opts.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case ack := <-d.flushReq:
			batch = d.drain(batch)
			flush()
			close(ack)
		case <-d.stop:
			batch = d.drain(batch)
			flush()
			return
		}
	}
}

func (d *Dispatcher) drain(batch []TraceContext) []TraceContext {
	for {
		select {
		case tc := <-d.queue:
			batch = append(batch, tc)
		default:
			return batch
		}
	}
}

func (d *Dispatcher) send(batch []TraceContext) {
	if len(batch) == 0 {
		return
	}
	if !d.registry.Started() {
		d.discarded.Add(int64(len(batch)))
		d.logger.Warn(d.ctx, "trace producer not running, traces dropped", xlog.Count(int64(len(batch))))
		return
	}

	ctx, span := xmetrics.Start(d.ctx, d.opts.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "flush",
		Kind:      xmetrics.KindProducer,
		Attrs: []xmetrics.Attr{
			xmetrics.Topic(d.opts.traceTopic),
			xmetrics.BatchCount(len(batch)),
			xmetrics.DispatcherID(d.id),
		},
	})
	var errs []error
	for _, p := range d.pack(batch) {
		if err := d.sendOne(ctx, p.msg); err != nil {
			d.failed.Add(int64(p.count))
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	span.End(xmetrics.Result{Err: err})
	if err != nil {
		d.logger.Warn(ctx, "send trace data failed", xlog.Err(err), xlog.Count(int64(len(batch))))
	}
}

type packed struct {
	msg   *primitive.Message
	count int
}

// pack 把编码后的轨迹拼成不超过 MaxMessageSize 的消息；单条超限时独立成一条。
func (d *Dispatcher) pack(batch []TraceContext) []packed {
	limit := d.producer.MaxMessageSize
	var (
		out   []packed
		data  strings.Builder
		keys  []string
		count int
	)
	emit := func() {
		if count == 0 {
			return
		}
		msg := primitive.NewMessage(d.opts.traceTopic, []byte(data.String()))
		if len(keys) > 0 {
			msg.WithKeys(keys)
		}
		out = append(out, packed{msg: msg, count: count})
		data.Reset()
		keys = nil
		count = 0
	}
	for i := range batch {
		if batch[i].RegionID == "" {
			batch[i].RegionID = d.opts.region
		}
		encoded := Encode(batch[i])
		if encoded == "" {
			continue
		}
		if count > 0 && data.Len()+len(encoded) > limit {
			emit()
		}
		data.WriteString(encoded)
		keys = append(keys, batch[i].keys()...)
		count++
	}
	emit()
	return out
}

// sendOne 每次尝试都计入熔断器，熔断打开后不再重试。
func (d *Dispatcher) sendOne(ctx context.Context, msg *primitive.Message) error {
	_, err := xbreaker.ExecuteWithRetry(ctx, d.sender, func(ctx context.Context) (*primitive.SendResult, error) {
		res, err := d.producer.Producer.SendSync(ctx, msg)
		if err != nil {
			return nil, err
		}
		if res != nil && res.Status != primitive.SendOK {
			return res, fmt.Errorf("xonstrace: send status %d", res.Status)
		}
		return res, nil
	})
	return err
}
