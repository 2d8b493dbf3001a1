package xonstrace

import (
	"time"

	"github.com/omeyang/xons/pkg/observability/xlog"
	"github.com/omeyang/xons/pkg/observability/xmetrics"
	"github.com/omeyang/xons/pkg/resilience/xretry"
)

// 默认参数
const (
	DefaultTraceTopic    = "RMQ_SYS_TRACE_TOPIC"
	DefaultRegion        = "DefaultRegion"
	DefaultQueueSize     = 2048
	DefaultBatchSize     = 100
	DefaultFlushInterval = 500 * time.Millisecond
)

// Option Dispatcher 配置选项。
type Option func(*options)

type options struct {
	logger        xlog.Logger
	observer      xmetrics.Observer
	retryer       *xretry.Retryer
	traceTopic    string
	region        string
	queueSize     int
	batchSize     int
	flushInterval time.Duration
}

func defaultOptions() *options {
	return &options{
		observer: xmetrics.NoopObserver{},
		retryer: xretry.NewRetryer(
			xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
			xretry.WithBackoffPolicy(xretry.NewExponentialBackoff(
				xretry.WithInitialDelay(50*time.Millisecond),
				xretry.WithMaxDelay(time.Second),
			)),
		),
		traceTopic:    DefaultTraceTopic,
		region:        DefaultRegion,
		queueSize:     DefaultQueueSize,
		batchSize:     DefaultBatchSize,
		flushInterval: DefaultFlushInterval,
	}
}

// WithLogger nil 时使用 xlog.Default()
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver 每次批量发送的观测
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithRetryer 单条轨迹消息的发送重试
func WithRetryer(r *xretry.Retryer) Option {
	return func(o *options) {
		if r != nil {
			o.retryer = r
		}
	}
}

// WithTraceTopic 轨迹 topic
func WithTraceTopic(topic string) Option {
	return func(o *options) {
		if topic != "" {
			o.traceTopic = topic
		}
	}
}

// WithRegion 轨迹中的 RegionId
func WithRegion(region string) Option {
	return func(o *options) {
		if region != "" {
			o.region = region
		}
	}
}

// WithQueueSize 待发送队列容量，满时丢弃
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithBatchSize 攒够多少条轨迹触发一次发送
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithFlushInterval 定时发送间隔
func WithFlushInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.flushInterval = d
		}
	}
}
