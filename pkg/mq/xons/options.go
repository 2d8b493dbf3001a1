package xons

import (
	"github.com/apache/rocketmq-client-go/v2/primitive"

	"github.com/omeyang/xons/internal/mqcore"
	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/pkg/observability/xlog"
	"github.com/omeyang/xons/pkg/observability/xmetrics"
)

const componentName = "xons"

// Option Factory 配置选项。
type Option func(*options)

type options struct {
	logger       xlog.Logger
	observer     xmetrics.Observer
	tracer       mqcore.Tracer
	clients      rmq.Factory
	interceptors []primitive.Interceptor
	traceHooks   []primitive.Interceptor
}

func defaultOptions() *options {
	return &options{
		observer: xmetrics.NoopObserver{},
		tracer:   mqcore.NewOTelTracer(),
		clients:  rmq.DefaultFactory{},
	}
}

func (o *options) log() xlog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return xlog.Default()
}

// WithLogger nil 时使用 xlog.Default()
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver 发送、消费、事务执行的观测
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithTracer 消息属性上的链路传播，默认 OTel TraceContext + Baggage
func WithTracer(tracer mqcore.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithClientFactory 替换底层客户端构造，测试用
func WithClientFactory(f rmq.Factory) Option {
	return func(o *options) {
		if f != nil {
			o.clients = f
		}
	}
}

// WithInterceptors 追加底层拦截器
func WithInterceptors(interceptors ...primitive.Interceptor) Option {
	return func(o *options) {
		for _, i := range interceptors {
			if i != nil {
				o.interceptors = append(o.interceptors, i)
			}
		}
	}
}

// WithTraceInterceptor 轨迹拦截器，仅在属性 MsgTraceSwitch 不为 false 时挂载
func WithTraceInterceptor(i primitive.Interceptor) Option {
	return func(o *options) {
		if i != nil {
			o.traceHooks = append(o.traceHooks, i)
		}
	}
}
