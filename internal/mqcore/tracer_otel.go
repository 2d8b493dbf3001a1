package mqcore

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// OTelTracerOption OTelTracer 配置选项。
type OTelTracerOption func(*OTelTracer)

// WithOTelPropagator nil 忽略
func WithOTelPropagator(p propagation.TextMapPropagator) OTelTracerOption {
	return func(t *OTelTracer) {
		if p != nil {
			t.propagator = p
		}
	}
}

// OTelTracer 基于 OpenTelemetry propagator 的 Tracer，默认 TraceContext + Baggage。
type OTelTracer struct {
	propagator propagation.TextMapPropagator
}

// NewOTelTracer 创建 OTelTracer。
func NewOTelTracer(opts ...OTelTracerOption) OTelTracer {
	t := OTelTracer{
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&t)
		}
	}
	return t
}

func (t OTelTracer) Inject(ctx context.Context, props map[string]string) {
	if props == nil || ctx == nil {
		return
	}
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return
	}
	t.propagator.Inject(ctx, propagation.MapCarrier(props))
}

// Extract 消息未携带有效上下文时原样返回 parent。
func (t OTelTracer) Extract(parent context.Context, props map[string]string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if len(props) == 0 {
		return parent
	}
	return t.propagator.Extract(parent, propagation.MapCarrier(props))
}

var _ Tracer = OTelTracer{}
