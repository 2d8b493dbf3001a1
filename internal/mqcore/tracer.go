package mqcore

import "context"

// Tracer 在消息用户属性中注入、提取链路上下文（W3C traceparent/tracestate）。
type Tracer interface {
	// Inject 向 props 写入 ctx 中的追踪信息，props 为 nil 时忽略
	Inject(ctx context.Context, props map[string]string)

	// Extract 以 parent 为基础返回带远端 SpanContext 的 ctx
	Extract(parent context.Context, props map[string]string) context.Context
}

// NoopTracer 不做任何传播。
type NoopTracer struct{}

func (NoopTracer) Inject(context.Context, map[string]string) {}

func (NoopTracer) Extract(parent context.Context, _ map[string]string) context.Context {
	if parent == nil {
		return context.Background()
	}
	return parent
}

var _ Tracer = NoopTracer{}
