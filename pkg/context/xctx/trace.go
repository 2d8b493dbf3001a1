package xctx

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// 追踪字段 Key，遵循 OpenTelemetry 语义约定（下划线分隔）。
const (
	KeyTraceID    = "trace_id"
	KeySpanID     = "span_id"
	KeyTraceFlags = "trace_flags"

	traceFieldCount = 3
)

// TraceID 返回 ctx 中 span context 的 trace ID，无效时返回空字符串。
func TraceID(ctx context.Context) string {
	sc, ok := spanContext(ctx)
	if !ok {
		return ""
	}
	return sc.TraceID().String()
}

// SpanID 返回 ctx 中 span context 的 span ID，无效时返回空字符串。
func SpanID(ctx context.Context) string {
	sc, ok := spanContext(ctx)
	if !ok {
		return ""
	}
	return sc.SpanID().String()
}

// TraceFlags 返回两位十六进制的采样标志（如 "01"），无效时返回空字符串。
func TraceFlags(ctx context.Context) string {
	sc, ok := spanContext(ctx)
	if !ok {
		return ""
	}
	return sc.TraceFlags().String()
}

func spanContext(ctx context.Context) (trace.SpanContext, bool) {
	if ctx == nil {
		return trace.SpanContext{}, false
	}
	sc := trace.SpanContextFromContext(ctx)
	return sc, sc.IsValid()
}
