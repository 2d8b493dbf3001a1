package xctx

import (
	"context"
	"log/slog"
)

// AppendTraceAttrs 将追踪信息追加到 attrs。span context 无效时原样返回。
func AppendTraceAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	sc, ok := spanContext(ctx)
	if !ok {
		return attrs
	}
	return append(attrs,
		slog.String(KeyTraceID, sc.TraceID().String()),
		slog.String(KeySpanID, sc.SpanID().String()),
		slog.String(KeyTraceFlags, sc.TraceFlags().String()),
	)
}

// AppendMessageAttrs 将消息身份追加到 attrs，只追加非空字段。
func AppendMessageAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	info, ok := Message(ctx)
	if !ok {
		return attrs
	}
	attrs = append(attrs, slog.String(KeyTopic, info.Topic))
	if info.Tag != "" {
		attrs = append(attrs, slog.String(KeyTag, info.Tag))
	}
	if info.MsgID != "" {
		attrs = append(attrs, slog.String(KeyMsgID, info.MsgID))
	}
	if info.Group != "" {
		attrs = append(attrs, slog.String(KeyGroup, info.Group))
	}
	if info.ReconsumeTimes > 0 {
		attrs = append(attrs, slog.Int(KeyReconsumeTimes, int(info.ReconsumeTimes)))
	}
	return attrs
}

// Attrs 返回 ctx 中全部可注入字段，都缺失时返回 nil。
// 每次调用会分配新切片，热路径使用 Append 系列。
func Attrs(ctx context.Context) []slog.Attr {
	attrs := make([]slog.Attr, 0, traceFieldCount+messageFieldCount)
	attrs = AppendTraceAttrs(attrs, ctx)
	attrs = AppendMessageAttrs(attrs, ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
