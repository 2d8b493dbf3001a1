// Package xctx 提供消息处理链路上的 context 字段存取。
//
// 两类字段：
//   - 追踪信息（trace_id / span_id / trace_flags）：直接读取 OpenTelemetry span context，
//     不在 context 中保存副本
//   - 消息身份（topic / tag / msg_id / group / reconsume_times）：由消费者在回调前注入
//
// 命名约定：
//
//	WithXxx(ctx, value)  - 注入，nil ctx 返回 ErrNilContext
//	Xxx(ctx)             - 读取，缺失时返回零值
//	AppendXxxAttrs       - 追加为 slog.Attr，供 xlog 的 EnrichHandler 使用
package xctx
