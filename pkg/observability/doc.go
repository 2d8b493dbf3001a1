// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog，自动注入追踪与消息身份
//   - xmetrics: 统一观测接口（span + 指标），OpenTelemetry 实现
//   - xrotate: 日志文件轮转
package observability
