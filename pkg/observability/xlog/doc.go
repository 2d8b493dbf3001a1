// Package xlog 基于 log/slog 的结构化日志。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、轮转）
//   - EnrichHandler 自动注入 trace_id/span_id 与当前消息身份（topic、msg_id 等，见 xctx）
//   - 动态级别调整
//   - 全局 Logger 便利函数
//
// # 创建 Logger
//
// Builder 遵循 first-error-wins：第一个配置错误会在 Build 时返回。
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("info").
//		SetFormat("json").
//		SetRotation("/var/log/onsctl.log").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # 消息字段
//
// [Topic]、[Group]、[MsgID]、[DispatcherID] 等构造函数统一消息相关字段名，
// 与 xctx 注入的字段名一致。
package xlog
