// Package xrotate 提供基于 lumberjack 的日志文件轮转。
//
// onsctl 等长期运行的进程通过 xlog.Builder.SetRotation 使用本包，
// 避免 RocketMQ 客户端与业务日志无限增长。
package xrotate
