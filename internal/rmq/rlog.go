package rmq

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/apache/rocketmq-client-go/v2/rlog"

	"github.com/omeyang/xons/pkg/observability/xlog"
)

// rlogBridge 把 rocketmq 客户端的内部日志写入 xlog。
// 客户端日志量大，默认只透出 warn 及以上。
type rlogBridge struct {
	logger xlog.Logger
	level  atomic.Int32
}

var _ rlog.Logger = (*rlogBridge)(nil)

// NewLogBridge 返回可交给 rlog.SetLogger 的适配器，nil 时使用 xlog.Default()。
func NewLogBridge(logger xlog.Logger) rlog.Logger {
	if logger == nil {
		logger = xlog.Default()
	}
	b := &rlogBridge{logger: logger.With(xlog.Component("rocketmq"))}
	b.level.Store(int32(slog.LevelWarn))
	return b
}

// BridgeLogger 全局替换 rocketmq 客户端的日志实现。
func BridgeLogger(logger xlog.Logger) {
	rlog.SetLogger(NewLogBridge(logger))
}

func (b *rlogBridge) Debug(msg string, fields map[string]interface{}) {
	b.emit(slog.LevelDebug, msg, fields)
}

func (b *rlogBridge) Info(msg string, fields map[string]interface{}) {
	b.emit(slog.LevelInfo, msg, fields)
}

func (b *rlogBridge) Warning(msg string, fields map[string]interface{}) {
	b.emit(slog.LevelWarn, msg, fields)
}

func (b *rlogBridge) Error(msg string, fields map[string]interface{}) {
	b.emit(slog.LevelError, msg, fields)
}

// Fatal 降级为 Error，桥接层不终止进程。
func (b *rlogBridge) Fatal(msg string, fields map[string]interface{}) {
	b.emit(slog.LevelError, msg, fields)
}

// Level 接受 rlog 的级别名（debug/info/warn/error/fatal），未知值忽略。
func (b *rlogBridge) Level(level string) {
	switch strings.ToLower(level) {
	case "debug":
		b.level.Store(int32(slog.LevelDebug))
	case "info":
		b.level.Store(int32(slog.LevelInfo))
	case "warn", "warning":
		b.level.Store(int32(slog.LevelWarn))
	case "error", "fatal":
		b.level.Store(int32(slog.LevelError))
	}
}

// OutputPath 输出位置由 xlog 决定，这里忽略。
func (b *rlogBridge) OutputPath(string) error {
	return nil
}

func (b *rlogBridge) emit(level slog.Level, msg string, fields map[string]interface{}) {
	if level < slog.Level(b.level.Load()) {
		return
	}
	attrs := fieldAttrs(fields)
	ctx := context.Background()
	switch {
	case level >= slog.LevelError:
		b.logger.Error(ctx, msg, attrs...)
	case level >= slog.LevelWarn:
		b.logger.Warn(ctx, msg, attrs...)
	case level >= slog.LevelInfo:
		b.logger.Info(ctx, msg, attrs...)
	default:
		b.logger.Debug(ctx, msg, attrs...)
	}
}

// fieldAttrs 按键排序，保证输出稳定。
func fieldAttrs(fields map[string]interface{}) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		if err, ok := fields[k].(error); ok {
			attrs = append(attrs, xlog.Err(err))
			continue
		}
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}
