package xlog

import (
	"log/slog"
	"time"

	"github.com/omeyang/xons/pkg/context/xctx"
)

// =============================================================================
// 属性 Key
// =============================================================================

const (
	KeyError     = "error"
	KeyStack     = "stack"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"

	// 消息字段与 xctx 保持一致
	KeyTopic = xctx.KeyTopic
	KeyGroup = xctx.KeyGroup
	KeyMsgID = xctx.KeyMsgID

	KeyDispatcherID = "dispatcher_id"
	KeyNameServer   = "namesrv_addr"
)

// =============================================================================
// 构造函数
// =============================================================================

// Err 创建错误属性，nil 返回空属性（被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Topic 创建 topic 属性
func Topic(topic string) slog.Attr {
	return slog.String(KeyTopic, topic)
}

// Group 创建消费组/生产组属性
func Group(group string) slog.Attr {
	return slog.String(KeyGroup, group)
}

// MsgID 创建消息 ID 属性
func MsgID(id string) slog.Attr {
	return slog.String(KeyMsgID, id)
}

// DispatcherID 创建轨迹分发器 ID 属性
func DispatcherID(id string) slog.Attr {
	return slog.String(KeyDispatcherID, id)
}

// NameServer 创建 NameServer 地址属性
func NameServer(addr string) slog.Attr {
	return slog.String(KeyNameServer, addr)
}
