package xons

import (
	"context"
	"time"
)

// Admin 所有 ONS 客户端共有的生命周期操作。
//
// 状态只会单向推进：创建 → 启动 → 关闭。Start、Shutdown 均幂等，
// 关闭后的业务调用返回 ErrClosed。
type Admin interface {
	Start() error
	Shutdown() error
	IsStarted() bool
	IsClosed() bool

	// UpdateCredential 使用 props 中的 AccessKey/SecretKey/SecurityToken 重建底层客户端。
	UpdateCredential(props Properties) error
}

// Producer 普通消息生产者。
type Producer interface {
	Admin

	// Send 同步发送，成功后回填 msg.MsgID。
	Send(ctx context.Context, msg *Message) (*SendResult, error)

	// SendOneway 单向发送，不等待 broker 响应。
	SendOneway(ctx context.Context, msg *Message) error

	// SendAsync 异步发送，结果通过 cb 回调。
	SendAsync(ctx context.Context, msg *Message, cb SendCallback) error
}

// OrderProducer 顺序消息生产者，相同 shardingKey 的消息进入同一队列。
type OrderProducer interface {
	Admin
	Send(ctx context.Context, msg *Message, shardingKey string) (*SendResult, error)
}

// TransactionProducer 事务消息生产者。
type TransactionProducer interface {
	Admin

	// Send 发送半消息并在成功后同步执行 executor。
	// 本地事务返回 Rollback 时返回 ErrTransactionRollback。
	Send(ctx context.Context, msg *Message, executor LocalTransactionExecutor, arg any) (*SendResult, error)
}

// Consumer 推模式消费者。
type Consumer interface {
	Admin

	// Subscribe 按 Tag 表达式订阅，"*" 或空表示全部。
	Subscribe(topic, subExpression string, listener MessageListener) error

	// SubscribeSelector 按过滤器订阅，支持 TAG 与 SQL92。
	SubscribeSelector(topic string, selector MessageSelector, listener MessageListener) error

	Unsubscribe(topic string) error
}

// BatchConsumer 批量推模式消费者。
type BatchConsumer interface {
	Admin
	Subscribe(topic, subExpression string, listener BatchMessageListener) error
	Unsubscribe(topic string) error
}

// OrderConsumer 顺序推模式消费者。
type OrderConsumer interface {
	Admin
	Subscribe(topic, subExpression string, listener MessageOrderListener) error
	SubscribeSelector(topic string, selector MessageSelector, listener MessageOrderListener) error
	Unsubscribe(topic string) error
}

// PullConsumer 拉模式消费者。Poll 返回的消息已确认。
type PullConsumer interface {
	Admin
	Subscribe(topic string, selector MessageSelector) error
	Unsubscribe(topic string) error

	// Poll 阻塞等待一批消息，timeout <= 0 时使用 PollTimeoutMillis（默认 5s）。
	Poll(ctx context.Context, timeout time.Duration) ([]*Message, error)
}
