package rmq

import (
	"context"
	"time"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
)

//go:generate mockgen -source=ports.go -destination=rmqmock/mock_ports.go -package=rmqmock

// ConsumeFunc 推模式消费回调，与 rocketmq.PushConsumer.Subscribe 的签名一致。
type ConsumeFunc = func(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error)

// Producer 普通/顺序生产者。
type Producer interface {
	Start() error
	Shutdown() error
	SendSync(ctx context.Context, msgs ...*primitive.Message) (*primitive.SendResult, error)
	SendAsync(ctx context.Context, cb func(ctx context.Context, result *primitive.SendResult, err error), msgs ...*primitive.Message) error
	SendOneWay(ctx context.Context, msgs ...*primitive.Message) error
}

// TransactionProducer 事务生产者。本地事务回调在构造时通过 listener 传入。
type TransactionProducer interface {
	Start() error
	Shutdown() error
	SendMessageInTransaction(ctx context.Context, msg *primitive.Message) (*primitive.TransactionSendResult, error)
}

// PushConsumer 推模式消费者，Subscribe 必须在 Start 之前完成。
type PushConsumer interface {
	Start() error
	Shutdown() error
	Subscribe(topic string, selector consumer.MessageSelector, f ConsumeFunc) error
	Unsubscribe(topic string) error
}

// PullConsumer 拉模式消费者。
type PullConsumer interface {
	Start() error
	Shutdown() error
	Subscribe(topic string, selector consumer.MessageSelector) error
	Unsubscribe(topic string) error
	Poll(ctx context.Context, timeout time.Duration) (*consumer.ConsumeRequest, error)
	ACK(ctx context.Context, cr *consumer.ConsumeRequest, result consumer.ConsumeResult)
}

// Factory 构造底层客户端。每次调用都返回新的、未启动的实例。
type Factory interface {
	NewProducer(cfg ClientConfig) (Producer, error)
	NewTransactionProducer(cfg ClientConfig, listener primitive.TransactionListener) (TransactionProducer, error)
	NewPushConsumer(cfg ClientConfig) (PushConsumer, error)
	NewPullConsumer(cfg ClientConfig) (PullConsumer, error)
}
