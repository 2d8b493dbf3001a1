package rmq

import (
	rocketmq "github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
)

// DefaultFactory 委托给 rocketmq-client-go 的构造函数。
type DefaultFactory struct{}

var _ Factory = DefaultFactory{}

func (DefaultFactory) NewProducer(cfg ClientConfig) (Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return rocketmq.NewProducer(cfg.ProducerOptions()...)
}

func (DefaultFactory) NewTransactionProducer(cfg ClientConfig, listener primitive.TransactionListener) (TransactionProducer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if listener == nil {
		return nil, ErrNilListener
	}
	return rocketmq.NewTransactionProducer(listener, cfg.ProducerOptions()...)
}

func (DefaultFactory) NewPushConsumer(cfg ClientConfig) (PushConsumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return rocketmq.NewPushConsumer(cfg.ConsumerOptions()...)
}

func (DefaultFactory) NewPullConsumer(cfg ClientConfig) (PullConsumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return rocketmq.NewPullConsumer(cfg.ConsumerOptions()...)
}
