package rmq

import (
	"errors"
	"time"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
)

var (
	// ErrMissingGroup 未配置分组
	ErrMissingGroup = errors.New("rmq: group name is required")

	// ErrMissingNameServer 未配置 NameServer
	ErrMissingNameServer = errors.New("rmq: name server is required")

	// ErrNilListener 事务生产者缺少 listener
	ErrNilListener = errors.New("rmq: nil transaction listener")
)

// ClientConfig 构造底层客户端所需的全部参数。零值字段表示沿用客户端默认值。
type ClientConfig struct {
	GroupName    string
	NameServers  []string
	Credentials  primitive.Credentials
	InstanceName string

	// 生产者
	SendTimeout time.Duration
	Retry       int
	// HashByShardingKey 顺序生产者按 ShardingKey 哈希选择队列
	HashByShardingKey bool

	// 消费者
	Broadcasting      bool
	Orderly           bool
	BatchMaxSize      int
	MaxReconsumeTimes int32
	ConsumeFromWhere  consumer.ConsumeFromWhere
	ConsumeGoroutines int

	Interceptors []primitive.Interceptor
}

// Validate 检查分组与 NameServer。
func (c ClientConfig) Validate() error {
	if c.GroupName == "" {
		return ErrMissingGroup
	}
	if len(c.NameServers) == 0 {
		return ErrMissingNameServer
	}
	return nil
}

// ProducerOptions 映射为 producer.Option。
func (c ClientConfig) ProducerOptions() []producer.Option {
	opts := []producer.Option{
		producer.WithGroupName(c.GroupName),
		producer.WithNsResolver(primitive.NewPassthroughResolver(c.NameServers)),
	}
	if c.Credentials.AccessKey != "" {
		opts = append(opts, producer.WithCredentials(c.Credentials))
	}
	if c.InstanceName != "" {
		opts = append(opts, producer.WithInstanceName(c.InstanceName))
	}
	if c.SendTimeout > 0 {
		opts = append(opts, producer.WithSendMsgTimeout(c.SendTimeout))
	}
	if c.Retry > 0 {
		opts = append(opts, producer.WithRetry(c.Retry))
	}
	if c.HashByShardingKey {
		opts = append(opts, producer.WithQueueSelector(producer.NewHashQueueSelector()))
	}
	if len(c.Interceptors) > 0 {
		opts = append(opts, producer.WithInterceptor(c.Interceptors...))
	}
	return opts
}

// ConsumerOptions 映射为 consumer.Option。
func (c ClientConfig) ConsumerOptions() []consumer.Option {
	model := consumer.Clustering
	if c.Broadcasting {
		model = consumer.BroadCasting
	}
	opts := []consumer.Option{
		consumer.WithGroupName(c.GroupName),
		consumer.WithNsResolver(primitive.NewPassthroughResolver(c.NameServers)),
		consumer.WithConsumerModel(model),
		consumer.WithConsumeFromWhere(c.ConsumeFromWhere),
	}
	if c.Credentials.AccessKey != "" {
		opts = append(opts, consumer.WithCredentials(c.Credentials))
	}
	if c.InstanceName != "" {
		opts = append(opts, consumer.WithInstance(c.InstanceName))
	}
	if c.Orderly {
		opts = append(opts, consumer.WithConsumerOrder(true))
	}
	if c.BatchMaxSize > 0 {
		opts = append(opts, consumer.WithConsumeMessageBatchMaxSize(c.BatchMaxSize))
	}
	if c.MaxReconsumeTimes > 0 {
		opts = append(opts, consumer.WithMaxReconsumeTimes(c.MaxReconsumeTimes))
	}
	if c.ConsumeGoroutines > 0 {
		opts = append(opts, consumer.WithConsumeGoroutineNums(c.ConsumeGoroutines))
	}
	if len(c.Interceptors) > 0 {
		opts = append(opts, consumer.WithInterceptor(c.Interceptors...))
	}
	return opts
}
