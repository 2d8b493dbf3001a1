// Package rmq 是 rocketmq-client-go/v2 之上的一层窄端口。
//
// xons 的所有适配器只依赖本包的 Producer/PushConsumer/PullConsumer/
// TransactionProducer 接口与 Factory，默认实现直接委托给
// rocketmq.NewProducer 等构造函数；测试使用 rmqmock 中的 gomock 替身。
//
// 本包还负责：
//   - ClientConfig 到 producer.Option / consumer.Option 的映射
//   - 把客户端内部的 rlog 输出桥接到 xlog
package rmq
