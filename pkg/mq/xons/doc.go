// Package xons 在 rocketmq-client-go/v2 之上提供 ONS 风格的客户端 API。
//
// 所有客户端由 [Factory] 根据扁平的 [Properties] 构造，实际的收发、重平衡与
// 事务提交都委托给底层客户端。本包只负责属性映射、消息转换、生命周期与观测。
//
// # 客户端
//
//   - Producer / OrderProducer / TransactionProducer
//   - Consumer / BatchConsumer / OrderConsumer（推模式）
//   - PullConsumer（拉模式，自动确认）
//
// 生命周期为 created → started → closed，Shutdown 幂等，关闭后的操作返回 ErrClosed。
// UpdateCredential 用新凭证重建底层客户端：消费者会重放已记录的订阅。
//
// # ConsumerBean
//
// [ConsumerBean] 以声明式订阅表驱动消费者。启动时一次性确定注册策略：
// 底层消费者通过 [VariantReporter] 报告为 Extended 且实现了 [NotifySubscriber]
// 时，扩展订阅走 SubscribeNotify；其余一律走标准 Subscribe/SubscribeSelector。
// 所有订阅在底层 Start 之前完成注册，任何一条失败都不会启动消费者。
//
// # 观测
//
// 发送、消费、事务执行都会开启 xmetrics 跨度；OTel 上下文通过消息用户属性
// （traceparent/tracestate）在生产者与消费者之间传播。
package xons
