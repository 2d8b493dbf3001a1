// Package mq 提供消息队列相关的子包。
//
// 子包列表：
//   - xons: ONS 风格的生产者、消费者与声明式 ConsumerBean，基于 rocketmq-client-go
//   - xoms: 按属性创建客户端的接入点，兼容 OpenMessaging 的 KeyValue 配置
//   - xonstrace: 消息轨迹的共享生产者注册表与异步投递
//
// 内部包：
//   - internal/mqcore: 共享的追踪传播与轮询循环
//   - internal/rmq: 底层客户端端口、配置与日志桥接
package mq
