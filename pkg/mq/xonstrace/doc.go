// Package xonstrace 实现消息轨迹的异步上报。
//
// # Registry
//
// [Registry] 持有进程内共享的轨迹生产者，多个 [Dispatcher] 通过 id 登记引用：
//
//   - Producer 首次调用时构造生产者，之后一直复用首次构造的实例
//   - RegisterDispatcher 先登记 id，再以 CAS 保证生产者只启动一次
//   - UnregisterDispatcher 在最后一个 dispatcher 注销时关闭生产者，最多关闭一次
//
// 生产者关闭后不会再次启动：之后的登记只记录告警，Started 返回 false。
//
// NameServer 优先取 NAMESRV_ADDR，缺失时通过 [Resolver] 请求 ADDRSRV_URL，
// 解析失败直接返回，不做重试。
//
// # Dispatcher
//
// [Dispatcher] 把 [TraceContext] 放入有界队列，由后台 goroutine 按条数或时间间隔
// 打包，每条轨迹消息不超过 Registry 给出的最大消息大小。发送经过 xretry 重试与
// gobreaker 熔断，失败只记录日志。[Dispatcher.Interceptor] 生成发送与消费轨迹，
// 可通过 xons.WithTraceInterceptor 挂载到客户端上。
package xonstrace
