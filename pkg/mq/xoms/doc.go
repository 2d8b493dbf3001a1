// Package xoms 提供 OpenMessaging 风格的接入点。
//
// [MessagingAccessPoint] 以一组接入点属性构造，每个 Create* 操作复制调用方的
// 属性，在缺少 NAMESRV_ADDR 时用接入点的 ACCESS_POINTS 补齐，然后委托给
// [xons.Factory] 对应的构造方法。调用方传入的 map 不会被修改。
//
// 事务生产者的回查通过 [xons.LocalTransactionChecker] 完成：回查消息上的
// __transactionId__ 作为消息 ID，检查结果 Commit/Rollback 以外一律视为 Unknown。
package xoms
