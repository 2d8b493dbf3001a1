// Package mqcore 提供 xons/xoms/xonstrace 共用的消息层内核：
// 共享错误、基于消息用户属性的 OTel 上下文传播，以及带退避的拉取循环。
//
// 本包是 internal 包，外部用户不应直接导入。
package mqcore
