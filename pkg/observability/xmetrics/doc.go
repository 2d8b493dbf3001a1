// Package xmetrics 提供统一的观测接口。
//
// 生产者发送、消费回调、事务回查、轨迹批量上报都通过 [Start] 打开一个 [Span]，
// 结束时以 [Result] 记录成功或失败。[NewOTelObserver] 同时产出 OTel trace span 与
// xons.operation.total / xons.operation.duration 两个指标；未配置时使用 [NoopObserver]。
//
//	ctx, span := xmetrics.Start(ctx, observer, xmetrics.SpanOptions{
//		Component: "xons.producer",
//		Operation: "send",
//		Kind:      xmetrics.KindProducer,
//		Attrs:     []xmetrics.Attr{xmetrics.Topic("orders")},
//	})
//	defer func() { span.End(xmetrics.Result{Err: err}) }()
package xmetrics
