// Package xrun 基于 errgroup 管理一组长期运行的服务，并在收到系统信号时协调关闭。
//
//	err := xrun.Run(ctx,
//		consumerService,
//		watcher.Run,
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//		// 正常的信号退出
//	}
//
// 任一服务返回错误或收到信号时，其余服务的 ctx 被取消。
package xrun
