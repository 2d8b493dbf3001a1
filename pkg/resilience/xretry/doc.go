// Package xretry 提供基于 avast/retry-go/v5 的重试执行器。
//
// 只用于后台尽力而为的工作（如轨迹批量上报）。面向调用方的发送、订阅等
// 操作不经过重试，错误原样返回。
//
//	r := xretry.NewRetryer(
//		xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
//		xretry.WithBackoffPolicy(xretry.NewExponentialBackoff()),
//	)
//	err := r.Do(ctx, func(ctx context.Context) error {
//		return flush(ctx)
//	})
//
// 返回 [PermanentError]（或 retry-go 的 Unrecoverable）可立即终止重试。
package xretry
