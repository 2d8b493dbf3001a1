package mqcore

import "errors"

// 共享错误定义，由 xons 重导出给终端用户，前缀使用 "mq:"。
var (
	ErrNilClient  = errors.New("mq: nil client")
	ErrNilMessage = errors.New("mq: nil message")
	ErrNilHandler = errors.New("mq: nil handler")
	ErrClosed     = errors.New("mq: client closed")

	// ErrNotStarted 客户端尚未启动
	ErrNotStarted = errors.New("mq: client not started")
)
