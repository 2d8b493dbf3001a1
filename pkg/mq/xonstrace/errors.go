package xonstrace

import "errors"

var (
	// ErrNilRegistry Dispatcher 缺少 Registry
	ErrNilRegistry = errors.New("xonstrace: nil registry")

	// ErrRegistryClosed Registry 已关闭
	ErrRegistryClosed = errors.New("xonstrace: registry closed")

	// ErrNoProducer 尚未构造共享生产者
	ErrNoProducer = errors.New("xonstrace: trace producer not constructed")

	// ErrResolveFailed 地址服务返回非 2xx 或空地址
	ErrResolveFailed = errors.New("xonstrace: resolve name server failed")

	// ErrMissingAddress NAMESRV_ADDR 与 ADDRSRV_URL 均未配置
	ErrMissingAddress = errors.New("xonstrace: NAMESRV_ADDR or ADDRSRV_URL is required")

	// ErrDispatcherClosed Dispatcher 已关闭
	ErrDispatcherClosed = errors.New("xonstrace: dispatcher closed")

	// ErrDispatcherNotStarted Dispatcher 未启动
	ErrDispatcherNotStarted = errors.New("xonstrace: dispatcher not started")
)
