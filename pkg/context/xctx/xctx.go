package xctx

import "errors"

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")

	// ErrMissingTopic 表示消息身份缺少 topic。
	ErrMissingTopic = errors.New("xctx: missing topic")
)

// contextKey 包内私有的 context key 类型，避免与其他包冲突。
type contextKey string
