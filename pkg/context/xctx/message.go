package xctx

import "context"

// 消息身份字段 Key。
const (
	KeyTopic          = "topic"
	KeyTag            = "tag"
	KeyMsgID          = "msg_id"
	KeyGroup          = "group"
	KeyReconsumeTimes = "reconsume_times"

	messageFieldCount = 5
)

const keyMessage = contextKey("xctx:message")

// MessageInfo 描述当前正在处理的消息。
type MessageInfo struct {
	Topic          string
	Tag            string
	MsgID          string
	Group          string
	ReconsumeTimes int32
}

// Validate 检查必填字段。
func (m MessageInfo) Validate() error {
	if m.Topic == "" {
		return ErrMissingTopic
	}
	return nil
}

// WithMessage 将消息身份注入 context。
// 校验失败时返回原 ctx 和错误。
func WithMessage(ctx context.Context, info MessageInfo) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := info.Validate(); err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, keyMessage, info), nil
}

// Message 读取消息身份。
func Message(ctx context.Context) (MessageInfo, bool) {
	if ctx == nil {
		return MessageInfo{}, false
	}
	info, ok := ctx.Value(keyMessage).(MessageInfo)
	return info, ok
}

// MsgID 读取消息 ID，缺失时返回空字符串。
func MsgID(ctx context.Context) string {
	info, _ := Message(ctx)
	return info.MsgID
}
