package xons

import "context"

// Action 普通消费结果。
type Action int

const (
	// CommitMessage 消费成功
	CommitMessage Action = iota
	// ReconsumeLater 稍后重投
	ReconsumeLater
)

func (a Action) String() string {
	if a == CommitMessage {
		return "CommitMessage"
	}
	return "ReconsumeLater"
}

// OrderAction 顺序消费结果。
type OrderAction int

const (
	// OrderSuccess 消费成功
	OrderSuccess OrderAction = iota
	// OrderSuspend 暂停当前队列一段时间后重试
	OrderSuspend
)

func (a OrderAction) String() string {
	if a == OrderSuccess {
		return "Success"
	}
	return "Suspend"
}

// MessageListener 逐条消费。ctx 携带消息身份与上游链路上下文。
type MessageListener interface {
	Consume(ctx context.Context, msg *Message) Action
}

// MessageListenerFunc 函数适配器。
type MessageListenerFunc func(ctx context.Context, msg *Message) Action

func (f MessageListenerFunc) Consume(ctx context.Context, msg *Message) Action {
	return f(ctx, msg)
}

// BatchMessageListener 批量消费，返回值作用于整批。
type BatchMessageListener interface {
	Consume(ctx context.Context, msgs []*Message) Action
}

// BatchMessageListenerFunc 函数适配器。
type BatchMessageListenerFunc func(ctx context.Context, msgs []*Message) Action

func (f BatchMessageListenerFunc) Consume(ctx context.Context, msgs []*Message) Action {
	return f(ctx, msgs)
}

// MessageOrderListener 顺序消费。
type MessageOrderListener interface {
	Consume(ctx context.Context, msg *Message) OrderAction
}

// MessageOrderListenerFunc 函数适配器。
type MessageOrderListenerFunc func(ctx context.Context, msg *Message) OrderAction

func (f MessageOrderListenerFunc) Consume(ctx context.Context, msg *Message) OrderAction {
	return f(ctx, msg)
}
