package xons

import (
	"fmt"
	"maps"
)

// Message ONS 消息。
//
// MsgID、ReconsumeTimes、BornTimestamp、BornHost 由客户端在收发时填充。
type Message struct {
	Topic string
	Tag   string
	Keys  string
	MsgID string
	Body  []byte

	// ShardingKey 顺序消息分区键
	ShardingKey string
	// StartDeliverTime 定时投递时间（unix 毫秒），0 表示立即投递
	StartDeliverTime int64

	ReconsumeTimes int32
	BornTimestamp  int64
	BornHost       string

	userProps   map[string]string
	systemProps map[string]string
}

// NewMessage 创建消息。
func NewMessage(topic, tag string, body []byte) *Message {
	return &Message{Topic: topic, Tag: tag, Body: body}
}

// PutUserProperty 设置用户属性，返回 m 便于链式调用。
func (m *Message) PutUserProperty(key, value string) *Message {
	if m.userProps == nil {
		m.userProps = make(map[string]string)
	}
	m.userProps[key] = value
	return m
}

// UserProperty 读取用户属性。
func (m *Message) UserProperty(key string) string {
	return m.userProps[key]
}

// UserProperties 返回用户属性副本。
func (m *Message) UserProperties() map[string]string {
	return maps.Clone(m.userProps)
}

// SystemProperty 读取 broker 附加的系统属性（如 UNIQ_KEY、__transactionId__）。
func (m *Message) SystemProperty(key string) string {
	return m.systemProps[key]
}

func (m *Message) putSystemProperty(key, value string) {
	if m.systemProps == nil {
		m.systemProps = make(map[string]string)
	}
	m.systemProps[key] = value
}

func (m *Message) String() string {
	return fmt.Sprintf("Message[topic=%s, tag=%s, keys=%s, msgID=%s, bodyLen=%d, reconsumeTimes=%d]",
		m.Topic, m.Tag, m.Keys, m.MsgID, len(m.Body), m.ReconsumeTimes)
}

// SendResult 发送结果。
type SendResult struct {
	Topic     string
	MessageID string
}

func (r *SendResult) String() string {
	return fmt.Sprintf("SendResult[topic=%s, messageId=%s]", r.Topic, r.MessageID)
}

// OnExceptionContext 异步发送失败时的上下文。
type OnExceptionContext struct {
	Topic     string
	MessageID string
	Err       error
}

// SendCallback 异步发送回调。
type SendCallback interface {
	OnSuccess(result *SendResult)
	OnException(ctx *OnExceptionContext)
}
