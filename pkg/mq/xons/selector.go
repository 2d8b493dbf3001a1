package xons

import (
	"fmt"

	"github.com/apache/rocketmq-client-go/v2/consumer"
)

// ExpressionType 订阅过滤类型。空值按 TAG 处理。
type ExpressionType string

const (
	ExpressionTag   ExpressionType = "TAG"
	ExpressionSQL92 ExpressionType = "SQL92"
)

// MessageSelector 消息过滤器。
type MessageSelector struct {
	Type       ExpressionType
	Expression string
}

// ByTag 按 Tag 过滤，如 "TagA || TagB"，"*" 或空表示全部。
func ByTag(expression string) MessageSelector {
	return MessageSelector{Type: ExpressionTag, Expression: expression}
}

// BySQL 按 SQL92 表达式过滤用户属性。
func BySQL(sql string) MessageSelector {
	return MessageSelector{Type: ExpressionSQL92, Expression: sql}
}

// native 转为底层选择器，未知类型返回 validation 错误。
func (s MessageSelector) native() (consumer.MessageSelector, error) {
	switch s.Type {
	case "", ExpressionTag:
		expr := s.Expression
		if expr == "" {
			expr = "*"
		}
		return consumer.MessageSelector{Type: consumer.TAG, Expression: expr}, nil
	case ExpressionSQL92:
		return consumer.MessageSelector{Type: consumer.SQL92, Expression: s.Expression}, nil
	default:
		return consumer.MessageSelector{}, validationError("subscribe",
			fmt.Errorf("%w: Expression type %s is unknown!", ErrUnknownExpressionType, s.Type))
	}
}

// Subscription 声明式订阅，作为 ConsumerBean 订阅表的键。值类型，交给 bean 后不应再修改。
type Subscription struct {
	Topic      string
	Expression string
	Type       ExpressionType

	// Extended 为 true 时表示扩展订阅，携带 Persistence
	Extended    bool
	Persistence bool
}

// NewSubscription 标准 TAG 订阅。
func NewSubscription(topic, expression string) Subscription {
	return Subscription{Topic: topic, Expression: expression, Type: ExpressionTag}
}

// NewSubscriptionExt 扩展订阅。
func NewSubscriptionExt(topic, expression string, persistence bool) Subscription {
	return Subscription{
		Topic:       topic,
		Expression:  expression,
		Type:        ExpressionTag,
		Extended:    true,
		Persistence: persistence,
	}
}

// Selector 返回对应的过滤器。
func (s Subscription) Selector() MessageSelector {
	return MessageSelector{Type: s.Type, Expression: s.Expression}
}
