package xons

import (
	"maps"
	"strconv"
	"strings"

	"github.com/apache/rocketmq-client-go/v2/primitive"
)

// 客户端与 broker 使用的属性名
const (
	propTags             = "TAGS"
	propKeys             = "KEYS"
	propUniqKey          = "UNIQ_KEY"
	propShardingKey      = "__SHARDINGKEY"
	propStartDeliverTime = "__STARTDELIVERTIME"

	// PropTransactionID 事务回查消息上的事务 ID
	PropTransactionID = "__transactionId__"
)

// systemPropertyKeys 转换时归入系统属性的键，其余视为用户属性。
var systemPropertyKeys = map[string]struct{}{
	propTags: {}, propKeys: {}, propUniqKey: {}, propShardingKey: {}, propStartDeliverTime: {},
	PropTransactionID: {}, "WAIT": {}, "DELAY": {}, "RETRY_TOPIC": {}, "REAL_TOPIC": {},
	"REAL_QID": {}, "TRAN_MSG": {}, "PGROUP": {}, "MIN_OFFSET": {}, "MAX_OFFSET": {},
	"CONSUME_START_TIME": {}, "MSG_REGION": {}, "TRACE_ON": {}, "TRANSACTION_CHECK_TIMES": {},
	"CHECK_IMMUNITY_TIME_IN_SECONDS": {}, "BATCH": {},
}

func isSystemProperty(key string) bool {
	_, ok := systemPropertyKeys[key]
	return ok
}

// toNative 转为底层消息，用户属性整体拷贝。
func toNative(msg *Message) *primitive.Message {
	pm := primitive.NewMessage(msg.Topic, msg.Body)
	if msg.Tag != "" {
		pm.WithTag(msg.Tag)
	}
	if keys := strings.Fields(msg.Keys); len(keys) > 0 {
		pm.WithKeys(keys)
	}
	if msg.ShardingKey != "" {
		pm.WithShardingKey(msg.ShardingKey)
	}
	if msg.StartDeliverTime > 0 {
		pm.WithProperty(propStartDeliverTime, strconv.FormatInt(msg.StartDeliverTime, 10))
	}
	for k, v := range msg.userProps {
		pm.WithProperty(k, v)
	}
	return pm
}

// fromNative 从底层消息还原 ONS 消息。
func fromNative(pm *primitive.Message) *Message {
	msg := &Message{
		Topic: pm.Topic,
		Tag:   pm.GetTags(),
		Keys:  strings.TrimSpace(pm.GetKeys()),
		Body:  pm.Body,
	}
	props := maps.Clone(pm.GetProperties())
	for k, v := range props {
		if isSystemProperty(k) {
			msg.putSystemProperty(k, v)
		} else {
			msg.PutUserProperty(k, v)
		}
	}
	msg.ShardingKey = props[propShardingKey]
	if ts, err := strconv.ParseInt(props[propStartDeliverTime], 10, 64); err == nil {
		msg.StartDeliverTime = ts
	}
	return msg
}

// fromNativeExt 额外填充 broker 侧字段。
func fromNativeExt(ext *primitive.MessageExt) *Message {
	msg := fromNative(&ext.Message)
	msg.MsgID = ext.MsgId
	msg.ReconsumeTimes = ext.ReconsumeTimes
	msg.BornTimestamp = ext.BornTimestamp
	msg.BornHost = ext.BornHost
	return msg
}

// FromMessageExt 供 OpenMessaging 接入点转换回查消息。
func FromMessageExt(ext *primitive.MessageExt) *Message {
	if ext == nil {
		return nil
	}
	return fromNativeExt(ext)
}
