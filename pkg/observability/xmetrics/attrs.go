package xmetrics

// 消息相关属性 Key，遵循 OpenTelemetry messaging 语义约定。
const (
	AttrSystem       = "messaging.system"
	AttrDestination  = "messaging.destination.name"
	AttrConsumerGrp  = "messaging.consumer.group.name"
	AttrMessageID    = "messaging.message.id"
	AttrMessageTag   = "messaging.rocketmq.message.tag"
	AttrBatchCount   = "messaging.batch.message_count"
	AttrDispatcherID = "xons.trace.dispatcher_id"

	systemRocketMQ = "rocketmq"
)

// String 创建字符串属性。
func String(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Bool 创建布尔属性。
func Bool(key string, value bool) Attr {
	return Attr{Key: key, Value: value}
}

// Int 创建整数属性。
func Int(key string, value int) Attr {
	return Attr{Key: key, Value: value}
}

// Int64 创建 int64 属性。
func Int64(key string, value int64) Attr {
	return Attr{Key: key, Value: value}
}

// System 标记消息系统为 rocketmq。
func System() Attr {
	return String(AttrSystem, systemRocketMQ)
}

// Topic 创建目的地属性。
func Topic(topic string) Attr {
	return String(AttrDestination, topic)
}

// Group 创建消费组属性。
func Group(group string) Attr {
	return String(AttrConsumerGrp, group)
}

// MessageID 创建消息 ID 属性。
func MessageID(id string) Attr {
	return String(AttrMessageID, id)
}

// Tag 创建消息 tag 属性。
func Tag(tag string) Attr {
	return String(AttrMessageTag, tag)
}

// BatchCount 创建批量条数属性。
func BatchCount(n int) Attr {
	return Int(AttrBatchCount, n)
}

// DispatcherID 创建轨迹分发器属性。
func DispatcherID(id string) Attr {
	return String(AttrDispatcherID, id)
}
