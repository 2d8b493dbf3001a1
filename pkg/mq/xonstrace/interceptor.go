package xonstrace

import (
	"context"
	"time"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/google/uuid"
)

// 轨迹中的消息类型
const (
	MsgTypeNormal = iota
	MsgTypeTransHalf
	MsgTypeTransCommit
	MsgTypeDelay
)

// 消费结果码
const (
	ConsumeCodeSuccess   = 0
	ConsumeCodeException = 2
	ConsumeCodeFailed    = 4
)

// Interceptor 返回生成轨迹的拦截器，同时适用于生产者与推模式消费者。
// 发往轨迹 topic 的消息与无回执的发送（oneway、async）不记录。
func (d *Dispatcher) Interceptor() primitive.Interceptor {
	return func(ctx context.Context, req, reply any, next primitive.Invoker) error {
		begin := time.Now()
		err := next(ctx, req, reply)
		cost := time.Since(begin).Milliseconds()

		switch r := req.(type) {
		case *primitive.Message:
			if result, ok := reply.(*primitive.SendResult); ok && result != nil {
				d.tracePub(r, result, begin, cost, err)
			}
		case []*primitive.MessageExt:
			d.traceSub(r, reply, begin, cost, err)
		}
		return err
	}
}

func (d *Dispatcher) tracePub(msg *primitive.Message, result *primitive.SendResult, begin time.Time, cost int64, err error) {
	if msg == nil || msg.Topic == d.opts.traceTopic {
		return
	}
	bean := TraceBean{
		Topic:       msg.Topic,
		MsgID:       result.MsgID,
		OffsetMsgID: result.OffsetMsgID,
		Tags:        msg.GetTags(),
		Keys:        msg.GetKeys(),
		BodyLength:  len(msg.Body),
		MsgType:     pubMsgType(msg),
		StoreTime:   begin.UnixMilli() + cost/2,
	}
	if result.MessageQueue != nil {
		bean.StoreHost = result.MessageQueue.BrokerName
	}
	d.Append(TraceContext{
		Type:      Pub,
		TimeStamp: time.Now().UnixMilli(),
		RegionID:  result.RegionID,
		GroupName: d.props.GroupID(),
		CostTime:  cost,
		Success:   err == nil && result.Status == primitive.SendOK,
		RequestID: uuid.NewString(),
		Beans:     []TraceBean{bean},
	})
}

func pubMsgType(msg *primitive.Message) int {
	switch {
	case msg.GetProperty(primitive.PropertyTransactionPrepared) == "true":
		return MsgTypeTransHalf
	case msg.GetProperty(primitive.PropertyDelayTimeLevel) != "":
		return MsgTypeDelay
	default:
		return MsgTypeNormal
	}
}

func (d *Dispatcher) traceSub(msgs []*primitive.MessageExt, reply any, begin time.Time, cost int64, err error) {
	beans := make([]TraceBean, 0, len(msgs))
	for _, m := range msgs {
		if m == nil || m.Topic == d.opts.traceTopic {
			continue
		}
		beans = append(beans, TraceBean{
			Topic:      m.Topic,
			MsgID:      m.MsgId,
			Tags:       m.GetTags(),
			Keys:       m.GetKeys(),
			StoreHost:  m.StoreHost,
			StoreTime:  m.StoreTimestamp,
			RetryTimes: int(m.ReconsumeTimes),
			BodyLength: len(m.Body),
		})
	}
	if len(beans) == 0 {
		return
	}

	code := ConsumeCodeSuccess
	if err != nil {
		code = ConsumeCodeException
	} else if holder, ok := reply.(*consumer.ConsumeResultHolder); ok && holder.ConsumeResult != consumer.ConsumeSuccess {
		code = ConsumeCodeFailed
	}
	group := d.props.GroupID()
	requestID := uuid.NewString()
	d.Append(TraceContext{
		Type:      SubBefore,
		TimeStamp: begin.UnixMilli(),
		GroupName: group,
		RequestID: requestID,
		Beans:     beans,
	})
	d.Append(TraceContext{
		Type:        SubAfter,
		TimeStamp:   time.Now().UnixMilli(),
		GroupName:   group,
		CostTime:    cost,
		Success:     code == ConsumeCodeSuccess,
		RequestID:   requestID,
		ContextCode: code,
		Beans:       beans,
	})
}
