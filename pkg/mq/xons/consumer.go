package xons

import (
	"context"
	"fmt"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/pkg/context/xctx"
	"github.com/omeyang/xons/pkg/observability/xlog"
	"github.com/omeyang/xons/pkg/observability/xmetrics"
)

// pushSubscription 已生效的订阅，凭证轮换时回放到新客户端。
type pushSubscription struct {
	selector consumer.MessageSelector
	fn       rmq.ConsumeFunc
}

// pushConsumer 三种推模式消费者的公共部分。
type pushConsumer struct {
	*holder[rmq.PushConsumer]
	subs *xsync.Map[string, pushSubscription]
}

func newPushConsumer(op string, cfg rmq.ClientConfig, o *options) (*pushConsumer, error) {
	h, err := newHolder(op, cfg, o, o.clients.NewPushConsumer)
	if err != nil {
		return nil, err
	}
	return &pushConsumer{holder: h, subs: xsync.NewMap[string, pushSubscription]()}, nil
}

func (c *pushConsumer) subscribe(topic string, selector MessageSelector, fn rmq.ConsumeFunc) error {
	if topic == "" {
		return validationError("subscribe", ErrEmptyTopic)
	}
	sel, err := selector.native()
	if err != nil {
		return err
	}
	return c.withClient(func(client rmq.PushConsumer) error {
		if err := client.Subscribe(topic, sel, fn); err != nil {
			return err
		}
		c.subs.Store(topic, pushSubscription{selector: sel, fn: fn})
		return nil
	})
}

func (c *pushConsumer) Unsubscribe(topic string) error {
	return c.withClient(func(client rmq.PushConsumer) error {
		if err := client.Unsubscribe(topic); err != nil {
			return err
		}
		c.subs.Delete(topic)
		return nil
	})
}

func (c *pushConsumer) UpdateCredential(props Properties) error {
	return c.updateCredential(props, c.replay)
}

func (c *pushConsumer) replay(next rmq.PushConsumer) error {
	var err error
	c.subs.Range(func(topic string, s pushSubscription) bool {
		err = next.Subscribe(topic, s.selector, s.fn)
		return err == nil
	})
	return err
}

// incoming 转换消息，还原上游链路并注入消息身份。
func (c *pushConsumer) incoming(ctx context.Context, ext *primitive.MessageExt, op string) (context.Context, *Message, xmetrics.Span) {
	msg := fromNativeExt(ext)
	group := c.group()
	ctx = c.opts.tracer.Extract(ctx, msg.userProps)
	if mctx, err := xctx.WithMessage(ctx, xctx.MessageInfo{
		Topic:          msg.Topic,
		Tag:            msg.Tag,
		MsgID:          msg.MsgID,
		Group:          group,
		ReconsumeTimes: msg.ReconsumeTimes,
	}); err == nil {
		ctx = mctx
	}
	ctx, span := xmetrics.Start(ctx, c.opts.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: op,
		Kind:      xmetrics.KindConsumer,
		Attrs:     messageAttrs(msg, group),
	})
	return ctx, msg, span
}

func (c *pushConsumer) recovered(ctx context.Context, topic string, r any) {
	c.opts.log().Error(ctx, "message listener panic",
		xlog.Component(componentName), xlog.Topic(topic), xlog.Err(fmt.Errorf("panic: %v", r)))
}

func (c *pushConsumer) consumeOne(ctx context.Context, ext *primitive.MessageExt, l MessageListener) (action Action) {
	ctx, msg, span := c.incoming(ctx, ext, "consume")
	defer func() {
		if r := recover(); r != nil {
			c.recovered(ctx, msg.Topic, r)
			action = ReconsumeLater
		}
		span.End(consumeResult(action == CommitMessage, action.String()))
	}()
	return l.Consume(ctx, msg)
}

func (c *pushConsumer) consumeOrdered(ctx context.Context, ext *primitive.MessageExt, l MessageOrderListener) (action OrderAction) {
	ctx, msg, span := c.incoming(ctx, ext, "consume_order")
	defer func() {
		if r := recover(); r != nil {
			c.recovered(ctx, msg.Topic, r)
			action = OrderSuspend
		}
		span.End(consumeResult(action == OrderSuccess, action.String()))
	}()
	return l.Consume(ctx, msg)
}

func (c *pushConsumer) consumeBatch(ctx context.Context, exts []*primitive.MessageExt, l BatchMessageListener) (action Action) {
	if len(exts) == 0 {
		return CommitMessage
	}
	msgs := make([]*Message, 0, len(exts))
	for _, ext := range exts {
		msgs = append(msgs, fromNativeExt(ext))
	}
	first := msgs[0]
	ctx = c.opts.tracer.Extract(ctx, first.userProps)
	ctx, span := xmetrics.Start(ctx, c.opts.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "consume_batch",
		Kind:      xmetrics.KindConsumer,
		Attrs: []xmetrics.Attr{
			xmetrics.System(), xmetrics.Topic(first.Topic),
			xmetrics.Group(c.group()), xmetrics.BatchCount(len(msgs)),
		},
	})
	defer func() {
		if r := recover(); r != nil {
			c.recovered(ctx, first.Topic, r)
			action = ReconsumeLater
		}
		span.End(consumeResult(action == CommitMessage, action.String()))
	}()
	return l.Consume(ctx, msgs)
}

func consumeResult(ok bool, action string) xmetrics.Result {
	attrs := []xmetrics.Attr{xmetrics.String("xons.consume.action", action)}
	if ok {
		return xmetrics.Result{Attrs: attrs}
	}
	return xmetrics.Result{Status: xmetrics.StatusError, Attrs: attrs}
}

// ============================================================================
// 普通消费者
// ============================================================================

type messageConsumer struct {
	*pushConsumer
}

func (c *messageConsumer) Subscribe(topic, subExpression string, listener MessageListener) error {
	return c.SubscribeSelector(topic, ByTag(subExpression), listener)
}

// SubscribeSelector 一次回调中的多条消息逐条交给 listener，任一条要求重投则整批重投。
func (c *messageConsumer) SubscribeSelector(topic string, selector MessageSelector, listener MessageListener) error {
	if listener == nil {
		return ErrNilHandler
	}
	return c.subscribe(topic, selector, func(ctx context.Context, exts ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
		for _, ext := range exts {
			if c.consumeOne(ctx, ext, listener) != CommitMessage {
				return consumer.ConsumeRetryLater, nil
			}
		}
		return consumer.ConsumeSuccess, nil
	})
}

// ============================================================================
// 批量消费者
// ============================================================================

type batchConsumer struct {
	*pushConsumer
}

func (c *batchConsumer) Subscribe(topic, subExpression string, listener BatchMessageListener) error {
	if listener == nil {
		return ErrNilHandler
	}
	return c.subscribe(topic, ByTag(subExpression), func(ctx context.Context, exts ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
		if c.consumeBatch(ctx, exts, listener) != CommitMessage {
			return consumer.ConsumeRetryLater, nil
		}
		return consumer.ConsumeSuccess, nil
	})
}

// ============================================================================
// 顺序消费者
// ============================================================================

type orderConsumer struct {
	*pushConsumer
}

func (c *orderConsumer) Subscribe(topic, subExpression string, listener MessageOrderListener) error {
	return c.SubscribeSelector(topic, ByTag(subExpression), listener)
}

func (c *orderConsumer) SubscribeSelector(topic string, selector MessageSelector, listener MessageOrderListener) error {
	if listener == nil {
		return ErrNilHandler
	}
	return c.subscribe(topic, selector, func(ctx context.Context, exts ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
		for _, ext := range exts {
			if c.consumeOrdered(ctx, ext, listener) != OrderSuccess {
				return consumer.SuspendCurrentQueueAMoment, nil
			}
		}
		return consumer.ConsumeSuccess, nil
	})
}

var (
	_ Consumer      = (*messageConsumer)(nil)
	_ BatchConsumer = (*batchConsumer)(nil)
	_ OrderConsumer = (*orderConsumer)(nil)
)
