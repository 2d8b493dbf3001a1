package xons

import (
	"context"

	"github.com/apache/rocketmq-client-go/v2/primitive"

	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/pkg/observability/xmetrics"
)

// producer 普通与顺序生产者共用实现。
type producer struct {
	*holder[rmq.Producer]
}

func newProducer(op string, cfg rmq.ClientConfig, o *options) (*producer, error) {
	h, err := newHolder(op, cfg, o, o.clients.NewProducer)
	if err != nil {
		return nil, err
	}
	return &producer{holder: h}, nil
}

func (p *producer) UpdateCredential(props Properties) error {
	return p.updateCredential(props, nil)
}

func (p *producer) Send(ctx context.Context, msg *Message) (*SendResult, error) {
	return p.sendSync(ctx, "send", msg)
}

func (p *producer) SendOneway(ctx context.Context, msg *Message) (err error) {
	if msg == nil {
		return ErrNilMessage
	}
	client, err := p.running()
	if err != nil {
		return err
	}
	ctx, span := p.startSpan(ctx, "send_oneway", msg)
	defer func() {
		span.End(xmetrics.Result{Err: err})
	}()
	return client.SendOneWay(ctx, p.opts.outgoing(ctx, msg))
}

// SendAsync 回调中的 ctx 为发送时的 ctx，span 在回调返回后结束。
func (p *producer) SendAsync(ctx context.Context, msg *Message, cb SendCallback) error {
	if msg == nil {
		return ErrNilMessage
	}
	if cb == nil {
		return ErrNilHandler
	}
	client, err := p.running()
	if err != nil {
		return err
	}
	ctx, span := p.startSpan(ctx, "send_async", msg)
	err = client.SendAsync(ctx, func(_ context.Context, res *primitive.SendResult, sendErr error) {
		if sendErr != nil {
			span.End(xmetrics.Result{Err: sendErr})
			cb.OnException(&OnExceptionContext{Topic: msg.Topic, MessageID: msg.MsgID, Err: sendErr})
			return
		}
		msg.MsgID = res.MsgID
		span.End(xmetrics.Result{Attrs: []xmetrics.Attr{xmetrics.MessageID(res.MsgID)}})
		cb.OnSuccess(&SendResult{Topic: msg.Topic, MessageID: res.MsgID})
	}, p.opts.outgoing(ctx, msg))
	if err != nil {
		span.End(xmetrics.Result{Err: err})
		return err
	}
	return nil
}

func (p *producer) sendSync(ctx context.Context, op string, msg *Message) (result *SendResult, err error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	client, err := p.running()
	if err != nil {
		return nil, err
	}
	ctx, span := p.startSpan(ctx, op, msg)
	defer func() {
		var attrs []xmetrics.Attr
		if result != nil {
			attrs = append(attrs, xmetrics.MessageID(result.MessageID))
		}
		span.End(xmetrics.Result{Err: err, Attrs: attrs})
	}()

	res, err := client.SendSync(ctx, p.opts.outgoing(ctx, msg))
	if err != nil {
		return nil, err
	}
	msg.MsgID = res.MsgID
	return &SendResult{Topic: msg.Topic, MessageID: res.MsgID}, nil
}

func (p *producer) startSpan(ctx context.Context, op string, msg *Message) (context.Context, xmetrics.Span) {
	return xmetrics.Start(ctx, p.opts.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: op,
		Kind:      xmetrics.KindProducer,
		Attrs:     messageAttrs(msg, p.group()),
	})
}

// orderProducer 使用哈希队列选择器，ShardingKey 决定队列。
type orderProducer struct {
	p *producer
}

func (o *orderProducer) Start() error { return o.p.Start() }
func (o *orderProducer) Shutdown() error { return o.p.Shutdown() }
func (o *orderProducer) IsStarted() bool { return o.p.IsStarted() }
func (o *orderProducer) IsClosed() bool { return o.p.IsClosed() }
func (o *orderProducer) UpdateCredential(props Properties) error { return o.p.UpdateCredential(props) }

func (o *orderProducer) Send(ctx context.Context, msg *Message, shardingKey string) (*SendResult, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	if shardingKey != "" {
		msg.ShardingKey = shardingKey
	}
	return o.p.sendSync(ctx, "send_order", msg)
}

// outgoing 转换消息并把链路上下文写入用户属性。
func (o *options) outgoing(ctx context.Context, msg *Message) *primitive.Message {
	pm := toNative(msg)
	carrier := make(map[string]string)
	o.tracer.Inject(ctx, carrier)
	for k, v := range carrier {
		pm.WithProperty(k, v)
	}
	return pm
}

func messageAttrs(msg *Message, group string) []xmetrics.Attr {
	attrs := []xmetrics.Attr{xmetrics.System(), xmetrics.Topic(msg.Topic), xmetrics.Group(group)}
	if msg.Tag != "" {
		attrs = append(attrs, xmetrics.Tag(msg.Tag))
	}
	if msg.MsgID != "" {
		attrs = append(attrs, xmetrics.MessageID(msg.MsgID))
	}
	return attrs
}

var (
	_ Producer      = (*producer)(nil)
	_ OrderProducer = (*orderProducer)(nil)
)
