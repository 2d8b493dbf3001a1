package xons

import (
	"context"
	"time"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/pkg/observability/xmetrics"
)

// DefaultPollTimeout 未配置 PollTimeoutMillis 时 Poll 的等待时长。
const DefaultPollTimeout = 5 * time.Second

type pullConsumer struct {
	*holder[rmq.PullConsumer]
	subs        *xsync.Map[string, consumer.MessageSelector]
	pollTimeout time.Duration
}

func newPullConsumer(cfg rmq.ClientConfig, pollTimeout time.Duration, o *options) (*pullConsumer, error) {
	h, err := newHolder("pull_consumer", cfg, o, o.clients.NewPullConsumer)
	if err != nil {
		return nil, err
	}
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return &pullConsumer{
		holder:      h,
		subs:        xsync.NewMap[string, consumer.MessageSelector](),
		pollTimeout: pollTimeout,
	}, nil
}

func (c *pullConsumer) Subscribe(topic string, selector MessageSelector) error {
	if topic == "" {
		return validationError("subscribe", ErrEmptyTopic)
	}
	sel, err := selector.native()
	if err != nil {
		return err
	}
	return c.withClient(func(client rmq.PullConsumer) error {
		if err := client.Subscribe(topic, sel); err != nil {
			return err
		}
		c.subs.Store(topic, sel)
		return nil
	})
}

func (c *pullConsumer) Unsubscribe(topic string) error {
	return c.withClient(func(client rmq.PullConsumer) error {
		if err := client.Unsubscribe(topic); err != nil {
			return err
		}
		c.subs.Delete(topic)
		return nil
	})
}

func (c *pullConsumer) UpdateCredential(props Properties) error {
	return c.updateCredential(props, func(next rmq.PullConsumer) error {
		var err error
		c.subs.Range(func(topic string, sel consumer.MessageSelector) bool {
			err = next.Subscribe(topic, sel)
			return err == nil
		})
		return err
	})
}

// Poll 拉取到的整批消息在返回前确认为消费成功。
func (c *pullConsumer) Poll(ctx context.Context, timeout time.Duration) (msgs []*Message, err error) {
	client, err := c.running()
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = c.pollTimeout
	}
	ctx, span := xmetrics.Start(ctx, c.opts.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "poll",
		Kind:      xmetrics.KindConsumer,
		Attrs:     []xmetrics.Attr{xmetrics.System(), xmetrics.Group(c.group())},
	})
	defer func() {
		span.End(xmetrics.Result{Err: err, Attrs: []xmetrics.Attr{xmetrics.BatchCount(len(msgs))}})
	}()

	cr, err := client.Poll(ctx, timeout)
	if err != nil {
		return nil, err
	}
	exts := cr.GetMsgList()
	msgs = make([]*Message, 0, len(exts))
	for _, ext := range exts {
		msgs = append(msgs, fromNativeExt(ext))
	}
	client.ACK(ctx, cr, consumer.ConsumeSuccess)
	return msgs, nil
}

var _ PullConsumer = (*pullConsumer)(nil)
