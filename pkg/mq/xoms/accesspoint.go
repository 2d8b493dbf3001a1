package xoms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apache/rocketmq-client-go/v2/primitive"

	"github.com/omeyang/xons/pkg/mq/xons"
	"github.com/omeyang/xons/pkg/observability/xlog"
	"github.com/omeyang/xons/pkg/observability/xmetrics"
)

const componentName = "xoms"

// KeyAccessPoints 接入点属性：NameServer 地址列表。
const KeyAccessPoints = "ACCESS_POINTS"

// Option 接入点配置选项。
type Option func(*MessagingAccessPoint)

// WithFactory 替换 ONS 工厂，默认 xons.NewFactory()。
func WithFactory(f xons.Factory) Option {
	return func(ap *MessagingAccessPoint) {
		if f != nil {
			ap.factory = f
		}
	}
}

// WithLogger nil 时使用 xlog.Default()
func WithLogger(logger xlog.Logger) Option {
	return func(ap *MessagingAccessPoint) {
		if logger != nil {
			ap.logger = logger
		}
	}
}

// WithObserver 事务回查的观测
func WithObserver(observer xmetrics.Observer) Option {
	return func(ap *MessagingAccessPoint) {
		if observer != nil {
			ap.observer = observer
		}
	}
}

// MessagingAccessPoint 属性驱动的客户端工厂。构造后只读，可并发使用。
type MessagingAccessPoint struct {
	attributes xons.Properties
	factory    xons.Factory
	logger     xlog.Logger
	observer   xmetrics.Observer
}

// NewMessagingAccessPoint 保存 attributes 副本。
func NewMessagingAccessPoint(attributes map[string]string, opts ...Option) *MessagingAccessPoint {
	ap := &MessagingAccessPoint{
		attributes: xons.Properties(attributes).Clone(),
		observer:   xmetrics.NoopObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ap)
		}
	}
	if ap.logger == nil {
		ap.logger = xlog.Default()
	}
	if ap.factory == nil {
		ap.factory = xons.NewFactory(xons.WithLogger(ap.logger))
	}
	return ap
}

// Version 客户端版本。
func (ap *MessagingAccessPoint) Version() string {
	return xons.Version
}

// Attributes 返回接入点属性副本。
func (ap *MessagingAccessPoint) Attributes() xons.Properties {
	return ap.attributes.Clone()
}

// prepare 复制并归一化属性，缺少 NAMESRV_ADDR 时从 ACCESS_POINTS 注入，显式地址不会被覆盖。
func (ap *MessagingAccessPoint) prepare(op string, props map[string]string) xons.Properties {
	out := xons.Properties(props).Normalize()
	if out[xons.KeyNameSrvAddr] != "" {
		return out
	}
	if addr := ap.attributes[KeyAccessPoints]; addr != "" {
		out[xons.KeyNameSrvAddr] = addr
		ap.logger.Debug(context.Background(), "inject name server from access points",
			xlog.Component(componentName), xlog.Operation(op), xlog.NameServer(addr))
	}
	return out
}

// CreateProducer 创建普通生产者。
func (ap *MessagingAccessPoint) CreateProducer(props map[string]string) (xons.Producer, error) {
	return ap.factory.CreateProducer(ap.prepare("createProducer", props))
}

// CreateConsumer 创建逐条消费的推模式消费者。
func (ap *MessagingAccessPoint) CreateConsumer(props map[string]string) (xons.Consumer, error) {
	return ap.factory.CreateConsumer(ap.prepare("createConsumer", props))
}

// CreateBatchConsumer 创建批量消费者。
func (ap *MessagingAccessPoint) CreateBatchConsumer(props map[string]string) (xons.BatchConsumer, error) {
	return ap.factory.CreateBatchConsumer(ap.prepare("createBatchConsumer", props))
}

// CreateOrderProducer 创建按分区键保序的生产者。
func (ap *MessagingAccessPoint) CreateOrderProducer(props map[string]string) (xons.OrderProducer, error) {
	return ap.factory.CreateOrderProducer(ap.prepare("createOrderProducer", props))
}

// CreateOrderedConsumer 创建顺序消费者。
func (ap *MessagingAccessPoint) CreateOrderedConsumer(props map[string]string) (xons.OrderConsumer, error) {
	return ap.factory.CreateOrderedConsumer(ap.prepare("createOrderedConsumer", props))
}

// CreatePullConsumer 创建拉模式消费者。
func (ap *MessagingAccessPoint) CreatePullConsumer(props map[string]string) (xons.PullConsumer, error) {
	return ap.factory.CreatePullConsumer(ap.prepare("createPullConsumer", props))
}

// CreateTransactionProducer checker 为 nil 时所有回查返回 UnknowState。
func (ap *MessagingAccessPoint) CreateTransactionProducer(props map[string]string, checker xons.LocalTransactionChecker) (xons.TransactionProducer, error) {
	listener := &checkListener{checker: checker, logger: ap.logger, observer: ap.observer}
	return ap.factory.CreateTransactionProducer(ap.prepare("createTransactionProducer", props), listener)
}

// checkListener 把 LocalTransactionChecker 适配为底层回查回调。
type checkListener struct {
	checker  xons.LocalTransactionChecker
	logger   xlog.Logger
	observer xmetrics.Observer
}

func (l *checkListener) CheckLocalTransactionState(ext *primitive.MessageExt) primitive.LocalTransactionState {
	if l.checker == nil || ext == nil {
		return primitive.UnknowState
	}
	// 回查消息的 MsgID 始终取事务 ID，属性缺失时为空
	msg := xons.FromMessageExt(ext)
	msg.MsgID = ext.GetProperty(xons.PropTransactionID)

	ctx, span := xmetrics.Start(context.Background(), l.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "check",
		Kind:      xmetrics.KindInternal,
		Attrs:     []xmetrics.Attr{xmetrics.System(), xmetrics.Topic(msg.Topic), xmetrics.MessageID(msg.MsgID)},
	})
	status := l.check(ctx, msg)
	span.End(xmetrics.Result{Attrs: []xmetrics.Attr{xmetrics.String("xons.transaction.status", status.String())}})

	l.logger.Debug(ctx, "transaction checked",
		xlog.Component(componentName), xlog.Topic(msg.Topic), xlog.MsgID(msg.MsgID),
		slog.String("status", status.String()))
	return status.LocalState()
}

func (l *checkListener) check(ctx context.Context, msg *xons.Message) (status xons.TransactionStatus) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error(ctx, "transaction checker panic",
				xlog.Component(componentName), xlog.MsgID(msg.MsgID), xlog.Err(fmt.Errorf("panic: %v", r)))
			status = xons.TransactionUnknown
		}
	}()
	return l.checker.Check(msg)
}

var _ xons.TransactionCheckListener = (*checkListener)(nil)
