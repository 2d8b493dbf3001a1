package xons

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/omeyang/xons/pkg/observability/xlog"
)

// Variant 底层消费者的实现类别。
type Variant int

const (
	// VariantStandard 只支持 Subscribe/SubscribeSelector
	VariantStandard Variant = iota
	// VariantExtended 支持带持久化标记的扩展订阅
	VariantExtended
)

func (v Variant) String() string {
	if v == VariantExtended {
		return "extended"
	}
	return "standard"
}

// VariantReporter 由消费者可选实现，未实现视为 VariantStandard。
type VariantReporter interface {
	Variant() Variant
}

// NotifySubscriber 扩展订阅能力。
type NotifySubscriber interface {
	SubscribeNotify(topic, expression string, persistence bool, listener MessageListener) error
}

// ============================================================================
// 订阅注册策略
// ============================================================================

// registrar 把一条声明式订阅注册到消费者上，每次启动解析一次。
type registrar interface {
	validate(sub Subscription) error
	register(c Consumer, sub Subscription, listener MessageListener) error
}

type standardRegistrar struct{}

func (standardRegistrar) validate(sub Subscription) error {
	_, err := sub.Selector().native()
	return err
}

func (standardRegistrar) register(c Consumer, sub Subscription, listener MessageListener) error {
	return c.SubscribeSelector(sub.Topic, sub.Selector(), listener)
}

// extendedRegistrar 扩展订阅走 SubscribeNotify，其余走标准路径。
// notifier 为 nil 表示消费者声明了 Extended 却未实现该能力。
type extendedRegistrar struct {
	notifier NotifySubscriber
}

// validate 扩展订阅原样交给 SubscribeNotify，不按选择器类型校验。
func (r extendedRegistrar) validate(sub Subscription) error {
	if sub.Extended {
		return nil
	}
	return standardRegistrar{}.validate(sub)
}

func (r extendedRegistrar) register(c Consumer, sub Subscription, listener MessageListener) error {
	if !sub.Extended {
		return standardRegistrar{}.register(c, sub, listener)
	}
	if r.notifier == nil {
		return compatibilityError("subscribeNotify", fmt.Errorf("%w: %T", ErrCapabilityMissing, c))
	}
	return r.invoke(sub, listener)
}

func (r extendedRegistrar) invoke(sub Subscription, listener MessageListener) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = compatibilityError("subscribeNotify", fmt.Errorf("%w: panic: %v", ErrCapabilityInvoke, p))
		}
	}()
	if err := r.notifier.SubscribeNotify(sub.Topic, sub.Expression, sub.Persistence, listener); err != nil {
		return compatibilityError("subscribeNotify", fmt.Errorf("%w: %w", ErrCapabilityInvoke, err))
	}
	return nil
}

func resolveRegistrar(c Consumer) registrar {
	reporter, ok := c.(VariantReporter)
	if !ok || reporter.Variant() != VariantExtended {
		return standardRegistrar{}
	}
	notifier, _ := c.(NotifySubscriber)
	return extendedRegistrar{notifier: notifier}
}

// ============================================================================
// ConsumerBean
// ============================================================================

// ConsumerBean 声明式消费者：先设置属性与订阅表，Start 时创建消费者、
// 注册全部订阅，最后启动。
//
// 订阅按 Topic、Expression 排序后逐条注册，全部成功才会启动底层消费者；
// 任一失败时关闭已创建的消费者并返回错误，bean 保持未启动，可修正后重试。
type ConsumerBean struct {
	factory Factory
	opts    *options

	mu       sync.Mutex
	props    Properties
	table    map[Subscription]MessageListener
	consumer Consumer
}

// NewConsumerBean 创建 ConsumerBean。f 为 nil 时使用与 NewFactory(opts...) 相同的默认工厂。
func NewConsumerBean(f Factory, opts ...Option) *ConsumerBean {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if f == nil {
		f = &factory{opts: o}
	}
	return &ConsumerBean{factory: f, opts: o}
}

// SetProperties 保存 props 副本。
func (b *ConsumerBean) SetProperties(props Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if props == nil {
		b.props = nil
		return
	}
	b.props = props.Clone()
}

// Properties 返回已设置属性的副本。
func (b *ConsumerBean) Properties() Properties {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.props == nil {
		return nil
	}
	return b.props.Clone()
}

// SetSubscriptionTable 保存订阅表副本。
func (b *ConsumerBean) SetSubscriptionTable(table map[Subscription]MessageListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.table = maps.Clone(table)
}

// Start 已启动时直接返回。
func (b *ConsumerBean) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.props == nil {
		return configError("start", ErrPropertiesNotSet)
	}
	if b.table == nil {
		return configError("start", ErrSubscriptionTableNotSet)
	}
	if b.consumer != nil {
		if b.consumer.IsClosed() {
			return ErrClosed
		}
		return nil
	}

	subs, err := b.sortedSubscriptions()
	if err != nil {
		return err
	}

	c, err := b.factory.CreateConsumer(b.props)
	if err != nil {
		return err
	}
	reg := resolveRegistrar(c)
	for _, sub := range subs {
		if err := reg.validate(sub); err != nil {
			b.abandon(c, sub.Topic, err)
			return err
		}
	}
	for _, sub := range subs {
		if err := reg.register(c, sub, b.table[sub]); err != nil {
			b.abandon(c, sub.Topic, err)
			return err
		}
	}
	if err := c.Start(); err != nil {
		b.abandon(c, "", err)
		return err
	}
	b.consumer = c
	return nil
}

// sortedSubscriptions 在创建消费者前完成校验，失败时不会有任何注册发生。
// 扩展订阅的选择器类型取决于消费者能力，解析出注册策略后再校验。
func (b *ConsumerBean) sortedSubscriptions() ([]Subscription, error) {
	subs := slices.Collect(maps.Keys(b.table))
	for _, sub := range subs {
		if b.table[sub] == nil {
			return nil, validationError("start", fmt.Errorf("%w: topic %s", ErrNilHandler, sub.Topic))
		}
		if sub.Extended {
			continue
		}
		if _, err := sub.Selector().native(); err != nil {
			return nil, err
		}
	}
	slices.SortFunc(subs, func(x, y Subscription) int {
		return cmp.Or(
			cmp.Compare(x.Topic, y.Topic),
			cmp.Compare(x.Expression, y.Expression),
			cmp.Compare(x.Type, y.Type),
		)
	})
	return subs, nil
}

func (b *ConsumerBean) abandon(c Consumer, topic string, cause error) {
	ctx := context.Background()
	b.opts.log().Error(ctx, "consumer bean start failed",
		xlog.Component(componentName), xlog.Topic(topic), xlog.Err(cause))
	if err := c.Shutdown(); err != nil {
		b.opts.log().Warn(ctx, "shutdown abandoned consumer failed",
			xlog.Component(componentName), xlog.Err(err))
	}
}

func (b *ConsumerBean) started() Consumer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.consumer
}

// UpdateCredential 未启动时返回 ErrNotStarted。
func (b *ConsumerBean) UpdateCredential(props Properties) error {
	c := b.started()
	if c == nil {
		return fmt.Errorf("%w: updateCredential must be called after consumerBean started", ErrNotStarted)
	}
	return c.UpdateCredential(props)
}

// Shutdown 未启动时为空操作。
func (b *ConsumerBean) Shutdown() error {
	c := b.started()
	if c == nil {
		return nil
	}
	return c.Shutdown()
}

// Subscribe 启动后按 tag 表达式追加订阅，委托给底层消费者。
func (b *ConsumerBean) Subscribe(topic, subExpression string, listener MessageListener) error {
	c := b.started()
	if c == nil {
		return fmt.Errorf("%w: subscribe must be called after consumerBean started", ErrNotStarted)
	}
	return c.Subscribe(topic, subExpression, listener)
}

// SubscribeSelector 启动后按选择器追加订阅。
func (b *ConsumerBean) SubscribeSelector(topic string, selector MessageSelector, listener MessageListener) error {
	c := b.started()
	if c == nil {
		return fmt.Errorf("%w: subscribe must be called after consumerBean started", ErrNotStarted)
	}
	return c.SubscribeSelector(topic, selector, listener)
}

// Unsubscribe 启动后取消 topic 的订阅。
func (b *ConsumerBean) Unsubscribe(topic string) error {
	c := b.started()
	if c == nil {
		return fmt.Errorf("%w: unsubscribe must be called after consumerBean started", ErrNotStarted)
	}
	return c.Unsubscribe(topic)
}

// IsStarted 底层消费者已启动且未关闭。
func (b *ConsumerBean) IsStarted() bool {
	c := b.started()
	return c != nil && c.IsStarted()
}

// IsClosed 底层消费者已关闭，未启动时为 false。
func (b *ConsumerBean) IsClosed() bool {
	c := b.started()
	return c != nil && c.IsClosed()
}

var (
	_ Consumer  = (*ConsumerBean)(nil)
	_ registrar = standardRegistrar{}
	_ registrar = extendedRegistrar{}
)
