package xons

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// 测试替身
// =============================================================================

type fakeConsumer struct {
	calls    []string
	started  bool
	closed   bool
	startErr error
}

func (c *fakeConsumer) Start() error {
	if c.startErr != nil {
		return c.startErr
	}
	c.started = true
	return nil
}

func (c *fakeConsumer) Shutdown() error {
	c.closed = true
	return nil
}

func (c *fakeConsumer) IsStarted() bool { return c.started && !c.closed }
func (c *fakeConsumer) IsClosed() bool { return c.closed }

func (c *fakeConsumer) UpdateCredential(props Properties) error {
	c.calls = append(c.calls, "credential:"+props[KeyAccessKey])
	return nil
}

func (c *fakeConsumer) Subscribe(topic, subExpression string, listener MessageListener) error {
	return c.SubscribeSelector(topic, ByTag(subExpression), listener)
}

func (c *fakeConsumer) SubscribeSelector(topic string, selector MessageSelector, _ MessageListener) error {
	if _, err := selector.native(); err != nil {
		return err
	}
	typ := selector.Type
	if typ == "" {
		typ = ExpressionTag
	}
	c.calls = append(c.calls, fmt.Sprintf("subscribe:%s:%s:%s", topic, typ, selector.Expression))
	return nil
}

func (c *fakeConsumer) Unsubscribe(topic string) error {
	c.calls = append(c.calls, "unsubscribe:"+topic)
	return nil
}

// extendedWithoutCapability 声明 Extended 但没有 SubscribeNotify。
type extendedWithoutCapability struct {
	*fakeConsumer
}

func (extendedWithoutCapability) Variant() Variant { return VariantExtended }

type extendedConsumer struct {
	*fakeConsumer
	variant   Variant
	notifyErr error
	panicky   bool
}

func (c *extendedConsumer) Variant() Variant { return c.variant }

func (c *extendedConsumer) SubscribeNotify(topic, expression string, persistence bool, _ MessageListener) error {
	if c.panicky {
		panic("notify exploded")
	}
	if c.notifyErr != nil {
		return c.notifyErr
	}
	c.calls = append(c.calls, fmt.Sprintf("notify:%s:%s:%t", topic, expression, persistence))
	return nil
}

type fakeFactory struct {
	Factory
	consumer Consumer
	created  int
}

func (f *fakeFactory) CreateConsumer(Properties) (Consumer, error) {
	f.created++
	return f.consumer, nil
}

var noop = MessageListenerFunc(func(context.Context, *Message) Action { return CommitMessage })

func tableOf(subs ...Subscription) map[Subscription]MessageListener {
	table := make(map[Subscription]MessageListener, len(subs))
	for _, sub := range subs {
		table[sub] = noop
	}
	return table
}

func newBean(t *testing.T, c Consumer) (*ConsumerBean, *fakeFactory) {
	t.Helper()
	ff := &fakeFactory{consumer: c}
	b := NewConsumerBean(ff, WithLogger(testLogger(t)))
	b.SetProperties(testProps())
	return b, ff
}

// =============================================================================
// Start 前置条件
// =============================================================================

func TestConsumerBean_StartRequiresConfiguration(t *testing.T) {
	ff := &fakeFactory{consumer: &fakeConsumer{}}
	b := NewConsumerBean(ff, WithLogger(testLogger(t)))

	err := b.Start()
	assert.ErrorIs(t, err, ErrPropertiesNotSet)
	assert.True(t, IsKind(err, KindConfiguration))
	assert.Contains(t, err.Error(), "properties not set")

	b.SetProperties(testProps())
	err = b.Start()
	assert.ErrorIs(t, err, ErrSubscriptionTableNotSet)
	assert.Contains(t, err.Error(), "subscriptionTable not set")
	assert.Zero(t, ff.created)
}

func TestConsumerBean_BeforeStart(t *testing.T) {
	b, _ := newBean(t, &fakeConsumer{})

	err := b.Subscribe("T", "*", noop)
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Contains(t, err.Error(), "subscribe must be called after consumerBean started")

	err = b.SubscribeSelector("T", BySQL("a > 1"), noop)
	assert.ErrorIs(t, err, ErrNotStarted)

	err = b.Unsubscribe("T")
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Contains(t, err.Error(), "unsubscribe must be called after consumerBean started")

	assert.ErrorIs(t, b.UpdateCredential(testProps()), ErrNotStarted)
	assert.NoError(t, b.Shutdown())
	assert.False(t, b.IsStarted())
	assert.False(t, b.IsClosed())
}

// =============================================================================
// 标准路径
// =============================================================================

func TestConsumerBean_StandardPath(t *testing.T) {
	fc := &fakeConsumer{}
	b, _ := newBean(t, fc)
	b.SetSubscriptionTable(tableOf(
		Subscription{Topic: "A", Expression: "TagA"},
		NewSubscription("B", "TagB || TagC"),
		Subscription{Topic: "C", Expression: "a > 1", Type: ExpressionSQL92},
	))

	require.NoError(t, b.Start())
	assert.Equal(t, []string{
		"subscribe:A:TAG:TagA",
		"subscribe:B:TAG:TagB || TagC",
		"subscribe:C:SQL92:a > 1",
	}, fc.calls)
	assert.True(t, b.IsStarted())

	// 重复启动为空操作
	require.NoError(t, b.Start())
	assert.Len(t, fc.calls, 3)
}

func TestConsumerBean_UnknownExpressionTypeBeforeCreate(t *testing.T) {
	fc := &fakeConsumer{}
	b, ff := newBean(t, fc)
	b.SetSubscriptionTable(tableOf(
		NewSubscription("A", "*"),
		Subscription{Topic: "B", Expression: "x", Type: "XPATH"},
	))

	err := b.Start()
	assert.ErrorIs(t, err, ErrUnknownExpressionType)
	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "Expression type XPATH is unknown!")
	assert.Zero(t, ff.created)
	assert.Empty(t, fc.calls)
	assert.False(t, fc.started)
	assert.False(t, b.IsStarted())
}

func TestConsumerBean_NilListener(t *testing.T) {
	b, ff := newBean(t, &fakeConsumer{})
	b.SetSubscriptionTable(map[Subscription]MessageListener{NewSubscription("A", "*"): nil})

	assert.ErrorIs(t, b.Start(), ErrNilHandler)
	assert.Zero(t, ff.created)
}

func TestConsumerBean_StandardVariantIgnoresExtendedFields(t *testing.T) {
	ec := &extendedConsumer{fakeConsumer: &fakeConsumer{}, variant: VariantStandard}
	b, _ := newBean(t, ec)
	b.SetSubscriptionTable(tableOf(NewSubscriptionExt("A", "TagA", true)))

	require.NoError(t, b.Start())
	assert.Equal(t, []string{"subscribe:A:TAG:TagA"}, ec.calls)
}

// =============================================================================
// 扩展路径
// =============================================================================

func TestConsumerBean_ExtendedPath(t *testing.T) {
	ec := &extendedConsumer{fakeConsumer: &fakeConsumer{}, variant: VariantExtended}
	b, _ := newBean(t, ec)
	b.SetSubscriptionTable(tableOf(
		NewSubscriptionExt("A", "TagA", true),
		NewSubscriptionExt("B", "TagB", false),
		NewSubscription("C", "*"),
	))

	require.NoError(t, b.Start())
	assert.Equal(t, []string{
		"notify:A:TagA:true",
		"notify:B:TagB:false",
		"subscribe:C:TAG:*",
	}, ec.calls)
	assert.True(t, ec.started)
}

func TestConsumerBean_ExtendedSkipsSelectorValidation(t *testing.T) {
	ec := &extendedConsumer{fakeConsumer: &fakeConsumer{}, variant: VariantExtended}
	b, _ := newBean(t, ec)
	sub := NewSubscriptionExt("A", "x > 1", true)
	sub.Type = "XPATH"
	b.SetSubscriptionTable(tableOf(sub))

	require.NoError(t, b.Start())
	assert.Equal(t, []string{"notify:A:x > 1:true"}, ec.calls)
	assert.True(t, ec.started)
}

func TestConsumerBean_ExtendedSubscriptionOnStandardConsumer(t *testing.T) {
	ec := &extendedConsumer{fakeConsumer: &fakeConsumer{}, variant: VariantStandard}
	b, ff := newBean(t, ec)
	sub := NewSubscriptionExt("A", "x > 1", true)
	sub.Type = "XPATH"
	b.SetSubscriptionTable(tableOf(sub, NewSubscription("B", "*")))

	err := b.Start()
	assert.ErrorIs(t, err, ErrUnknownExpressionType)
	assert.Equal(t, 1, ff.created)
	assert.Empty(t, ec.calls)
	assert.False(t, ec.started)
	assert.True(t, ec.closed)
	assert.False(t, b.IsStarted())
}

func TestConsumerBean_ExtendedWithoutCapability(t *testing.T) {
	fc := &fakeConsumer{}
	b, _ := newBean(t, extendedWithoutCapability{fc})
	b.SetSubscriptionTable(tableOf(NewSubscriptionExt("A", "TagA", true)))

	err := b.Start()
	assert.ErrorIs(t, err, ErrCapabilityMissing)
	assert.True(t, IsKind(err, KindCompatibility))
	assert.False(t, fc.started)
	assert.True(t, fc.closed)
	assert.False(t, b.IsStarted())
}

func TestConsumerBean_CapabilityFailureWrapped(t *testing.T) {
	cause := errors.New("notify rejected")
	tests := []struct {
		name     string
		consumer *extendedConsumer
	}{
		{"error", &extendedConsumer{fakeConsumer: &fakeConsumer{}, variant: VariantExtended, notifyErr: cause}},
		{"panic", &extendedConsumer{fakeConsumer: &fakeConsumer{}, variant: VariantExtended, panicky: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newBean(t, tt.consumer)
			b.SetSubscriptionTable(tableOf(NewSubscriptionExt("A", "TagA", true)))

			err := b.Start()
			assert.ErrorIs(t, err, ErrCapabilityInvoke)
			assert.True(t, IsKind(err, KindCompatibility))
			if tt.consumer.notifyErr != nil {
				assert.ErrorIs(t, err, cause)
			} else {
				assert.Contains(t, err.Error(), "notify exploded")
			}
			assert.False(t, tt.consumer.started)
			assert.True(t, tt.consumer.closed)
		})
	}
}

// =============================================================================
// 启动后
// =============================================================================

func TestConsumerBean_AfterStartDelegates(t *testing.T) {
	fc := &fakeConsumer{}
	b, _ := newBean(t, fc)
	b.SetSubscriptionTable(map[Subscription]MessageListener{})
	require.NoError(t, b.Start())

	require.NoError(t, b.Subscribe("T", "TagA", noop))
	require.NoError(t, b.SubscribeSelector("S", BySQL("a > 1"), noop))
	require.NoError(t, b.Unsubscribe("T"))
	require.NoError(t, b.UpdateCredential(Properties{KeyAccessKey: "ak2"}))
	assert.Equal(t, []string{
		"subscribe:T:TAG:TagA",
		"subscribe:S:SQL92:a > 1",
		"unsubscribe:T",
		"credential:ak2",
	}, fc.calls)

	require.NoError(t, b.Shutdown())
	assert.True(t, b.IsClosed())
	assert.False(t, b.IsStarted())
	assert.ErrorIs(t, b.Start(), ErrClosed)
}

func TestConsumerBean_StartFailureAllowsRetry(t *testing.T) {
	fc := &fakeConsumer{startErr: errors.New("nameserver unreachable")}
	b, ff := newBean(t, fc)
	b.SetSubscriptionTable(tableOf(NewSubscription("A", "*")))

	assert.EqualError(t, b.Start(), "nameserver unreachable")
	assert.False(t, b.IsStarted())

	fc.startErr, fc.closed, fc.calls = nil, false, nil
	require.NoError(t, b.Start())
	assert.Equal(t, 2, ff.created)
	assert.True(t, b.IsStarted())
}

func TestConsumerBean_CopiesInputs(t *testing.T) {
	fc := &fakeConsumer{}
	b, _ := newBean(t, fc)
	props := testProps()
	b.SetProperties(props)
	props[KeyGroupID] = "mutated"
	assert.Equal(t, "GID_test", b.Properties()[KeyGroupID])

	table := tableOf(NewSubscription("A", "*"))
	b.SetSubscriptionTable(table)
	table[NewSubscription("B", "*")] = noop
	require.NoError(t, b.Start())
	assert.Equal(t, []string{"subscribe:A:TAG:*"}, fc.calls)
}
