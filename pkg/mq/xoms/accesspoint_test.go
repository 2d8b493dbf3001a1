package xoms

import (
	"io"
	"testing"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xons/pkg/mq/xons"
	"github.com/omeyang/xons/pkg/observability/xlog"
)

// recordingFactory 记录每个构造方法收到的属性。
type recordingFactory struct {
	calls    map[string]xons.Properties
	listener xons.TransactionCheckListener
}

func newRecordingFactory() *recordingFactory {
	return &recordingFactory{calls: make(map[string]xons.Properties)}
}

func (f *recordingFactory) CreateProducer(p xons.Properties) (xons.Producer, error) {
	f.calls["producer"] = p
	return nil, nil
}

func (f *recordingFactory) CreateConsumer(p xons.Properties) (xons.Consumer, error) {
	f.calls["consumer"] = p
	return nil, nil
}

func (f *recordingFactory) CreateBatchConsumer(p xons.Properties) (xons.BatchConsumer, error) {
	f.calls["batch_consumer"] = p
	return nil, nil
}

func (f *recordingFactory) CreateOrderProducer(p xons.Properties) (xons.OrderProducer, error) {
	f.calls["order_producer"] = p
	return nil, nil
}

func (f *recordingFactory) CreateOrderedConsumer(p xons.Properties) (xons.OrderConsumer, error) {
	f.calls["order_consumer"] = p
	return nil, nil
}

func (f *recordingFactory) CreateTransactionProducer(p xons.Properties, l xons.TransactionCheckListener) (xons.TransactionProducer, error) {
	f.calls["transaction_producer"] = p
	f.listener = l
	return nil, nil
}

func (f *recordingFactory) CreatePullConsumer(p xons.Properties) (xons.PullConsumer, error) {
	f.calls["pull_consumer"] = p
	return nil, nil
}

func testLogger(t *testing.T) xlog.Logger {
	t.Helper()
	logger, cleanup, err := xlog.New().SetOutput(io.Discard).SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return logger
}

func createAll(t *testing.T, ap *MessagingAccessPoint, props map[string]string) {
	t.Helper()
	var err error
	_, err = ap.CreateProducer(props)
	require.NoError(t, err)
	_, err = ap.CreateConsumer(props)
	require.NoError(t, err)
	_, err = ap.CreateBatchConsumer(props)
	require.NoError(t, err)
	_, err = ap.CreateOrderProducer(props)
	require.NoError(t, err)
	_, err = ap.CreateOrderedConsumer(props)
	require.NoError(t, err)
	_, err = ap.CreatePullConsumer(props)
	require.NoError(t, err)
	_, err = ap.CreateTransactionProducer(props, nil)
	require.NoError(t, err)
}

func TestAccessPoint_InjectsNameServer(t *testing.T) {
	f := newRecordingFactory()
	ap := NewMessagingAccessPoint(map[string]string{KeyAccessPoints: "10.0.0.1:9876"},
		WithFactory(f), WithLogger(testLogger(t)))

	props := map[string]string{xons.KeyGroupID: "GID_a"}
	createAll(t, ap, props)

	require.Len(t, f.calls, 7)
	for role, got := range f.calls {
		assert.Equal(t, "10.0.0.1:9876", got[xons.KeyNameSrvAddr], role)
		assert.Equal(t, "GID_a", got[xons.KeyGroupID], role)
	}
	_, mutated := props[xons.KeyNameSrvAddr]
	assert.False(t, mutated)
}

func TestAccessPoint_ExplicitAddressWins(t *testing.T) {
	f := newRecordingFactory()
	ap := NewMessagingAccessPoint(map[string]string{KeyAccessPoints: "10.0.0.1:9876"},
		WithFactory(f), WithLogger(testLogger(t)))

	createAll(t, ap, map[string]string{xons.KeyNameSrvAddr: "192.168.0.9:9876"})
	for role, got := range f.calls {
		assert.Equal(t, "192.168.0.9:9876", got[xons.KeyNameSrvAddr], role)
	}
}

func TestAccessPoint_NoAccessPoints(t *testing.T) {
	f := newRecordingFactory()
	ap := NewMessagingAccessPoint(nil, WithFactory(f), WithLogger(testLogger(t)))

	_, err := ap.CreateConsumer(map[string]string{xons.KeyConsumerID: "CID_a"})
	require.NoError(t, err)
	got := f.calls["consumer"]
	_, ok := got[xons.KeyNameSrvAddr]
	assert.False(t, ok)
	assert.Equal(t, "CID_a", got[xons.KeyGroupID])
}

func TestAccessPoint_VersionAndAttributes(t *testing.T) {
	attrs := map[string]string{KeyAccessPoints: "a:1"}
	ap := NewMessagingAccessPoint(attrs, WithFactory(newRecordingFactory()))
	attrs[KeyAccessPoints] = "mutated"

	assert.Equal(t, xons.Version, ap.Version())
	got := ap.Attributes()
	assert.Equal(t, "a:1", got[KeyAccessPoints])
	got[KeyAccessPoints] = "changed"
	assert.Equal(t, "a:1", ap.Attributes()[KeyAccessPoints])
}

func TestAccessPoint_DefaultFactoryValidates(t *testing.T) {
	ap := NewMessagingAccessPoint(nil, WithLogger(testLogger(t)))
	_, err := ap.CreateConsumer(map[string]string{xons.KeyGroupID: "GID_a"})
	assert.ErrorIs(t, err, xons.ErrMissingNameServer)
}

// =============================================================================
// 事务回查适配
// =============================================================================

func checkExt() *primitive.MessageExt {
	ext := &primitive.MessageExt{MsgId: "OFFSET_ID"}
	ext.Topic = "T"
	ext.Body = []byte("body")
	ext.WithProperty(xons.PropTransactionID, "TX-1")
	ext.WithProperty("biz", "v")
	return ext
}

func TestCheckListener_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		status xons.TransactionStatus
		want   primitive.LocalTransactionState
	}{
		{"commit", xons.TransactionCommit, primitive.CommitMessageState},
		{"rollback", xons.TransactionRollback, primitive.RollbackMessageState},
		{"unknown", xons.TransactionUnknown, primitive.UnknowState},
		{"out of range", xons.TransactionStatus(42), primitive.UnknowState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRecordingFactory()
			ap := NewMessagingAccessPoint(nil, WithFactory(f), WithLogger(testLogger(t)))

			var seen *xons.Message
			_, err := ap.CreateTransactionProducer(nil, xons.LocalTransactionCheckerFunc(func(msg *xons.Message) xons.TransactionStatus {
				seen = msg
				return tt.status
			}))
			require.NoError(t, err)
			require.NotNil(t, f.listener)

			assert.Equal(t, tt.want, f.listener.CheckLocalTransactionState(checkExt()))
			require.NotNil(t, seen)
			assert.Equal(t, "TX-1", seen.MsgID)
			assert.Equal(t, "T", seen.Topic)
			assert.Equal(t, "v", seen.UserProperty("biz"))
		})
	}
}

func TestCheckListener_NilAndPanic(t *testing.T) {
	f := newRecordingFactory()
	ap := NewMessagingAccessPoint(nil, WithFactory(f), WithLogger(testLogger(t)))

	_, err := ap.CreateTransactionProducer(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, primitive.UnknowState, f.listener.CheckLocalTransactionState(checkExt()))

	_, err = ap.CreateTransactionProducer(nil, xons.LocalTransactionCheckerFunc(func(*xons.Message) xons.TransactionStatus {
		panic("db down")
	}))
	require.NoError(t, err)
	assert.Equal(t, primitive.UnknowState, f.listener.CheckLocalTransactionState(checkExt()))
}

func TestCheckListener_MissingTransactionID(t *testing.T) {
	f := newRecordingFactory()
	ap := NewMessagingAccessPoint(nil, WithFactory(f), WithLogger(testLogger(t)))

	var seen *xons.Message
	_, err := ap.CreateTransactionProducer(nil, xons.LocalTransactionCheckerFunc(func(msg *xons.Message) xons.TransactionStatus {
		seen = msg
		return xons.TransactionCommit
	}))
	require.NoError(t, err)

	ext := &primitive.MessageExt{MsgId: "OFFSET_ID"}
	ext.Topic = "T"
	assert.Equal(t, primitive.CommitMessageState, f.listener.CheckLocalTransactionState(ext))
	require.NotNil(t, seen)
	assert.Empty(t, seen.MsgID)
}
