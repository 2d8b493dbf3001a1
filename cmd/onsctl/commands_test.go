package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/internal/rmq/rmqmock"
	"github.com/omeyang/xons/pkg/config/xconf"
	"github.com/omeyang/xons/pkg/mq/xons"
	"github.com/omeyang/xons/pkg/mq/xonstrace"
)

func TestRun_Version(t *testing.T) {
	res := runTest(context.Background(), &app{}, "version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "onsctl "+xons.Version)
}

func TestRun_UsageErrors(t *testing.T) {
	path := writeConfig(t, testConfig)
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing topic", args: []string{"send"}},
		{name: "unknown flag", args: []string{"send", "--topic", "T", "--nope"}},
		{name: "zero count", args: []string{"-c", path, "send", "--topic", "T", "--count", "0"}},
		{name: "oneway with sharding key", args: []string{"-c", path, "send", "--topic", "T", "--oneway", "--sharding-key", "k"}},
		{name: "bad tx status", args: []string{"-c", path, "send-tx", "--topic", "T", "--status", "maybe"}},
		{name: "unknown mode", args: []string{"-c", path, "consume", "--topic", "T", "--mode", "poll"}},
		{name: "negative max", args: []string{"-c", path, "consume", "--topic", "T", "--max", "-1"}},
		{name: "bad log level", args: []string{"--log-level", "loud", "send", "--topic", "T"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runTest(context.Background(), &app{}, tt.args...)
			assert.Equal(t, 2, res.code, res.stderr)
		})
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	res := runTest(context.Background(), &app{}, "-c", "/nonexistent/ons.yaml", "send", "--topic", "T")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "错误")
}

// =============================================================================
// send
// =============================================================================

func TestSend_FromConfig(t *testing.T) {
	ctrl, mf, a := newTestApp(t)
	mp := rmqmock.NewMockProducer(ctrl)
	mf.EXPECT().NewProducer(gomock.Any()).DoAndReturn(func(cfg rmq.ClientConfig) (rmq.Producer, error) {
		assert.Equal(t, "GID_cli", cfg.GroupName)
		assert.Equal(t, []string{"127.0.0.1:9876"}, cfg.NameServers)
		assert.Equal(t, "ak", cfg.Credentials.AccessKey)
		assert.Empty(t, cfg.Interceptors)
		return mp, nil
	})
	mp.EXPECT().Start().Return(nil)
	var n atomic.Int32
	mp.EXPECT().SendSync(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msgs ...*primitive.Message) (*primitive.SendResult, error) {
			require.Len(t, msgs, 1)
			assert.Equal(t, "T", msgs[0].Topic)
			assert.Equal(t, "TagA", msgs[0].GetTags())
			assert.Equal(t, "hello", string(msgs[0].Body))
			return &primitive.SendResult{Status: primitive.SendOK, MsgID: fmt.Sprintf("M%d", n.Add(1))}, nil
		}).Times(2)
	mp.EXPECT().Shutdown().Return(nil)

	path := writeConfig(t, testConfig)
	res := runTest(context.Background(), a, "-c", path, "send", "--topic", "T", "--tag", "TagA", "--body", "hello", "--count", "2")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "sent topic=T msgId=M1")
	assert.Contains(t, res.stdout, "sent topic=T msgId=M2")
}

func TestSend_FlagsOverrideConfig(t *testing.T) {
	ctrl, mf, a := newTestApp(t)
	mp := rmqmock.NewMockProducer(ctrl)
	mf.EXPECT().NewProducer(gomock.Any()).DoAndReturn(func(cfg rmq.ClientConfig) (rmq.Producer, error) {
		assert.Equal(t, "GID_flag", cfg.GroupName)
		assert.Equal(t, []string{"10.0.0.1:9876", "10.0.0.2:9876"}, cfg.NameServers)
		return mp, nil
	})
	mp.EXPECT().Start().Return(nil)
	mp.EXPECT().SendSync(gomock.Any(), gomock.Any()).Return(&primitive.SendResult{MsgID: "M1"}, nil)
	mp.EXPECT().Shutdown().Return(nil)

	path := writeConfig(t, testConfig)
	res := runTest(context.Background(), a, "-c", path, "--group", "GID_flag", "--namesrv", "10.0.0.1:9876;10.0.0.2:9876",
		"send", "--topic", "T")
	require.Equal(t, 0, res.code, res.stderr)
}

func TestSend_AccessPoint(t *testing.T) {
	ctrl, mf, a := newTestApp(t)
	mp := rmqmock.NewMockProducer(ctrl)
	mf.EXPECT().NewProducer(gomock.Any()).DoAndReturn(func(cfg rmq.ClientConfig) (rmq.Producer, error) {
		assert.Equal(t, []string{"ap.example.com:80"}, cfg.NameServers)
		return mp, nil
	})
	mp.EXPECT().Start().Return(nil)
	mp.EXPECT().SendSync(gomock.Any(), gomock.Any()).Return(&primitive.SendResult{MsgID: "M1"}, nil)
	mp.EXPECT().Shutdown().Return(nil)

	res := runTest(context.Background(), a, "--no-trace", "--group", "GID_ap", "--access-point", "ap.example.com:80",
		"send", "--topic", "T")
	require.Equal(t, 0, res.code, res.stderr)
}

func TestSend_OrderAndOneway(t *testing.T) {
	t.Run("sharding key", func(t *testing.T) {
		ctrl, mf, a := newTestApp(t)
		mp := rmqmock.NewMockProducer(ctrl)
		mf.EXPECT().NewProducer(gomock.Any()).DoAndReturn(func(cfg rmq.ClientConfig) (rmq.Producer, error) {
			assert.True(t, cfg.HashByShardingKey)
			return mp, nil
		})
		mp.EXPECT().Start().Return(nil)
		mp.EXPECT().SendSync(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, msgs ...*primitive.Message) (*primitive.SendResult, error) {
				assert.Equal(t, "order-1", msgs[0].GetShardingKey())
				return &primitive.SendResult{MsgID: "M1"}, nil
			})
		mp.EXPECT().Shutdown().Return(nil)

		res := runTest(context.Background(), a, "-c", writeConfig(t, testConfig), "send", "--topic", "T", "--sharding-key", "order-1")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stdout, "msgId=M1")
	})

	t.Run("oneway", func(t *testing.T) {
		ctrl, mf, a := newTestApp(t)
		mp := rmqmock.NewMockProducer(ctrl)
		mf.EXPECT().NewProducer(gomock.Any()).Return(mp, nil)
		mp.EXPECT().Start().Return(nil)
		mp.EXPECT().SendOneWay(gomock.Any(), gomock.Any()).Return(nil)
		mp.EXPECT().Shutdown().Return(nil)

		res := runTest(context.Background(), a, "-c", writeConfig(t, testConfig), "send", "--topic", "T", "--oneway")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stdout, "sent oneway topic=T")
	})
}

func TestSend_Failure(t *testing.T) {
	ctrl, mf, a := newTestApp(t)
	mp := rmqmock.NewMockProducer(ctrl)
	mf.EXPECT().NewProducer(gomock.Any()).Return(mp, nil)
	mp.EXPECT().Start().Return(nil)
	mp.EXPECT().SendSync(gomock.Any(), gomock.Any()).Return(nil, errors.New("broker down"))
	mp.EXPECT().Shutdown().Return(nil)

	res := runTest(context.Background(), a, "-c", writeConfig(t, testConfig), "send", "--topic", "T")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "broker down")
}

func TestSend_WithTrace(t *testing.T) {
	ctrl, mf, a := newTestApp(t)
	mp := rmqmock.NewMockProducer(ctrl)
	tp := rmqmock.NewMockProducer(ctrl)
	mf.EXPECT().NewProducer(gomock.Any()).DoAndReturn(func(cfg rmq.ClientConfig) (rmq.Producer, error) {
		if strings.HasSuffix(cfg.GroupName, xonstrace.TraceProducerSuffix) {
			assert.Equal(t, "ak"+xonstrace.TraceProducerSuffix, cfg.GroupName)
			return tp, nil
		}
		assert.Len(t, cfg.Interceptors, 1)
		return mp, nil
	}).Times(2)
	tp.EXPECT().Start().Return(nil)
	tp.EXPECT().SendSync(gomock.Any(), gomock.Any()).Return(&primitive.SendResult{Status: primitive.SendOK}, nil).AnyTimes()
	tp.EXPECT().Shutdown().Return(nil)
	mp.EXPECT().Start().Return(nil)
	mp.EXPECT().SendSync(gomock.Any(), gomock.Any()).Return(&primitive.SendResult{MsgID: "M1"}, nil)
	mp.EXPECT().Shutdown().Return(nil)

	config := strings.Replace(testConfig, "MsgTraceSwitch: false", "MsgTraceSwitch: true", 1)
	res := runTest(context.Background(), a, "-c", writeConfig(t, config), "send", "--topic", "T")
	require.Equal(t, 0, res.code, res.stderr)
}

// =============================================================================
// send-tx
// =============================================================================

func TestSendTx(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{status: "commit", want: "sent transaction topic=T msgId=TX1 status=CommitTransaction"},
		{status: "rollback", want: "rolled back topic=T msgId=TX1"},
		{status: "unknown", want: "sent transaction topic=T msgId=TX1 status=Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			ctrl, mf, a := newTestApp(t)
			tp := rmqmock.NewMockTransactionProducer(ctrl)
			var listener primitive.TransactionListener
			mf.EXPECT().NewTransactionProducer(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ rmq.ClientConfig, l primitive.TransactionListener) (rmq.TransactionProducer, error) {
					listener = l
					return tp, nil
				})
			tp.EXPECT().Start().Return(nil)
			tp.EXPECT().SendMessageInTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, pm *primitive.Message) (*primitive.TransactionSendResult, error) {
					pm.WithProperty(primitive.PropertyUniqueClientMessageIdKeyIndex, "TX1")
					state := listener.ExecuteLocalTransaction(pm)
					return &primitive.TransactionSendResult{
						SendResult: &primitive.SendResult{MsgID: "TX1"},
						State:      state,
					}, nil
				})
			tp.EXPECT().Shutdown().Return(nil)

			res := runTest(context.Background(), a, "-c", writeConfig(t, testConfig), "send-tx", "--topic", "T", "--status", tt.status)
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, tt.want)

			// 回查一律提交
			ext := &primitive.MessageExt{Message: primitive.Message{Topic: "T"}, MsgId: "TX1"}
			assert.Equal(t, primitive.CommitMessageState, listener.CheckLocalTransaction(ext))
		})
	}
}

// =============================================================================
// consume
// =============================================================================

func TestConsume_PushStopsAtMax(t *testing.T) {
	ctrl, mf, a := newTestApp(t)
	mc := rmqmock.NewMockPushConsumer(ctrl)
	mf.EXPECT().NewPushConsumer(gomock.Any()).DoAndReturn(func(cfg rmq.ClientConfig) (rmq.PushConsumer, error) {
		assert.Equal(t, "GID_cli", cfg.GroupName)
		return mc, nil
	})
	var fn rmq.ConsumeFunc
	mc.EXPECT().Subscribe("T", consumer.MessageSelector{Type: consumer.TAG, Expression: "TagA"}, gomock.Any()).DoAndReturn(
		func(_ string, _ consumer.MessageSelector, f rmq.ConsumeFunc) error {
			fn = f
			return nil
		})
	started := make(chan struct{})
	mc.EXPECT().Start().DoAndReturn(func() error {
		close(started)
		return nil
	})
	mc.EXPECT().Shutdown().Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan result, 1)
	go func() {
		done <- runTest(ctx, a, "-c", writeConfig(t, testConfig), "consume", "--topic", "T", "-e", "TagA", "--max", "1")
	}()

	select {
	case <-started:
	case <-ctx.Done():
		t.Fatal("consumer not started")
	}
	ext := &primitive.MessageExt{Message: primitive.Message{Topic: "T", Body: []byte("payload")}, MsgId: "M1"}
	ext.WithTag("TagA")
	status, err := fn(context.Background(), ext)
	require.NoError(t, err)
	assert.Equal(t, consumer.ConsumeSuccess, status)

	res := <-done
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "received topic=T tag=TagA msgId=M1 reconsumeTimes=0 body=payload")
}

func TestConsume_PullUntilCanceled(t *testing.T) {
	ctrl, mf, a := newTestApp(t)
	pc := rmqmock.NewMockPullConsumer(ctrl)
	mf.EXPECT().NewPullConsumer(gomock.Any()).Return(pc, nil)
	pc.EXPECT().Subscribe("T", consumer.MessageSelector{Type: consumer.SQL92, Expression: "a > 1"}).Return(nil)
	pc.EXPECT().Start().Return(nil)
	pc.EXPECT().Shutdown().Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var polls atomic.Int32
	pc.EXPECT().Poll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, time.Duration) (*consumer.ConsumeRequest, error) {
			switch polls.Add(1) {
			case 1:
				return nil, errors.New("no new message")
			case 2:
				return &consumer.ConsumeRequest{}, nil
			default:
				cancel()
				return &consumer.ConsumeRequest{}, nil
			}
		}).MinTimes(3)
	pc.EXPECT().ACK(gomock.Any(), gomock.Any(), consumer.ConsumeSuccess).AnyTimes()

	res := runTest(ctx, a, "-c", writeConfig(t, testConfig), "consume", "--topic", "T", "--mode", "pull", "--sql", "-e", "a > 1")
	require.Equal(t, 0, res.code, res.stderr)
}

func TestConsume_StartFailure(t *testing.T) {
	ctrl, mf, a := newTestApp(t)
	mc := rmqmock.NewMockPushConsumer(ctrl)
	mf.EXPECT().NewPushConsumer(gomock.Any()).Return(mc, nil)
	mc.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mc.EXPECT().Start().Return(errors.New("no route"))

	res := runTest(context.Background(), a, "-c", writeConfig(t, testConfig), "consume", "--topic", "T")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "no route")
}

// =============================================================================
// 凭证轮换
// =============================================================================

// recordingAdmin 记录 UpdateCredential 调用。
type recordingAdmin struct {
	xons.Admin
	calls chan xons.Properties
	err   error
}

func (r *recordingAdmin) UpdateCredential(props xons.Properties) error {
	r.calls <- props
	return r.err
}

func testSession(t *testing.T, cfg xconf.Config) *session {
	t.Helper()
	return &session{
		logger:  testLogger(t),
		cfg:     cfg,
		section: defaultSection,
		props:   xons.Properties{xons.KeyAccessKey: "ak", xons.KeySecretKey: "sk"},
	}
}

func TestRotateCredential(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		err     error
		called  bool
		wantKey string
	}{
		{name: "unchanged", config: testConfig, wantKey: "ak"},
		{name: "changed", config: strings.Replace(testConfig, "AccessKey: ak", "AccessKey: ak2", 1), called: true, wantKey: "ak2"},
		{name: "update failed", config: strings.Replace(testConfig, "AccessKey: ak", "AccessKey: ak2", 1), err: errors.New("bad"), called: true, wantKey: "ak"},
		{name: "section missing", config: "other: {}\n", wantKey: "ak"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := xconf.NewFromBytes([]byte(tt.config), xconf.FormatYAML)
			require.NoError(t, err)
			s := testSession(t, cfg)
			admin := &recordingAdmin{calls: make(chan xons.Properties, 1), err: tt.err}

			rotateCredential(context.Background(), s, admin, cfg)
			assert.Equal(t, tt.called, len(admin.calls) == 1)
			assert.Equal(t, tt.wantKey, s.props[xons.KeyAccessKey])
		})
	}
}

func TestCredentialWatcher(t *testing.T) {
	path := writeConfig(t, testConfig)
	cfg, err := xconf.New(path)
	require.NoError(t, err)
	s := testSession(t, cfg)
	admin := &recordingAdmin{calls: make(chan xons.Properties, 4)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- credentialWatcher(s, admin)(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	rotated := strings.Replace(testConfig, "SecretKey: sk", "SecretKey: sk2", 1)
	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		// 监视器启动前的写入可能丢失，重复写入直到收到回调
		require.NoError(t, os.WriteFile(path, []byte(rotated), 0o600))
		select {
		case props := <-admin.calls:
			assert.Equal(t, "sk2", props[xons.KeySecretKey])
			return
		case <-tick.C:
		case <-deadline:
			t.Fatal("credential not rotated")
		}
	}
}

// =============================================================================
// 辅助函数
// =============================================================================

func TestParseTransactionStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    xons.TransactionStatus
		wantErr bool
	}{
		{in: "commit", want: xons.TransactionCommit},
		{in: " Rollback ", want: xons.TransactionRollback},
		{in: "UNKNOWN", want: xons.TransactionUnknown},
		{in: "later", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseTransactionStatus(tt.in)
		if tt.wantErr {
			var usageErr *usageError
			assert.ErrorAs(t, err, &usageErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestIsCLIUsageError(t *testing.T) {
	assert.True(t, isCLIUsageError(errors.New(`Required flag "topic" not set`)))
	assert.True(t, isCLIUsageError(errors.New("flag provided but not defined: -nope")))
	assert.False(t, isCLIUsageError(errors.New("broker down")))
}
