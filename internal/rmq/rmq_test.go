package rmq

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xons/pkg/observability/xlog"
)

// =============================================================================
// ClientConfig
// =============================================================================

func TestClientConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, ClientConfig{}.Validate(), ErrMissingGroup)
	assert.ErrorIs(t, ClientConfig{GroupName: "GID_a"}.Validate(), ErrMissingNameServer)
	assert.NoError(t, ClientConfig{GroupName: "GID_a", NameServers: []string{"127.0.0.1:9876"}}.Validate())
}

func TestClientConfig_OptionsGrowWithSettings(t *testing.T) {
	base := ClientConfig{GroupName: "GID_a", NameServers: []string{"127.0.0.1:9876"}}
	full := base
	full.Credentials = primitive.Credentials{AccessKey: "ak", SecretKey: "sk"}
	full.InstanceName = "inst"
	full.SendTimeout = 3 * time.Second
	full.Retry = 2
	full.HashByShardingKey = true
	full.Orderly = true
	full.BatchMaxSize = 16
	full.MaxReconsumeTimes = 5
	full.ConsumeGoroutines = 4
	full.Interceptors = []primitive.Interceptor{nil}

	assert.Len(t, base.ProducerOptions(), 2)
	assert.Len(t, full.ProducerOptions(), 8)
	assert.Len(t, base.ConsumerOptions(), 4)
	assert.Len(t, full.ConsumerOptions(), 11)
}

func TestDefaultFactory_ValidatesFirst(t *testing.T) {
	f := DefaultFactory{}
	_, err := f.NewProducer(ClientConfig{})
	assert.ErrorIs(t, err, ErrMissingGroup)

	_, err = f.NewPushConsumer(ClientConfig{GroupName: "GID_a"})
	assert.ErrorIs(t, err, ErrMissingNameServer)

	_, err = f.NewTransactionProducer(ClientConfig{GroupName: "GID_a", NameServers: []string{"x:1"}}, nil)
	assert.ErrorIs(t, err, ErrNilListener)
}

// =============================================================================
// rlog 桥接
// =============================================================================

func newBufferLogger(t *testing.T) (*bytes.Buffer, xlog.Logger) {
	t.Helper()
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetFormat("json").SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return &buf, logger
}

func TestLogBridge_FiltersByLevel(t *testing.T) {
	buf, logger := newBufferLogger(t)
	bridge := NewLogBridge(logger)

	bridge.Info("rebalance", map[string]interface{}{"group": "GID_a"})
	assert.Empty(t, buf.String())

	bridge.Warning("send failed", map[string]interface{}{
		"topic":      "T",
		"underlayer": errors.New("timeout"),
	})
	out := buf.String()
	assert.Contains(t, out, `"msg":"send failed"`)
	assert.Contains(t, out, `"topic":"T"`)
	assert.Contains(t, out, `"component":"rocketmq"`)
	assert.Contains(t, out, "timeout")

	buf.Reset()
	bridge.Level("debug")
	bridge.Debug("heartbeat", nil)
	assert.Contains(t, buf.String(), "heartbeat")
}

func TestLogBridge_FatalDoesNotExit(t *testing.T) {
	buf, logger := newBufferLogger(t)
	bridge := NewLogBridge(logger)

	bridge.Fatal("broken", nil)
	assert.True(t, strings.Contains(buf.String(), `"level":"ERROR"`))
	assert.NoError(t, bridge.OutputPath("/dev/null"))
}
