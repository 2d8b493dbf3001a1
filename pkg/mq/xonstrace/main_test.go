package xonstrace

import (
	"io"
	"strconv"
	"testing"

	"go.uber.org/goleak"

	"github.com/omeyang/xons/pkg/mq/xons"
	"github.com/omeyang/xons/pkg/observability/xlog"
)

func TestMain(m *testing.M) {
	// rocketmq-client-go 内部 go-cache 的清理协程常驻进程
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

func testLogger(t *testing.T) xlog.Logger {
	t.Helper()
	logger, cleanup, err := xlog.New().SetOutput(io.Discard).Build()
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	t.Cleanup(func() { _ = cleanup() })
	return logger
}

func testProps() xons.Properties {
	return xons.Properties{
		xons.KeyGroupID:     "GID_test",
		xons.KeyNameSrvAddr: "127.0.0.1:9876",
		xons.KeyAccessKey:   "my.ak",
		xons.KeySecretKey:   "sk",
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
