package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xons/internal/rmq/rmqmock"
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

func newTestApp(t *testing.T) (*gomock.Controller, *rmqmock.MockFactory, *app) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mf := rmqmock.NewMockFactory(ctrl)
	return ctrl, mf, &app{clients: mf}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runTest(ctx context.Context, a *app, args ...string) result {
	var stdout, stderr bytes.Buffer
	code := runApp(ctx, a, append([]string{"onsctl"}, args...), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

const testConfig = `ons:
  GROUP_ID: GID_cli
  NAMESRV_ADDR: 127.0.0.1:9876
  AccessKey: ak
  SecretKey: sk
  MsgTraceSwitch: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ons.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
