package xoms

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// rocketmq-client-go 内部 go-cache 的清理协程常驻进程
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}
