// onsctl 是 xons 的命令行工具，用于收发 ONS 消息和验证接入配置。
//
// 用法:
//
//	onsctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      YAML/JSON 配置文件
//	    --section     配置节 (默认: ons)
//	    --namesrv     NameServer 地址，覆盖配置文件
//	    --group       GROUP_ID，覆盖配置文件
//	    --log-level   日志级别 (默认: info)
//	    --log-file    日志文件，按大小轮转
//	    --no-trace    关闭消息轨迹
//
// 命令:
//
//	send       发送普通或顺序消息
//	send-tx    发送事务消息
//	consume    消费消息，直到收到信号或达到 --max
//	version    显示版本
//
// 退出码:
//
//	0: 成功
//	1: 执行失败
//	2: 参数错误
//
// 示例:
//
//	onsctl -c ons.yaml send --topic T --tag TagA --body hello
//	onsctl -c ons.yaml send --topic T --sharding-key order-1 --count 10
//	onsctl -c ons.yaml send-tx --topic T --status rollback
//	onsctl -c ons.yaml consume --topic T --expression "TagA || TagB"
//	onsctl -c ons.yaml consume --topic T --mode pull --max 100
//
// consume 在指定 --config 时监视配置文件，AccessKey/SecretKey 变更后热更新凭证。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/pkg/mq/xons"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// app 命令共享的依赖，测试时替换底层客户端构造。
type app struct {
	clients rmq.Factory
}

// createApp 创建 CLI 应用。
func createApp(a *app, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "onsctl",
		Usage:     "ONS 消息收发工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", xons.Version, GitCommit, BuildTime),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Commands:  a.commands(),
		// 禁止 urfave/cli 直接调用 os.Exit，由 run 统一映射退出码
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return runApp(ctx, &app{}, args, stdout, stderr)
}

func runApp(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) int {
	if err := createApp(a, stdout, stderr).Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		if isCLIUsageError(err) {
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
