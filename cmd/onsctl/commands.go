package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xons/internal/mqcore"
	"github.com/omeyang/xons/pkg/config/xconf"
	"github.com/omeyang/xons/pkg/lifecycle/xrun"
	"github.com/omeyang/xons/pkg/mq/xoms"
	"github.com/omeyang/xons/pkg/mq/xons"
	"github.com/omeyang/xons/pkg/observability/xlog"
	"github.com/omeyang/xons/pkg/resilience/xretry"
)

// 创建所有子命令。
func (a *app) commands() []*cli.Command {
	return []*cli.Command{
		a.createSendCommand(),
		a.createSendTxCommand(),
		a.createConsumeCommand(),
		createVersionCommand(),
	}
}

func topicFlag() cli.Flag {
	return &cli.StringFlag{Name: "topic", Aliases: []string{"t"}, Usage: "消息 topic", Required: true}
}

// withSession 为命令建立 session，执行结束后释放。
func (a *app) withSession(fn func(ctx context.Context, cmd *cli.Command, s *session) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		s, err := a.newSession(ctx, cmd)
		if err != nil {
			return err
		}
		err = fn(ctx, cmd, s)
		return errors.Join(err, s.close(ctx))
	}
}

// =============================================================================
// send
// =============================================================================

func (a *app) createSendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "发送普通或顺序消息",
		Flags: []cli.Flag{
			topicFlag(),
			&cli.StringFlag{Name: "tag", Usage: "消息 tag"},
			&cli.StringFlag{Name: "keys", Usage: "消息 keys"},
			&cli.StringFlag{Name: "body", Usage: "消息体"},
			&cli.IntFlag{Name: "count", Usage: "发送条数", Value: 1},
			&cli.StringFlag{Name: "sharding-key", Usage: "顺序消息分区键，设置后使用顺序生产者"},
			&cli.BoolFlag{Name: "oneway", Usage: "单向发送，不等待结果"},
			&cli.DurationFlag{Name: "deliver-after", Usage: "定时投递延迟"},
		},
		Action: a.withSession(cmdSend),
	}
}

func cmdSend(ctx context.Context, cmd *cli.Command, s *session) error {
	count := cmd.Int("count")
	if count < 1 {
		return usagef("--count must be positive, got %d", count)
	}
	shardingKey := cmd.String("sharding-key")
	if shardingKey != "" && cmd.Bool("oneway") {
		return usagef("--oneway cannot be combined with --sharding-key")
	}

	send, closeFn, err := newSender(s.ap, s.props, shardingKey, cmd.Bool("oneway"))
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	out := cmd.Root().Writer
	for i := range count {
		msg := xons.NewMessage(cmd.String("topic"), cmd.String("tag"), []byte(cmd.String("body")))
		msg.Keys = cmd.String("keys")
		if d := cmd.Duration("deliver-after"); d > 0 {
			msg.StartDeliverTime = time.Now().Add(d).UnixMilli()
		}
		res, err := send(ctx, msg)
		if err != nil {
			return fmt.Errorf("send message %d: %w", i+1, err)
		}
		if res == nil {
			fmt.Fprintf(out, "sent oneway topic=%s\n", msg.Topic)
			continue
		}
		fmt.Fprintf(out, "sent topic=%s msgId=%s\n", res.Topic, res.MessageID)
	}
	return nil
}

type sendFunc func(ctx context.Context, msg *xons.Message) (*xons.SendResult, error)

// newSender 按参数选择普通、单向或顺序发送，返回已启动的生产者。
func newSender(ap *xoms.MessagingAccessPoint, props xons.Properties, shardingKey string, oneway bool) (sendFunc, func() error, error) {
	if shardingKey != "" {
		p, err := ap.CreateOrderProducer(props)
		if err != nil {
			return nil, nil, err
		}
		if err := p.Start(); err != nil {
			return nil, nil, errors.Join(err, p.Shutdown())
		}
		return func(ctx context.Context, msg *xons.Message) (*xons.SendResult, error) {
			return p.Send(ctx, msg, shardingKey)
		}, p.Shutdown, nil
	}

	p, err := ap.CreateProducer(props)
	if err != nil {
		return nil, nil, err
	}
	if err := p.Start(); err != nil {
		return nil, nil, errors.Join(err, p.Shutdown())
	}
	if oneway {
		return func(ctx context.Context, msg *xons.Message) (*xons.SendResult, error) {
			return nil, p.SendOneway(ctx, msg)
		}, p.Shutdown, nil
	}
	return p.Send, p.Shutdown, nil
}

// =============================================================================
// send-tx
// =============================================================================

func (a *app) createSendTxCommand() *cli.Command {
	return &cli.Command{
		Name:  "send-tx",
		Usage: "发送事务消息，本地事务按 --status 返回，回查一律提交",
		Flags: []cli.Flag{
			topicFlag(),
			&cli.StringFlag{Name: "tag", Usage: "消息 tag"},
			&cli.StringFlag{Name: "keys", Usage: "消息 keys"},
			&cli.StringFlag{Name: "body", Usage: "消息体"},
			&cli.StringFlag{Name: "status", Usage: "本地事务结果 (commit/rollback/unknown)", Value: "commit"},
		},
		Action: a.withSession(cmdSendTx),
	}
}

func parseTransactionStatus(s string) (xons.TransactionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "commit":
		return xons.TransactionCommit, nil
	case "rollback":
		return xons.TransactionRollback, nil
	case "unknown":
		return xons.TransactionUnknown, nil
	default:
		return 0, usagef("unknown transaction status %q", s)
	}
}

func cmdSendTx(ctx context.Context, cmd *cli.Command, s *session) error {
	status, err := parseTransactionStatus(cmd.String("status"))
	if err != nil {
		return err
	}

	checker := xons.LocalTransactionCheckerFunc(func(msg *xons.Message) xons.TransactionStatus {
		s.logger.Info(ctx, "check local transaction", xlog.Topic(msg.Topic), xlog.MsgID(msg.MsgID))
		return xons.TransactionCommit
	})
	p, err := s.ap.CreateTransactionProducer(s.props, checker)
	if err != nil {
		return err
	}
	defer func() { _ = p.Shutdown() }()
	if err := p.Start(); err != nil {
		return err
	}

	msg := xons.NewMessage(cmd.String("topic"), cmd.String("tag"), []byte(cmd.String("body")))
	msg.Keys = cmd.String("keys")
	executor := xons.LocalTransactionExecutorFunc(func(msg *xons.Message, _ any) xons.TransactionStatus {
		s.logger.Info(ctx, "execute local transaction", xlog.Topic(msg.Topic), xlog.MsgID(msg.MsgID))
		return status
	})

	out := cmd.Root().Writer
	res, err := p.Send(ctx, msg, executor, nil)
	switch {
	case errors.Is(err, xons.ErrTransactionRollback):
		fmt.Fprintf(out, "rolled back topic=%s msgId=%s\n", msg.Topic, msg.MsgID)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(out, "sent transaction topic=%s msgId=%s status=%s\n", res.Topic, res.MessageID, status)
	return nil
}

// =============================================================================
// consume
// =============================================================================

func (a *app) createConsumeCommand() *cli.Command {
	return &cli.Command{
		Name:  "consume",
		Usage: "消费消息，直到收到信号或达到 --max",
		Flags: []cli.Flag{
			topicFlag(),
			&cli.StringFlag{Name: "expression", Aliases: []string{"e"}, Usage: "Tag 表达式", Value: "*"},
			&cli.BoolFlag{Name: "sql", Usage: "按 SQL92 解析 --expression"},
			&cli.StringFlag{Name: "mode", Usage: "消费模式 (push/pull)", Value: "push"},
			&cli.IntFlag{Name: "max", Usage: "消费条数上限，0 表示不限"},
			&cli.BoolFlag{Name: "reconsume", Usage: "返回 ReconsumeLater，用于验证重投"},
		},
		Action: a.withSession(cmdConsume),
	}
}

// printer 输出消息并在达到上限时停止消费。
type printer struct {
	out    io.Writer
	max    int64
	seen   atomic.Int64
	cancel context.CancelFunc
}

func (p *printer) print(msg *xons.Message) {
	fmt.Fprintf(p.out, "received topic=%s tag=%s msgId=%s reconsumeTimes=%d body=%s\n",
		msg.Topic, msg.Tag, msg.MsgID, msg.ReconsumeTimes, msg.Body)
	if n := p.seen.Add(1); p.max > 0 && n >= p.max {
		p.cancel()
	}
}

func cmdConsume(ctx context.Context, cmd *cli.Command, s *session) error {
	selector := xons.ByTag(cmd.String("expression"))
	if cmd.Bool("sql") {
		selector = xons.BySQL(cmd.String("expression"))
	}
	maxCount := cmd.Int("max")
	if maxCount < 0 {
		return usagef("--max must not be negative, got %d", maxCount)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := &printer{out: cmd.Root().Writer, max: int64(maxCount), cancel: cancel}

	var (
		admin xons.Admin
		svc   func(ctx context.Context) error
		err   error
	)
	switch mode := cmd.String("mode"); mode {
	case "push":
		admin, svc, err = pushService(s, cmd.String("topic"), selector, p, cmd.Bool("reconsume"))
	case "pull":
		admin, svc, err = pullService(s, cmd.String("topic"), selector, p)
	default:
		return usagef("unknown consume mode %q", mode)
	}
	if err != nil {
		return err
	}
	defer func() { _ = admin.Shutdown() }()

	services := []func(ctx context.Context) error{svc}
	if s.cfg != nil {
		services = append(services, credentialWatcher(s, admin))
	}
	err = xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithLogger(s.logger), xrun.WithName("onsctl-consume")}, services...)
	if errors.Is(err, xrun.ErrSignal) {
		return nil
	}
	return err
}

// pushService 通过 ConsumerBean 订阅并启动，服务阻塞到 ctx 结束。
func pushService(s *session, topic string, selector xons.MessageSelector, p *printer, reconsume bool) (xons.Admin, func(context.Context) error, error) {
	listener := xons.MessageListenerFunc(func(_ context.Context, msg *xons.Message) xons.Action {
		p.print(msg)
		if reconsume {
			return xons.ReconsumeLater
		}
		return xons.CommitMessage
	})
	sub := xons.Subscription{Topic: topic, Expression: selector.Expression, Type: selector.Type}

	bean := xons.NewConsumerBean(accessPointFactory{Factory: s.factory, ap: s.ap}, s.opts...)
	bean.SetProperties(s.props)
	bean.SetSubscriptionTable(map[xons.Subscription]xons.MessageListener{sub: listener})
	if err := bean.Start(); err != nil {
		return nil, nil, err
	}
	return bean, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}, nil
}

// pullService 拉模式循环 Poll，出错时退避。
func pullService(s *session, topic string, selector xons.MessageSelector, p *printer) (xons.Admin, func(context.Context) error, error) {
	c, err := s.ap.CreatePullConsumer(s.props)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Subscribe(topic, selector); err != nil {
		return nil, nil, errors.Join(err, c.Shutdown())
	}
	if err := c.Start(); err != nil {
		return nil, nil, errors.Join(err, c.Shutdown())
	}
	poll := func(ctx context.Context) error {
		msgs, err := c.Poll(ctx, 0)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			p.print(m)
		}
		return nil
	}
	return c, func(ctx context.Context) error {
		err := mqcore.RunPollLoop(ctx, poll,
			mqcore.WithBackoff(xretry.NewExponentialBackoff(
				xretry.WithInitialDelay(100*time.Millisecond),
				xretry.WithMaxDelay(5*time.Second),
			)),
			mqcore.WithOnError(func(err error) {
				if ctx.Err() == nil {
					s.logger.Warn(ctx, "poll failed", xlog.Err(err), xlog.Topic(topic))
				}
			}),
		)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}, nil
}

// credentialWatcher 配置文件变更后以新凭证重建底层客户端。
func credentialWatcher(s *session, admin xons.Admin) func(context.Context) error {
	return func(ctx context.Context) error {
		w, err := xconf.NewWatcher(s.cfg, func(cfg xconf.Config, err error) {
			if err != nil {
				s.logger.Warn(ctx, "reload config failed", xlog.Err(err))
				return
			}
			rotateCredential(ctx, s, admin, cfg)
		})
		if err != nil {
			return err
		}
		return w.Run(ctx)
	}
}

func rotateCredential(ctx context.Context, s *session, admin xons.Admin, cfg xconf.Config) {
	raw, err := xconf.Properties(cfg, s.section)
	if err != nil {
		s.logger.Warn(ctx, "read reloaded properties failed", xlog.Err(err))
		return
	}
	props := xons.Properties(raw)
	if props[xons.KeyAccessKey] == s.props[xons.KeyAccessKey] && props[xons.KeySecretKey] == s.props[xons.KeySecretKey] {
		return
	}
	if err := admin.UpdateCredential(props); err != nil {
		s.logger.Error(ctx, "update credential failed", xlog.Err(err))
		return
	}
	s.props[xons.KeyAccessKey] = props[xons.KeyAccessKey]
	s.props[xons.KeySecretKey] = props[xons.KeySecretKey]
	s.logger.Info(ctx, "credential updated")
}

// =============================================================================
// version
// =============================================================================

func createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "显示版本",
		Action: func(_ context.Context, cmd *cli.Command) error {
			fmt.Fprintf(cmd.Root().Writer, "onsctl %s (commit: %s, built: %s)\n", xons.Version, GitCommit, BuildTime)
			return nil
		},
	}
}
