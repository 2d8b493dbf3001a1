package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/pkg/config/xconf"
	"github.com/omeyang/xons/pkg/mq/xoms"
	"github.com/omeyang/xons/pkg/mq/xons"
	"github.com/omeyang/xons/pkg/mq/xonstrace"
	"github.com/omeyang/xons/pkg/observability/xlog"
	"github.com/omeyang/xons/pkg/observability/xmetrics"
	"github.com/omeyang/xons/pkg/observability/xrotate"
)

const defaultSection = "ons"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML/JSON 配置文件",
		},
		&cli.StringFlag{
			Name:  "section",
			Usage: "配置节",
			Value: defaultSection,
		},
		&cli.StringFlag{Name: "namesrv", Usage: "NameServer 地址，多个以 ; 分隔"},
		&cli.StringFlag{Name: "access-point", Usage: "接入点，未配置 NameServer 时使用"},
		&cli.StringFlag{Name: "group", Usage: "GROUP_ID"},
		&cli.StringFlag{Name: "access-key", Usage: "AccessKey"},
		&cli.StringFlag{Name: "secret-key", Usage: "SecretKey"},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "日志级别 (debug/info/warn/error)",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "日志格式 (text/json)",
			Value: "text",
		},
		&cli.StringFlag{Name: "log-file", Usage: "日志文件，为空时输出到 stderr"},
		&cli.BoolFlag{Name: "no-trace", Usage: "关闭消息轨迹"},
	}
}

// session 一次命令执行期间的日志、配置与轨迹。
type session struct {
	logger  xlog.Logger
	props   xons.Properties
	cfg     xconf.Config
	section string
	opts    []xons.Option
	closers []func() error

	factory xons.Factory
	ap      *xoms.MessagingAccessPoint
}

// newSession 读取配置并构建日志、观测与轨迹，调用方负责 close。
func (a *app) newSession(ctx context.Context, cmd *cli.Command) (*session, error) {
	logger, err := buildLogger(cmd)
	if err != nil {
		return nil, usagef("%v", err)
	}
	s := &session{logger: logger.logger, section: cmd.String("section")}
	s.closers = append(s.closers, logger.cleanup)

	if err := s.loadProperties(cmd); err != nil {
		_ = s.close(ctx)
		return nil, err
	}

	observer, err := xmetrics.NewOTelObserver(xmetrics.WithInstrumentationName("onsctl"))
	if err != nil {
		_ = s.close(ctx)
		return nil, err
	}
	s.opts = []xons.Option{
		xons.WithLogger(s.logger),
		xons.WithObserver(observer),
		xons.WithClientFactory(a.clients),
	}
	s.enableTrace(ctx, a.clients, observer)

	s.factory = xons.NewFactory(s.opts...)
	s.ap = xoms.NewMessagingAccessPoint(
		map[string]string{xoms.KeyAccessPoints: cmd.String("access-point")},
		xoms.WithFactory(s.factory),
		xoms.WithLogger(s.logger),
		xoms.WithObserver(observer),
	)
	return s, nil
}

type builtLogger struct {
	logger  xlog.Logger
	cleanup func() error
}

func buildLogger(cmd *cli.Command) (builtLogger, error) {
	b := xlog.New().
		SetOutput(cmd.Root().ErrWriter).
		SetLevelString(cmd.String("log-level")).
		SetFormat(cmd.String("log-format")).
		SetAttrs(slog.String("app", "onsctl"))
	if file := cmd.String("log-file"); file != "" {
		b = b.SetRotation(file, xrotate.WithMaxSize(100), xrotate.WithMaxBackups(3), xrotate.WithCompress(true))
	}
	logger, cleanup, err := b.Build()
	if err != nil {
		return builtLogger{}, err
	}
	rmq.BridgeLogger(logger)
	return builtLogger{logger: logger, cleanup: cleanup}, nil
}

func (s *session) loadProperties(cmd *cli.Command) error {
	base := map[string]string{}
	if path := cmd.String("config"); path != "" {
		cfg, err := xconf.New(path)
		if err != nil {
			return err
		}
		base, err = xconf.Properties(cfg, s.section)
		if err != nil {
			return err
		}
		s.cfg = cfg
	}
	overrides := map[string]string{
		xons.KeyNameSrvAddr: cmd.String("namesrv"),
		xons.KeyGroupID:     cmd.String("group"),
		xons.KeyAccessKey:   cmd.String("access-key"),
		xons.KeySecretKey:   cmd.String("secret-key"),
	}
	if cmd.Bool("no-trace") {
		overrides[xons.KeyMsgTraceSwitch] = "false"
	}
	s.props = xons.Properties(xconf.MergeProperties(base, overrides)).Normalize()
	return nil
}

// enableTrace MsgTraceSwitch 未关闭时挂载轨迹拦截器；轨迹启动失败只告警。
func (s *session) enableTrace(ctx context.Context, clients rmq.Factory, observer xmetrics.Observer) {
	if !s.props.TraceEnabled() {
		return
	}
	registry := xonstrace.NewRegistry(
		xonstrace.WithClientFactory(clients),
		xonstrace.WithRegistryLogger(s.logger),
	)
	dispatcher, err := xonstrace.NewDispatcher(registry, s.props,
		xonstrace.WithLogger(s.logger),
		xonstrace.WithObserver(observer),
	)
	if err == nil {
		err = dispatcher.Start(ctx)
	}
	if err != nil {
		s.logger.Warn(ctx, "message trace disabled", xlog.Err(err))
		_ = registry.Close()
		return
	}
	s.opts = append(s.opts, xons.WithTraceInterceptor(dispatcher.Interceptor()))
	s.closers = append(s.closers, registry.Close, func() error {
		return dispatcher.Shutdown(context.WithoutCancel(ctx))
	})
}

// close 逆序释放资源。
func (s *session) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	err := errors.Join(errs...)
	if err != nil && s.logger != nil {
		s.logger.Warn(ctx, "release resources failed", xlog.Err(err))
	}
	return err
}

// accessPointFactory 经接入点创建推模式消费者，供 ConsumerBean 使用。
type accessPointFactory struct {
	xons.Factory
	ap *xoms.MessagingAccessPoint
}

func (f accessPointFactory) CreateConsumer(props xons.Properties) (xons.Consumer, error) {
	return f.ap.CreateConsumer(props)
}
