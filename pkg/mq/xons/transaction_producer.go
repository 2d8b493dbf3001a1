package xons

import (
	"context"
	"fmt"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/omeyang/xons/internal/rmq"
	"github.com/omeyang/xons/pkg/observability/xlog"
	"github.com/omeyang/xons/pkg/observability/xmetrics"
)

// propTxCorrelation 关联一次 Send 调用与底层本地事务回调。
const propTxCorrelation = "__XONS_TX_CORRELATION"

type pendingTx struct {
	executor LocalTransactionExecutor
	arg      any
	msg      *Message
}

func newPendingTable() *xsync.Map[string, pendingTx] {
	return xsync.NewMap[string, pendingTx]()
}

// txListener 实现 primitive.TransactionListener。
//
// 底层客户端在 SendMessageInTransaction 内同步回调 ExecuteLocalTransaction，
// 通过关联属性找回本次调用的 executor。
type txListener struct {
	opts    *options
	checker TransactionCheckListener
	pending *xsync.Map[string, pendingTx]
	group   string
}

func (l *txListener) ExecuteLocalTransaction(pm *primitive.Message) primitive.LocalTransactionState {
	p, ok := l.pending.Load(pm.GetProperty(propTxCorrelation))
	if !ok {
		return primitive.UnknowState
	}
	p.msg.MsgID = pm.GetProperty(propUniqKey)
	if p.msg.MsgID == "" {
		p.msg.MsgID = pm.TransactionId
	}
	return l.execute(p).LocalState()
}

func (l *txListener) execute(p pendingTx) (status TransactionStatus) {
	defer func() {
		if r := recover(); r != nil {
			l.opts.log().Error(context.Background(), "local transaction executor panic",
				xlog.Component(componentName), xlog.Topic(p.msg.Topic), xlog.MsgID(p.msg.MsgID),
				xlog.Err(fmt.Errorf("panic: %v", r)))
			status = TransactionUnknown
		}
	}()
	return p.executor.Execute(p.msg, p.arg)
}

// CheckLocalTransaction 无回查监听器或监听器 panic 时返回 UnknowState，等待下次回查。
func (l *txListener) CheckLocalTransaction(ext *primitive.MessageExt) (state primitive.LocalTransactionState) {
	if l.checker == nil {
		return primitive.UnknowState
	}
	ctx, span := xmetrics.Start(context.Background(), l.opts.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "check_transaction",
		Kind:      xmetrics.KindConsumer,
		Attrs: []xmetrics.Attr{
			xmetrics.System(), xmetrics.Topic(ext.Topic),
			xmetrics.Group(l.group), xmetrics.MessageID(ext.MsgId),
		},
	})
	defer func() {
		if r := recover(); r != nil {
			l.opts.log().Error(ctx, "transaction check listener panic",
				xlog.Component(componentName), xlog.Topic(ext.Topic), xlog.MsgID(ext.MsgId),
				xlog.Err(fmt.Errorf("panic: %v", r)))
			state = primitive.UnknowState
		}
		span.End(xmetrics.Result{Attrs: []xmetrics.Attr{xmetrics.String("xons.transaction.state", stateName(state))}})
	}()
	return l.checker.CheckLocalTransactionState(ext)
}

func stateName(s primitive.LocalTransactionState) string {
	switch s {
	case primitive.CommitMessageState:
		return TransactionCommit.String()
	case primitive.RollbackMessageState:
		return TransactionRollback.String()
	default:
		return TransactionUnknown.String()
	}
}

type transactionProducer struct {
	*holder[rmq.TransactionProducer]
	listener *txListener
}

func newTransactionProducer(cfg rmq.ClientConfig, checker TransactionCheckListener, o *options) (*transactionProducer, error) {
	l := &txListener{
		opts:    o,
		checker: checker,
		pending: newPendingTable(),
		group:   cfg.GroupName,
	}
	build := func(c rmq.ClientConfig) (rmq.TransactionProducer, error) {
		return o.clients.NewTransactionProducer(c, l)
	}
	h, err := newHolder("transaction_producer", cfg, o, build)
	if err != nil {
		return nil, err
	}
	return &transactionProducer{holder: h, listener: l}, nil
}

func (t *transactionProducer) UpdateCredential(props Properties) error {
	return t.updateCredential(props, nil)
}

func (t *transactionProducer) Send(ctx context.Context, msg *Message, executor LocalTransactionExecutor, arg any) (result *SendResult, err error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	if executor == nil {
		return nil, ErrNilExecutor
	}
	client, err := t.running()
	if err != nil {
		return nil, err
	}

	ctx, span := xmetrics.Start(ctx, t.opts.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "send_transaction",
		Kind:      xmetrics.KindProducer,
		Attrs:     messageAttrs(msg, t.group()),
	})
	defer func() {
		span.End(xmetrics.Result{Err: err})
	}()

	corr := uuid.NewString()
	t.listener.pending.Store(corr, pendingTx{executor: executor, arg: arg, msg: msg})
	defer t.listener.pending.Delete(corr)

	pm := t.opts.outgoing(ctx, msg)
	pm.WithProperty(propTxCorrelation, corr)
	res, err := client.SendMessageInTransaction(ctx, pm)
	if err != nil {
		return nil, err
	}
	if res.SendResult != nil && res.MsgID != "" {
		msg.MsgID = res.MsgID
	}
	if res.State == primitive.RollbackMessageState {
		return nil, ErrTransactionRollback
	}
	return &SendResult{Topic: msg.Topic, MessageID: msg.MsgID}, nil
}

var (
	_ TransactionProducer           = (*transactionProducer)(nil)
	_ primitive.TransactionListener = (*txListener)(nil)
)
