package xons

import (
	"github.com/apache/rocketmq-client-go/v2/primitive"
)

// TransactionStatus 本地事务状态。零值为 TransactionUnknown。
type TransactionStatus int

const (
	TransactionUnknown TransactionStatus = iota
	TransactionCommit
	TransactionRollback
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionCommit:
		return "CommitTransaction"
	case TransactionRollback:
		return "RollbackTransaction"
	default:
		return "Unknown"
	}
}

// LocalState 映射为底层状态。Commit/Rollback 之外一律为 UnknowState。
func (s TransactionStatus) LocalState() primitive.LocalTransactionState {
	switch s {
	case TransactionCommit:
		return primitive.CommitMessageState
	case TransactionRollback:
		return primitive.RollbackMessageState
	default:
		return primitive.UnknowState
	}
}

// LocalTransactionExecutor 半消息发送成功后执行本地事务。
type LocalTransactionExecutor interface {
	Execute(msg *Message, arg any) TransactionStatus
}

// LocalTransactionExecutorFunc 函数适配器。
type LocalTransactionExecutorFunc func(msg *Message, arg any) TransactionStatus

func (f LocalTransactionExecutorFunc) Execute(msg *Message, arg any) TransactionStatus {
	return f(msg, arg)
}

// LocalTransactionChecker broker 回查本地事务状态。msg.MsgID 为事务 ID。
type LocalTransactionChecker interface {
	Check(msg *Message) TransactionStatus
}

// LocalTransactionCheckerFunc 函数适配器。
type LocalTransactionCheckerFunc func(msg *Message) TransactionStatus

func (f LocalTransactionCheckerFunc) Check(msg *Message) TransactionStatus {
	return f(msg)
}

// TransactionCheckListener 底层回查回调，入参为 broker 回查的原始消息。
// OpenMessaging 接入点把 LocalTransactionChecker 适配为此接口。
type TransactionCheckListener interface {
	CheckLocalTransactionState(msg *primitive.MessageExt) primitive.LocalTransactionState
}

// TransactionCheckListenerFunc 函数适配器。
type TransactionCheckListenerFunc func(msg *primitive.MessageExt) primitive.LocalTransactionState

func (f TransactionCheckListenerFunc) CheckLocalTransactionState(msg *primitive.MessageExt) primitive.LocalTransactionState {
	return f(msg)
}
