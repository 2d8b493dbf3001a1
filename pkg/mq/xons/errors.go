package xons

import (
	"errors"
	"fmt"

	"github.com/omeyang/xons/internal/mqcore"
)

// 重导出共享错误
var (
	ErrNilClient  = mqcore.ErrNilClient
	ErrNilMessage = mqcore.ErrNilMessage
	ErrNilHandler = mqcore.ErrNilHandler
	ErrClosed     = mqcore.ErrClosed
	ErrNotStarted = mqcore.ErrNotStarted
)

// 配置错误
var (
	ErrPropertiesNotSet        = errors.New("xons: properties not set")
	ErrSubscriptionTableNotSet = errors.New("xons: subscriptionTable not set")
	ErrMissingGroupID          = errors.New("xons: GROUP_ID is required")
	ErrMissingNameServer       = errors.New("xons: NAMESRV_ADDR is required")
	ErrMissingCredential       = errors.New("xons: AccessKey and SecretKey are required")
	ErrInvalidProperty         = errors.New("xons: invalid property")
	ErrNilFactory              = errors.New("xons: nil factory")
	ErrNilExecutor             = errors.New("xons: nil transaction executor")
)

// ErrTransactionRollback 本地事务分支返回 Rollback，半消息已回滚
var ErrTransactionRollback = errors.New("xons: local transaction branch failed, so transaction rollback")

// 兼容性与校验错误
var (
	// ErrCapabilityMissing 底层消费者报告为 Extended 却没有实现 NotifySubscriber
	ErrCapabilityMissing = errors.New("xons: extended subscribe capability missing")

	// ErrCapabilityInvoke SubscribeNotify 返回错误或 panic
	ErrCapabilityInvoke = errors.New("xons: extended subscribe invocation failed")

	// ErrUnknownExpressionType 订阅的过滤类型既不是 TAG 也不是 SQL92
	ErrUnknownExpressionType = errors.New("xons: unknown expression type")

	ErrEmptyTopic = errors.New("xons: topic is empty")
)

// Kind 错误分类。
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindCompatibility
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindCompatibility:
		return "compatibility"
	case KindValidation:
		return "validation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ClientError 带分类的客户端错误，Cause 保留原始错误链。
type ClientError struct {
	Kind  Kind
	Op    string
	Cause error
}

func (e *ClientError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("xons: %s error: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("xons: %s: %s error: %v", e.Op, e.Kind, e.Cause)
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// IsKind 判断错误链中是否存在指定分类的 ClientError。
func IsKind(err error, kind Kind) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Kind == kind
}

func configError(op string, cause error) error {
	return &ClientError{Kind: KindConfiguration, Op: op, Cause: cause}
}

func compatibilityError(op string, cause error) error {
	return &ClientError{Kind: KindCompatibility, Op: op, Cause: cause}
}

func validationError(op string, cause error) error {
	return &ClientError{Kind: KindValidation, Op: op, Cause: cause}
}
