package xons

import (
	"errors"
	"slices"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"

	"github.com/omeyang/xons/internal/rmq"
)

type role int

const (
	roleProducer role = iota
	roleOrderProducer
	roleConsumer
	roleBatchConsumer
	roleOrderConsumer
	rolePullConsumer
)

func (r role) isConsumer() bool {
	return r >= roleConsumer
}

// buildClientConfig 把属性映射为底层配置，缺失必填项或非法数字时返回 configuration 错误。
func buildClientConfig(op string, props Properties, r role, o *options) (rmq.ClientConfig, error) {
	cfg := rmq.ClientConfig{
		GroupName:    props.GroupID(),
		NameServers:  props.NameServers(),
		InstanceName: props.Get(KeyInstanceName, ""),
		Credentials: primitive.Credentials{
			AccessKey:     props.Get(KeyAccessKey, ""),
			SecretKey:     props.Get(KeySecretKey, ""),
			SecurityToken: props.Get(KeySecurityToken, ""),
		},
	}
	if cfg.GroupName == "" {
		if r.isConsumer() {
			return cfg, configError(op, ErrMissingGroupID)
		}
		cfg.GroupName = DefaultProducerGroup
	}
	if len(cfg.NameServers) == 0 {
		return cfg, configError(op, ErrMissingNameServer)
	}

	var errs []error
	if r.isConsumer() {
		cfg.Broadcasting = props.Get(KeyMessageModel, Clustering) == Broadcasting
		cfg.Orderly = r == roleOrderConsumer
		if props.Get(KeyConsumeFromWhere, "") == ConsumeFromFirstOffset {
			cfg.ConsumeFromWhere = consumer.ConsumeFromFirstOffset
		}

		goroutines, err := props.Int(KeyConsumeThreadNums, 0)
		errs = append(errs, err)
		cfg.ConsumeGoroutines = goroutines

		reconsume, err := props.Int(KeyMaxReconsumeTimes, 0)
		errs = append(errs, err)
		cfg.MaxReconsumeTimes = int32(min(max(reconsume, 0), 1<<15))

		if r == roleBatchConsumer {
			batch, err := props.Int(KeyConsumeMessageBatchMaxSize, 0)
			errs = append(errs, err)
			cfg.BatchMaxSize = batch
		}
	} else {
		timeout, err := props.Millis(KeySendMsgTimeoutMillis, 0)
		errs = append(errs, err)
		cfg.SendTimeout = timeout

		retry, err := props.Int(KeySendRetryTimes, 0)
		errs = append(errs, err)
		cfg.Retry = retry

		cfg.HashByShardingKey = r == roleOrderProducer
	}
	if err := errors.Join(errs...); err != nil {
		return cfg, configError(op, err)
	}

	cfg.Interceptors = slices.Clone(o.interceptors)
	if props.TraceEnabled() && r != rolePullConsumer {
		cfg.Interceptors = append(cfg.Interceptors, o.traceHooks...)
	}
	return cfg, nil
}

// withCredential 用 props 中的新凭证替换 cfg 的凭证。
func withCredential(cfg rmq.ClientConfig, props Properties) (rmq.ClientConfig, error) {
	ak, sk := props.Get(KeyAccessKey, ""), props.Get(KeySecretKey, "")
	if ak == "" || sk == "" {
		return cfg, configError("updateCredential", ErrMissingCredential)
	}
	cfg.Credentials = primitive.Credentials{
		AccessKey:     ak,
		SecretKey:     sk,
		SecurityToken: props.Get(KeySecurityToken, ""),
	}
	cfg.Interceptors = slices.Clone(cfg.Interceptors)
	cfg.NameServers = slices.Clone(cfg.NameServers)
	return cfg, nil
}
