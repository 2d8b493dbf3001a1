package xons

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/omeyang/xons/pkg/config/xconf"
)

// Properties ONS 扁平配置。键见 Key* 常量，只在构造或启动时校验。
type Properties map[string]string

// 属性键
const (
	KeyGroupID       = "GROUP_ID"
	KeyProducerID    = "ProducerId" // 旧版分组键
	KeyConsumerID    = "ConsumerId" // 旧版分组键
	KeyAccessKey     = "AccessKey"
	KeySecretKey     = "SecretKey"
	KeySecurityToken = "SecurityToken"
	KeyNameSrvAddr   = "NAMESRV_ADDR"
	KeyAddrSrvURL    = "ADDRSRV_URL"
	KeyInstanceName  = "InstanceName"
	KeyMaxMsgSize    = "MaxMsgSize"

	KeySendMsgTimeoutMillis = "SendMsgTimeoutMillis"
	KeySendRetryTimes       = "SendRetryTimes"

	KeyMessageModel               = "MessageModel"
	KeyConsumeThreadNums          = "ConsumeThreadNums"
	KeyConsumeMessageBatchMaxSize = "ConsumeMessageBatchMaxSize"
	KeyMaxReconsumeTimes          = "MaxReconsumeTimes"
	KeyConsumeFromWhere           = "ConsumeFromWhere"
	KeyPollTimeoutMillis          = "PollTimeoutMillis"

	KeyMsgTraceSwitch = "MsgTraceSwitch"
)

// MessageModel 取值
const (
	Clustering   = "CLUSTERING"
	Broadcasting = "BROADCASTING"
)

// ConsumeFromWhere 取值
const (
	ConsumeFromLastOffset  = "CONSUME_FROM_LAST_OFFSET"
	ConsumeFromFirstOffset = "CONSUME_FROM_FIRST_OFFSET"
)

// DefaultProducerGroup 生产者未配置分组时使用。
const DefaultProducerGroup = "__ONS_PRODUCER_DEFAULT_GROUP"

// Clone 返回副本，nil 得到空 map。
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	maps.Copy(out, p)
	return out
}

// Get 缺失或空值时返回 def。
func (p Properties) Get(key, def string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return def
}

// Int 缺失时返回 def，非法整数返回 ErrInvalidProperty。
func (p Properties) Int(key string, def int) (int, error) {
	v := strings.TrimSpace(p[key])
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidProperty, key, v)
	}
	return n, nil
}

// Millis 以毫秒解析时长。
func (p Properties) Millis(key string, def time.Duration) (time.Duration, error) {
	n, err := p.Int(key, -1)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return def, nil
	}
	return time.Duration(n) * time.Millisecond, nil
}

// Bool 缺失或无法解析时返回 def。
func (p Properties) Bool(key string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(p[key]))
	if err != nil {
		return def
	}
	return b
}

// GroupID GROUP_ID 优先，其次旧版 ProducerId / ConsumerId。
func (p Properties) GroupID() string {
	for _, key := range []string{KeyGroupID, KeyConsumerID, KeyProducerID} {
		if v := strings.TrimSpace(p[key]); v != "" {
			return v
		}
	}
	return ""
}

// NameServers 拆分 NAMESRV_ADDR，支持 ";" 与 "," 分隔。
func (p Properties) NameServers() []string {
	return splitAddrs(p[KeyNameSrvAddr])
}

// TraceEnabled MsgTraceSwitch 未显式设为 false 时开启。
func (p Properties) TraceEnabled() bool {
	return p.Bool(KeyMsgTraceSwitch, true)
}

// Normalize 返回副本，并把旧版分组键归一到 GROUP_ID。
func (p Properties) Normalize() Properties {
	out := p.Clone()
	if out[KeyGroupID] == "" {
		if g := out.GroupID(); g != "" {
			out[KeyGroupID] = g
		}
	}
	return out
}

// LoadProperties 从 YAML/JSON 文件的 section 节加载属性。
func LoadProperties(path, section string) (Properties, error) {
	cfg, err := xconf.New(path)
	if err != nil {
		return nil, err
	}
	props, err := xconf.Properties(cfg, section)
	if err != nil {
		return nil, err
	}
	return Properties(props).Normalize(), nil
}

func splitAddrs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
