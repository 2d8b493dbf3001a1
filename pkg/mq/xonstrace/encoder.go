package xonstrace

import (
	"strconv"
	"strings"
)

// 轨迹数据分隔符
const (
	ContentSeparator = '\x01'
	FieldSeparator   = '\x02'
)

// TraceType 轨迹类型。
type TraceType int

const (
	Pub TraceType = iota
	SubBefore
	SubAfter
)

func (t TraceType) String() string {
	switch t {
	case Pub:
		return "Pub"
	case SubBefore:
		return "SubBefore"
	case SubAfter:
		return "SubAfter"
	default:
		return "Unknown"
	}
}

// TraceBean 单条消息的轨迹信息。
type TraceBean struct {
	Topic       string
	MsgID       string
	OffsetMsgID string
	Tags        string
	Keys        string
	StoreHost   string
	ClientHost  string
	StoreTime   int64
	RetryTimes  int
	BodyLength  int
	MsgType     int
}

// TraceContext 一次发送或消费的轨迹。
type TraceContext struct {
	Type        TraceType
	TimeStamp   int64
	RegionID    string
	GroupName   string
	CostTime    int64
	Success     bool
	RequestID   string
	ContextCode int
	Beans       []TraceBean
}

// keys 轨迹消息的索引键：每条消息的 MsgID 与业务 Keys。
func (c *TraceContext) keys() []string {
	out := make([]string, 0, len(c.Beans)*2)
	for _, b := range c.Beans {
		if b.MsgID != "" {
			out = append(out, b.MsgID)
		}
		out = append(out, strings.Fields(b.Keys)...)
	}
	return out
}

// Encode 编码为轨迹数据。Pub 只编码第一条 bean，Sub* 每条 bean 一段。
func Encode(c TraceContext) string {
	if len(c.Beans) == 0 {
		return ""
	}
	var sb strings.Builder
	w := &fieldWriter{sb: &sb}
	switch c.Type {
	case Pub:
		b := c.Beans[0]
		w.field(c.Type.String())
		w.field(strconv.FormatInt(c.TimeStamp, 10))
		w.field(c.RegionID)
		w.field(c.GroupName)
		w.field(b.Topic)
		w.field(b.MsgID)
		w.field(b.Tags)
		w.field(b.Keys)
		w.field(b.StoreHost)
		w.field(strconv.Itoa(b.BodyLength))
		w.field(strconv.FormatInt(c.CostTime, 10))
		w.field(strconv.Itoa(b.MsgType))
		w.field(b.OffsetMsgID)
		w.last(strconv.FormatBool(c.Success))
	case SubBefore:
		for _, b := range c.Beans {
			w.field(c.Type.String())
			w.field(strconv.FormatInt(c.TimeStamp, 10))
			w.field(c.RegionID)
			w.field(c.GroupName)
			w.field(c.RequestID)
			w.field(b.MsgID)
			w.field(strconv.Itoa(b.RetryTimes))
			w.last(b.Keys)
		}
	case SubAfter:
		for _, b := range c.Beans {
			w.field(c.Type.String())
			w.field(c.RequestID)
			w.field(b.MsgID)
			w.field(strconv.FormatInt(c.CostTime, 10))
			w.field(strconv.FormatBool(c.Success))
			w.field(b.Keys)
			w.last(strconv.Itoa(c.ContextCode))
		}
	}
	return sb.String()
}

type fieldWriter struct {
	sb *strings.Builder
}

func (w *fieldWriter) field(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte(ContentSeparator)
}

func (w *fieldWriter) last(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte(FieldSeparator)
}
