package xconf

import "github.com/knadh/koanf/v2"

// Format 配置文件格式。
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 配置接口。基础读取请直接使用 Client()。
type Config interface {
	// Client 返回当前 koanf 实例。Reload 后旧指针仍可用但数据过期。
	Client() *koanf.Koanf

	// Unmarshal path 为空时反序列化整个配置
	Unmarshal(path string, target any) error

	// Reload 重新读取文件，并发安全。
	Reload() error

	// Path 从字节数据创建时为空
	Path() string

	Format() Format
}

// Option 配置加载选项。
type Option func(*options)

type options struct {
	delim string
	tag   string
}

func defaultOptions() *options {
	return &options{delim: ".", tag: "koanf"}
}

// WithDelim 键分隔符，默认 "."。
// ONS 属性键不含 "."，但 InstanceName 等取值可能含有，分隔符只影响键。
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 结构体标签名，默认 "koanf"。
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}
