package xconf

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// Properties 把 path 指向的配置节展开为扁平的字符串属性表。
//
// 嵌套键以分隔符连接（如 "trace.MaxMsgSize"），列表以 ";" 连接，
// 与 NAMESRV_ADDR 的多地址写法一致。path 为空时展开整个配置。
// 返回的 map 由调用方持有。
func Properties(cfg Config, path string) (map[string]string, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	k := cfg.Client()
	if path != "" {
		if !k.Exists(path) {
			return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, path)
		}
		k = k.Cut(path)
	}

	all := k.All()
	props := make(map[string]string, len(all))
	for key, v := range all {
		props[key] = stringify(v)
	}
	return props, nil
}

// MergeProperties 以 overrides 覆盖 base，返回新 map。
func MergeProperties(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	maps.Copy(out, base)
	for k, v := range overrides {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		// JSON 数字统一解析为 float64，避免 128000 变成 1.28e+05
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ";")
	default:
		return fmt.Sprint(val)
	}
}
