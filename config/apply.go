package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gocrud/container/di"
)

// Apply 把配置节展开为以 "." 连接的参数名并写入容器的参数表。
//
//	redis:
//	  addr: localhost:6379    ->  redis.addr = "localhost:6379"
//	  db: 0                   ->  redis.db   = 0
//
// 参数名总是从根开始的完整路径，section 只决定写入哪一部分。
// JSON 解析出的整数值（float64）会还原为 int。
// 列表中含有 map 时无法作为参数，返回错误且不写入任何参数。
func Apply(c *di.Container, cfg Configuration, section string) error {
	var root any = cfg.GetAll()
	prefix := ""
	if section != "" {
		parts := splitPath(section)
		for _, part := range parts {
			m, ok := root.(map[string]any)
			if !ok {
				return fmt.Errorf("config: section %s not found", section)
			}
			if root, ok = m[part]; !ok {
				return fmt.Errorf("config: section %s not found", section)
			}
		}
		prefix = strings.Join(parts, ".")
	}

	params := make(map[string]any)
	if err := flatten(prefix, root, params); err != nil {
		return err
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.SetParameter(name, params[name])
	}
	return nil
}

func flatten(prefix string, value any, out map[string]any) error {
	if m, ok := value.(map[string]any); ok {
		for k, v := range m {
			name := k
			if prefix != "" {
				name = prefix + "." + k
			}
			if err := flatten(name, v, out); err != nil {
				return err
			}
		}
		return nil
	}

	if prefix == "" {
		return fmt.Errorf("config: value %v has no name", value)
	}

	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("config: parameter %s: %w", prefix, err)
	}
	out[prefix] = v
	return nil
}

// normalize 把配置值转换为参数表可接受的值
func normalize(value any) (any, error) {
	switch v := value.(type) {
	case nil, bool, string, int, int64, uint64:
		return v, nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int(v), nil
		}
		return v, nil
	case []any:
		list := make([]any, len(v))
		for i, item := range v {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			list[i] = n
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", value)
	}
}
