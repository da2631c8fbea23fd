package etcd

import (
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/gocrud/container/di"
	"github.com/gocrud/container/logging"
)

// 参数名
var (
	// Endpoints 可以是 []string、[]any（来自配置文件）或逗号分隔的字符串
	Endpoints   = di.NewToken[any]("etcd.endpoints")
	DialTimeout = di.NewToken[string]("etcd.dial_timeout")
	Username    = di.NewToken[string]("etcd.username")
	Password    = di.NewToken[string]("etcd.password")
)

// Options etcd 客户端配置选项
type Options struct {
	Endpoints   []string      // etcd 服务器地址列表
	DialTimeout time.Duration // 连接超时时间
	Username    string        // 用户名（可选）
	Password    string        // 密码（可选）
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions() *Options {
	return &Options{
		Endpoints:   []string{"localhost:2379"},
		DialTimeout: 5 * time.Second,
	}
}

// Validate 验证配置
func (o *Options) Validate() error {
	if len(o.Endpoints) == 0 {
		return fmt.Errorf("etcd endpoints are required")
	}
	if o.DialTimeout <= 0 {
		return fmt.Errorf("etcd dial timeout must be positive")
	}
	return nil
}

// SetDefaults 为容器中缺失的 etcd.* 参数写入默认值
func SetDefaults(c *di.Container) {
	def := NewDefaultOptions()
	Endpoints.Default(c, def.Endpoints)
	DialTimeout.Default(c, def.DialTimeout.String())
	Username.Default(c, "")
	Password.Default(c, "")
}

// NewClient 按配置创建 etcd 客户端
func NewClient(opts Options) (*clientv3.Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	cfg := clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.DialTimeout,
	}
	if opts.Username != "" {
		cfg.Username = opts.Username
		cfg.Password = opts.Password
	}

	client, err := clientv3.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	return client, nil
}

// Describe 在目录中描述 *clientv3.Client，参数来自 etcd.* 参数表。
func Describe(cat *di.Catalog, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}

	return di.Define[*clientv3.Client](cat, func(args di.Args) (*clientv3.Client, error) {
		opts, err := optionsFrom(args)
		if err != nil {
			return nil, err
		}
		client, err := NewClient(*opts)
		if err != nil {
			return nil, err
		}
		logger.Info("etcd client created", logging.Field{Key: "endpoints", Value: opts.Endpoints})
		return client, nil
	},
		di.Scalar(Endpoints.Name()),
		DialTimeout.Param(), di.Scalar(Username.Name()), di.Scalar(Password.Name()),
	)
}

func optionsFrom(args di.Args) (*Options, error) {
	endpoints, err := ParseEndpoints(args[Endpoints.Name()])
	if err != nil {
		return nil, err
	}

	raw, err := DialTimeout.From(args)
	if err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", DialTimeout.Name(), err)
	}

	opts := &Options{Endpoints: endpoints, DialTimeout: timeout}
	if opts.Username, err = di.ArgText(args, Username.Name()); err != nil {
		return nil, err
	}
	if opts.Password, err = di.ArgText(args, Password.Name()); err != nil {
		return nil, err
	}
	return opts, nil
}

// ParseEndpoints 把参数值转换为地址列表
func ParseEndpoints(value any) ([]string, error) {
	var endpoints []string

	switch v := value.(type) {
	case nil:
	case string:
		endpoints = strings.Split(v, ",")
	case []string:
		endpoints = append(endpoints, v...)
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("etcd endpoint must be a string, got %T", item)
			}
			endpoints = append(endpoints, s)
		}
	default:
		return nil, fmt.Errorf("unsupported etcd endpoints value of type %T", value)
	}

	out := endpoints[:0]
	for _, e := range endpoints {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("etcd endpoints are required")
	}
	return out, nil
}
