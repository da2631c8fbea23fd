package redis

import (
	"fmt"
	"time"

	"github.com/gocrud/container/di"
)

// 参数名
var (
	Addr         = di.NewToken[string]("redis.addr")
	Password     = di.NewToken[string]("redis.password")
	DB           = di.NewToken[int]("redis.db")
	PoolSize     = di.NewToken[int]("redis.pool_size")
	MinIdleConns = di.NewToken[int]("redis.min_idle_conns")
	MaxRetries   = di.NewToken[int]("redis.max_retries")
	DialTimeout  = di.NewToken[string]("redis.dial_timeout")
	ReadTimeout  = di.NewToken[string]("redis.read_timeout")
	WriteTimeout = di.NewToken[string]("redis.write_timeout")
)

// Options Redis 客户端配置选项
type Options struct {
	Addr         string        // Redis 服务器地址 (host:port)
	Password     string        // 密码（可选）
	DB           int           // 数据库编号
	DialTimeout  time.Duration // 连接超时时间
	ReadTimeout  time.Duration // 读取超时时间
	WriteTimeout time.Duration // 写入超时时间
	PoolSize     int           // 连接池大小
	MinIdleConns int           // 最小空闲连接数
	MaxRetries   int           // 最大重试次数
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions() *Options {
	return &Options{
		Addr:         "localhost:6379",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	}
}

// Validate 验证配置
func (o *Options) Validate() error {
	if o.Addr == "" {
		return fmt.Errorf("redis address is required")
	}
	if o.DB < 0 {
		return fmt.Errorf("redis database number must be non-negative")
	}
	if o.DialTimeout <= 0 {
		return fmt.Errorf("redis dial timeout must be positive")
	}
	if o.PoolSize < 0 || o.MinIdleConns < 0 {
		return fmt.Errorf("redis pool sizes must be non-negative")
	}
	return nil
}

// SetDefaults 为容器中缺失的 redis.* 参数写入默认值
func SetDefaults(c *di.Container) {
	def := NewDefaultOptions()
	Addr.Default(c, def.Addr)
	Password.Default(c, def.Password)
	DB.Default(c, def.DB)
	PoolSize.Default(c, def.PoolSize)
	MinIdleConns.Default(c, def.MinIdleConns)
	MaxRetries.Default(c, def.MaxRetries)
	DialTimeout.Default(c, def.DialTimeout.String())
	ReadTimeout.Default(c, def.ReadTimeout.String())
	WriteTimeout.Default(c, def.WriteTimeout.String())
}

// optionsFrom 从已解析的参数构造 Options
func optionsFrom(args di.Args) (*Options, error) {
	opts := &Options{}
	var err error

	if opts.Addr, err = di.ArgText(args, Addr.Name()); err != nil {
		return nil, err
	}
	if opts.Password, err = di.ArgText(args, Password.Name()); err != nil {
		return nil, err
	}
	if opts.DB, err = DB.From(args); err != nil {
		return nil, err
	}
	if opts.PoolSize, err = PoolSize.From(args); err != nil {
		return nil, err
	}
	if opts.MinIdleConns, err = MinIdleConns.From(args); err != nil {
		return nil, err
	}
	if opts.MaxRetries, err = MaxRetries.From(args); err != nil {
		return nil, err
	}
	if opts.DialTimeout, err = duration(args, DialTimeout); err != nil {
		return nil, err
	}
	if opts.ReadTimeout, err = duration(args, ReadTimeout); err != nil {
		return nil, err
	}
	if opts.WriteTimeout, err = duration(args, WriteTimeout); err != nil {
		return nil, err
	}

	return opts, opts.Validate()
}

func duration(args di.Args, token *di.Token[string]) (time.Duration, error) {
	s, err := token.From(args)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", token.Name(), err)
	}
	return d, nil
}
