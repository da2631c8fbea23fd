package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gocrud/container/di"
	"github.com/gocrud/container/logging"
)

// NewClient 按配置创建 Redis 客户端。连接在第一次使用时建立。
func NewClient(opts Options) (*redis.Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		MaxRetries:   opts.MaxRetries,
	}), nil
}

// Describe 在目录中描述 *redis.Client，参数来自 redis.* 参数表。
// logger 为 nil 时不输出日志。
func Describe(cat *di.Catalog, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}

	return di.Define[*redis.Client](cat, func(args di.Args) (*redis.Client, error) {
		opts, err := optionsFrom(args)
		if err != nil {
			return nil, err
		}
		client, err := NewClient(*opts)
		if err != nil {
			return nil, err
		}
		logger.Info("redis client created",
			logging.Field{Key: "addr", Value: opts.Addr},
			logging.Field{Key: "db", Value: opts.DB})
		return client, nil
	},
		di.Scalar(Addr.Name()), di.Scalar(Password.Name()), DB.Param(),
		PoolSize.Param(), MinIdleConns.Param(), MaxRetries.Param(),
		DialTimeout.Param(), ReadTimeout.Param(), WriteTimeout.Param(),
	)
}

// Ping 测试连接
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}
