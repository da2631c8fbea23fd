package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gocrud/container/di"
	"github.com/gocrud/container/logging"
)

// 参数名
var (
	URI            = di.NewToken[string]("mongodb.uri")
	Username       = di.NewToken[string]("mongodb.username")
	Password       = di.NewToken[string]("mongodb.password")
	MaxPoolSize    = di.NewToken[int]("mongodb.max_pool_size")
	MinPoolSize    = di.NewToken[int]("mongodb.min_pool_size")
	ConnectTimeout = di.NewToken[string]("mongodb.connect_timeout")
)

// Options MongoDB 客户端配置选项
type Options struct {
	URI            string
	Username       string
	Password       string
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions() *Options {
	return &Options{
		URI:            "mongodb://localhost:27017",
		MaxPoolSize:    100,
		MinPoolSize:    5,
		ConnectTimeout: 10 * time.Second,
	}
}

// Validate 验证配置
func (o *Options) Validate() error {
	if o.URI == "" {
		return fmt.Errorf("mongo uri is required")
	}
	if o.MinPoolSize > o.MaxPoolSize && o.MaxPoolSize > 0 {
		return fmt.Errorf("mongo min pool size %d exceeds max pool size %d", o.MinPoolSize, o.MaxPoolSize)
	}
	return nil
}

// SetDefaults 为容器中缺失的 mongodb.* 参数写入默认值
func SetDefaults(c *di.Container) {
	def := NewDefaultOptions()
	URI.Default(c, def.URI)
	Username.Default(c, "")
	Password.Default(c, "")
	MaxPoolSize.Default(c, int(def.MaxPoolSize))
	MinPoolSize.Default(c, int(def.MinPoolSize))
	ConnectTimeout.Default(c, def.ConnectTimeout.String())
}

// NewClient 按配置创建客户端。mongo 驱动在后台建立连接，这里不访问网络。
func NewClient(opts Options) (*mongo.Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.Username != "" || opts.Password != "" {
		clientOpts.SetAuth(options.Credential{
			Username: opts.Username,
			Password: opts.Password,
		})
	}
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	return client, nil
}

// Describe 在目录中描述 *mongo.Client，参数来自 mongodb.* 参数表。
func Describe(cat *di.Catalog, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}

	return di.Define[*mongo.Client](cat, func(args di.Args) (*mongo.Client, error) {
		opts, err := optionsFrom(args)
		if err != nil {
			return nil, err
		}
		client, err := NewClient(*opts)
		if err != nil {
			return nil, err
		}
		logger.Info("mongo client created", logging.Field{Key: "max_pool_size", Value: opts.MaxPoolSize})
		return client, nil
	},
		di.Scalar(URI.Name()), di.Scalar(Username.Name()), di.Scalar(Password.Name()),
		MaxPoolSize.Param(), MinPoolSize.Param(), ConnectTimeout.Param(),
	)
}

func optionsFrom(args di.Args) (*Options, error) {
	opts := &Options{}
	var err error

	if opts.URI, err = di.ArgText(args, URI.Name()); err != nil {
		return nil, err
	}
	if opts.Username, err = di.ArgText(args, Username.Name()); err != nil {
		return nil, err
	}
	if opts.Password, err = di.ArgText(args, Password.Name()); err != nil {
		return nil, err
	}

	maxPool, err := MaxPoolSize.From(args)
	if err != nil {
		return nil, err
	}
	minPool, err := MinPoolSize.From(args)
	if err != nil {
		return nil, err
	}
	if maxPool < 0 || minPool < 0 {
		return nil, fmt.Errorf("mongo pool sizes must be non-negative")
	}
	opts.MaxPoolSize, opts.MinPoolSize = uint64(maxPool), uint64(minPool)

	raw, err := ConnectTimeout.From(args)
	if err != nil {
		return nil, err
	}
	if opts.ConnectTimeout, err = time.ParseDuration(raw); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConnectTimeout.Name(), err)
	}
	return opts, nil
}

// Disconnect 关闭客户端
func Disconnect(ctx context.Context, client *mongo.Client) error {
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongo client: %w", err)
	}
	return nil
}
