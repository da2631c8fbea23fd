package database

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gocrud/container/di"
	"github.com/gocrud/container/logging"
)

// 参数名
var (
	DSN             = di.NewToken[string]("database.dsn")
	MaxOpenConns    = di.NewToken[int]("database.max_open_conns")
	MaxIdleConns    = di.NewToken[int]("database.max_idle_conns")
	ConnMaxLifetime = di.NewToken[string]("database.conn_max_lifetime")
)

// Options 数据库连接池配置
type Options struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions() *Options {
	return &Options{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
	}
}

// Validate 验证配置
func (o *Options) Validate() error {
	if o.MaxOpenConns < 0 || o.MaxIdleConns < 0 {
		return fmt.Errorf("database connection limits must be non-negative")
	}
	if o.MaxOpenConns > 0 && o.MaxIdleConns > o.MaxOpenConns {
		return fmt.Errorf("database max idle conns %d exceeds max open conns %d", o.MaxIdleConns, o.MaxOpenConns)
	}
	return nil
}

// SetDefaults 为容器中缺失的 database.* 连接池参数写入默认值，不包括 database.dsn
func SetDefaults(c *di.Container) {
	def := NewDefaultOptions()
	MaxOpenConns.Default(c, def.MaxOpenConns)
	MaxIdleConns.Default(c, def.MaxIdleConns)
	ConnMaxLifetime.Default(c, def.ConnMaxLifetime.String())
}

// Open 使用方言打开数据库并配置连接池
func Open(dialector gorm.Dialector, opts Options) (*gorm.DB, error) {
	if dialector == nil {
		return nil, fmt.Errorf("database dialector is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	return db, nil
}

// Describe 在目录中描述 *gorm.DB 和 *sqlite.Dialector。
// *gorm.DB 依赖接口 gorm.Dialector，需要通过别名指定实现，见 UseSQLite。
func Describe(cat *di.Catalog, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}

	err := di.Define[*sqlite.Dialector](cat, func(args di.Args) (*sqlite.Dialector, error) {
		dsn, err := di.ArgText(args, DSN.Name())
		if err != nil {
			return nil, err
		}
		if dsn == "" {
			return nil, fmt.Errorf("%s is required", DSN.Name())
		}
		return &sqlite.Dialector{DSN: dsn}, nil
	}, di.Scalar(DSN.Name()))
	if err != nil {
		return err
	}

	return di.Define[*gorm.DB](cat, func(args di.Args) (*gorm.DB, error) {
		dialector, err := di.Arg[gorm.Dialector](args, "dialector")
		if err != nil {
			return nil, err
		}
		opts, err := optionsFrom(args)
		if err != nil {
			return nil, err
		}
		db, err := Open(dialector, *opts)
		if err != nil {
			return nil, err
		}
		logger.Info("database opened",
			logging.Field{Key: "dialect", Value: dialector.Name()},
			logging.Field{Key: "max_open_conns", Value: opts.MaxOpenConns})
		return db, nil
	},
		di.Dep[gorm.Dialector]("dialector"),
		MaxOpenConns.Param(), MaxIdleConns.Param(), ConnMaxLifetime.Param(),
	)
}

// UseSQLite 把 gorm.Dialector 绑定到 *sqlite.Dialector
func UseSQLite(c *di.Container) {
	di.Bind[gorm.Dialector, *sqlite.Dialector](c)
}

// Migrate 从容器解析 *gorm.DB 并执行自动迁移
func Migrate(c *di.Container, models ...any) error {
	db, err := di.Resolve[*gorm.DB](c)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func optionsFrom(args di.Args) (*Options, error) {
	opts := &Options{}
	var err error

	if opts.MaxOpenConns, err = MaxOpenConns.From(args); err != nil {
		return nil, err
	}
	if opts.MaxIdleConns, err = MaxIdleConns.From(args); err != nil {
		return nil, err
	}
	raw, err := ConnMaxLifetime.From(args)
	if err != nil {
		return nil, err
	}
	if opts.ConnMaxLifetime, err = time.ParseDuration(raw); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConnMaxLifetime.Name(), err)
	}
	return opts, nil
}
