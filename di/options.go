package di

import "github.com/gocrud/container/logging"

// Option 配置容器。
type Option func(*Container)

// WithCatalog 使用指定的类型目录，多个容器可以共享同一个目录。
func WithCatalog(catalog *Catalog) Option {
	return func(c *Container) {
		c.catalog = catalog
	}
}

// WithLogger 设置容器的日志记录器。
// 构造记录为 Debug，缓存命中记录为 Trace。
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithParameters 预置参数表。
func WithParameters(params map[string]any) Option {
	return func(c *Container) {
		for name, value := range params {
			if !isScalarValue(value) {
				panic("di: unsupported value for parameter " + name)
			}
			c.parameters[name] = value
		}
	}
}
