package web

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/gocrud/container/di"
	"github.com/gocrud/container/logging"
)

// 参数名
var (
	Mode = di.NewToken[string]("web.mode")
	Port = di.NewToken[int]("web.port")
)

// Controller 简单的控制器接口标记
type Controller interface {
	// MountRoutes 注册路由
	MountRoutes(router gin.IRouter)
}

// SetDefaults 写入缺失的 web.* 参数
func SetDefaults(c *di.Container) {
	Mode.Default(c, gin.ReleaseMode)
	Port.Default(c, 8080)
}

// NewEngine 创建 Gin 引擎，默认挂载 Recovery 中间件
func NewEngine(mode string) (*gin.Engine, error) {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return nil, fmt.Errorf("unknown gin mode %q", mode)
	}
	gin.SetMode(mode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	return engine, nil
}

// Describe 在目录中描述 *gin.Engine 和 *Host
func Describe(cat *di.Catalog, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}

	err := di.Define[*gin.Engine](cat, func(args di.Args) (*gin.Engine, error) {
		mode, err := Mode.From(args)
		if err != nil {
			return nil, err
		}
		return NewEngine(mode)
	}, Mode.Param())
	if err != nil {
		return err
	}

	return di.Define[*Host](cat, func(args di.Args) (*Host, error) {
		engine, err := di.Arg[*gin.Engine](args, "engine")
		if err != nil {
			return nil, err
		}
		port, err := Port.From(args)
		if err != nil {
			return nil, err
		}
		return NewHost(engine, port, logger)
	}, di.Dep[*gin.Engine]("engine"), Port.Param())
}

// MountControllers 从容器解析控制器并注册路由。
// 每个类型都通过 Get 解析，所以控制器与其依赖共享容器中的单例。
func MountControllers(c *di.Container, router gin.IRouter, types ...reflect.Type) error {
	for _, typ := range types {
		instance, err := c.Get(typ)
		if err != nil {
			return fmt.Errorf("failed to resolve controller %v: %w", typ, err)
		}

		ctrl, ok := instance.(Controller)
		if !ok {
			return fmt.Errorf("instance %v does not implement web.Controller interface", typ)
		}
		ctrl.MountRoutes(router)
	}
	return nil
}
