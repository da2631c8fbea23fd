package di

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/gocrud/container/logging"
)

// Existence 是 Probe 的结果。
type Existence int

const (
	// Unresolvable 类型无法解析（未描述或是没有绑定实现的接口）。
	Unresolvable Existence = iota
	// Resolvable 类型可以构造，但尚未缓存实例。
	Resolvable
	// Cached 已经缓存了实例。
	Cached
)

func (e Existence) String() string {
	switch e {
	case Unresolvable:
		return "unresolvable"
	case Resolvable:
		return "resolvable"
	case Cached:
		return "cached"
	default:
		return fmt.Sprintf("Existence(%d)", int(e))
	}
}

// Container 是依赖注入容器。
//
// 它持有四份状态：实例缓存（具体类型 -> 单例）、参数表（名称 -> 标量值）、
// 别名表（接口 -> 具体类型）以及解析栈。类型元数据来自 Catalog。
//
// 所有公开方法互斥执行。构造函数在锁内运行，不能回调容器；
// Inject 的目标函数在锁释放后调用，可以再次使用容器。
type Container struct {
	mu      sync.Mutex
	catalog *Catalog
	logger  logging.Logger

	instances  map[reflect.Type]any
	parameters map[string]any
	aliases    map[reflect.Type]reflect.Type
	stack      []reflect.Type
}

// NewContainer 创建一个空容器。
func NewContainer(opts ...Option) *Container {
	c := &Container{
		instances:  make(map[reflect.Type]any),
		parameters: make(map[string]any),
		aliases:    make(map[reflect.Type]reflect.Type),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.catalog == nil {
		c.catalog = NewCatalog()
	}
	return c
}

// Catalog 返回容器使用的类型目录。
func (c *Container) Catalog() *Catalog {
	return c.catalog
}

// Get 返回类型 t 的实例，必要时递归构造并缓存。
func (c *Container) Get(t reflect.Type) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, err := c.get(t)
	if err != nil && c.logger != nil {
		c.logger.Debug("resolution failed",
			logging.Field{Key: "type", Value: typeName(t)},
			logging.Field{Key: "error", Value: err.Error()})
	}
	return inst, err
}

// Probe 判断类型 t 的可用性，不会构造任何实例。
func (c *Container) Probe(t reflect.Type) Existence {
	c.mu.Lock()
	defer c.mu.Unlock()

	concrete := c.implementation(t)
	if _, ok := c.instances[concrete]; ok {
		return Cached
	}
	if concrete == nil || concrete.Kind() == reflect.Interface {
		return Unresolvable
	}
	if _, ok := c.catalog.Lookup(concrete); ok {
		return Resolvable
	}
	return Unresolvable
}

// Has 报告类型 t 是否已缓存或可以被构造。
func (c *Container) Has(t reflect.Type) bool {
	return c.Probe(t) != Unresolvable
}

// SetParameter 设置参数值。value 只能是布尔、字符串、整数、浮点数、
// 以它们为底层类型的枚举常量、由上述值组成的切片或数组，或者 nil。
func (c *Container) SetParameter(name string, value any) {
	if !isScalarValue(value) {
		panic(fmt.Sprintf("di: unsupported value of type %T for parameter %s", value, name))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.parameters[name] = value
}

// GetParameter 返回参数值。
func (c *Container) GetParameter(name string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.parameters[name]
	if !ok {
		return nil, &UndefinedParameterError{Param: name}
	}
	return v, nil
}

// SetImplementation 将接口类型绑定到具体类型。绑定在解析时才会校验。
func (c *Container) SetImplementation(iface, concrete reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[iface] = concrete
}

// Reset 清空实例缓存、参数表、别名表和解析栈。Catalog 保持不变。
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.instances)
	clear(c.parameters)
	clear(c.aliases)
	c.stack = nil

	if c.logger != nil {
		c.logger.Info("container reset")
	}
}

// implementation 返回别名表中的具体类型，没有别名时返回 t 本身。
func (c *Container) implementation(t reflect.Type) reflect.Type {
	if concrete, ok := c.aliases[t]; ok {
		return concrete
	}
	return t
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
