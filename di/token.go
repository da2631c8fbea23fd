package di

import (
	"fmt"
	"reflect"
)

// Token 是带类型的参数名，用于在声明参数和读取参数时保持类型一致。
//
// 示例：
//
//	var Addr = di.NewToken[string]("redis.addr")
//
//	Addr.Set(c, "localhost:6379")
//	di.Define[*Client](catalog, func(args di.Args) (*Client, error) {
//		addr, err := Addr.From(args)
//		...
//	}, Addr.Param())
type Token[T any] struct {
	name string
	typ  reflect.Type
}

// NewToken 创建一个新的 Token。
func NewToken[T any](name string) *Token[T] {
	return &Token[T]{
		name: name,
		typ:  TypeOf[T](),
	}
}

// Name 返回参数名。
func (t *Token[T]) Name() string {
	return t.name
}

// Type 返回参数类型。
func (t *Token[T]) Type() reflect.Type {
	return t.typ
}

// String 返回 Token 的字符串表示
func (t *Token[T]) String() string {
	return fmt.Sprintf("Token[%s](%s)", t.typ, t.name)
}

// Param 返回对应的标量参数声明。
func (t *Token[T]) Param() Param {
	return Param{Name: t.name, Kind: ParamScalar, Type: t.typ}
}

// Set 写入参数表。
func (t *Token[T]) Set(c *Container, value T) {
	c.SetParameter(t.name, value)
}

// Default 参数不存在时写入 value，返回是否写入。
func (t *Token[T]) Default(c *Container, value T) bool {
	if !isScalarValue(value) {
		panic(fmt.Sprintf("di: unsupported value of type %T for parameter %s", value, t.name))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.parameters[t.name]; ok {
		return false
	}
	c.parameters[t.name] = value
	return true
}

// Get 从参数表读取。
func (t *Token[T]) Get(c *Container) (T, error) {
	return Parameter[T](c, t.name)
}

// From 从已解析的参数中读取。
func (t *Token[T]) From(args Args) (T, error) {
	return Arg[T](args, t.name)
}

// TypeOf 获取类型 T 的 reflect.Type（泛型辅助函数）
//
// 示例：
//
//	userServiceType := di.TypeOf[*UserService]()
//	instance, _ := container.Get(userServiceType)
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
