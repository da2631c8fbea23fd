package di

import (
	"fmt"
	"reflect"
)

// Provide 通过构造函数注册类型，返回被描述的类型。
//
// ctor 必须是 func(...) T 或 func(...) (T, error)，T 为具体类型（不能是接口）。
// 参数类型通过反射获得，names 按位置给出参数名：
//   - 标量参数（bool、string、数字及其切片）按名称从参数表取值
//   - 类型为 any 的参数视为未声明类型
//   - 其他参数按类型递归解析，名称可省略
//
// 示例：
//
//	di.Provide(catalog, NewMailer, "smtp.host", "smtp.port")
func Provide(catalog *Catalog, ctor any, names ...string) (reflect.Type, error) {
	fn := reflect.ValueOf(ctor)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("di: constructor must be a function, got %T", ctor)
	}

	fnType := fn.Type()
	switch {
	case fnType.NumOut() == 1 && fnType.Out(0) != errorType:
	case fnType.NumOut() == 2 && fnType.Out(1) == errorType:
	default:
		return nil, fmt.Errorf("di: constructor %v must return T or (T, error)", fnType)
	}

	params, err := funcParams(fnType, names)
	if err != nil {
		return nil, err
	}

	serviceType := fnType.Out(0)
	def := &Descriptor{
		Type:   serviceType,
		Params: params,
		New:    newFuncConstructor(fn, params),
	}
	if err := catalog.Add(def); err != nil {
		return nil, err
	}
	return serviceType, nil
}

// MustProvide 与 Provide 相同，失败时 panic。
func MustProvide(catalog *Catalog, ctor any, names ...string) reflect.Type {
	typ, err := Provide(catalog, ctor, names...)
	if err != nil {
		panic(fmt.Sprintf("di: failed to provide %T: %v", ctor, err))
	}
	return typ
}

// Define 使用手写的参数列表注册类型 T。
func Define[T any](catalog *Catalog, fn func(args Args) (T, error), params ...Param) error {
	return catalog.Add(&Descriptor{
		Type:   TypeOf[T](),
		Params: params,
		New: func(args Args) (any, error) {
			return fn(args)
		},
	})
}

// Zero 注册一个无参构造的类型 T。
// T 为指针时构造一个新的零值对象，否则返回 T 的零值。
func Zero[T any](catalog *Catalog) error {
	typ := TypeOf[T]()
	return catalog.Add(&Descriptor{
		Type: typ,
		New: func(Args) (any, error) {
			if typ.Kind() == reflect.Pointer {
				return reflect.New(typ.Elem()).Interface(), nil
			}
			var zero T
			return zero, nil
		},
	})
}

// Resolve 从容器中解析类型 T 的实例。
func Resolve[T any](c *Container) (T, error) {
	var zero T
	typ := TypeOf[T]()

	val, err := c.Get(typ)
	if err != nil {
		return zero, err
	}
	if val == nil {
		return zero, nil
	}

	if v, ok := val.(T); ok {
		return v, nil
	}
	return zero, fmt.Errorf("di: resolved value is %T, expected %v", val, typ)
}

// MustResolve 与 Resolve 相同，失败时 panic。
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// Parameter 读取参数并断言为 T，不做类型转换。
func Parameter[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.GetParameter(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &ArgumentError{Param: name, Want: TypeOf[T](), Got: reflect.TypeOf(v)}
	}
	return typed, nil
}

// InjectAs 调用 Inject 并将结果断言为 R。
func InjectAs[R any](c *Container, callable any, names ...string) (R, error) {
	var zero R
	out, err := c.Inject(callable, names...)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	typed, ok := out.(R)
	if !ok {
		return zero, fmt.Errorf("di: callable returned %T, expected %v", out, TypeOf[R]())
	}
	return typed, nil
}
