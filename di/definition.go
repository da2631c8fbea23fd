package di

import (
	"fmt"
	"reflect"
	"strconv"
)

// ParamKind 决定参数如何被满足。
type ParamKind int

const (
	// ParamUntyped 没有声明类型的参数，解析时报 MissingTypeError。
	ParamUntyped ParamKind = iota
	// ParamScalar 按名称从参数表中取值。
	ParamScalar
	// ParamComposite 按类型递归解析。
	ParamComposite
)

func (k ParamKind) String() string {
	switch k {
	case ParamUntyped:
		return "untyped"
	case ParamScalar:
		return "scalar"
	case ParamComposite:
		return "composite"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

// Param 描述构造函数或可调用对象的一个参数。
type Param struct {
	Name string
	Kind ParamKind
	// Type 为声明类型。ParamComposite 必须设置；ParamScalar 可选，
	// 设置后解析出的值必须可以赋给该类型。
	Type reflect.Type
}

// Scalar 声明一个按名称注入、不检查类型的标量参数。
func Scalar(name string) Param {
	return Param{Name: name, Kind: ParamScalar}
}

// ScalarOf 声明一个类型为 T 的标量参数。
func ScalarOf[T any](name string) Param {
	return Param{Name: name, Kind: ParamScalar, Type: TypeOf[T]()}
}

// Dep 声明一个按类型 T 解析的依赖参数。
func Dep[T any](name string) Param {
	return Param{Name: name, Kind: ParamComposite, Type: TypeOf[T]()}
}

// Untyped 声明一个没有类型的参数。
func Untyped(name string) Param {
	return Param{Name: name, Kind: ParamUntyped}
}

// Args 是已解析的参数，按参数名索引。
type Args map[string]any

// Arg 从 args 中取出名为 name 的参数并断言为 T。
// nil 值返回 T 的零值。
func Arg[T any](args Args, name string) (T, error) {
	var zero T
	v, ok := args[name]
	if !ok {
		return zero, fmt.Errorf("di: argument %s was not resolved", name)
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

// ArgText 取出名为 name 的标量参数的文本形式。
// 字符串原样返回，布尔值和数字按字面格式化，nil 返回空字符串。
// 适用于口令、地址、DSN 等自由文本参数，这类参数用 Scalar 声明。
func ArgText(args Args, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("di: argument %s was not resolved", name)
	}
	if v == nil {
		return "", nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()), nil
	}
	return "", &ArgumentError{Param: name, Want: reflect.TypeOf(""), Got: rv.Type()}
}

// Constructor 使用已解析的参数创建实例。
type Constructor func(args Args) (any, error)

// Descriptor 是一个可构造类型的元数据。
// 没有参数的描述符以空 Args 调用 New。
type Descriptor struct {
	Type   reflect.Type
	Params []Param
	New    Constructor
}

func (d *Descriptor) validate() error {
	if d.Type == nil {
		return fmt.Errorf("di: descriptor type is required")
	}
	if d.Type.Kind() == reflect.Interface {
		return fmt.Errorf("di: interface %v cannot be described, bind an implementation to it instead", d.Type)
	}
	if d.New == nil {
		return fmt.Errorf("di: descriptor for %v has no constructor", d.Type)
	}
	return validateParams(d.Type.String(), d.Params)
}

func validateParams(owner string, params []Param) error {
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		if p.Name == "" {
			return fmt.Errorf("di: parameter %d of %s has no name", i, owner)
		}
		if seen[p.Name] {
			return fmt.Errorf("di: duplicate parameter %s in %s", p.Name, owner)
		}
		seen[p.Name] = true
		if p.Kind == ParamComposite && p.Type == nil {
			return fmt.Errorf("di: dependency %s in %s has no type", p.Name, owner)
		}
	}
	return nil
}

// kindOf 将 Go 类型归类为参数种类。
// 空接口 any 视为“未声明类型”。
func kindOf(t reflect.Type) ParamKind {
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return ParamUntyped
	}
	if isScalarType(t) {
		return ParamScalar
	}
	return ParamComposite
}

func isScalarType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice, reflect.Array:
		elem := t.Elem()
		if elem.Kind() == reflect.Interface && elem.NumMethod() == 0 {
			return true
		}
		return isScalarType(elem)
	}
	return false
}

// isScalarValue 报告 v 是否可以放入参数表。
func isScalarValue(v any) bool {
	if v == nil {
		return true
	}
	return scalarValue(reflect.ValueOf(v))
}

func scalarValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Interface:
		return rv.IsNil() || scalarValue(rv.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !scalarValue(rv.Index(i)) {
				return false
			}
		}
		return true
	}
	return false
}

// assignable 检查解析出的值能否赋给参数声明的类型（不做任何转换）。
func assignable(owner string, p Param, v any) error {
	if p.Type == nil {
		return nil
	}
	if v == nil {
		switch p.Type.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return nil
		}
		return &ArgumentError{Owner: owner, Param: p.Name, Want: p.Type}
	}
	if got := reflect.TypeOf(v); !got.AssignableTo(p.Type) {
		return &ArgumentError{Owner: owner, Param: p.Name, Want: p.Type, Got: got}
	}
	return nil
}
