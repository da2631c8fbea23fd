package di

import (
	"fmt"
	"reflect"
	"runtime"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// funcParams 通过反射得到函数的参数列表。
// Go 的函数类型不携带参数名，names 按位置提供名称，缺省为 arg<i>。
func funcParams(ft reflect.Type, names []string) ([]Param, error) {
	if ft.IsVariadic() {
		return nil, fmt.Errorf("di: variadic function %v is not supported", ft)
	}
	if len(names) > ft.NumIn() {
		return nil, fmt.Errorf("di: %d names given for %v which takes %d parameters", len(names), ft, ft.NumIn())
	}

	params := make([]Param, ft.NumIn())
	for i := range params {
		name := fmt.Sprintf("arg%d", i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		in := ft.In(i)
		params[i] = Param{Name: name, Kind: kindOf(in), Type: in}
	}
	return params, nil
}

// arguments 按参数顺序把 Args 转换为反射调用的实参。
func arguments(params []Param, args Args) []reflect.Value {
	in := make([]reflect.Value, len(params))
	for i, p := range params {
		v := args[p.Name]
		if v == nil {
			in[i] = reflect.Zero(p.Type)
			continue
		}
		in[i] = reflect.ValueOf(v)
	}
	return in
}

// results 拆分函数返回值：最后一个 error 类型的返回值作为错误，第一个作为结果。
func results(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}

	var err error
	last := out[len(out)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		out = out[:len(out)-1]
	}

	if len(out) == 0 {
		return nil, err
	}
	return out[0].Interface(), err
}

// newFuncConstructor 把构造函数包装为 Constructor。
func newFuncConstructor(fn reflect.Value, params []Param) Constructor {
	return func(args Args) (any, error) {
		out := fn.Call(arguments(params, args))
		inst, err := results(out)
		if err != nil {
			return nil, err
		}
		if isNil(out[0]) {
			return nil, fmt.Errorf("constructor returned nil instance")
		}
		return inst, nil
	}
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func funcName(fn reflect.Value) string {
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		return f.Name()
	}
	return fn.Type().String()
}

// Callable 是手工描述参数的可调用对象，用于无法通过反射得到参数名的场景。
type Callable struct {
	Name   string
	Params []Param
	Call   func(args Args) (any, error)
}

// invocation 是 Inject 的调用目标。
type invocation struct {
	owner  string
	params []Param
	call   func(args Args) (any, error)
}

// newInvocation 识别可调用对象：*Callable、函数值（包括方法值）、
// 或带有 Invoke 方法的对象。
func newInvocation(callable any, names []string) (*invocation, error) {
	if c, ok := callable.(*Callable); ok {
		if c == nil || c.Call == nil {
			return nil, fmt.Errorf("%w: callable has no call function", ErrNotCallable)
		}
		owner := c.Name
		if owner == "" {
			owner = "callable"
		}
		if err := validateParams(owner, c.Params); err != nil {
			return nil, err
		}
		return &invocation{owner: owner, params: c.Params, call: c.Call}, nil
	}

	if callable == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrNotCallable)
	}

	fn := reflect.ValueOf(callable)
	var owner string
	if fn.Kind() == reflect.Func {
		if fn.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", ErrNotCallable, callable)
		}
		owner = funcName(fn)
	} else {
		fn = fn.MethodByName("Invoke")
		if !fn.IsValid() {
			return nil, fmt.Errorf("%w: %T", ErrNotCallable, callable)
		}
		owner = fmt.Sprintf("%T.Invoke", callable)
	}

	if err := checkResults(fn.Type()); err != nil {
		return nil, fmt.Errorf("%w: %s %v", ErrNotCallable, owner, err)
	}

	params, err := funcParams(fn.Type(), names)
	if err != nil {
		return nil, err
	}

	return &invocation{
		owner:  owner,
		params: params,
		call: func(args Args) (any, error) {
			return results(fn.Call(arguments(params, args)))
		},
	}, nil
}

// checkResults 只接受 ()、(T)、(error)、(T, error) 四种返回形式。
func checkResults(ft reflect.Type) error {
	switch ft.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if ft.Out(1) == errorType {
			return nil
		}
	}
	return fmt.Errorf("returns %d values, want at most one value and an optional trailing error", ft.NumOut())
}
