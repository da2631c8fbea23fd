package di

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// 哨兵错误，配合 errors.Is 使用。
var (
	ErrNotFound                = errors.New("di: not found")
	ErrUndefinedImplementation = errors.New("di: undefined implementation")
	ErrMissingType             = errors.New("di: missing type")
	ErrUndefinedParameter      = errors.New("di: undefined parameter")
	ErrCircularDependency      = errors.New("di: circular dependency")
	ErrArgument                = errors.New("di: invalid argument")
	ErrConstruction            = errors.New("di: construction failed")
	ErrNotCallable             = errors.New("di: not callable")
)

// NotFoundError 类型在目录中没有描述符。
type NotFoundError struct {
	Type reflect.Type
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("di: type %v is not found", e.Type)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UndefinedImplementationError 解析到了一个没有绑定实现的接口。
type UndefinedImplementationError struct {
	Type reflect.Type
}

func (e *UndefinedImplementationError) Error() string {
	return fmt.Sprintf("di: please specify an implementation for interface %v", e.Type)
}

func (e *UndefinedImplementationError) Is(target error) bool {
	return target == ErrUndefinedImplementation
}

// MissingTypeError 参数没有声明类型，无法判断按标量还是按依赖解析。
type MissingTypeError struct {
	Owner string
	Param string
}

func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("di: missing type on parameter %s in %s", e.Param, e.Owner)
}

func (e *MissingTypeError) Is(target error) bool { return target == ErrMissingType }

// UndefinedParameterError 参数表中没有该名称。Owner 可能为空（GetParameter 直接调用时）。
type UndefinedParameterError struct {
	Param string
	Owner string
}

func (e *UndefinedParameterError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("di: parameter %s is not defined", e.Param)
	}
	return fmt.Sprintf("di: parameter %s is not defined, used in %s", e.Param, e.Owner)
}

func (e *UndefinedParameterError) Is(target error) bool { return target == ErrUndefinedParameter }

// CircularDependencyError 解析栈中再次出现了同一类型。
// Path 为完整的解析栈加上重复的类型。
type CircularDependencyError struct {
	Type reflect.Type
	Path []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	parts := make([]string, len(e.Path))
	for i, t := range e.Path {
		parts[i] = t.String()
	}
	return fmt.Sprintf("di: circular dependency detected for %v: %s", e.Type, strings.Join(parts, " -> "))
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// ArgumentError 解析得到的值无法赋给参数声明的类型。
type ArgumentError struct {
	Owner string
	Param string
	Want  reflect.Type
	Got   reflect.Type // nil 表示值为 nil
}

func (e *ArgumentError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = e.Got.String()
	}
	if e.Owner == "" {
		return fmt.Sprintf("di: parameter %s expects %v, got %s", e.Param, e.Want, got)
	}
	return fmt.Sprintf("di: parameter %s in %s expects %v, got %s", e.Param, e.Owner, e.Want, got)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// ConstructionError 构造函数本身返回了错误。
type ConstructionError struct {
	Type reflect.Type
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("di: failed to construct %v: %v", e.Type, e.Err)
}

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

func (e *ConstructionError) Unwrap() error { return e.Err }
