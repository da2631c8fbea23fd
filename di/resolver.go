package di

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/gocrud/container/logging"
)

// get 是 Get 的无锁实现，递归解析时直接调用。
func (c *Container) get(t reflect.Type) (any, error) {
	concrete := c.implementation(t)

	// 按请求的类型（而不是别名后的具体类型）检测循环
	if slices.Contains(c.stack, t) {
		path := append(slices.Clone(c.stack), t)
		return nil, &CircularDependencyError{Type: t, Path: path}
	}

	c.stack = append(c.stack, t)
	defer func() {
		c.stack = c.stack[:len(c.stack)-1]
	}()

	if inst, ok := c.instances[concrete]; ok {
		if c.logger != nil {
			c.logger.Trace("instance reused", logging.Field{Key: "type", Value: typeName(concrete)})
		}
		return inst, nil
	}

	inst, err := c.construct(concrete)
	if err != nil {
		return nil, err
	}
	c.instances[concrete] = inst
	return inst, nil
}

// construct 根据描述符创建 t 的新实例。
func (c *Container) construct(t reflect.Type) (any, error) {
	if t == nil {
		return nil, &NotFoundError{}
	}
	if t.Kind() == reflect.Interface {
		return nil, &UndefinedImplementationError{Type: t}
	}

	d, ok := c.catalog.Lookup(t)
	if !ok {
		return nil, &NotFoundError{Type: t}
	}

	args, err := c.resolveParams(t.String(), d.Params)
	if err != nil {
		return nil, err
	}

	inst, err := d.New(args)
	if err != nil {
		return nil, &ConstructionError{Type: t, Err: err}
	}

	if c.logger != nil {
		c.logger.Debug("instance constructed",
			logging.Field{Key: "type", Value: t.String()},
			logging.Field{Key: "depth", Value: len(c.stack)})
	}
	return inst, nil
}

// resolveParams 按声明顺序解析参数。
func (c *Container) resolveParams(owner string, params []Param) (Args, error) {
	args := make(Args, len(params))
	for _, p := range params {
		v, err := c.resolveParam(owner, p)
		if err != nil {
			return nil, err
		}
		args[p.Name] = v
	}
	return args, nil
}

// resolveParam 解析单个参数。递归解析产生的错误原样返回。
func (c *Container) resolveParam(owner string, p Param) (any, error) {
	var v any

	switch p.Kind {
	case ParamUntyped:
		return nil, &MissingTypeError{Owner: owner, Param: p.Name}

	case ParamScalar:
		value, ok := c.parameters[p.Name]
		if !ok {
			return nil, &UndefinedParameterError{Param: p.Name, Owner: owner}
		}
		v = value

	case ParamComposite:
		inst, err := c.get(p.Type)
		if err != nil {
			return nil, err
		}
		v = inst

	default:
		return nil, fmt.Errorf("di: unknown kind %v for parameter %s in %s", p.Kind, p.Name, owner)
	}

	if err := assignable(owner, p, v); err != nil {
		return nil, err
	}
	return v, nil
}
