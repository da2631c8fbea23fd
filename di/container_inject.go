package di

import "github.com/gocrud/container/logging"

// Inject 解析 callable 的全部参数并调用它，返回其结果。
//
// callable 可以是 *Callable、任意函数值（包括方法值），或者带有 Invoke 方法的对象。
// 反射得到的函数没有参数名，names 按位置为参数命名，只有标量参数需要名称：
//
//	c.SetParameter("greeting", "hello")
//	out, err := c.Inject(func(greeting string, svc *UserService) string {
//		return greeting + " " + svc.Name()
//	}, "greeting")
//
// 返回值：无返回值时为 nil；最后一个返回值为 error 时原样返回该错误。
// 允许的返回形式为 ()、(T)、(error)、(T, error)，其余形式返回 ErrNotCallable。
// 每次调用都会重新解析参数，依赖类型仍然命中单例缓存。
func (c *Container) Inject(callable any, names ...string) (any, error) {
	target, err := newInvocation(callable, names)
	if err != nil {
		return nil, err
	}

	args, err := c.resolveInvocation(target)
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("injection failed",
				logging.Field{Key: "callable", Value: target.owner},
				logging.Field{Key: "error", Value: err.Error()})
		}
		return nil, err
	}

	return target.call(args)
}

// resolveInvocation 在锁内解析参数。构造函数 panic 时锁同样会被释放。
func (c *Container) resolveInvocation(target *invocation) (Args, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveParams(target.owner, target.params)
}
