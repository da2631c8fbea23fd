package di

// Bind 将接口 I 绑定到实现类型 C。
// 使用示例: di.Bind[Logger, *ConsoleLogger](c)
func Bind[I, C any](c *Container) {
	c.SetImplementation(TypeOf[I](), TypeOf[C]())
}
