package logging

// NewLogger 创建一个默认的控制台 Logger（便于测试使用）
func NewLogger() Logger {
	return NewLoggingBuilder().
		AddConsole().
		Build().
		CreateLogger("default")
}
