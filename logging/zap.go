package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLoggerProvider 把日志转发给 zap。
// zap 没有 Trace 级别，Trace 按 Debug 输出，并附带 trace=true 字段。
type ZapLoggerProvider struct {
	base         *zap.Logger
	minimumLevel LogLevel
	mu           sync.RWMutex
}

// NewZapLoggerProvider 使用已有的 zap.Logger 创建提供者，logger 为 nil 时使用 zap.NewNop
func NewZapLoggerProvider(logger *zap.Logger) *ZapLoggerProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLoggerProvider{
		base:         logger,
		minimumLevel: LogLevelInfo,
	}
}

func (p *ZapLoggerProvider) CreateLogger(category string) Logger {
	logger := p.base
	if category != "" {
		logger = logger.Named(category)
	}
	return &zapLogger{provider: p, logger: logger}
}

func (p *ZapLoggerProvider) SetMinimumLevel(level LogLevel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minimumLevel = level
}

// Sync 刷新 zap 的缓冲
func (p *ZapLoggerProvider) Sync() error {
	return p.base.Sync()
}

func (p *ZapLoggerProvider) enabled(level LogLevel) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return level >= p.minimumLevel
}

type zapLogger struct {
	provider *ZapLoggerProvider
	logger   *zap.Logger
	// fields 保存 WithFields 累积的字段，切换分类时重新附加
	fields []zap.Field
}

func (l *zapLogger) Trace(msg string, fields ...Field) { l.Log(LogLevelTrace, msg, fields...) }
func (l *zapLogger) Debug(msg string, fields ...Field) { l.Log(LogLevelDebug, msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field) { l.Log(LogLevelInfo, msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field) { l.Log(LogLevelWarn, msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.Log(LogLevelError, msg, fields...) }

// Fatal 由 zap 负责退出进程
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.Log(LogLevelFatal, msg, fields...) }

func (l *zapLogger) Log(level LogLevel, msg string, fields ...Field) {
	if !l.provider.enabled(level) {
		return
	}

	zfields := toZapFields(fields)
	if level == LogLevelTrace {
		zfields = append(zfields, zap.Bool("trace", true))
	}

	if ce := l.logger.Check(zapLevel(level), msg); ce != nil {
		ce.Write(zfields...)
	}
}

func (l *zapLogger) WithFields(fields ...Field) Logger {
	zfields := toZapFields(fields)
	all := make([]zap.Field, 0, len(l.fields)+len(zfields))
	all = append(all, l.fields...)
	all = append(all, zfields...)
	return &zapLogger{provider: l.provider, logger: l.logger.With(zfields...), fields: all}
}

// WithCategory 替换分类，已附加的字段保留
func (l *zapLogger) WithCategory(category string) Logger {
	logger := l.provider.base
	if category != "" {
		logger = logger.Named(category)
	}
	return &zapLogger{provider: l.provider, logger: logger.With(l.fields...), fields: l.fields}
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelTrace, LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
