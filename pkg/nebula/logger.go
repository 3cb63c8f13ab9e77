package nebula

import "go.uber.org/zap"

// LogLevel is the severity of one log call, matching the levels the
// source client's env_logger exposes.
type LogLevel int8

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a logging seam callers can implement with their own
// zap.Logger (or any adapter) instead of depending on the global logger.
// SessionManager and Pool do not hold or call a Logger.
type Logger interface {
	Log(level LogLevel, msg string, fields ...zap.Field)
}

// zapLogger is the default Logger, backed by a zap.Logger the way the
// rest of this stack's services construct theirs.
type zapLogger struct {
	inner *zap.Logger
}

// NewZapLogger wraps a zap.Logger as a Logger.
func NewZapLogger(inner *zap.Logger) Logger { return &zapLogger{inner: inner} }

// NewProductionLogger builds a Logger backed by zap's production
// config.
func NewProductionLogger() (Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l), nil
}

func (l *zapLogger) Log(level LogLevel, msg string, fields ...zap.Field) {
	switch level {
	case LevelDebug:
		l.inner.Debug(msg, fields...)
	case LevelWarn:
		l.inner.Warn(msg, fields...)
	case LevelError:
		l.inner.Error(msg, fields...)
	default:
		l.inner.Info(msg, fields...)
	}
}

// NopLogger discards every log call, useful for tests.
type NopLogger struct{}

func (NopLogger) Log(LogLevel, string, ...zap.Field) {}
