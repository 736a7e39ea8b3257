package logger

import (
	"context"
	"time"

	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder accumulates fields for one log entry and pulls request
// tracking values from the context when the level is chosen.
type ContextLogBuilder struct {
	logger    *OptimizedLogger
	ctx       context.Context
	level     zapcore.Level
	fields    []zap.Field
	message   string
	shouldLog bool
}

// WithContext starts a log builder bound to ctx
func (ol *OptimizedLogger) WithContext(ctx context.Context) *ContextLogBuilder {
	shouldLog := ol.ShouldLog(zapcore.InfoLevel)

	return &ContextLogBuilder{
		logger:    ol,
		ctx:       ctx,
		level:     zapcore.InfoLevel,
		fields:    make([]zap.Field, 0, 12),
		shouldLog: shouldLog,
	}
}

func (clb *ContextLogBuilder) extractContextFields() {
	if clb.ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(clb.ctx); requestID != "" {
		clb.fields = append(clb.fields, zap.String("request_id", requestID))
	}

	if correlationID := ctxutil.GetCorrelationID(clb.ctx); correlationID != "" {
		clb.fields = append(clb.fields, zap.String("correlation_id", correlationID))
	}

	if clientIP := ctxutil.GetClientIP(clb.ctx); clientIP != "" {
		clb.fields = append(clb.fields, zap.String("client_ip", clientIP))
	}

	if userAgent := ctxutil.GetUserAgent(clb.ctx); userAgent != "" {
		clb.fields = append(clb.fields, zap.String("user_agent", userAgent))
	}

	if userID := ctxutil.GetUserID(clb.ctx); userID != "" {
		clb.fields = append(clb.fields, zap.String("user_id", userID))
	}

	if module := ctxutil.GetModule(clb.ctx); module != "" {
		clb.fields = append(clb.fields, zap.String("module", module))
	}

	if function := ctxutil.GetFunction(clb.ctx); function != "" {
		clb.fields = append(clb.fields, zap.String("function", function))
	}

	if duration := ctxutil.GetDuration(clb.ctx); duration > 0 {
		clb.fields = append(clb.fields, zap.Duration("duration", duration))
	}
}

func (clb *ContextLogBuilder) Info(message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(zapcore.InfoLevel) {
		clb.shouldLog = false
		return clb
	}
	clb.level = zapcore.InfoLevel
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) Warn(message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(zapcore.WarnLevel) {
		clb.shouldLog = false
		return clb
	}
	clb.level = zapcore.WarnLevel
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) Error(message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(zapcore.ErrorLevel) {
		clb.shouldLog = false
		return clb
	}
	clb.level = zapcore.ErrorLevel
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) Debug(message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(zapcore.DebugLevel) {
		clb.shouldLog = false
		return clb
	}
	clb.level = zapcore.DebugLevel
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Int64(key string, value int64) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int64(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Bool(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Float64(key string, value float64) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Float64(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Duration("duration", value))
	}
	return clb
}

func (clb *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	if clb.shouldLog && err != nil {
		clb.fields = append(clb.fields, zap.Error(err))
	}
	return clb
}

func (clb *ContextLogBuilder) Any(key string, value interface{}) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Any(key, value))
	}
	return clb
}

// Fields appends every map entry as a zap.Any field
func (clb *ContextLogBuilder) Method(method string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String("method", method))
	}
	return clb
}

func (clb *ContextLogBuilder) Path(path string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String("path", path))
	}
	return clb
}

func (clb *ContextLogBuilder) StatusCode(code int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int("status_code", code))
	}
	return clb
}

// Log writes the entry unless the level was filtered or ctx is already done
func (clb *ContextLogBuilder) Log() {
	if !clb.shouldLog {
		return
	}

	if clb.ctx != nil {
		select {
		case <-clb.ctx.Done():
			return
		default:
		}
	}

	switch clb.level {
	case zapcore.DebugLevel:
		clb.logger.logger.Debug(clb.message, clb.fields...)
	case zapcore.InfoLevel:
		clb.logger.logger.Info(clb.message, clb.fields...)
	case zapcore.WarnLevel:
		clb.logger.logger.Warn(clb.message, clb.fields...)
	case zapcore.ErrorLevel:
		clb.logger.logger.Error(clb.message, clb.fields...)
	}
}

// Package-level helpers bound to the global context logger
func WithContext(ctx context.Context) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx)
}

func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Info(message)
}

func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Warn(message)
}

func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Error(message)
}

func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Debug(message)
}
