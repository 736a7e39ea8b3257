package logger

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PerformanceConfig controls how chatty the context logger is allowed to be
type PerformanceConfig struct {
	MinLogLevel     zapcore.Level `json:"min_log_level"`
	MaxLogPerSecond int           `json:"max_log_per_second"`
	EnableRateLimit bool          `json:"enable_rate_limit"`
}

func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:     zapcore.InfoLevel,
		MaxLogPerSecond: 1000,
		EnableRateLimit: false,
	}
}

func ProductionConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:     zapcore.InfoLevel,
		MaxLogPerSecond: 500,
		EnableRateLimit: true,
	}
}

func DevelopmentConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:     zapcore.DebugLevel,
		MaxLogPerSecond: 10000,
		EnableRateLimit: false,
	}
}

// OptimizedLogger drops logs below the level or above the per-second budget
// before any field is built.
type OptimizedLogger struct {
	config      PerformanceConfig
	logger      *zap.Logger
	rateLimiter *RateLimiter
}

// RateLimiter caps the number of log entries per second
type RateLimiter struct {
	maxLogs   int
	current   int
	lastReset time.Time
	mu        sync.Mutex
}

func NewRateLimiter(maxLogs int) *RateLimiter {
	return &RateLimiter{
		maxLogs:   maxLogs,
		lastReset: time.Now(),
	}
}

func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastReset) >= time.Second {
		rl.current = 0
		rl.lastReset = now
	}

	if rl.current >= rl.maxLogs {
		return false
	}

	rl.current++
	return true
}

// NewOptimizedLogger builds a stdout JSON logger for the given config
func NewOptimizedLogger(config PerformanceConfig) (*OptimizedLogger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(config.MinLogLevel)
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	zapConfig.DisableStacktrace = true

	zapLogger, err := zapConfig.Build(zap.WithCaller(false))
	if err != nil {
		return nil, err
	}

	return newOptimizedLoggerWith(config, zapLogger), nil
}

func newOptimizedLoggerWith(config PerformanceConfig, zapLogger *zap.Logger) *OptimizedLogger {
	return &OptimizedLogger{
		config:      config,
		logger:      zapLogger,
		rateLimiter: NewRateLimiter(config.MaxLogPerSecond),
	}
}

// ShouldLog reports whether an entry at level may be written
func (ol *OptimizedLogger) ShouldLog(level zapcore.Level) bool {
	if level < ol.config.MinLogLevel {
		return false
	}

	if ol.config.EnableRateLimit && !ol.rateLimiter.Allow() {
		return false
	}

	return true
}

var (
	optimizedLogger *OptimizedLogger
	optimizedMu     sync.Mutex
)

// SetOptimizedLogger replaces the global context logger (tests use zap.NewNop)
func SetOptimizedLogger(config PerformanceConfig, zapLogger *zap.Logger) {
	optimizedMu.Lock()
	defer optimizedMu.Unlock()
	optimizedLogger = newOptimizedLoggerWith(config, zapLogger)
}

// GetOptimizedLogger returns the global context logger, building one from GO_ENV on first use
func GetOptimizedLogger() *OptimizedLogger {
	optimizedMu.Lock()
	defer optimizedMu.Unlock()

	if optimizedLogger == nil {
		config := DefaultPerformanceConfig()
		switch os.Getenv("GO_ENV") {
		case "production":
			config = ProductionConfig()
		case "development":
			config = DevelopmentConfig()
		}

		logger, err := NewOptimizedLogger(config)
		if err != nil {
			logger = newOptimizedLoggerWith(config, zap.NewNop())
		}
		optimizedLogger = logger
	}
	return optimizedLogger
}
