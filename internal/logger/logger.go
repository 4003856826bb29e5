// Package logger wraps a process-wide zap logger and adapts it for gorm.
package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the process-wide logger once. "production" writes JSON at info
// level, "test" discards everything, any other env gets the colored console
// encoder at debug level.
func Init(env string) {
	once.Do(func() {
		sugar = build(env).Sugar()
	})
}

func build(env string) *zap.Logger {
	var cfg zap.Config
	switch env {
	case "test":
		return zap.NewNop()
	case "production":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build(zap.Fields(zap.String("service", "cost-api")))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Get returns the global logger, initialising a development logger on
// first use.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Named returns a child logger tagged with a component name.
func Named(component string) *zap.SugaredLogger {
	return Get().Named(component)
}

// Sync flushes buffered entries before exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

// printfWriter adapts the global logger to gorm's Writer interface.
type printfWriter struct{}

func (printfWriter) Printf(format string, args ...interface{}) {
	Get().Infof(format, args...)
}

// Gorm returns a gorm logger that writes through zap. Production only
// reports slow queries and errors.
func Gorm(env string) gormlogger.Interface {
	level := gormlogger.Warn
	switch env {
	case "production":
		level = gormlogger.Error
	case "test":
		level = gormlogger.Silent
	}
	return gormlogger.New(printfWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
