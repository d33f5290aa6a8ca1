// Package logger wraps a zap SugaredLogger behind package-level helpers so
// callers never carry a logger handle around.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Init builds the process logger. format is "json" or "console"; an
// unparseable level falls back to info.
func Init(level, format string) {
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = logLevel
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	sugar = logger.Sugar()
}

func Info(msg string)                                  { sugar.Info(msg) }
func Infof(template string, args ...interface{})       { sugar.Infof(template, args...) }
func Infow(msg string, keysAndValues ...interface{})   { sugar.Infow(msg, keysAndValues...) }
func Warnf(template string, args ...interface{})       { sugar.Warnf(template, args...) }
func Error(msg string, err error)                      { sugar.Errorw(msg, "error", err) }
func Errorf(template string, args ...interface{})      { sugar.Errorf(template, args...) }
func Fatalf(template string, args ...interface{})      { sugar.Fatalf(template, args...) }

// Sync flushes buffered entries. Call before process exit.
func Sync() {
	_ = sugar.Sync()
}
