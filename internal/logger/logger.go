// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger wraps a zap SugaredLogger with a key/value API.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a leveled, structured logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger. Mode "prod" emits JSON at info level; anything
// else emits colored console output at debug level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{sugar: z.Sugar()}
}

func (l *Logger) Debug(msg string, keysAndValues ...any) { l.sugar.Debugw(msg, keysAndValues...) }
func (l *Logger) Info(msg string, keysAndValues ...any)  { l.sugar.Infow(msg, keysAndValues...) }
func (l *Logger) Warn(msg string, keysAndValues ...any)  { l.sugar.Warnw(msg, keysAndValues...) }
func (l *Logger) Error(msg string, keysAndValues ...any) { l.sugar.Errorw(msg, keysAndValues...) }

// With returns a child logger carrying the given fields on every line.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
