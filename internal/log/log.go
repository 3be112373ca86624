// Package log provides centralized logging using zap.
package log

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log *zap.SugaredLogger
)

// Init initializes the package-level logger. Debug mode uses zap's
// development console encoder; otherwise production JSON is written to
// stderr at info level.
func Init(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stderr"}

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}
	SetLogger(zapLogger)
	return nil
}

// SetLogger replaces the package-level logger. Tests use it with zaptest or
// zap.NewNop.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l.Sugar()
}

// GetSugaredLogger returns the sugared logger instance.
func GetSugaredLogger() *zap.SugaredLogger {
	return sugared()
}

func sugared() *zap.SugaredLogger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}

	// Fallback logger if not initialized
	fallback, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		fallback = zap.NewNop()
	}
	SetLogger(fallback)
	return fallback.Sugar()
}

// With returns a child logger carrying the given key/value pairs, for
// example a run ID.
func With(keysAndValues ...any) *zap.SugaredLogger {
	return sugared().With(keysAndValues...)
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if log != nil {
		_ = log.Sync()
	}
}

func Debugw(msg string, keysAndValues ...any) {
	sugared().Debugw(msg, keysAndValues...)
}

func Info(args ...any) {
	sugared().Info(args...)
}

func Infow(msg string, keysAndValues ...any) {
	sugared().Infow(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...any) {
	sugared().Warnw(msg, keysAndValues...)
}

func Errorf(template string, args ...any) {
	sugared().Errorf(template, args...)
}

func Errorw(msg string, keysAndValues ...any) {
	sugared().Errorw(msg, keysAndValues...)
}
