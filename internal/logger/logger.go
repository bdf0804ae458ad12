package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Development environments (see IsDevelopment)
// use a human-readable console encoder at debug level; anything else uses JSON
// at info level.
func New(environment string) (*zap.Logger, error) {
	var cfg zap.Config
	if IsDevelopment(environment) {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log.With(zap.String("env", environment)), nil
}

// IsDevelopment reports whether environment selects the development logger
func IsDevelopment(environment string) bool {
	switch strings.ToLower(environment) {
	case "development", "dev", "local", "test":
		return true
	}
	return false
}

// WithRequestID returns a child logger with a request_id field
func WithRequestID(log *zap.Logger, requestID string) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if requestID == "" {
		return log
	}
	return log.With(zap.String("request_id", requestID))
}

// Sync flushes buffered entries. Errors from syncing stdout/stderr are ignored.
func Sync(log *zap.Logger) {
	if log != nil {
		_ = log.Sync()
	}
}
