package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tyee-ai/gpu-thermal/internal/config"
)

// New builds the service logger for the configured environment.
// production logs JSON to stdout, test uses zap's example logger,
// anything else gets the development console encoder.
func New(cfg *config.Config) (*zap.Logger, error) {
	switch cfg.Environment {
	case "test":
		return zap.NewExample(), nil
	case "production":
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.LogLevel))
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.OutputPaths = []string{"stdout"}
		zc.ErrorOutputPaths = []string{"stderr"}
		return zc.Build()
	default:
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.LogLevel))
		return zc.Build()
	}
}

// MustNew is like New but panics on error
func MustNew(cfg *config.Config) *zap.Logger {
	return zap.Must(New(cfg))
}

// ParseLevel maps a level name to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}
