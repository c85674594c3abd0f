package logger

import (
	"fmt"

	"github.com/vzahanych/aeroapi-demo-app/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger from cfg. An empty OutputPath writes to stderr.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.OutputPath != "" {
		zc.OutputPaths = []string{cfg.OutputPath}
	} else {
		zc.OutputPaths = []string{"stderr"}
	}

	return zc.Build()
}

// NewDevelopment is used by the CLI before configuration has been read.
func NewDevelopment() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}
