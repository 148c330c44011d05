package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/ticket-console/internal/config"
)

// NewLogger creates the server's structured zap.Logger. Every entry carries
// the service name.
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
	}
	logger, err := build(cfg, encoding, []string{"stdout"})
	if err != nil {
		return nil, err
	}
	if cfg.Service != "" {
		logger = logger.With(zap.String("service", cfg.Service))
	}
	return logger, nil
}

// NewCLILogger builds a human readable logger writing to stderr so command
// output on stdout stays clean.
func NewCLILogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	return build(cfg, "console", []string{"stderr"})
}

func build(cfg config.LoggerConfig, encoding string, outputs []string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:  "message",
		LevelKey:    "level",
		TimeKey:     "ts",
		NameKey:     "logger",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	}
	if level == zapcore.DebugLevel {
		encoderCfg.CallerKey = "caller"
		encoderCfg.EncodeCaller = zapcore.ShortCallerEncoder
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      level == zapcore.DebugLevel,
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
	return zapCfg.Build()
}
