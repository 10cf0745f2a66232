// Package logger builds the process-wide zap logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a zap logger. The STAGESYNC_LOG_LEVEL and
// STAGESYNC_LOG_FORMAT environment variables select the level
// (debug/info/warn/error) and encoding (console/json). Verbose forces the
// level down to debug.
func New(verbose bool) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if os.Getenv("STAGESYNC_LOG_FORMAT") != "json" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Encoding = "console"
	}

	if level := os.Getenv("STAGESYNC_LOG_LEVEL"); level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	} else {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}
