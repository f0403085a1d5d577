// Package logging builds the zap logger shared by all components.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to stderr. format is "json" or "console"; level is any
// zapcore level name. An unknown level falls back to info.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	badLevel := err != nil
	if badLevel {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q (want json or console)", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	if badLevel {
		log.Warn("unknown log level, using info", zap.String("level", level))
	}
	return log, nil
}

// Must is New for command startup; it falls back to a console logger on error.
func Must(level, format string) *zap.Logger {
	log, err := New(level, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		log, _ = New("info", "console")
	}
	return log
}

// OrNop returns log, or a no-op logger when log is nil.
func OrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
