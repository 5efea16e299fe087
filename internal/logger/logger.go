package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how verbosely the logger writes.
type Options struct {
	// Level is a zap level name ("debug", "info", "warn", "error").
	Level string

	// Debug forces the debug level regardless of Level.
	Debug bool

	// File, when set, receives the log instead of stderr. The TUI uses
	// this so log lines never land on the rendered screen.
	File string
}

func (o Options) level() (zap.AtomicLevel, error) {
	if o.Debug {
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	}
	if o.Level == "" {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}
	lvl, err := zapcore.ParseLevel(o.Level)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("parsing log level %q: %w", o.Level, err)
	}
	return zap.NewAtomicLevelAt(lvl), nil
}

func (o Options) outputPaths() ([]string, error) {
	if o.File == "" {
		return []string{"stderr"}, nil
	}
	if err := os.MkdirAll(filepath.Dir(o.File), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return []string{o.File}, nil
}

// NewProductionLogger creates a production-ready logger with JSON encoding
func NewProductionLogger(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	level, err := opts.level()
	if err != nil {
		return nil, err
	}
	config.Level = level

	paths, err := opts.outputPaths()
	if err != nil {
		return nil, err
	}
	config.OutputPaths = paths
	config.ErrorOutputPaths = paths

	config.Encoding = "json"
	config.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	return config.Build()
}

// NewDevelopmentLogger creates a development logger with console encoding,
// used by the one-shot CLI commands.
func NewDevelopmentLogger(opts Options) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()

	level, err := opts.level()
	if err != nil {
		return nil, err
	}
	config.Level = level

	paths, err := opts.outputPaths()
	if err != nil {
		return nil, err
	}
	config.OutputPaths = paths
	config.ErrorOutputPaths = paths
	config.DisableStacktrace = !opts.Debug

	return config.Build()
}

// Sync flushes any buffered log entries. This should be called before application exit.
// It's safe to call Sync() multiple times.
func Sync(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}
	return logger.Sync()
}
