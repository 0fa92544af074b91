// Package logging holds the process-wide structured logger. The TUI owns the
// terminal, so records go to a log file; CLI commands may also mirror warnings
// to stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger. It discards everything until Initialize is called.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Options configures Initialize
type Options struct {
	File   string // log file path, empty disables file output
	Level  string // debug, info, warn, error
	Stderr bool   // mirror warnings and errors to stderr
}

// Initialize replaces the global logger. The returned function flushes and
// closes the log file.
func Initialize(opts Options) (func() error, error) {
	level := zap.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	var cores []zapcore.Core
	var file *os.File

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f

		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(f),
			level,
		))
	}

	if opts.Stderr {
		consoleConfig := zap.NewDevelopmentEncoderConfig()
		consoleConfig.TimeKey = ""
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig),
			zapcore.Lock(os.Stderr),
			zap.WarnLevel,
		))
	}

	if len(cores) == 0 {
		Logger = zap.NewNop().Sugar()
		return func() error { return nil }, nil
	}

	zapLogger := zap.New(zapcore.NewTee(cores...))
	Logger = zapLogger.Sugar()

	return func() error {
		_ = zapLogger.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}, nil
}
