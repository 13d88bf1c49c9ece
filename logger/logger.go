package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Info(msg string, keyvals ...interface{})

	Warn(msg string, keyvals ...interface{})

	Error(msg string, keyvals ...interface{})

	Debug(msg string, keyvals ...interface{})
}

// Options controls the level and the optional rotating log file.
// A zero Options logs at info level to stderr only.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func New() Logger {
	return NewWithOptions(Options{})
}

func NewWithOptions(options Options) Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(options.Level), // minimum log level
		AddSource: true,                      // include file + line number
	}

	var output io.Writer = os.Stderr
	if len(options.File) > 0 {
		if err := os.MkdirAll(filepath.Dir(options.File), 0755); err != nil {
			slog.Warn("failed to create log directory, logging to stderr only", "err", err.Error())
		} else {
			output = io.MultiWriter(os.Stderr, &lumberjack.Logger{
				Filename:   options.File,
				MaxSize:    options.MaxSizeMB,
				MaxBackups: options.MaxBackups,
				LocalTime:  true,
			})
		}
	}

	handler := slog.NewJSONHandler(output, opts)
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
