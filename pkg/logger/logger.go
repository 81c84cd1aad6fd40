// Package logger writes leveled diagnostics to the vantage log file. The
// terminal belongs to the conversation, so nothing below error level ever
// reaches it.
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pryce-dev/vantage/pkg/config"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelLabels = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func parseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes timestamped, level-tagged lines to a single file. Error
// lines are mirrored to stderr.
type Logger struct {
	level Level
	out   *log.Logger
	file  *os.File
}

var defaultLogger *Logger

// Init builds the default logger from the loaded configuration. Calling it
// again is a no-op.
func Init() error {
	if defaultLogger != nil {
		return nil
	}
	lc := config.Get().Logging
	l, err := New(parseLevel(lc.Level), lc.LogFile, lc.Preserve)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defaultLogger = l
	return nil
}

// New opens the log file, creating parent directories as needed. A relative
// path lands in the settings directory. Unless preserve is set the file is
// truncated so each run starts with a clean log.
func New(level Level, path string, preserve bool) (*Logger, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(config.SettingsDir(), filepath.Base(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	mode := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if preserve {
		mode = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(path, mode, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		level: level,
		out:   log.New(file, "", log.LstdFlags),
		file:  file,
	}, nil
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.out.Printf("[%s] %s", levelLabels[level], msg)
	if level >= LevelError {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", levelLabels[level], msg)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// The package-level functions log through the default logger and drop
// everything until Init succeeds.

func Debug(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Debug(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Info(format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Warn(format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.Error(format, args...)
	}
}

// Close closes the default logger's file.
func Close() error {
	if defaultLogger != nil {
		return defaultLogger.Close()
	}
	return nil
}
