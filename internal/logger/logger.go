// Package logger provides a minimal leveled logger used by all cachewatch
// components.
//
// Logging is advisory: callers treat it as fire-and-forget and never
// propagate logging failures as their own errors.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu           sync.Mutex
	currentLevel = LevelInfo
	logger       = stdlog.New(os.Stdout, "", 0)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SetLevel sets the minimum level that will be emitted.
// Unknown values are ignored and the current level is kept.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()

	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel = LevelDebug
	case "INFO":
		currentLevel = LevelInfo
	case "WARN":
		currentLevel = LevelWarn
	case "ERROR":
		currentLevel = LevelError
	}
}

// SetOutput redirects log output. Useful for capturing logs in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = stdlog.New(w, "", 0)
}

// Log emits a message at the given level. This is the generic sink;
// the leveled helpers below are the usual entry points.
func Log(level Level, format string, v ...any) {
	mu.Lock()
	min := currentLevel
	out := logger
	mu.Unlock()

	if level < min {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	prefix := fmt.Sprintf("[%s] [%s] ", timestamp, level.String())
	message := fmt.Sprintf(format, v...)
	out.Println(prefix + message)
}

func Debug(format string, v ...any) {
	Log(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	Log(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	Log(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	Log(LevelError, format, v...)
}
