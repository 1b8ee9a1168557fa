// Package logger provides the leveled logging facade used by the store and
// the write queue. Components receive an ILogger by name so tests can swap in
// a silent logger.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel controls which messages a logger emits.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

// ILogger is the logging interface handed to components.
type ILogger interface {
	SetLevel(level LogLevel)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// --------------------------------------------------------------------------
// Implementation
// --------------------------------------------------------------------------

// levelLogger implements ILogger with custom formatting over the stdlib log
type levelLogger struct {
	name   string
	level  LogLevel
	logger *log.Logger
}

func (l *levelLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *levelLogger) Debugf(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		l.log("DEBUG", format, args...)
	}
}

func (l *levelLogger) Infof(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		l.log("INFO", format, args...)
	}
}

func (l *levelLogger) Warningf(format string, args ...interface{}) {
	if l.level >= LevelWarning {
		l.log("WARN", format, args...)
	}
}

func (l *levelLogger) Errorf(format string, args ...interface{}) {
	if l.level >= LevelError {
		l.log("ERROR", format, args...)
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *levelLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Registry
// --------------------------------------------------------------------------

var (
	mu      sync.Mutex
	loggers = map[string]*levelLogger{}
	out     io.Writer = os.Stderr
)

// GetLogger returns the named logger, creating it at INFO level on first use.
// Loggers are process-wide so cmd/ can adjust levels for all components.
func GetLogger(name string) ILogger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[name]; ok {
		return l
	}
	l := &levelLogger{
		name:   name,
		level:  LevelInfo,
		logger: log.New(out, "", log.Ldate|log.Ltime),
	}
	loggers[name] = l
	return l
}

// SetOutput redirects all loggers created afterwards. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// ParseLevel converts a string level to a LogLevel.
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// Noop returns a logger that discards everything. Used by tests and as the
// default when a component is constructed without an explicit logger.
func Noop() ILogger {
	return &levelLogger{
		name:   "noop",
		level:  LevelError,
		logger: log.New(io.Discard, "", 0),
	}
}
