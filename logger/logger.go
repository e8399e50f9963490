// Package logger is a small leveled logger writing to a line-capped file.
// The daemon runs unattended next to an editor session, so the log file
// trims itself instead of growing forever.
package logger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// MaxLogLines is the cap after which the log file is trimmed in place.
const MaxLogLines = 5000

// Level is the logging level.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of a level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
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

// ParseLevel parses a string into a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// CappedLogger writes leveled lines to a file and trims it once it passes
// MaxLogLines.
type CappedLogger struct {
	mu        sync.Mutex
	file      *os.File
	lineCount int
	level     Level
}

var global *CappedLogger

// fallback covers logging before Init, e.g. config parse failures.
var fallback = &CappedLogger{file: os.Stderr, level: LevelInfo}

// Init installs the global logger over the given file.
func Init(file *os.File, level Level) *CappedLogger {
	l := &CappedLogger{file: file, level: level}
	l.countExistingLines()
	global = l
	return l
}

// SetGlobalLevel adjusts the global logger's level.
func SetGlobalLevel(level Level) {
	if global != nil {
		global.mu.Lock()
		global.level = level
		global.mu.Unlock()
	}
}

func active() *CappedLogger {
	if global != nil {
		return global
	}
	return fallback
}

// noopFunc is reused so disabled tracing does not allocate.
var noopFunc = func() {}

// Trace returns a function that logs the operation's duration when called.
// Usage: defer logger.Trace("engine.refreshDiff")()
func Trace(name string) func() {
	l := active()
	if !l.enabled(LevelTrace) {
		return noopFunc
	}
	start := time.Now()
	return func() {
		l.log(LevelTrace, "%s: %v", name, time.Since(start))
	}
}

func Debug(format string, v ...any) { active().log(LevelDebug, format, v...) }
func Info(format string, v ...any)  { active().log(LevelInfo, format, v...) }
func Warn(format string, v ...any)  { active().log(LevelWarn, format, v...) }
func Error(format string, v ...any) { active().log(LevelError, format, v...) }

// Fatal logs an error message and exits with code 1.
func Fatal(format string, v ...any) {
	active().log(LevelError, format, v...)
	os.Exit(1)
}

func (l *CappedLogger) enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *CappedLogger) log(level Level, format string, v ...any) {
	if !l.enabled(level) {
		return
	}
	msg := fmt.Sprintf("%s [%s] %s\n",
		time.Now().Format("2006/01/02 15:04:05"), level, fmt.Sprintf(format, v...))
	l.Write([]byte(msg))
}

// Write implements io.Writer so the logger can back other log consumers.
func (l *CappedLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.file.Write(p)
	if err != nil {
		return n, err
	}

	l.lineCount += strings.Count(string(p), "\n")
	if l.lineCount > MaxLogLines {
		l.trim()
	}
	return n, nil
}

// Close closes the underlying file.
func (l *CappedLogger) Close() error {
	return l.file.Close()
}

func (l *CappedLogger) countExistingLines() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.file.Seek(0, 0)
	scanner := bufio.NewScanner(l.file)
	count := 0
	for scanner.Scan() {
		count++
	}
	l.lineCount = count
	l.file.Seek(0, 2)
}

// trim rewrites the file keeping only the newest MaxLogLines lines.
// Caller holds mu.
func (l *CappedLogger) trim() {
	l.file.Seek(0, 0)
	scanner := bufio.NewScanner(l.file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if len(lines) > MaxLogLines {
		lines = lines[len(lines)-MaxLogLines:]
	}

	l.file.Truncate(0)
	l.file.Seek(0, 0)
	for _, line := range lines {
		l.file.WriteString(line + "\n")
	}
	l.lineCount = len(lines)
}
