// Package log provides logging utilities including colored console output,
// a leveled Logger used by the transports, and payload logging for clients.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var red = color.New(color.FgRed).FprintfFunc()
var blue = color.New(color.FgBlue).FprintfFunc()
var yellow = color.New(color.FgYellow).FprintfFunc()
var faint = color.New(color.Faint).FprintfFunc()

// ErrorMsg prints an error message to stderr in red color.
func ErrorMsg(format string, a ...interface{}) {
	red(os.Stderr, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message to stderr in blue color.
func InfoMsg(format string, a ...interface{}) {
	blue(os.Stderr, "[+] "+format, a...)
}

// Level is the severity of a log entry. Entries below the Logger's level are dropped.
type Level int

const (
	LevelVerbose Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
	LevelNone
)

var levelNames = map[Level]string{
	LevelVerbose:  "verbose",
	LevelDebug:    "debug",
	LevelInfo:     "info",
	LevelWarning:  "warning",
	LevelError:    "error",
	LevelCritical: "critical",
	LevelNone:     "none",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel converts a level name such as "info" into a Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return LevelNone, fmt.Errorf("unknown log level %q", s)
}

// Writer is a log sink. Implementations must not block for long.
type Writer interface {
	Write(level Level, entry string)
}

// Logger filters entries by level and hands them to a Writer.
// A nil *Logger discards everything.
type Logger struct {
	level  Level
	writer Writer
}

// NewLogger creates a logger writing entries of at least the given level.
// If w is nil, entries go to stderr.
func NewLogger(level Level, w Writer) *Logger {
	if w == nil {
		w = NewConsoleWriter(os.Stderr)
	}
	return &Logger{level: level, writer: w}
}

// Enabled reports whether entries of the given level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level != LevelNone && level >= l.level
}

// Log writes msg at the given level. Logging is best effort: a panicking
// sink is recovered and the entry is lost.
func (l *Logger) Log(level Level, msg string) {
	if !l.Enabled(level) {
		return
	}

	defer func() { _ = recover() }()

	entry := fmt.Sprintf("%s [%-8s] %s", time.Now().UTC().Format(time.RFC3339Nano), level, strings.TrimRight(msg, "\n"))
	l.writer.Write(level, entry)
}

// ErrorMsg logs a formatted message at LevelError.
func (l *Logger) ErrorMsg(format string, a ...interface{}) {
	l.Log(LevelError, fmt.Sprintf(format, a...))
}

// WarnMsg logs a formatted message at LevelWarning.
func (l *Logger) WarnMsg(format string, a ...interface{}) {
	l.Log(LevelWarning, fmt.Sprintf(format, a...))
}

// InfoMsg logs a formatted message at LevelInfo.
func (l *Logger) InfoMsg(format string, a ...interface{}) {
	l.Log(LevelInfo, fmt.Sprintf(format, a...))
}

// VerboseMsg logs a formatted message at LevelVerbose.
func (l *Logger) VerboseMsg(format string, a ...interface{}) {
	l.Log(LevelVerbose, fmt.Sprintf(format, a...))
}

// ConsoleWriter writes colored entries, one per line.
type ConsoleWriter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleWriter creates a Writer printing to out.
func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{out: out}
}

// Write implements Writer.
func (w *ConsoleWriter) Write(level Level, entry string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case level >= LevelError:
		red(w.out, "%s\n", entry)
	case level == LevelWarning:
		yellow(w.out, "%s\n", entry)
	case level == LevelInfo:
		blue(w.out, "%s\n", entry)
	default:
		faint(w.out, "%s\n", entry)
	}
}
