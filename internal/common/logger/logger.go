package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hirehub/backend/internal/common/constants"
)

type Fields map[string]any

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	CRITICAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case CRITICAL:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// Logger writes one line per record:
//
//	[LEVEL] [service] [k=v ...] file.go:42 message
//
// The level is fixed at construction, so a Logger needs no locking beyond
// what log.Logger already does.
type Logger struct {
	level   LogLevel
	out     *log.Logger
	service string
}

// New builds a logger writing to stdout and, when logDir is set, to a rotating
// app.log inside it.
func New(logDir, service, level string) (*Logger, error) {
	var w io.Writer = os.Stdout

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "app.log"),
			MaxSize:    constants.LoggerMaxSize,
			MaxBackups: constants.LoggerMaxBackups,
			MaxAge:     constants.LoggerMaxAge,
			Compress:   true,
		})
	}

	return &Logger{
		level:   parseLevel(level),
		out:     log.New(w, "", log.LstdFlags),
		service: service,
	}, nil
}

// NewDiscard returns a logger that drops everything. Used by tests.
func NewDiscard() *Logger {
	return &Logger{
		level: CRITICAL + 1,
		out:   log.New(io.Discard, "", 0),
	}
}

func (l *Logger) ShouldLog(level LogLevel) bool {
	return level >= l.level
}

// callerDepth skips emit, the public method and its wrapper.
const callerDepth = 3

func (l *Logger) emit(level LogLevel, ctx context.Context, fields Fields, msg string) {
	if !l.ShouldLog(level) {
		return
	}

	var b strings.Builder
	b.WriteString("[" + level.String() + "]")
	if l.service != "" {
		b.WriteString(" [" + l.service + "]")
	}
	if kv := renderFields(ctx, fields); kv != "" {
		b.WriteString(" [" + kv + "]")
	}

	file, line := "unknown", 0
	if _, path, n, ok := runtime.Caller(callerDepth); ok {
		file, line = filepath.Base(path), n
	}
	fmt.Fprintf(&b, " %s:%d %s", file, line, msg)

	_ = l.out.Output(0, b.String())
}

func renderFields(ctx context.Context, fields Fields) string {
	parts := make([]string, 0, len(fields)+1)

	if ctx != nil {
		if traceID, ok := ctx.Value(constants.TraceIDKey).(string); ok && traceID != "" {
			if _, dup := fields["trace_id"]; !dup {
				parts = append(parts, "trace_id="+traceID)
			}
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}

	return strings.Join(parts, " ")
}

func (l *Logger) logf(level LogLevel, format string, args ...any) {
	l.emit(level, nil, nil, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(msg string)  { l.logf(INFO, "%s", msg) }
func (l *Logger) Warn(msg string)  { l.logf(WARNING, "%s", msg) }
func (l *Logger) Error(msg string) { l.logf(ERROR, "%s", msg) }

func (l *Logger) Debugf(format string, args ...any)    { l.logf(DEBUG, format, args...) }
func (l *Logger) Infof(format string, args ...any)     { l.logf(INFO, format, args...) }
func (l *Logger) Warnf(format string, args ...any)     { l.logf(WARNING, format, args...) }
func (l *Logger) Errorf(format string, args ...any)    { l.logf(ERROR, format, args...) }
func (l *Logger) Criticalf(format string, args ...any) { l.logf(CRITICAL, format, args...) }

func (l *Logger) Fatalf(format string, args ...any) {
	l.logf(CRITICAL, format, args...)
	os.Exit(1)
}

// WithFields attaches structured fields, and the trace id carried by ctx, to
// the next record.
func (l *Logger) WithFields(ctx context.Context, fields Fields) *Entry {
	return &Entry{logger: l, ctx: ctx, fields: fields}
}

type Entry struct {
	logger *Logger
	ctx    context.Context
	fields Fields
}

func (e *Entry) logf(level LogLevel, format string, args ...any) {
	e.logger.emit(level, e.ctx, e.fields, fmt.Sprintf(format, args...))
}

func (e *Entry) Debug(msg string) { e.logf(DEBUG, "%s", msg) }
func (e *Entry) Info(msg string)  { e.logf(INFO, "%s", msg) }
func (e *Entry) Warn(msg string)  { e.logf(WARNING, "%s", msg) }
func (e *Entry) Error(msg string) { e.logf(ERROR, "%s", msg) }

func (e *Entry) Debugf(format string, args ...any) { e.logf(DEBUG, format, args...) }
func (e *Entry) Infof(format string, args ...any)  { e.logf(INFO, format, args...) }
func (e *Entry) Warnf(format string, args ...any)  { e.logf(WARNING, format, args...) }
func (e *Entry) Errorf(format string, args ...any) { e.logf(ERROR, format, args...) }

func parseLevel(value string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DEBUG":
		return DEBUG
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	case "CRITICAL":
		return CRITICAL
	}
	return INFO
}
