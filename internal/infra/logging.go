package infra

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// Logger writes JSON lines tagged with the service name and the correlation
// id carried by the context.
type Logger struct {
	entry *logrus.Entry
}

func NewLogger(out io.Writer, service string, level string) *Logger {
	if out == nil {
		out = io.Discard
	}
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)

	entry := logrus.NewEntry(base)
	if s := strings.TrimSpace(service); s != "" {
		entry = entry.WithField("service", s)
	}
	return &Logger{entry: entry}
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, correlationIDKey, strings.TrimSpace(id))
}

// NewCorrelationID attaches a fresh random correlation id to ctx.
func NewCorrelationID(ctx context.Context) context.Context {
	return WithCorrelationID(ctx, uuid.NewString())
}

func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(correlationIDKey).(string); ok {
		return v
	}
	return ""
}

func (l *Logger) with(ctx context.Context) *logrus.Entry {
	if id := CorrelationIDFromContext(ctx); id != "" {
		return l.entry.WithField("trace_id", id)
	}
	return l.entry
}

func (l *Logger) Printf(ctx context.Context, format string, v ...any) {
	if l == nil {
		return
	}
	l.with(ctx).Infof(format, v...)
}

func (l *Logger) Println(ctx context.Context, v ...any) {
	if l == nil {
		return
	}
	l.with(ctx).Info(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (l *Logger) Debugf(ctx context.Context, format string, v ...any) {
	if l == nil {
		return
	}
	l.with(ctx).Debugf(format, v...)
}

func (l *Logger) Warnf(ctx context.Context, format string, v ...any) {
	if l == nil {
		return
	}
	l.with(ctx).Warnf(format, v...)
}

func (l *Logger) Errorf(ctx context.Context, format string, v ...any) {
	if l == nil {
		return
	}
	l.with(ctx).Errorf(format, v...)
}

// Fatalf logs and terminates the process.
func (l *Logger) Fatalf(ctx context.Context, format string, v ...any) {
	if l == nil {
		logrus.Fatalf(format, v...)
		return
	}
	l.with(ctx).Fatalf(format, v...)
}
