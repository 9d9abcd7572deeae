package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

type FileLogger struct{ w io.Writer }

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{w: w} }
func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	writeLog(l.w, "INFO", component, format, args...)
}
func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	writeLog(l.w, "ERROR", component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}

// SlogLogger forwards to a structured logger, carrying the component as an
// attribute. The same *slog.Logger can be handed to gg.SetLogger so
// rasterizer diagnostics end up in the same sink.
type SlogLogger struct{ L *slog.Logger }

func NewSlogLogger(l *slog.Logger) SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return SlogLogger{L: l}
}

func (l SlogLogger) Infof(component string, format string, args ...interface{}) {
	l.L.Info(fmt.Sprintf(format, args...), slog.String("component", component))
}

func (l SlogLogger) Errorf(component string, format string, args ...interface{}) {
	l.L.Error(fmt.Sprintf(format, args...), slog.String("component", component))
}
