package viewer

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notifier surfaces messages to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

// Notify calls f.
func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// WriterNotifier prints one line per notification.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier builds a notifier printing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify writes "[level] message".
func (n *WriterNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", level, message) //nolint:errcheck
}

// LogNotifier forwards notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a notifier logging through logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs message at the matching level.
func (n *LogNotifier) Notify(level Level, message string) {
	switch level {
	case LevelError:
		n.logger.Error(message)
	case LevelWarn:
		n.logger.Warn(message)
	default:
		n.logger.Info(message)
	}
}
