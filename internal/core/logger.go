package core

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger provides structured logging for the client, scoped per feature
type Logger struct {
	*slog.Logger
	level    *slog.LevelVar
	mu       *sync.Mutex
	features map[string]*slog.Logger
}

// NewLogger creates a new logger instance writing to stdout
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout, slog.LevelInfo)
}

// NewLoggerWithWriter creates a logger writing text records to w
func NewLoggerWithWriter(w io.Writer, level slog.Level) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lv,
	})

	return &Logger{
		Logger:   slog.New(handler),
		level:    lv,
		mu:       &sync.Mutex{},
		features: make(map[string]*slog.Logger),
	}
}

// NopLogger returns a logger that discards everything
func NopLogger() *Logger {
	return NewLoggerWithWriter(io.Discard, slog.LevelError)
}

// ForFeature returns a logger specific to a feature or component
func (l *Logger) ForFeature(featureName string) *Logger {
	// Only the root logger caches; derived loggers carry extra attributes.
	if l.features == nil {
		return l.derive(l.Logger.With("feature", featureName))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	featureLogger, exists := l.features[featureName]
	if !exists {
		featureLogger = l.Logger.With("feature", featureName)
		l.features[featureName] = featureLogger
	}

	return l.derive(featureLogger)
}

// WithContext returns a logger carrying the chi request ID, when present
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	if requestID := middleware.GetReqID(ctx); requestID != "" {
		return l.derive(l.Logger.With("request_id", requestID))
	}

	return l
}

// WithUser returns a logger with user context
func (l *Logger) WithUser(email string) *Logger {
	return l.derive(l.Logger.With("user_email", email))
}

// SetLevel sets the logging level for this logger and every logger derived from it
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// ParseLevel maps a config string onto a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// LogFeatureEvent logs a feature-specific event
func (l *Logger) LogFeatureEvent(featureName, event string, attrs ...any) {
	featureLogger := l.ForFeature(featureName)
	featureLogger.Info("Feature event", append([]any{"event", event}, attrs...)...)
}

// LogFeatureError logs a feature-specific error
func (l *Logger) LogFeatureError(featureName, message string, err error, attrs ...any) {
	featureLogger := l.ForFeature(featureName)
	allAttrs := append([]any{"error", err}, attrs...)
	featureLogger.Error(message, allAttrs...)
}

func (l *Logger) derive(s *slog.Logger) *Logger {
	return &Logger{
		Logger: s,
		level:  l.level,
		mu:     l.mu,
	}
}
