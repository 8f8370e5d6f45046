package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a settings value to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// New builds a text or JSON logger writing to w
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.ToLower(format) == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Adapter exposes a slog.Logger through the printf-style calculation.Logger interface
type Adapter struct {
	L *slog.Logger
}

// NewAdapter wraps l
func NewAdapter(l *slog.Logger) Adapter {
	return Adapter{L: l}
}

func (a Adapter) Debugf(format string, args ...interface{}) {
	a.logf(slog.LevelDebug, format, args...)
}

func (a Adapter) Infof(format string, args ...interface{}) {
	a.logf(slog.LevelInfo, format, args...)
}

func (a Adapter) Warnf(format string, args ...interface{}) {
	a.logf(slog.LevelWarn, format, args...)
}

func (a Adapter) Errorf(format string, args ...interface{}) {
	a.logf(slog.LevelError, format, args...)
}

// logf skips formatting when the level is disabled
func (a Adapter) logf(level slog.Level, format string, args ...interface{}) {
	ctx := context.Background()
	if !a.L.Enabled(ctx, level) {
		return
	}
	a.L.Log(ctx, level, fmt.Sprintf(format, args...))
}
