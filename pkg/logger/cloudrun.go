package logger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// CloudRunHandler writes one Cloud Logging JSON entry per record. Record and
// logger attributes are collected under "data".
type CloudRunHandler struct {
	level slog.Leveler
	attrs []slog.Attr

	mu *sync.Mutex
	w  io.Writer
}

// NewCloudRunHandler logs to stdout, which Cloud Run forwards for every severity.
func NewCloudRunHandler(level slog.Level) slog.Handler {
	return NewCloudRunHandlerTo(os.Stdout, level)
}

func NewCloudRunHandlerTo(w io.Writer, level slog.Leveler) *CloudRunHandler {
	return &CloudRunHandler{level: level, mu: &sync.Mutex{}, w: w}
}

func (h *CloudRunHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *CloudRunHandler) Handle(_ context.Context, r slog.Record) error {
	event := map[string]any{
		"severity": mapSeverity(r.Level),
		"message":  r.Message,
		"time":     r.Time.Format(time.RFC3339Nano),
	}

	if len(h.attrs) > 0 || r.NumAttrs() > 0 {
		data := make(map[string]any, len(h.attrs)+r.NumAttrs())
		for _, a := range h.attrs {
			addAttr(data, a)
		}
		r.Attrs(func(a slog.Attr) bool {
			addAttr(data, a)
			return true
		})
		event["data"] = data
	}

	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(append(b, '\n'))
	return err
}

func (h *CloudRunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup is a no-op; Cloud Logging entries are flat.
func (h *CloudRunHandler) WithGroup(_ string) slog.Handler {
	return h
}

func addAttr(data map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Key == "" {
		return
	}
	switch v.Kind() {
	case slog.KindGroup:
		group := make(map[string]any)
		for _, ga := range v.Group() {
			addAttr(group, ga)
		}
		data[a.Key] = group
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			data[a.Key] = err.Error()
			return
		}
		data[a.Key] = v.Any()
	default:
		data[a.Key] = v.Any()
	}
}

func mapSeverity(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
