package logging

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/smazurov/audiohal/internal/halerr"
)

// LogCallback receives every entry written to the ring buffer. main uses it
// to publish log events without logging importing the event bus.
type LogCallback func(entry LogEntry)

// ringHandler records entries into the ring buffer behind /api/logs.
// Attributes are flattened with dotted group keys; routing errors also
// record their code under "<key>_code".
type ringHandler struct {
	buffer   *RingBuffer
	level    slog.Leveler
	module   string
	attrs    map[string]any
	groups   []string
	callback LogCallback
}

func newRingHandler(buffer *RingBuffer, level slog.Leveler, callback LogCallback) *ringHandler {
	return &ringHandler{
		buffer:   buffer,
		level:    level,
		module:   "app",
		attrs:    map[string]any{},
		callback: callback,
	}
}

func (h *ringHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ringHandler) Handle(_ context.Context, r slog.Record) error {
	module := h.module
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		attrs[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "module" && len(h.groups) == 0 {
			module = a.Value.String()
			return true
		}
		flattenAttr(attrs, h.groups, a)
		return true
	})

	entry := LogEntry{
		Timestamp:  r.Time,
		Level:      levelToString(r.Level),
		Module:     module,
		Message:    r.Message,
		Attributes: attrs,
	}
	h.buffer.Write(entry)
	if h.callback != nil {
		h.callback(entry)
	}
	return nil
}

func (h *ringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		if a.Key == "module" && len(h.groups) == 0 {
			next.module = a.Value.String()
			continue
		}
		flattenAttr(next.attrs, next.groups, a)
	}
	return next
}

func (h *ringHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(slices.Clone(h.groups), name)
	return next
}

func (h *ringHandler) clone() *ringHandler {
	next := *h
	next.attrs = make(map[string]any, len(h.attrs))
	for k, v := range h.attrs {
		next.attrs[k] = v
	}
	return &next
}

func flattenAttr(attrs map[string]any, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		for _, ga := range a.Value.Group() {
			flattenAttr(attrs, append(slices.Clone(groups), a.Key), ga)
		}
	case slog.KindTime:
		attrs[key] = a.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		attrs[key] = a.Value.Duration().String()
	case slog.KindAny:
		err, ok := a.Value.Any().(error)
		if !ok {
			attrs[key] = a.Value.Any()
			return
		}
		attrs[key] = err.Error()
		if code, ok := errorCode(err); ok {
			attrs[key+"_code"] = code
		}
	default:
		attrs[key] = a.Value.Any()
	}
}

func levelToString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

func errorCode(err error) (string, bool) {
	code := halerr.CodeOf(err)
	if code == "" || code == halerr.ErrInternal {
		return "", false
	}
	return string(code), true
}
