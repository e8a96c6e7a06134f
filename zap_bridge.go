package ygggo_jdbd

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapHandler bridges slog records to a zap logger.
// It maps slog levels and forwards attributes as zap fields; groups are
// flattened into dotted keys.
type zapHandler struct {
	z      *zap.Logger
	group  string
	fields []zap.Field
}

func newZapHandler(z *zap.Logger) slog.Handler {
	return &zapHandler{z: z}
}

func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l >= slog.LevelError:
		return zapcore.ErrorLevel
	case l >= slog.LevelWarn:
		return zapcore.WarnLevel
	case l >= slog.LevelInfo:
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

func (h *zapHandler) Enabled(_ context.Context, l slog.Level) bool {
	return h.z.Core().Enabled(zapLevel(l))
}

func (h *zapHandler) Handle(_ context.Context, r slog.Record) error {
	ce := h.z.Check(zapLevel(r.Level), r.Message)
	if ce == nil {
		return nil
	}
	fields := make([]zap.Field, 0, len(h.fields)+r.NumAttrs())
	fields = append(fields, h.fields...)
	r.Attrs(func(a slog.Attr) bool {
		fields = appendFields(fields, h.group, a)
		return true
	})
	ce.Write(fields...)
	return nil
}

// appendFields adds a under prefix. Group values recurse; an empty group
// key inlines its members, an empty attr is dropped.
func appendFields(fields []zap.Field, prefix string, a slog.Attr) []zap.Field {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub = qualify(prefix, a.Key)
		}
		for _, ga := range v.Group() {
			fields = appendFields(fields, sub, ga)
		}
		return fields
	}
	if a.Key == "" && v.Any() == nil {
		return fields
	}
	return append(fields, zap.Any(qualify(prefix, a.Key), v.Any()))
}

func qualify(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// WithAttrs converts attrs under the current group now, so a later
// WithGroup does not move them.
func (h *zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.fields = append([]zap.Field(nil), h.fields...)
	for _, a := range attrs {
		nh.fields = appendFields(nh.fields, h.group, a)
	}
	return &nh
}

func (h *zapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.group = qualify(h.group, name)
	return &nh
}

// UseZapLogger routes this driver's logs to z and enables logging.
func (d *Driver) UseZapLogger(z *zap.Logger) {
	if d == nil || z == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setLogger(slog.New(newZapHandler(z)), nil)
	d.loggingEnabled = true
}
