package ygggo_jdbd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Level is a slog level name: debug, info, warn, error. Default info.
	Level string `yaml:"level"`
	// Format is "json" (default) or "text".
	Format             string        `yaml:"format"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`

	// File, when set, sends logs to a size-rotated file instead of stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// logFile is a rotating file shared by every driver logging to the same
// path; lumberjack supports one rotator per file.
type logFile struct {
	w    *lumberjack.Logger
	refs int
}

var (
	logFilesMu sync.Mutex
	logFiles   = map[string]*logFile{}
)

// openLogWriter returns the destination for cfg and a release func that
// must be called once the logger is no longer used.
func openLogWriter(cfg LoggingConfig) (io.Writer, func()) {
	if cfg.File == "" {
		return os.Stdout, func() {}
	}
	path := filepath.Clean(cfg.File)

	logFilesMu.Lock()
	defer logFilesMu.Unlock()
	f, ok := logFiles[path]
	if !ok {
		size := cfg.MaxSizeMB
		if size <= 0 {
			size = 10 // megabytes
		}
		f = &logFile{w: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    size,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}}
		logFiles[path] = f
	}
	f.refs++

	var once sync.Once
	return f.w, func() {
		once.Do(func() {
			logFilesMu.Lock()
			defer logFilesMu.Unlock()
			f.refs--
			if f.refs == 0 {
				_ = f.w.Close()
				delete(logFiles, path)
			}
		})
	}
}

func newDefaultLogger(cfg LoggingConfig) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = slog.LevelInfo
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	w, release := openLogWriter(cfg)
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts)), release
	}
	return slog.New(slog.NewJSONHandler(w, opts)), release
}

// setLogger swaps the logger and releases the previous default logger's
// file. Callers hold d.mu.
func (d *Driver) setLogger(logger *slog.Logger, release func()) {
	if d.releaseLog != nil {
		d.releaseLog()
	}
	d.logger = logger
	d.releaseLog = release
}

// closeLog releases the default logger's file. Called by Unload after
// the last record.
func (d *Driver) closeLog() {
	if d.releaseLog == nil {
		return
	}
	d.releaseLog()
	d.releaseLog = nil
	d.logger = nil
}

// EnableLogging enables or disables structured logging for this driver
func (d *Driver) EnableLogging(enabled bool) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loggingEnabled = enabled
	if enabled && d.logger == nil {
		d.setLogger(newDefaultLogger(d.cfg.Logging))
	}
}

// SetLogger sets a custom logger for this driver
func (d *Driver) SetLogger(logger *slog.Logger) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setLogger(logger, nil)
}

// SetSlowQueryThreshold makes statements slower than t log at warn level.
// Zero disables the check.
func (d *Driver) SetSlowQueryThreshold(t time.Duration) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowQueryThreshold = t
}

// logOperation logs a query or execute with structured fields.
// Parameter values are never logged, only their count.
func (d *Driver) logOperation(ctx context.Context, op string, stmt *PreparedStatement, duration time.Duration, err error) {
	if d == nil || !d.loggingEnabled || d.logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("driver_id", d.id),
		slog.String("kind", string(d.kind)),
		slog.String("operation", op),
		slog.String("query", stmt.Text()),
		slog.Float64("duration_ms", float64(duration.Nanoseconds())/1e6),
	}
	if n := stmt.Placeholders(); n > 0 {
		attrs = append(attrs, slog.Int("arg_count", n))
	}

	if err != nil {
		attrs = append(attrs,
			slog.String("status", "error"),
			slog.String("error", err.Error()),
		)
		if code := errorCode(err); code != "" {
			attrs = append(attrs, slog.String("error_code", code))
		}
	} else {
		attrs = append(attrs, slog.String("status", "success"))
	}

	if d.slowQueryThreshold > 0 && duration > d.slowQueryThreshold {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "slow statement detected", attrs...)
		return
	}
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}
	d.logger.LogAttrs(ctx, level, "database statement executed", attrs...)
}

// logLifecycle logs load and unload events
func (d *Driver) logLifecycle(ctx context.Context, event string, duration time.Duration, err error) {
	if d == nil || !d.loggingEnabled || d.logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("driver_id", d.id),
		slog.String("kind", string(d.kind)),
		slog.String("event", event),
		slog.Float64("duration_ms", float64(duration.Nanoseconds())/1e6),
	}

	if err != nil {
		attrs = append(attrs,
			slog.String("status", "error"),
			slog.String("error", err.Error()),
		)
		d.logger.LogAttrs(ctx, slog.LevelError, "driver lifecycle event", attrs...)
		return
	}
	attrs = append(attrs, slog.String("status", "success"))
	d.logger.LogAttrs(ctx, slog.LevelInfo, "driver lifecycle event", attrs...)
}
