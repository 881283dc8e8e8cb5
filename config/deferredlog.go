package config

import (
	"container/ring"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// LevelTrace is below slog's built-in levels; the loader uses it for the
// "skipped missing/empty config" chatter that's too noisy for Debug.
const LevelTrace = slog.LevelDebug - 4

type logRecord struct {
	level slog.Level
	msg   string
}

// DeferredLogger buffers log records in a fixed-size ring until a real
// slog.Logger is installed, then replays them in order before switching
// over to logging live. This lets the Loader log its discovery decisions
// (which locations were searched, which files were skipped) even when it
// runs before application logging has been configured — a real *slog.Logger
// is rarely available at the point Location/FileExpander start doing their
// work, only once the Environment it's building has been bound into a
// config struct and that struct has told the app how to build one.
type DeferredLogger struct {
	mu   sync.Mutex
	buf  *ring.Ring
	size int
	real *slog.Logger
}

// NewDeferredLogger returns a logger that buffers up to capacity records
// before a real logger is attached via SwitchTo.
func NewDeferredLogger(capacity int) *DeferredLogger {
	if capacity <= 0 {
		capacity = 256
	}
	return &DeferredLogger{buf: ring.New(capacity), size: capacity}
}

// SwitchTo installs logger as the real sink, replaying everything buffered
// so far in the order it was recorded, then routing all future records
// straight through.
func (d *DeferredLogger) SwitchTo(logger *slog.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.real != nil {
		d.real = logger
		return
	}
	d.real = logger
	d.buf.Do(func(v any) {
		if rec, ok := v.(logRecord); ok {
			d.real.Log(context.Background(), rec.level, rec.msg)
		}
	})
}

func (d *DeferredLogger) record(level slog.Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.real != nil {
		d.real.Log(context.Background(), level, msg)
		return
	}
	d.buf.Value = logRecord{level: level, msg: msg}
	d.buf = d.buf.Next()
}

func (d *DeferredLogger) Tracef(format string, args ...any) { d.record(LevelTrace, format, args...) }
func (d *DeferredLogger) Debugf(format string, args ...any) { d.record(slog.LevelDebug, format, args...) }
