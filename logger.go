package prism

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards every record. Enabled reports
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the active logger. Texture loads log from worker
// goroutines, so access is atomic.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by prism and its backends.
// By default prism produces no log output. Pass nil to restore silence.
//
// Log levels used by prism:
//   - [slog.LevelDebug]: per-frame statistics (only with Config.Debug)
//   - [slog.LevelInfo]: lifecycle events (device created, window opened)
//   - [slog.LevelWarn]: non-fatal failures (texture load, entity draw)
//
// Example:
//
//	prism.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Backend packages call this so they
// share the configuration set through SetLogger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
