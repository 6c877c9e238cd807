package replogger

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// SetOptions configures a LoggerSet.
type SetOptions struct {
	Logger *slog.Logger

	// SweepRate paces successive logger flushes within one sweep; zero
	// means rate.Inf (no pacing).
	SweepRate  rate.Limit
	SweepBurst int
}

// LoggerSet aggregates multiple Logger instances — one per collection
// in a typical deployment — and runs a background sweep that flushes
// each logger's active segment without appending a record. This is an
// additive convenience: any Logger is fully usable on its own without
// ever being added to a LoggerSet.
type LoggerSet struct {
	logger *slog.Logger
	limit  rate.Limit
	burst  int

	mu       sync.Mutex
	_loggers []*Logger
}

// SetRunner is the handle returned by LoggerSet.StartBackground; Close
// stops the background sweep and waits for it to exit.
type SetRunner struct {
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewLoggerSet constructs a LoggerSet.
func NewLoggerSet(o SetOptions) *LoggerSet {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.SweepRate <= 0 {
		o.SweepRate = rate.Inf
	}
	if o.SweepBurst <= 0 {
		o.SweepBurst = 1
	}
	return &LoggerSet{logger: o.Logger, limit: o.SweepRate, burst: o.SweepBurst}
}

// Add registers a Logger with the set.
func (set *LoggerSet) Add(l *Logger) {
	set.mu.Lock()
	defer set.mu.Unlock()
	set._loggers = append(set._loggers, l)
}

// Remove unregisters a Logger from the set.
func (set *LoggerSet) Remove(l *Logger) {
	set.mu.Lock()
	defer set.mu.Unlock()
	if i := slices.Index(set._loggers, l); i != -1 {
		set._loggers = slices.Delete(set._loggers, i, i+1)
	}
}

// Loggers returns a snapshot of the set's current members.
func (set *LoggerSet) Loggers() []*Logger {
	set.mu.Lock()
	defer set.mu.Unlock()
	return slices.Clone(set._loggers)
}

// Sweep flushes every active logger's active segment once, pacing
// itself with a rate limiter built from the set's options so a large
// set doesn't fsync every member in the same instant. Returns the
// number of loggers whose flush returned no error; inactive loggers,
// which are skipped without error, are counted too.
func (set *LoggerSet) Sweep(ctx context.Context) int {
	lim := rate.NewLimiter(set.limit, set.burst)
	var flushed int
	for _, l := range set.Loggers() {
		if ctx.Err() != nil {
			return flushed
		}
		if err := lim.Wait(ctx); err != nil {
			return flushed
		}
		if err := l.flushActive(); err != nil {
			set.logger.Error("replogger: sweep flush failed", "logger", l.String(), "err", err)
			continue
		}
		flushed++
	}
	return flushed
}

// StartBackground launches a goroutine that calls Sweep once per
// interval until the returned SetRunner is closed or ctx is canceled.
func (set *LoggerSet) StartBackground(ctx context.Context, interval time.Duration) *SetRunner {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				set.Sweep(gctx)
			case <-gctx.Done():
				return nil
			}
		}
	})
	return &SetRunner{cancel: cancel, group: g}
}

// Close stops the background sweep and waits for it to exit.
func (runner *SetRunner) Close() {
	runner.cancel()
	_ = runner.group.Wait()
}

// flushActive flushes the logger's active segment, if any, without
// appending a record or rotating.
func (l *Logger) flushActive() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return nil
	}
	if n := len(l.segments); n > 0 {
		if err := l.segments[n-1].flush(); err != nil {
			return internalErr("flushActive", err)
		}
	}
	return nil
}
