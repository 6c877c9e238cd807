package replogger

import (
	"errors"
	"log/slog"
	"sync"
)

// DefaultLogSize is the rotation threshold used when Options.LogSize
// is left zero.
const DefaultLogSize int64 = 4 * 1024 * 1024

// Options configures a Logger. All fields become part of the logger's
// immutable configuration.
type Options struct {
	LogSize     int64 // rotation threshold, bytes; 0 means DefaultLogSize
	MaxLogs     int   // retention count, >= 1
	WaitForSync bool  // stored only; segments are fsynced on every close regardless, appends never

	Clock  Clock  // required: external tick source
	Shaper Shaper // required: shaped-document stringifier

	DebugName string
	Logger    *slog.Logger
}

// Logger is the replication event logger core. A Logger is
// constructed against an existing writable directory, then sits
// inactive until Start is called.
type Logger struct {
	path        string
	logSize     int64
	maxLogs     int
	waitForSync bool
	clock       Clock
	shaper      Shaper
	debugName   string
	logger      *slog.Logger

	mu       sync.RWMutex
	active   bool
	segments []*segment
}

var errAlreadyActive = errors.New("logger is already active")
var errNotActive = errors.New("logger is not active")
var errNoActiveSegment = errors.New("no active segment available for append")

// New constructs a Logger against dir: scans the directory, loads the
// manifest, reconciles the two, and sorts the resulting segment set.
// Construction failures are fatal — the caller must not use a Logger
// returned with a non-nil error.
func New(dir string, o Options) (*Logger, error) {
	if o.LogSize <= 0 {
		o.LogSize = DefaultLogSize
	}
	if o.MaxLogs < 1 {
		o.MaxLogs = 1
	}
	if o.DebugName == "" {
		o.DebugName = "replogger"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Clock == nil {
		return nil, errf(StatusInternal, "New", errors.New("Options.Clock is required"))
	}
	if o.Shaper == nil {
		return nil, errf(StatusInternal, "New", errors.New("Options.Shaper is required"))
	}

	segs, err := scanAndReconcile(dir)
	if err != nil {
		return nil, err
	}

	return &Logger{
		path:        dir,
		logSize:     o.LogSize,
		maxLogs:     o.MaxLogs,
		waitForSync: o.WaitForSync,
		clock:       o.Clock,
		shaper:      o.Shaper,
		debugName:   o.DebugName,
		logger:      o.Logger,
		segments:    segs,
	}, nil
}

func (l *Logger) String() string { return l.debugName }

// IsActive reports whether the logger is currently accepting appends.
func (l *Logger) IsActive() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// Segments returns a snapshot of the current segment set's ids, sealed
// flags and sizes, under the reader lock reserved for snapshot/dump
// readers.
func (l *Logger) Segments() []SegmentInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]SegmentInfo, len(l.segments))
	for i, s := range l.segments {
		out[i] = SegmentInfo{ID: s.id, TickMin: s.tickMin, Size: s.size, Sealed: s.sealed}
	}
	return out
}

// SegmentInfo is a read-only view of one segment, as returned by
// Logger.Segments.
type SegmentInfo struct {
	ID      uint64
	TickMin uint64
	Size    int64
	Sealed  bool
}

// Start activates the logger: applies retention, then either reopens
// the tail unsealed segment at its recorded size or creates a new one,
// and resaves the manifest. Fails if already active.
func (l *Logger) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		return internalErr("Start", errAlreadyActive)
	}

	segs, changed, err := applyRetention(l.path, l.segments, l.maxLogs)
	if err != nil {
		return err
	}
	l.segments = segs

	if n := len(l.segments); n > 0 && !l.segments[n-1].sealed {
		tail := l.segments[n-1]
		reopened, err := openSegmentForAppend(l.path, tail.id, tail.tickMin, tail.size)
		if err != nil {
			return internalErr("Start", err)
		}
		l.segments[n-1] = reopened
	} else {
		id := l.clock.NextTick()
		ns, err := createNewSegment(l.path, id)
		if err != nil {
			return internalErr("Start", err)
		}
		l.segments = append(l.segments, ns)
		changed = true
	}

	if err := saveManifest(l.path, entriesFromSegments(l.segments)); err != nil {
		l.logger.Error("replogger: manifest save failed", "logger", l.debugName, "err", err)
		return internalErr("Start", err)
	}
	_ = changed // manifest is always resaved on Start, whether or not retention changed anything

	l.active = true
	return nil
}

// Stop deactivates the logger: flushes and closes the active segment
// (without sealing it) and resaves the manifest. Fails if not active.
func (l *Logger) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopLocked()
}

func (l *Logger) stopLocked() error {
	if !l.active {
		return internalErr("Stop", errNotActive)
	}
	if n := len(l.segments); n > 0 {
		tail := l.segments[n-1]
		if !tail.sealed {
			if err := tail.close(false); err != nil {
				return internalErr("Stop", err)
			}
		}
	}
	if err := saveManifest(l.path, entriesFromSegments(l.segments)); err != nil {
		l.logger.Error("replogger: manifest save failed", "logger", l.debugName, "err", err)
		return internalErr("Stop", err)
	}
	l.active = false
	return nil
}

// Destroy forces the logger to stop (ignoring an already-inactive
// state), resaves the manifest, and releases every segment's file
// handle.
func (l *Logger) Destroy() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	if l.active {
		if err := l.stopLocked(); err != nil {
			firstErr = err
		}
	}
	for _, s := range l.segments {
		if err := s.close(s.sealed); err != nil && firstErr == nil {
			firstErr = internalErr("Destroy", err)
		}
	}
	if err := saveManifest(l.path, entriesFromSegments(l.segments)); err != nil && firstErr == nil {
		firstErr = internalErr("Destroy", err)
	}
	return firstErr
}

// appendEvent runs the append algorithm: the buffer is already fully
// encoded by the caller (ops.go); this terminates the record, takes
// the writer lock, writes it to the active segment, updates size, and
// rotates if the size threshold is crossed.
func (l *Logger) appendEvent(buf *Buffer) error {
	if err := buf.Err(); err != nil {
		return asReplError(err)
	}
	buf.appendByte('\n')
	if err := buf.Err(); err != nil {
		return asReplError(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.active {
		return nil // silently discarded while inactive
	}

	n := len(l.segments)
	if n == 0 {
		return internalErr("appendEvent", errNoActiveSegment)
	}
	tail := l.segments[n-1]
	if tail.f == nil || tail.sealed {
		return internalErr("appendEvent", errNoActiveSegment)
	}

	if err := tail.write(buf.Bytes()); err != nil {
		return internalErr("appendEvent", err)
	}

	if tail.size >= l.logSize {
		if err := l.rotateLocked(); err != nil {
			return internalErr("appendEvent", err)
		}
	}
	return nil
}

// rotateLocked closes and seals the active segment, applies retention,
// and opens a fresh segment. Must be called with l.mu held.
func (l *Logger) rotateLocked() error {
	n := len(l.segments)
	tail := l.segments[n-1]

	l.logger.Debug("replogger: rotating segment", "logger", l.debugName, "segment", tail.id, "size", tail.size)

	// The fsync inside close is unconditional, because sealed implies
	// flushed; WaitForSync does not gate it, and no per-append fsync is
	// performed.
	if err := tail.close(true); err != nil {
		return err
	}

	segs, _, err := applyRetention(l.path, l.segments, l.maxLogs)
	if err != nil {
		// The old segment is already sealed and closed; leave it that
		// way and surface the retention failure.
		return err
	}
	l.segments = segs

	id := l.clock.NextTick()
	ns, err := createNewSegment(l.path, id)
	if err != nil {
		// Unrecoverable rotation failure: old segment stays sealed and
		// closed; the next append fails until an operator restarts.
		return err
	}
	l.segments = append(l.segments, ns)

	if err := saveManifest(l.path, entriesFromSegments(l.segments)); err != nil {
		l.logger.Error("replogger: manifest save failed", "logger", l.debugName, "err", err)
		return err
	}
	return nil
}

// asReplError normalizes an encoding-time error into *Error, preserving
// its Status when it already is one.
func asReplError(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internalErr("appendEvent", err)
}
