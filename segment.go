package replogger

import (
	"io"
	"os"
)

// segment is the in-memory descriptor for one on-disk log segment
// file. This format has no separate "finalize by rename" step: sealing
// is purely an in-memory/manifest flag, not a filename or header
// rewrite.
type segment struct {
	id      uint64
	tickMin uint64
	size    int64
	sealed  bool
	flushed bool
	f       *os.File
}

// newClosedSegment builds a descriptor for a segment known only from
// the manifest/directory scan — not currently open. Used by the
// directory manager while reconciling.
func newClosedSegment(id, tickMin uint64, size int64, sealed bool) *segment {
	return &segment{
		id:      id,
		tickMin: tickMin,
		size:    size,
		sealed:  sealed,
		flushed: true,
	}
}

// createNewSegment creates a brand-new segment file exclusively
// (O_CREAT|O_EXCL) and opens it for append.
func createNewSegment(dir string, id uint64) (*segment, error) {
	path := segmentPath(dir, id)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return &segment{
		id:      id,
		tickMin: id,
		size:    0,
		sealed:  false,
		flushed: true,
		f:       f,
	}, nil
}

// openSegmentForAppend reopens an existing, previously-unsealed segment
// for continued writing, seeking to the end of the file. When the
// file's on-disk size differs from the recorded size, the on-disk size
// is used. Fails on missing file or if the seek lands elsewhere.
func openSegmentForAppend(dir string, id, tickMin uint64, size int64) (*segment, error) {
	path := segmentPath(dir, id)
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	var ok bool
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() != size {
		// On-disk reality wins; the manifest's recorded size is only a
		// bookkeeping cache.
		size = fi.Size()
	}

	n, err := f.Seek(size, io.SeekStart)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, errSeekMismatch
	}

	ok = true
	return &segment{
		id:      id,
		tickMin: tickMin,
		size:    size,
		sealed:  false,
		flushed: true,
		f:       f,
	}, nil
}

var errSeekMismatch = errOf("seek position does not match recorded segment size")

func errOf(msg string) error { return &simpleError{msg} }

type simpleError struct{ msg string }

func (e *simpleError) Error() string { return e.msg }

// write appends data to the segment's file. Partial writes are
// reported as failures.
func (s *segment) write(data []byte) error {
	if s.f == nil || s.sealed {
		return errOf("segment is not open for append")
	}
	n, err := s.f.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return errOf("partial write to segment")
	}
	s.size += int64(n)
	s.flushed = false
	return nil
}

// flush fsyncs the segment if it has unflushed data. Idempotent.
func (s *segment) flush() error {
	if s.sealed || s.flushed {
		return nil
	}
	if s.f == nil {
		return nil
	}
	if err := s.f.Sync(); err != nil {
		return err
	}
	s.flushed = true
	return nil
}

// close flushes and closes the segment's file handle, optionally
// sealing it. Idempotent.
func (s *segment) close(seal bool) error {
	if s.f == nil {
		if seal {
			s.sealed = true
		}
		return nil
	}
	if err := s.flush(); err != nil {
		return err
	}
	if seal {
		s.sealed = true
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// unlink deletes the segment's underlying file. The segment must
// already be closed.
func (s *segment) unlink(dir string) error {
	if s.f != nil {
		return errOf("cannot unlink an open segment")
	}
	return os.Remove(segmentPath(dir, s.id))
}
