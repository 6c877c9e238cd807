package replogger

import (
	"cmp"
	"fmt"
	"os"
	"slices"
)

// scanAndReconcile performs the startup scan: ensure the directory
// exists and is writable, remove a stale temp manifest, load the
// manifest, enumerate the directory, and materialize a descriptor for
// every file the manifest actually knows about. Orphans are silently
// skipped — the manifest, not the directory listing, is authoritative.
func scanAndReconcile(dir string) ([]*segment, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errf(StatusNotFound, "scanAndReconcile", err)
		}
		return nil, errf(StatusInternal, "scanAndReconcile", err)
	}
	if !info.IsDir() {
		return nil, errf(StatusNotFound, "scanAndReconcile", fmt.Errorf("%q is not a directory", dir))
	}
	if err := checkWritable(dir); err != nil {
		return nil, errf(StatusNotWritable, "scanAndReconcile", err)
	}

	if err := removeStaleTempManifest(dir); err != nil {
		return nil, internalErr("scanAndReconcile", err)
	}

	entries, err := loadManifest(dir)
	if err != nil {
		return nil, internalErr("scanAndReconcile", err)
	}
	byFilename := make(map[string]manifestEntry, len(entries))
	for _, e := range entries {
		byFilename[e.Filename] = e
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, internalErr("scanAndReconcile", err)
	}

	var segs []*segment
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if _, ok := parseSegmentFilename(name); !ok {
			continue // not a segment file at all
		}
		me, known := byFilename[name]
		if !known {
			continue // orphan: created but never recorded, ignored
		}
		fi, err := de.Info()
		if err != nil {
			return nil, internalErr("scanAndReconcile", err)
		}
		segs = append(segs, newClosedSegment(uint64(me.ID), uint64(me.TickMin), fi.Size(), me.Sealed))
	}

	slices.SortFunc(segs, func(a, b *segment) int { return cmp.Compare(a.id, b.id) })
	return segs, nil
}

// checkWritable verifies dir is writable by probing for a temp file;
// merely opening a directory for reading doesn't prove that.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".writable-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// entriesFromSegments renders the current segment set as manifest
// entries, in order, for saveManifest.
func entriesFromSegments(segs []*segment) []manifestEntry {
	entries := make([]manifestEntry, len(segs))
	for i, s := range segs {
		entries[i] = manifestEntry{
			ID:       decimalUint64(s.id),
			Filename: formatSegmentFilename(s.id),
			Sealed:   s.sealed,
			TickMin:  decimalUint64(s.tickMin),
		}
	}
	return entries
}

// applyRetention drops the oldest segments while the segment count
// exceeds maxLogs, as long as they are sealed, until the bound is met
// or the head is unsealed. Returns true iff any segment was removed
// (so the caller knows to resave the manifest).
func applyRetention(dir string, segs []*segment, maxLogs int) ([]*segment, bool, error) {
	if maxLogs < 1 {
		maxLogs = 1
	}
	changed := false
	for len(segs) > maxLogs {
		head := segs[0]
		if !head.sealed {
			break
		}
		if err := head.unlink(dir); err != nil && !os.IsNotExist(err) {
			return segs, changed, internalErr("applyRetention", err)
		}
		segs = segs[1:]
		changed = true
	}
	return segs, changed, nil
}
