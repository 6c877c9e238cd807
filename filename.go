package replogger

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// segmentFilenameRe matches "replication-<id>.db".
var segmentFilenameRe = regexp.MustCompile(`^replication-([0-9]+)\.db$`)

const manifestFilename = "replication.json"
const manifestTempFilename = "replication.json.tmp"

// formatSegmentFilename renders a segment's on-disk filename: no status
// prefix, no embedded timestamp — the manifest, not the filename,
// carries sealed/tickMin.
func formatSegmentFilename(id uint64) string {
	return "replication-" + strconv.FormatUint(id, 10) + ".db"
}

// parseSegmentFilename extracts the id from a "replication-<id>.db"
// name. ok is false for any name that doesn't match; the caller skips
// those as non-segment files.
func parseSegmentFilename(name string) (id uint64, ok bool) {
	m := segmentFilenameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func segmentPath(dir string, id uint64) string {
	return filepath.Join(dir, formatSegmentFilename(id))
}

func manifestPath(dir string) string {
	return filepath.Join(dir, manifestFilename)
}

func manifestTempPath(dir string) string {
	return filepath.Join(dir, manifestTempFilename)
}

// segmentDebugName renders a segment filename for log messages.
func segmentDebugName(id uint64) string {
	return fmt.Sprintf("replication-%d.db", id)
}
