package replogger

import (
	"os"
	"strconv"

	json "github.com/goccy/go-json"
)

// manifestEntry is one element of the manifest's "logs" array. Ids are
// decimal strings on the wire to preserve full 64-bit precision,
// matching every other identifier this module emits.
type manifestEntry struct {
	ID       decimalUint64 `json:"id"`
	Filename string        `json:"filename"`
	Sealed   bool          `json:"sealed"`
	TickMin  decimalUint64 `json:"tickMin"`
}

// manifestDoc is the top-level "{ \"logs\": [...] }" manifest object.
type manifestDoc struct {
	Logs []manifestEntry `json:"logs"`
}

// decimalUint64 marshals/unmarshals as a JSON string containing decimal
// digits, rather than a JSON number, to keep ids precise beyond 2^53
// for consumers that parse JSON numbers as float64.
type decimalUint64 uint64

func (v decimalUint64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(v), 10) + `"`), nil
}

func (v *decimalUint64) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		// Tolerate a bare JSON number too, for forward compatibility
		// with hand-edited manifests.
		n, nerr := strconv.ParseUint(string(data), 10, 64)
		if nerr != nil {
			return err
		}
		*v = decimalUint64(n)
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*v = decimalUint64(n)
	return nil
}

// loadManifest reads and parses replication.json. Absence is not an
// error — the directory is treated as fresh.
func loadManifest(dir string) ([]manifestEntry, error) {
	data, err := os.ReadFile(manifestPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var doc manifestDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Logs, nil
}

// saveManifest writes the manifest crash-safely: serialize to
// replication.json.tmp, fsync, then rename over replication.json. A
// crash between write and rename leaves the previous manifest intact.
func saveManifest(dir string, entries []manifestEntry) error {
	doc := manifestDoc{Logs: entries}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tmpPath := manifestTempPath(dir)
	f, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, manifestPath(dir))
}

// removeStaleTempManifest unlinks any dangling replication.json.tmp
// left over from a crash between write and rename.
func removeStaleTempManifest(dir string) error {
	err := os.Remove(manifestTempPath(dir))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
