// Package replogger implements a replication event logger for a
// document database: an append-only, rotating on-disk log that
// serializes every mutation (document insert/update/remove,
// transaction boundaries, collection create/drop/rename/change, index
// create/drop) into a durable stream of newline-delimited JSON events.
// Downstream replicas consume this stream to mirror primary state.
//
// # File format
//
// A logger's directory holds:
//
//   - replication-<id>.db — segment files, UTF-8 text, one JSON event
//     per line, LF-terminated.
//   - replication.json — the manifest, the authoritative record of
//     known segments across restarts.
//   - replication.json.tmp — transient; removed on startup if found.
//
// # Lifecycle
//
// Construct a Logger with New, Start it to begin accepting appends,
// and Stop or Destroy it to release its segment. Log* methods encode
// and append one event each. While the logger is inactive they write
// nothing and return nil for any event that encodes successfully; an
// event that fails to encode returns its encoding error whether or not
// the logger is active.
//
// # Collaborators
//
// The logger never allocates revision/segment identifiers itself — it
// asks a Clock. It never inspects document bodies — it hands them to a
// Shaper. Both are supplied by the caller via Options.
package replogger
