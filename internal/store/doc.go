// Package store keeps the press tape in SQLite.
//
// The tape is append-only:
//   - sessions: one row per calculator session (surface, versions)
//   - presses: one row per key press, keyed by its content-addressed ID
//
// Every press row also carries the canonical JSON of its trace entry so a
// tape can be diffed against golden traces without re-encoding.
//
// # Ordering
//
// Reads order by seq ASC, id ASC COLLATE BINARY. seq is the session's
// logical clock; wall time is never stored.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000ms
//   - foreign_keys=ON
//
// Engine state is never restored from the tape. Replaying a tape rebuilds
// a fresh engine and checks the recorded displays (see engine.Replay).
package store
