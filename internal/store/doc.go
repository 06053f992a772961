// Package store provides SQLite-backed persistence for event logs and
// finished graph builds.
//
// # Tables
//
//   - objects, events, event_objects: one object-centric event log
//   - builds: one row per stored build (id, logical seq, selection, digest)
//   - build_nodes, build_evidence: the exported graph of each build
//
// # Ordering
//
// Events are read back ORDER BY seq ASC, so a log survives a round trip with
// its chronology intact. Builds are stamped with a logical seq, never a
// wall-clock time. Evidence is read ORDER BY source, target, relation,
// event_id.
//
// # One Log Per Database
//
// Writing the log a database already holds is a no-op. Writing a different
// one fails with ErrLogConflict, so stored builds always match the stored
// log. Build ids come from a RunIDGenerator (UUIDv7 in production).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// SQLite stores signed 64-bit integers; object and event ids above
// math.MaxInt64 are not supported.
package store
