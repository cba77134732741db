// Package store persists constraint snapshots.
//
// A snapshot is the v4 envelope produced by package snapshot, stored under a
// name (usually the city) together with its content hash. Saving the same
// content twice under one name is a no-op, so a host that saves on every
// autosave only grows the table when something changed.
//
// Two backends share one Store type:
//   - SQLite (github.com/mattn/go-sqlite3), the default, with WAL mode and
//     user_version migrations
//   - PostgreSQL through pgx's database/sql driver
//
// OpenFromEnv picks one from EDS_STORAGE_DRIVER, EDS_SQLITE_PATH and
// EDS_POSTGRES_DSN.
//
// Ordering uses seq, never timestamps.
package store
