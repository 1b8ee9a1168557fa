// Package sqlite implements db.Backend on a single SQLite database file.
//
// The file is opened in WAL mode with a busy timeout and a connection pool
// capped at one connection, matching SQLite's single-writer model. Records
// live in one table (id TEXT PRIMARY KEY, record BLOB); every interface
// method is a single prepared statement and therefore runs in its own
// implicit transaction.
//
// Data written through this backend survives process restarts; Destroy
// removes the database file together with its -wal and -shm companions.
package sqlite
