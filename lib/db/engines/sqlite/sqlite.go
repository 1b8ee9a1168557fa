package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/db/location"
)

// --------------------------------------------------------------------------
// Backend Structure
// --------------------------------------------------------------------------

// sqliteBackend implements db.Backend on a SQLite database file. The file is
// opened in WAL mode with a single writer connection; every interface method
// maps to one statement and therefore runs in its own implicit transaction,
// which is exactly the per-operation atomicity the Backend contract asks for.
type sqliteBackend struct {
	handle    *sql.DB
	path      string
	name      string
	closeOnce sync.Once
	closeErr  error

	// prepared statements, compiled once at open
	getStmt    *sql.Stmt
	putStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	getAllStmt *sql.Stmt
	clearStmt  *sql.Stmt
	countStmt  *sql.Stmt
}

const busyTimeoutMillis = 5000

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// Open opens or creates the backing database file at loc and creates the
// record collection if absent. All failures are initialization errors.
func Open(loc location.Location) (db.Backend, error) {
	if loc.Path == "" {
		return nil, db.ValidationError("sqlite backend requires a file location", loc.Name)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		loc.Path, busyTimeoutMillis)

	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, db.InitializationError("failed to open database", err).WithContext(loc.Path)
	}

	// SQLite supports a single writer, serialize at the pool
	handle.SetMaxOpenConns(1)
	handle.SetMaxIdleConns(1)
	handle.SetConnMaxLifetime(0)

	if err := handle.Ping(); err != nil {
		handle.Close()
		return nil, db.InitializationError("failed to connect to database", err).WithContext(loc.Path)
	}

	backend := &sqliteBackend{handle: handle, path: loc.Path, name: loc.Name}

	if err := backend.initSchema(); err != nil {
		handle.Close()
		return nil, db.InitializationError("failed to initialize schema", err).WithContext(loc.Path)
	}
	if err := backend.prepareStatements(); err != nil {
		handle.Close()
		return nil, db.InitializationError("failed to prepare statements", err).WithContext(loc.Path)
	}

	return backend, nil
}

// initSchema creates the record collection if it doesn't exist.
func (s *sqliteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id     TEXT PRIMARY KEY,
		record BLOB NOT NULL
	);
	`
	_, err := s.handle.Exec(schema)
	return err
}

// prepareStatements compiles the per-operation statements for reuse.
func (s *sqliteBackend) prepareStatements() error {
	var err error

	if s.getStmt, err = s.handle.Prepare(`SELECT record FROM records WHERE id = ?`); err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}
	if s.putStmt, err = s.handle.Prepare(`
		INSERT INTO records (id, record) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET record = excluded.record
	`); err != nil {
		return fmt.Errorf("failed to prepare put statement: %w", err)
	}
	if s.deleteStmt, err = s.handle.Prepare(`DELETE FROM records WHERE id = ?`); err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	if s.getAllStmt, err = s.handle.Prepare(`SELECT id, record FROM records`); err != nil {
		return fmt.Errorf("failed to prepare getAll statement: %w", err)
	}
	if s.clearStmt, err = s.handle.Prepare(`DELETE FROM records`); err != nil {
		return fmt.Errorf("failed to prepare clear statement: %w", err)
	}
	if s.countStmt, err = s.handle.Prepare(`SELECT COUNT(*) FROM records`); err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	return nil
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

func (s *sqliteBackend) Put(ctx context.Context, id string, value []byte) error {
	if _, err := s.putStmt.ExecContext(ctx, id, value); err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

func (s *sqliteBackend) Delete(ctx context.Context, id string) error {
	if _, err := s.deleteStmt.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func (s *sqliteBackend) Clear(ctx context.Context) error {
	if _, err := s.clearStmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

func (s *sqliteBackend) Get(ctx context.Context, id string) ([]byte, bool, error) {
	var value []byte
	err := s.getStmt.QueryRowContext(ctx, id).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get record: %w", err)
	}
	return value, true, nil
}

func (s *sqliteBackend) GetAll(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.getAllStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}
	defer rows.Close()

	entries := make(map[string][]byte)
	for rows.Next() {
		var (
			id    string
			value []byte
		)
		if err := rows.Scan(&id, &value); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		entries[id] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

// --------------------------------------------------------------------------
// Metadata and Lifecycle
// --------------------------------------------------------------------------

func (s *sqliteBackend) Info(ctx context.Context) (db.BackendInfo, error) {
	var entries int
	if err := s.countStmt.QueryRowContext(ctx).Scan(&entries); err != nil {
		return db.BackendInfo{}, fmt.Errorf("failed to count records: %w", err)
	}

	var sizeBytes int64
	if stat, err := os.Stat(s.path); err == nil {
		sizeBytes = stat.Size()
	}

	return db.BackendInfo{
		Implementation: db.ImplSQLite,
		Location:       s.path,
		Entries:        entries,
		SizeBytes:      sizeBytes,
	}, nil
}

// Close releases the handle. Idempotent and safe to call multiple times.
func (s *sqliteBackend) Close() error {
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{
			s.getStmt, s.putStmt, s.deleteStmt, s.getAllStmt, s.clearStmt, s.countStmt,
		} {
			if stmt != nil {
				stmt.Close()
			}
		}
		// flush the WAL into the main file before releasing
		_, _ = s.handle.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.handle.Close()
	})
	return s.closeErr
}

// Destroy closes the handle and removes the database file and its WAL
// companions from disk.
func (s *sqliteBackend) Destroy() error {
	if err := s.Close(); err != nil {
		return err
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", s.path+suffix, err)
		}
	}
	return nil
}
