package db

import "context"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplSQLite Implementation = "sqlite"
	ImplMemory Implementation = "memory"
)

// BackendInfo describes the state of a backing medium. All values are
// best-effort estimates and may lag behind concurrent writes.
type BackendInfo struct {
	Implementation Implementation `json:"implementation"`
	Location       string         `json:"location"`
	Entries        int            `json:"entries"`
	SizeBytes      int64          `json:"size_bytes"`
}

// --------------------------------------------------------------------------
// Backend Interface
// --------------------------------------------------------------------------

// Backend is the capability interface the storage engine requires from any
// backing medium. Implementations exist for a native transactional engine
// (engines/sqlite) and an in-process object store (engines/memory); the
// engine is written once against this interface.
//
// Every method is individually atomic: each call runs inside its own
// transaction or request scoped to that single operation. Composition of
// calls is NOT atomic; the engine relies on the write-serialization queue
// for that.
//
// Values are opaque bytes to the backend. Serialization happens in the
// engine, at the boundary.
type Backend interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Put inserts or overwrites the value stored under id.
	Put(ctx context.Context, id string, value []byte) error

	// Delete removes the entry for id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Clear removes all entries. The collection structure is retained.
	Clear(ctx context.Context) error

	// --------------------------------------------------------------------------
	// Read Operations
	// --------------------------------------------------------------------------

	// Get returns the value stored under id. The boolean reports whether an
	// entry was found; a missing entry is not an error at this layer.
	Get(ctx context.Context, id string) (value []byte, found bool, err error)

	// GetAll returns a snapshot of every entry in the collection.
	GetAll(ctx context.Context) (map[string][]byte, error)

	// --------------------------------------------------------------------------
	// Metadata and Lifecycle
	// --------------------------------------------------------------------------

	// Info returns metadata about the backing medium.
	Info(ctx context.Context) (BackendInfo, error)

	// Close releases the handle to the backing medium. Idempotent. The
	// backend must not be used after Close.
	Close() error

	// Destroy closes the handle and removes the entire backing store from
	// the medium (file deletion, database drop). Not reversible.
	Destroy() error
}
