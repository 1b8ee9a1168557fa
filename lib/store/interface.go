package store

import (
	"context"

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/result"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// BackendFactory is a function type that creates the backend a store runs
// on. This abstracts backend construction from the store implementation.
type BackendFactory func() (db.Backend, error)

// DocumentStore is the public contract of the storage engine. Every
// operation returns a Result; no error leaves the engine as a panic.
//
// Lifecycle: a store handle is open from construction until Close or Reset
// and cannot be reopened. After close, every operation fails fast with a
// database error ("store is closed").
//
// Concurrency: mutating operations (Put, Update, Delete, Clear, Reset) are
// serialized through the store's write queue and complete in submission
// order. Reads (Get, GetAll, Info) run directly against the backend and may
// overlap a draining queue; they are consistent with respect to any single
// completed write but carry no snapshot guarantee across calls.
type DocumentStore interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Put inserts or overwrites the record for id (upsert semantics).
	// UpdatedAt is set to now; CreatedAt is preserved for an existing id and
	// initialized for a fresh one. Returns the written record.
	Put(ctx context.Context, id string, data map[string]interface{}) result.Result[db.Record]

	// Update overwrites the record for id, failing with notFound if no
	// record exists. Existence check and write are two steps; the write
	// queue removes the interleaving risk.
	Update(ctx context.Context, id string, data map[string]interface{}) result.Result[db.Record]

	// Delete removes the record for id. Deleting an absent id succeeds.
	Delete(ctx context.Context, id string) result.Result[result.Void]

	// Clear removes all records, keeping the collection structure.
	Clear(ctx context.Context) result.Result[result.Void]

	// --------------------------------------------------------------------------
	// Read Operations
	// --------------------------------------------------------------------------

	// Get returns the record for id, or a notFound error.
	Get(ctx context.Context, id string) result.Result[db.Record]

	// GetAll returns every record keyed by id. A malformed stored entry is
	// logged and skipped, never failing the whole scan.
	GetAll(ctx context.Context) result.Result[map[string]db.Record]

	// Info returns metadata about the backing medium.
	Info(ctx context.Context) result.Result[db.BackendInfo]

	// --------------------------------------------------------------------------
	// Lifecycle
	// --------------------------------------------------------------------------

	// Reset closes the handle and destroys the entire backing store. The
	// handle is closed afterwards even if destruction failed.
	Reset(ctx context.Context) result.Result[result.Void]

	// Close releases the handle. Idempotent.
	Close() result.Result[result.Void]

	// IsClosed reports the lifecycle state.
	IsClosed() bool
}
