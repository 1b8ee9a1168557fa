// Package memory implements db.Backend as a process-local object store.
// Named databases live in a package-level registry, so two opens of the same
// logical name share one store and Destroy removes the name entirely -
// mirroring the semantics of a browser object store (open / deleteDatabase).
// Data does not survive the process.
package memory

import (
	"context"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/db/location"
)

// registry holds all named in-process databases.
var registry = xsync.NewMapOf[string, *xsync.MapOf[string, []byte]]()

// memoryBackend implements db.Backend over one named entry map. Individual
// map operations are atomic, matching the per-operation atomicity of the
// Backend contract; composition is left to the write-serialization queue.
type memoryBackend struct {
	name   string
	data   *xsync.MapOf[string, []byte]
	closed atomic.Bool
}

// Open returns a backend bound to the named database, creating it if absent.
func Open(loc location.Location) (db.Backend, error) {
	if loc.Name == "" {
		return nil, db.ValidationError("memory backend requires a store name", "")
	}
	data, _ := registry.LoadOrCompute(loc.Name, func() *xsync.MapOf[string, []byte] {
		return xsync.NewMapOf[string, []byte]()
	})
	return &memoryBackend{name: loc.Name, data: data}, nil
}

// Destroy removes a named database from the registry without needing an open
// handle. Used by tests and by cmd/.
func Destroy(name string) {
	registry.Delete(name)
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

func (m *memoryBackend) Put(_ context.Context, id string, value []byte) error {
	if m.closed.Load() {
		return db.ClosedError()
	}
	// copy so later caller mutations cannot corrupt the stored bytes
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data.Store(id, stored)
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, id string) error {
	if m.closed.Load() {
		return db.ClosedError()
	}
	m.data.Delete(id)
	return nil
}

func (m *memoryBackend) Clear(_ context.Context) error {
	if m.closed.Load() {
		return db.ClosedError()
	}
	m.data.Clear()
	return nil
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

func (m *memoryBackend) Get(_ context.Context, id string) ([]byte, bool, error) {
	if m.closed.Load() {
		return nil, false, db.ClosedError()
	}
	stored, ok := m.data.Load(id)
	if !ok {
		return nil, false, nil
	}
	value := make([]byte, len(stored))
	copy(value, stored)
	return value, true, nil
}

func (m *memoryBackend) GetAll(_ context.Context) (map[string][]byte, error) {
	if m.closed.Load() {
		return nil, db.ClosedError()
	}
	entries := make(map[string][]byte, m.data.Size())
	m.data.Range(func(id string, stored []byte) bool {
		value := make([]byte, len(stored))
		copy(value, stored)
		entries[id] = value
		return true
	})
	return entries, nil
}

// --------------------------------------------------------------------------
// Metadata and Lifecycle
// --------------------------------------------------------------------------

func (m *memoryBackend) Info(_ context.Context) (db.BackendInfo, error) {
	if m.closed.Load() {
		return db.BackendInfo{}, db.ClosedError()
	}
	var sizeBytes int64
	m.data.Range(func(id string, stored []byte) bool {
		sizeBytes += int64(len(id) + len(stored))
		return true
	})
	return db.BackendInfo{
		Implementation: db.ImplMemory,
		Location:       m.name,
		Entries:        m.data.Size(),
		SizeBytes:      sizeBytes,
	}, nil
}

func (m *memoryBackend) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *memoryBackend) Destroy() error {
	m.closed.Store(true)
	registry.Delete(m.name)
	m.data.Clear()
	return nil
}
