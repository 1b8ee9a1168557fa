// Package docstore implements the reference storage engine on top of any
// db.Backend. It provides a thin, validated CRUD layer with serialization at
// the medium boundary and a per-store write-serialization queue.
//
// Key Features:
//   - Upsert Put plus a strict Update that fails with notFound
//   - Derived metadata: createdAt preserved, updatedAt strictly increasing,
//     deterministic contentHash computed at write time
//   - All mutating operations serialized through one FIFO queue, so
//     check-then-act compositions cannot interleave
//   - Partial-result tolerant GetAll: malformed entries are logged and
//     skipped instead of failing the scan
//   - Explicit unopened -> open -> closed lifecycle; after Close or Reset
//     every operation fails fast with a database error
//
// Implementation Details:
//
//   - Write Path: put encodes the data payload once, reuses those bytes as
//     the hash input, reads any existing record to preserve createdAt, and
//     writes the encoded record in a single backend operation. The
//     surrounding queue unit makes the sequence effectively atomic at the
//     store level.
//
//   - Reads: Get, GetAll and Info run directly against the backend and may
//     overlap a draining queue. They rely on the medium's per-request
//     isolation; there is no snapshot isolation across calls.
//
//   - Composition Architecture: the backend is injected through a
//     store.BackendFactory, so the engine is written once against the
//     db.Backend interface and works with the sqlite and memory engines
//     without modification.
//
// Usage Example:
//
//	loc := location.NewFileResolver("").Default().Unwrap()
//	s, err := docstore.New(func() (db.Backend, error) { return sqlite.Open(loc) })
//	if err != nil {
//		// initialization failure
//	}
//	defer s.Close()
//
//	res := s.Put(ctx, "user:42", map[string]interface{}{"name": "ada"})
package docstore
