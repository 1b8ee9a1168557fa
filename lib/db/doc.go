// Package db defines the data model and backend contract of the document
// store: the persisted Record shape with its derived metadata, the closed
// error taxonomy surfaced as values, the canonical JSON codec and content
// hash, and the Backend capability interface that every backing medium must
// satisfy.
//
// The package focuses on:
//   - A unified capability interface for backing media
//   - Validated, size-bounded record serialization at the boundary
//   - A closed set of typed error values (no exceptions across the surface)
//   - Standardized metadata reporting
//
// Key Components:
//
//   - Record: The unit of storage. A caller-chosen string id (1-511 bytes)
//     maps to an arbitrary JSON-compatible data payload (serialized size at
//     most 10 MiB) plus derived metadata: createdAt (set once at first
//     write), updatedAt (set on every write, never below createdAt) and a
//     deterministic contentHash computed from the data at write time. The
//     hash is carried for change detection by callers; it is not recomputed
//     or verified on read, but it must round-trip.
//
//   - Error: The value type for every failure. Its Kind is one of a closed
//     set (validation, notFound, serialization, initialization, database)
//     and it carries a message, an optional context string and an optional
//     wrapped cause. Errors travel inside Result values, never as panics.
//
//   - Backend Interface: The capability contract the storage engine requires
//     from any backing medium. Each method call is individually atomic
//     (scoped to its own transaction or request); composing calls is not,
//     which is why mutating compositions must pass through the
//     write-serialization queue.
//
//   - Implementation Identifiers and BackendInfo: string constants for the
//     available backends ("sqlite", "memory") and a standardized metadata
//     report. Size statistics are estimates; precise accounting can be
//     expensive on some media.
//
// Related Packages:
//
// The engines/sqlite package provides the reference backend on top of a
// native transactional engine, with WAL journaling and per-operation
// transactions. The engines/memory package provides a process-local object
// store keyed by logical database name, mirroring browser object-store
// semantics.
//
// The location package resolves logical store names to medium-specific
// locations. The testing package provides standardized conformance suites
// (RunBackendTests, RunStoreTests) for backends and engines.
package db
