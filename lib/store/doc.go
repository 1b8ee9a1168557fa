// Package store defines the public contract of the document storage engine:
// validated CRUD operations over schemaless JSON documents with unified,
// Result-based error handling.
//
// The package focuses on:
//   - A unified interface (DocumentStore) for document operations across
//     different storage backends
//   - Pluggable backend architecture through the BackendFactory pattern
//
// Key Components:
//
//   - DocumentStore Interface: The core abstraction defining operations for
//     interacting with a document store. All implementations share this
//     common interface, allowing applications to switch between storage
//     backends without code changes. Every method returns a Result carrying
//     either the operation's value or a typed store error; no failure leaves
//     the engine as a panic.
//
//   - BackendFactory: A function type that abstracts the creation of
//     underlying db.Backend instances, providing dependency injection and
//     flexible configuration of storage backends.
//
// Implementations:
//
//	The package includes one implementation of the DocumentStore interface:
//
//	- Document Store (docstore): The reference engine. It validates input,
//	  derives record metadata (timestamps, content hash) at write time and
//	  serializes all mutations through a per-store FIFO queue (see the
//	  "github.com/localdb/localdb/lib/store/queue" package). It works with
//	  the sqlite and memory backends without modification.
//	  Available in the "github.com/localdb/localdb/lib/store/docstore" package.
package store
