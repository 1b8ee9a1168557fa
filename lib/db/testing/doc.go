// Package testing provides standardized conformance suites for backend and
// store implementations.
//
//   - RunBackendTests validates a db.Backend implementation against the
//     capability contract (per-operation atomicity is not testable here;
//     the suite covers the observable behavior).
//   - RunStoreTests validates a store.DocumentStore implementation against
//     the engine contract: round trips, derived metadata, the error
//     taxonomy, lifecycle rules and write ordering.
//   - RunStoreBenchmarks provides comparable performance numbers across
//     backends.
//
// Both suites take a factory so every subtest starts from a fresh instance.
package testing
