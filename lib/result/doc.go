// Package result provides a two-variant outcome type used across the public
// surface of the store. Every operation returns a Result carrying either a
// success value or an error value; no error crosses the engine boundary as a
// panic.
//
// Within lib/ the contents of a Result are only accessed via Match or Get
// (pattern dispatch / explicit propagation). Unwrap and UnwrapOr exist for
// convenience call sites in cmd/ and in tests.
//
// Usage Example:
//
//	res := store.Get(ctx, "user:42")
//	res.Match(
//		func(rec db.Record) { fmt.Println(rec.Data) },
//		func(err error) { fmt.Println("lookup failed:", err) },
//	)
package result
