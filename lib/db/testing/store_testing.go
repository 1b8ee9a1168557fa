package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/store"
)

// StoreFactory creates a fresh, open document store for one subtest.
type StoreFactory func(t *testing.T) store.DocumentStore

// RunStoreTests runs the conformance suite for a store.DocumentStore
// implementation. The suite covers the engine contract: round trips,
// derived metadata, the error taxonomy, lifecycle rules and write ordering.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("RoundTrip", func(t *testing.T) {
			testStoreRoundTrip(t, factory(t))
		})
		t.Run("Timestamps", func(t *testing.T) {
			testStoreTimestamps(t, factory(t))
		})
		t.Run("ContentHash", func(t *testing.T) {
			testStoreContentHash(t, factory(t))
		})
		t.Run("UpdateRequiresExistence", func(t *testing.T) {
			testStoreUpdateRequiresExistence(t, factory(t))
		})
		t.Run("IDBoundary", func(t *testing.T) {
			testStoreIDBoundary(t, factory(t))
		})
		t.Run("DeleteIdempotent", func(t *testing.T) {
			testStoreDeleteIdempotent(t, factory(t))
		})
		t.Run("NotFound", func(t *testing.T) {
			testStoreNotFound(t, factory(t))
		})
		t.Run("GetAll", func(t *testing.T) {
			testStoreGetAll(t, factory(t))
		})
		t.Run("Clear", func(t *testing.T) {
			testStoreClear(t, factory(t))
		})
		t.Run("SequentialLastWriteWins", func(t *testing.T) {
			testStoreSequentialLastWriteWins(t, factory(t))
		})
		t.Run("ConcurrentIntegrity", func(t *testing.T) {
			testStoreConcurrentIntegrity(t, factory(t))
		})
		t.Run("Closed", func(t *testing.T) {
			testStoreClosed(t, factory(t))
		})
		t.Run("Reset", func(t *testing.T) {
			testStoreReset(t, factory(t))
		})
		t.Run("Info", func(t *testing.T) {
			testStoreInfo(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func mustPut(t *testing.T, s store.DocumentStore, id string, data map[string]interface{}) db.Record {
	t.Helper()
	rec, err := s.Put(context.Background(), id, data).Get()
	if err != nil {
		t.Fatalf("put %q failed: %v", id, err)
	}
	return rec
}

func wantKind(t *testing.T, err error, kind db.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got success", kind)
	}
	if got := db.KindOf(err); got != kind {
		t.Errorf("expected %s error, got %s (%v)", kind, got, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testStoreRoundTrip(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	data := map[string]interface{}{
		"name":   "ada",
		"age":    float64(36),
		"active": true,
		"tags":   []interface{}{"math", "engine"},
		"nested": map[string]interface{}{"city": "london"},
	}
	written := mustPut(t, s, "user:1", data)

	if written.ID != "user:1" {
		t.Errorf("expected id user:1, got %q", written.ID)
	}
	if written.ContentHash == nil {
		t.Errorf("expected contentHash to be computed on write")
	}

	read, err := s.Get(ctx, "user:1").Get()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if read.Data["name"] != "ada" || read.Data["active"] != true {
		t.Errorf("payload did not round trip: %v", read.Data)
	}
	nested, ok := read.Data["nested"].(map[string]interface{})
	if !ok || nested["city"] != "london" {
		t.Errorf("nested payload did not round trip: %v", read.Data["nested"])
	}
	if read.ContentHash == nil || written.ContentHash == nil || *read.ContentHash != *written.ContentHash {
		t.Errorf("contentHash did not round trip")
	}
	if !read.CreatedAt.Equal(written.CreatedAt) {
		t.Errorf("createdAt did not round trip: wrote %v, read %v", written.CreatedAt, read.CreatedAt)
	}
}

func testStoreTimestamps(t *testing.T, s store.DocumentStore) {
	defer s.Close()

	first := mustPut(t, s, "ts", map[string]interface{}{"v": float64(1)})
	if !first.CreatedAt.Equal(first.UpdatedAt) {
		t.Errorf("fresh record: expected createdAt == updatedAt, got %v / %v", first.CreatedAt, first.UpdatedAt)
	}

	second := mustPut(t, s, "ts", map[string]interface{}{"v": float64(2)})
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("overwrite changed createdAt: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("overwrite did not advance updatedAt: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}

	// even many writes within one clock tick must stay strictly ordered
	prev := second.UpdatedAt
	for i := 0; i < 20; i++ {
		rec := mustPut(t, s, "ts", map[string]interface{}{"v": float64(i)})
		if !rec.UpdatedAt.After(prev) {
			t.Fatalf("write %d: updatedAt %v not after %v", i, rec.UpdatedAt, prev)
		}
		prev = rec.UpdatedAt
	}
}

func testStoreContentHash(t *testing.T, s store.DocumentStore) {
	defer s.Close()

	a := mustPut(t, s, "h1", map[string]interface{}{"x": float64(1), "y": float64(2)})
	b := mustPut(t, s, "h2", map[string]interface{}{"y": float64(2), "x": float64(1)})
	if a.ContentHash == nil || b.ContentHash == nil {
		t.Fatalf("expected content hashes to be set")
	}
	// same content, different key order: hash depends only on content
	if *a.ContentHash != *b.ContentHash {
		t.Errorf("equal payloads hashed differently: %s vs %s", *a.ContentHash, *b.ContentHash)
	}

	c := mustPut(t, s, "h3", map[string]interface{}{"x": float64(1), "y": float64(3)})
	if *a.ContentHash == *c.ContentHash {
		t.Errorf("different payloads produced the same hash")
	}
}

func testStoreUpdateRequiresExistence(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	_, err := s.Update(ctx, "absent", map[string]interface{}{"v": float64(1)}).Get()
	wantKind(t, err, db.KindNotFound)

	created := mustPut(t, s, "present", map[string]interface{}{"v": float64(1)})
	updated, err := s.Update(ctx, "present", map[string]interface{}{"v": float64(2)}).Get()
	if err != nil {
		t.Fatalf("update of existing record failed: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("update changed createdAt")
	}
	if updated.Data["v"] != float64(2) {
		t.Errorf("update did not replace payload: %v", updated.Data)
	}
}

func testStoreIDBoundary(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	longest := strings.Repeat("a", db.MaxIDBytes)
	if _, err := s.Put(ctx, longest, map[string]interface{}{}).Get(); err != nil {
		t.Errorf("expected %d-byte id to be accepted, got %v", db.MaxIDBytes, err)
	}

	tooLong := strings.Repeat("a", db.MaxIDBytes+1)
	_, err := s.Put(ctx, tooLong, map[string]interface{}{}).Get()
	wantKind(t, err, db.KindValidation)

	_, err = s.Put(ctx, "", map[string]interface{}{}).Get()
	wantKind(t, err, db.KindValidation)

	// validation must fire before any write happens
	if _, gerr := s.Get(ctx, tooLong).Get(); gerr == nil {
		t.Errorf("expected over-long id to never be readable")
	}
}

func testStoreDeleteIdempotent(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Delete(ctx, "ghost").Get(); err != nil {
		t.Errorf("expected delete of absent id to succeed, got %v", err)
	}

	mustPut(t, s, "doomed", map[string]interface{}{"v": float64(1)})
	if _, err := s.Delete(ctx, "doomed").Get(); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Delete(ctx, "doomed").Get(); err != nil {
		t.Errorf("expected repeated delete to succeed, got %v", err)
	}
	_, err := s.Get(ctx, "doomed").Get()
	wantKind(t, err, db.KindNotFound)
}

func testStoreNotFound(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	_, err := s.Get(ctx, "nope").Get()
	wantKind(t, err, db.KindNotFound)
}

func testStoreGetAll(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	empty, err := s.GetAll(ctx).Get()
	if err != nil {
		t.Fatalf("getAll on empty store failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty result, got %d records", len(empty))
	}

	ids := []string{"a", "b", "c"}
	for i, id := range ids {
		mustPut(t, s, id, map[string]interface{}{"n": float64(i)})
	}

	all, err := s.GetAll(ctx).Get()
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}
	if len(all) != len(ids) {
		t.Errorf("expected %d records, got %d", len(ids), len(all))
	}
	for i, id := range ids {
		rec, ok := all[id]
		if !ok {
			t.Errorf("record %s missing from scan", id)
			continue
		}
		if rec.ID != id || rec.Data["n"] != float64(i) {
			t.Errorf("record %s corrupted in scan: %+v", id, rec)
		}
	}
}

func testStoreClear(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustPut(t, s, fmt.Sprintf("rec-%d", i), map[string]interface{}{"n": float64(i)})
	}
	if _, err := s.Clear(ctx).Get(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	all, err := s.GetAll(ctx).Get()
	if err != nil {
		t.Fatalf("getAll after clear failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty store after clear, got %d records", len(all))
	}
	_, err = s.Get(ctx, "rec-0").Get()
	wantKind(t, err, db.KindNotFound)

	// clearing keeps the store usable
	mustPut(t, s, "fresh", map[string]interface{}{"v": float64(1)})
	if s.IsClosed() {
		t.Errorf("clear must not close the store")
	}
}

func testStoreSequentialLastWriteWins(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	const writes = 50
	for i := 0; i < writes; i++ {
		mustPut(t, s, "contested", map[string]interface{}{"seq": float64(i)})
	}

	rec, err := s.Get(ctx, "contested").Get()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.Data["seq"] != float64(writes-1) {
		t.Errorf("expected last write to win, got seq=%v", rec.Data["seq"])
	}
}

func testStoreConcurrentIntegrity(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	// hammer one id from many goroutines; the winner is nondeterministic but
	// the surviving record must be exactly one of the submitted payloads
	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			res := s.Put(ctx, "contested", map[string]interface{}{
				"writer": float64(n),
				"filler": strings.Repeat("x", 128),
			})
			if _, err := res.Get(); err != nil {
				t.Errorf("writer %d failed: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	rec, err := s.Get(ctx, "contested").Get()
	if err != nil {
		t.Fatalf("get after concurrent writes failed: %v", err)
	}
	winner, ok := rec.Data["writer"].(float64)
	if !ok || winner < 0 || winner >= writers {
		t.Errorf("surviving record is not one of the submitted payloads: %v", rec.Data)
	}
	if filler, _ := rec.Data["filler"].(string); len(filler) != 128 {
		t.Errorf("surviving record payload is torn: filler length %d", len(filler))
	}
}

func testStoreClosed(t *testing.T, s store.DocumentStore) {
	ctx := context.Background()
	mustPut(t, s, "k", map[string]interface{}{"v": float64(1)})

	if _, err := s.Close().Get(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !s.IsClosed() {
		t.Fatalf("expected IsClosed after close")
	}
	// close is idempotent
	if _, err := s.Close().Get(); err != nil {
		t.Errorf("expected repeated close to succeed, got %v", err)
	}

	_, err := s.Get(ctx, "k").Get()
	wantKind(t, err, db.KindDatabase)
	_, err = s.Put(ctx, "k", map[string]interface{}{}).Get()
	wantKind(t, err, db.KindDatabase)
	_, err = s.Update(ctx, "k", map[string]interface{}{}).Get()
	wantKind(t, err, db.KindDatabase)
	_, err = s.Delete(ctx, "k").Get()
	wantKind(t, err, db.KindDatabase)
	_, err = s.Clear(ctx).Get()
	wantKind(t, err, db.KindDatabase)
	_, err = s.GetAll(ctx).Get()
	wantKind(t, err, db.KindDatabase)
	_, err = s.Info(ctx).Get()
	wantKind(t, err, db.KindDatabase)
	_, err = s.Reset(ctx).Get()
	wantKind(t, err, db.KindDatabase)
}

func testStoreReset(t *testing.T, s store.DocumentStore) {
	ctx := context.Background()
	mustPut(t, s, "k", map[string]interface{}{"v": float64(1)})

	if _, err := s.Reset(ctx).Get(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if !s.IsClosed() {
		t.Errorf("expected store to be closed after reset")
	}
	_, err := s.Get(ctx, "k").Get()
	wantKind(t, err, db.KindDatabase)
}

func testStoreInfo(t *testing.T, s store.DocumentStore) {
	defer s.Close()
	ctx := context.Background()

	mustPut(t, s, "a", map[string]interface{}{"v": float64(1)})
	mustPut(t, s, "b", map[string]interface{}{"v": float64(2)})

	info, err := s.Info(ctx).Get()
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if info.Entries != 2 {
		t.Errorf("expected 2 entries, got %d", info.Entries)
	}
	if info.Implementation == "" {
		t.Errorf("expected implementation identifier to be set")
	}
}
