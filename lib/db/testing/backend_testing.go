package testing

import (
	"bytes"
	"context"
	"testing"

	"github.com/localdb/localdb/lib/db"
)

// BackendFactory creates a fresh backend for one subtest. Implementations
// should use t.TempDir / t.Cleanup for disposal.
type BackendFactory func(t *testing.T) db.Backend

// RunBackendTests runs the conformance suite for a db.Backend implementation.
func RunBackendTests(t *testing.T, name string, factory BackendFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("PutGet", func(t *testing.T) {
			testBackendPutGet(t, factory(t))
		})
		t.Run("Overwrite", func(t *testing.T) {
			testBackendOverwrite(t, factory(t))
		})
		t.Run("DeleteAbsent", func(t *testing.T) {
			testBackendDeleteAbsent(t, factory(t))
		})
		t.Run("GetAll", func(t *testing.T) {
			testBackendGetAll(t, factory(t))
		})
		t.Run("Clear", func(t *testing.T) {
			testBackendClear(t, factory(t))
		})
		t.Run("ValueIsolation", func(t *testing.T) {
			testBackendValueIsolation(t, factory(t))
		})
		t.Run("Info", func(t *testing.T) {
			testBackendInfo(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testBackendPutGet(t *testing.T, backend db.Backend) {
	defer backend.Close()
	ctx := context.Background()

	if err := backend.Put(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	value, found, err := backend.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found {
		t.Errorf("expected k1 to exist after put")
	}
	if !bytes.Equal(value, []byte("v1")) {
		t.Errorf("expected v1, got %s", value)
	}

	_, found, err = backend.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found {
		t.Errorf("expected missing key to report found=false")
	}
}

func testBackendOverwrite(t *testing.T, backend db.Backend) {
	defer backend.Close()
	ctx := context.Background()

	if err := backend.Put(ctx, "k", []byte("old")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := backend.Put(ctx, "k", []byte("new")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	value, found, err := backend.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("get after overwrite failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(value, []byte("new")) {
		t.Errorf("expected new, got %s", value)
	}
}

func testBackendDeleteAbsent(t *testing.T, backend db.Backend) {
	defer backend.Close()
	ctx := context.Background()

	if err := backend.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("expected delete of absent key to succeed, got %v", err)
	}

	if err := backend.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := backend.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found, _ := backend.Get(ctx, "k"); found {
		t.Errorf("expected k to be gone after delete")
	}
}

func testBackendGetAll(t *testing.T, backend db.Backend) {
	defer backend.Close()
	ctx := context.Background()

	want := map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
		"c": []byte("3"),
	}
	for id, value := range want {
		if err := backend.Put(ctx, id, value); err != nil {
			t.Fatalf("put %s failed: %v", id, err)
		}
	}

	entries, err := backend.GetAll(ctx)
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}
	if len(entries) != len(want) {
		t.Errorf("expected %d entries, got %d", len(want), len(entries))
	}
	for id, value := range want {
		if !bytes.Equal(entries[id], value) {
			t.Errorf("entry %s: expected %s, got %s", id, value, entries[id])
		}
	}
}

func testBackendClear(t *testing.T, backend db.Backend) {
	defer backend.Close()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := backend.Put(ctx, id, []byte(id)); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	if err := backend.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	entries, err := backend.GetAll(ctx)
	if err != nil {
		t.Fatalf("getAll after clear failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty store after clear, got %d entries", len(entries))
	}

	// the collection structure must survive a clear
	if err := backend.Put(ctx, "after", []byte("clear")); err != nil {
		t.Errorf("expected put after clear to succeed, got %v", err)
	}
}

func testBackendValueIsolation(t *testing.T, backend db.Backend) {
	defer backend.Close()
	ctx := context.Background()

	original := []byte("immutable")
	if err := backend.Put(ctx, "k", original); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	original[0] = 'X' // caller mutates its own slice after the put

	value, _, err := backend.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !bytes.Equal(value, []byte("immutable")) {
		t.Errorf("stored bytes were corrupted by caller mutation: %s", value)
	}

	value[0] = 'Y' // mutating the returned slice must not corrupt the store
	again, _, err := backend.Get(ctx, "k")
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if !bytes.Equal(again, []byte("immutable")) {
		t.Errorf("stored bytes were corrupted by reader mutation: %s", again)
	}
}

func testBackendInfo(t *testing.T, backend db.Backend) {
	defer backend.Close()
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := backend.Put(ctx, id, []byte("v")); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	info, err := backend.Info(ctx)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if info.Entries != 2 {
		t.Errorf("expected 2 entries, got %d", info.Entries)
	}
	if info.Implementation == "" {
		t.Errorf("expected implementation identifier to be set")
	}
	if info.Location == "" {
		t.Errorf("expected location to be set")
	}
}
