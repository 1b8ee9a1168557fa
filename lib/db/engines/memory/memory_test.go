package memory

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/db/location"
	dbtesting "github.com/localdb/localdb/lib/db/testing"
)

func newTestBackend(t *testing.T) db.Backend {
	t.Helper()
	name := "test-" + uuid.NewString()
	backend, err := Open(location.Location{Name: name})
	if err != nil {
		t.Fatalf("failed to open memory backend: %v", err)
	}
	t.Cleanup(func() { Destroy(name) })
	return backend
}

func Test(t *testing.T) {
	dbtesting.RunBackendTests(t, "Memory", newTestBackend)
}

func TestOpenRequiresName(t *testing.T) {
	_, err := Open(location.Location{})
	if err == nil {
		t.Fatalf("expected open without name to fail")
	}
	if !db.IsKind(err, db.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

// two opens of the same logical name must share one store, mirroring an
// object-store open
func TestSharedRegistry(t *testing.T) {
	name := "shared-" + uuid.NewString()
	t.Cleanup(func() { Destroy(name) })
	ctx := context.Background()

	first, err := Open(location.Location{Name: name})
	if err != nil {
		t.Fatalf("failed to open first handle: %v", err)
	}
	second, err := Open(location.Location{Name: name})
	if err != nil {
		t.Fatalf("failed to open second handle: %v", err)
	}

	if err := first.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	value, found, err := second.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("expected second handle to see the write: found=%v err=%v", found, err)
	}
	if !bytes.Equal(value, []byte("v")) {
		t.Errorf("expected v, got %s", value)
	}
}

func TestClosedHandleRejectsOperations(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	if err := backend.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := backend.Put(ctx, "k", []byte("v")); !db.IsKind(err, db.KindDatabase) {
		t.Errorf("expected database error from closed handle, got %v", err)
	}
	if _, _, err := backend.Get(ctx, "k"); !db.IsKind(err, db.KindDatabase) {
		t.Errorf("expected database error from closed handle, got %v", err)
	}
}

func TestDestroyRemovesName(t *testing.T) {
	name := "doomed-" + uuid.NewString()
	ctx := context.Background()

	backend, err := Open(location.Location{Name: name})
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	if err := backend.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := backend.Destroy(); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}

	// a fresh open of the same name starts empty
	reopened, err := Open(location.Location{Name: name})
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer reopened.Destroy()
	if _, found, _ := reopened.Get(ctx, "k"); found {
		t.Errorf("expected destroyed database to be gone")
	}
}
