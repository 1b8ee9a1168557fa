package sqlite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/db/location"
	dbtesting "github.com/localdb/localdb/lib/db/testing"
)

func newTestBackend(t *testing.T) db.Backend {
	t.Helper()
	loc := location.Location{
		Name: "test",
		Path: filepath.Join(t.TempDir(), "test.db"),
	}
	backend, err := Open(loc)
	if err != nil {
		t.Fatalf("failed to open sqlite backend: %v", err)
	}
	return backend
}

func Test(t *testing.T) {
	dbtesting.RunBackendTests(t, "SQLite", newTestBackend)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(location.Location{Name: "test"})
	if err == nil {
		t.Fatalf("expected open without path to fail")
	}
	if !db.IsKind(err, db.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	loc := location.Location{
		Name: "test",
		Path: filepath.Join(t.TempDir(), "test.db"),
	}
	ctx := context.Background()

	backend, err := Open(loc)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	if err := backend.Put(ctx, "k", []byte("survives")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := Open(loc)
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("get after reopen failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(value, []byte("survives")) {
		t.Errorf("expected value to survive reopen, got %s", value)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	backend := newTestBackend(t)
	if err := backend.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}

func TestDestroyRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	loc := location.Location{Name: "test", Path: filepath.Join(dir, "test.db")}
	ctx := context.Background()

	backend, err := Open(loc)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	if err := backend.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := backend.Destroy(); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if _, err := os.Stat(loc.Path + suffix); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed, stat err: %v", loc.Path+suffix, err)
		}
	}
}

func Benchmark(b *testing.B) {
	// store-level benchmarks live in lib/store/docstore; here only the raw
	// put path matters
	loc := location.Location{Name: "bench", Path: filepath.Join(b.TempDir(), "bench.db")}
	backend, err := Open(loc)
	if err != nil {
		b.Fatalf("failed to open: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	value := bytes.Repeat([]byte("x"), 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := backend.Put(ctx, "bench", value); err != nil {
			b.Fatalf("put failed: %v", err)
		}
	}
}
