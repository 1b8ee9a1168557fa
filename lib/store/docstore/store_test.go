package docstore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/db/engines/memory"
	"github.com/localdb/localdb/lib/db/engines/sqlite"
	"github.com/localdb/localdb/lib/db/location"
	dbtesting "github.com/localdb/localdb/lib/db/testing"
	"github.com/localdb/localdb/lib/logger"
	"github.com/localdb/localdb/lib/store"
)

func sqliteFactory(t *testing.T) store.DocumentStore {
	t.Helper()
	loc := location.Location{
		Name: "test",
		Path: filepath.Join(t.TempDir(), "test.db"),
	}
	s, err := New(func() (db.Backend, error) { return sqlite.Open(loc) })
	require.NoError(t, err)
	return s
}

func memoryFactory(t *testing.T) store.DocumentStore {
	t.Helper()
	name := "test-" + uuid.NewString()
	t.Cleanup(func() { memory.Destroy(name) })
	s, err := New(func() (db.Backend, error) {
		return memory.Open(location.Location{Name: name})
	})
	require.NoError(t, err)
	return s
}

func Test(t *testing.T) {
	dbtesting.RunStoreTests(t, "SQLite", sqliteFactory)
	dbtesting.RunStoreTests(t, "Memory", memoryFactory)
}

func Benchmark(b *testing.B) {
	dbtesting.RunStoreBenchmarks(b, "SQLite", func(b *testing.B) store.DocumentStore {
		loc := location.Location{Name: "bench", Path: filepath.Join(b.TempDir(), "bench.db")}
		s, err := New(func() (db.Backend, error) { return sqlite.Open(loc) })
		if err != nil {
			b.Fatalf("failed to open store: %v", err)
		}
		return s
	})
	dbtesting.RunStoreBenchmarks(b, "Memory", func(b *testing.B) store.DocumentStore {
		name := "bench-" + uuid.NewString()
		b.Cleanup(func() { memory.Destroy(name) })
		s, err := New(func() (db.Backend, error) {
			return memory.Open(location.Location{Name: name})
		})
		if err != nil {
			b.Fatalf("failed to open store: %v", err)
		}
		return s
	})
}

// --------------------------------------------------------------------------
// Engine-specific tests
// --------------------------------------------------------------------------

func TestNewPropagatesFactoryError(t *testing.T) {
	_, err := New(func() (db.Backend, error) {
		return nil, db.InitializationError("no medium", nil)
	})
	require.Error(t, err)
	assert.True(t, db.IsKind(err, db.KindInitialization))
}

// a malformed stored entry must not fail a scan; it is logged and skipped
func TestGetAllSkipsMalformedEntries(t *testing.T) {
	name := "malformed-" + uuid.NewString()
	t.Cleanup(func() { memory.Destroy(name) })
	ctx := context.Background()

	// the memory registry shares state between handles of the same name, so a
	// second raw handle can plant a corrupted entry next to valid records
	raw, err := memory.Open(location.Location{Name: name})
	require.NoError(t, err)

	s, err := New(func() (db.Backend, error) {
		return memory.Open(location.Location{Name: name})
	}, WithLogger(logger.Noop()))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Put(ctx, "good-1", map[string]interface{}{"v": float64(1)}).Get()
	require.NoError(t, err)
	_, err = s.Put(ctx, "good-2", map[string]interface{}{"v": float64(2)}).Get()
	require.NoError(t, err)
	require.NoError(t, raw.Put(ctx, "bad", []byte("{not json")))

	all, err := s.GetAll(ctx).Get()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "good-1")
	assert.Contains(t, all, "good-2")
	assert.NotContains(t, all, "bad")

	// a direct read of the corrupted entry surfaces the serialization error
	_, err = s.Get(ctx, "bad").Get()
	require.Error(t, err)
	assert.True(t, db.IsKind(err, db.KindSerialization))
}

// the strict update runs its existence check and write inside one queue unit,
// so it must not deadlock against itself
func TestUpdateDoesNotDeadlock(t *testing.T) {
	s := memoryFactory(t)
	defer s.Close()
	ctx := context.Background()

	_, err := s.Put(ctx, "k", map[string]interface{}{"v": float64(1)}).Get()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if _, uerr := s.Update(ctx, "k", map[string]interface{}{"v": float64(i)}).Get(); uerr != nil {
				t.Errorf("update %d failed: %v", i, uerr)
				return
			}
		}
	}()
	<-done

	rec, err := s.Get(ctx, "k").Get()
	require.NoError(t, err)
	assert.Equal(t, float64(99), rec.Data["v"])
}

func TestPayloadSizeLimit(t *testing.T) {
	s := memoryFactory(t)
	defer s.Close()
	ctx := context.Background()

	huge := map[string]interface{}{
		"blob": strings.Repeat("x", db.MaxDataBytes),
	}
	_, err := s.Put(ctx, "huge", huge).Get()
	require.Error(t, err)
	assert.True(t, db.IsKind(err, db.KindValidation))

	// the failed write must not leave a record behind
	_, err = s.Get(ctx, "huge").Get()
	assert.True(t, db.IsKind(err, db.KindNotFound))
}
