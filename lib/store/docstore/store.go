package docstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/logger"
	"github.com/localdb/localdb/lib/result"
	"github.com/localdb/localdb/lib/store"
	"github.com/localdb/localdb/lib/store/queue"
)

type storeImpl struct {
	backend db.Backend
	queue   *queue.Queue
	log     logger.ILogger
	closed  atomic.Bool
}

// New creates a document store on top of an already-opened backend. The
// store takes exclusive ownership of the backend handle; nothing else may
// use it afterwards.
func New(factory store.BackendFactory, opts ...Option) (store.DocumentStore, error) {
	backend, err := factory()
	if err != nil {
		return nil, err
	}

	s := &storeImpl{
		backend: backend,
		log:     logger.GetLogger("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.queue = queue.New(s.log)
	return s, nil
}

// Option configures a store at construction time.
type Option func(*storeImpl)

// WithLogger replaces the default "store" logger.
func WithLogger(log logger.ILogger) Option {
	return func(s *storeImpl) { s.log = log }
}

// countOp tracks operation and error totals for monitoring.
func countOp(op string, res bool) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`localdb_store_ops_total{op=%q}`, op)).Inc()
	if !res {
		metrics.GetOrCreateCounter(fmt.Sprintf(`localdb_store_errors_total{op=%q}`, op)).Inc()
	}
}

// --------------------------------------------------------------------------
// Write Operations (serialized through the queue)
// --------------------------------------------------------------------------

func (s *storeImpl) Put(ctx context.Context, id string, data map[string]interface{}) result.Result[db.Record] {
	res := queue.Process(s.queue, func() result.Result[db.Record] {
		return s.putInQueue(ctx, id, data)
	})
	countOp("put", res.IsOk())
	return res
}

func (s *storeImpl) Update(ctx context.Context, id string, data map[string]interface{}) result.Result[db.Record] {
	res := queue.Process(s.queue, func() result.Result[db.Record] {
		if s.closed.Load() {
			return result.Err[db.Record](db.ClosedError())
		}
		if verr := db.ValidateID(id); verr != nil {
			return result.Err[db.Record](verr)
		}

		// two-step exists-then-write; safe because this runs as one queue unit
		_, found, err := s.backend.Get(ctx, id)
		if err != nil {
			return result.Err[db.Record](db.DatabaseError("failed to look up record", err).WithContext(id))
		}
		if !found {
			return result.Err[db.Record](db.NotFoundError(id))
		}
		return s.putInQueue(ctx, id, data)
	})
	countOp("update", res.IsOk())
	return res
}

func (s *storeImpl) Delete(ctx context.Context, id string) result.Result[result.Void] {
	res := queue.Process(s.queue, func() result.Result[result.Void] {
		if s.closed.Load() {
			return result.Err[result.Void](db.ClosedError())
		}
		if verr := db.ValidateID(id); verr != nil {
			return result.Err[result.Void](verr)
		}
		// absence is not an error, delete is idempotent
		if err := s.backend.Delete(ctx, id); err != nil {
			return result.Err[result.Void](db.DatabaseError("failed to delete record", err).WithContext(id))
		}
		return result.Ok(result.Void{})
	})
	countOp("delete", res.IsOk())
	return res
}

func (s *storeImpl) Clear(ctx context.Context) result.Result[result.Void] {
	res := queue.Process(s.queue, func() result.Result[result.Void] {
		if s.closed.Load() {
			return result.Err[result.Void](db.ClosedError())
		}
		if err := s.backend.Clear(ctx); err != nil {
			return result.Err[result.Void](db.DatabaseError("failed to clear store", err))
		}
		return result.Ok(result.Void{})
	})
	countOp("clear", res.IsOk())
	return res
}

// putInQueue performs the validate -> read existing -> write sequence.
// Callers must already hold the queue (it must only run inside a unit).
func (s *storeImpl) putInQueue(ctx context.Context, id string, data map[string]interface{}) result.Result[db.Record] {
	if s.closed.Load() {
		return result.Err[db.Record](db.ClosedError())
	}
	if verr := db.ValidateID(id); verr != nil {
		return result.Err[db.Record](verr)
	}
	encodedData, verr := db.EncodeData(data)
	if verr != nil {
		return result.Err[db.Record](verr.WithContext(id))
	}

	now := time.Now().UTC()
	createdAt, updatedAt := now, now

	// preserve createdAt across overwrites and keep updatedAt strictly
	// increasing even under a coarse clock
	raw, found, err := s.backend.Get(ctx, id)
	if err != nil {
		return result.Err[db.Record](db.DatabaseError("failed to read existing record", err).WithContext(id))
	}
	if found {
		if prev, derr := db.DecodeRecord(raw); derr == nil {
			createdAt = prev.CreatedAt
			if !updatedAt.After(prev.UpdatedAt) {
				updatedAt = prev.UpdatedAt.Add(time.Nanosecond)
			}
		} else {
			s.log.Warningf("overwriting malformed stored entry for id %q: %v", id, derr)
		}
	}

	hash := db.HashData(encodedData)
	rec := db.Record{
		ID:          id,
		Data:        data,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		ContentHash: &hash,
	}

	encoded, serr := db.EncodeRecord(rec)
	if serr != nil {
		return result.Err[db.Record](serr)
	}
	if err := s.backend.Put(ctx, id, encoded); err != nil {
		return result.Err[db.Record](db.DatabaseError("failed to write record", err).WithContext(id))
	}
	return result.Ok(rec.Clone())
}

// --------------------------------------------------------------------------
// Read Operations (direct, not queued)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(ctx context.Context, id string) result.Result[db.Record] {
	res := s.get(ctx, id)
	countOp("get", res.IsOk())
	return res
}

func (s *storeImpl) get(ctx context.Context, id string) result.Result[db.Record] {
	if s.IsClosed() {
		return result.Err[db.Record](db.ClosedError())
	}
	if verr := db.ValidateID(id); verr != nil {
		return result.Err[db.Record](verr)
	}

	raw, found, err := s.backend.Get(ctx, id)
	if err != nil {
		return result.Err[db.Record](db.DatabaseError("failed to read record", err).WithContext(id))
	}
	if !found {
		return result.Err[db.Record](db.NotFoundError(id))
	}

	rec, derr := db.DecodeRecord(raw)
	if derr != nil {
		return result.Err[db.Record](derr.WithContext(id))
	}
	return result.Ok(rec)
}

func (s *storeImpl) GetAll(ctx context.Context) result.Result[map[string]db.Record] {
	res := s.getAll(ctx)
	countOp("getAll", res.IsOk())
	return res
}

func (s *storeImpl) getAll(ctx context.Context) result.Result[map[string]db.Record] {
	if s.IsClosed() {
		return result.Err[map[string]db.Record](db.ClosedError())
	}

	entries, err := s.backend.GetAll(ctx)
	if err != nil {
		return result.Err[map[string]db.Record](db.DatabaseError("failed to scan store", err))
	}

	records := make(map[string]db.Record, len(entries))
	for id, raw := range entries {
		rec, derr := db.DecodeRecord(raw)
		if derr != nil {
			// partial-result tolerance: skip the malformed entry, keep the scan
			s.log.Warningf("skipping malformed stored entry for id %q: %v", id, derr)
			continue
		}
		records[id] = rec
	}
	return result.Ok(records)
}

func (s *storeImpl) Info(ctx context.Context) result.Result[db.BackendInfo] {
	if s.IsClosed() {
		return result.Err[db.BackendInfo](db.ClosedError())
	}
	info, err := s.backend.Info(ctx)
	if err != nil {
		return result.Err[db.BackendInfo](db.DatabaseError("failed to read store info", err))
	}
	return result.Ok(info)
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func (s *storeImpl) Reset(ctx context.Context) result.Result[result.Void] {
	res := queue.Process(s.queue, func() result.Result[result.Void] {
		if s.closed.Load() {
			return result.Err[result.Void](db.ClosedError())
		}
		// the handle is gone either way
		s.closed.Store(true)
		if err := s.backend.Destroy(); err != nil {
			return result.Err[result.Void](db.DatabaseError("failed to destroy backing store", err))
		}
		return result.Ok(result.Void{})
	})
	countOp("reset", res.IsOk())
	return res
}

func (s *storeImpl) Close() result.Result[result.Void] {
	res := queue.Process(s.queue, func() result.Result[result.Void] {
		if s.closed.Load() {
			// idempotent
			return result.Ok(result.Void{})
		}
		s.closed.Store(true)
		if err := s.backend.Close(); err != nil {
			return result.Err[result.Void](db.DatabaseError("failed to close backing store", err))
		}
		return result.Ok(result.Void{})
	})
	countOp("close", res.IsOk())
	return res
}

// IsClosed reports the lifecycle state.
func (s *storeImpl) IsClosed() bool {
	return s.closed.Load()
}
