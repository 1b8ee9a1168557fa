// Package queue provides the write-serialization queue of the document
// store: a FIFO, single-flight task runner. All mutating operations against
// one store pass through one Queue instance, which guarantees that at most
// one of them is in flight at any instant. This is what makes the engine's
// check-then-act compositions (update's exists-then-write, put's
// read-createdAt-then-write) safe without medium-level transactions spanning
// multiple requests.
//
// Ordering: units execute in submission order. Submissions arriving while
// the queue is draining are appended and picked up before the drain loop
// exits.
//
// Failure handling: a unit's outcome is returned to its own submitter
// through Process, so failures are never silently swallowed. A panic inside
// a unit is caught at the drain loop, logged, and the loop continues with
// the next unit; the panicking submitter receives the zero outcome.
//
// Limitations (by contract, not mitigated): no rate limiting, no retries,
// no timeouts. A unit that never returns stalls the queue indefinitely.
package queue

import (
	"sync"

	"github.com/localdb/localdb/lib/logger"
)

// task is one pending unit plus its completion signal.
type task struct {
	run  func()
	done chan struct{}
}

// Queue is a FIFO single-flight runner. The zero value is not usable;
// construct with New. One Queue belongs to exactly one logical store.
type Queue struct {
	mu       sync.Mutex
	pending  []task
	draining bool
	log      logger.ILogger
}

// New creates an idle queue. A nil log falls back to a silent logger.
func New(log logger.ILogger) *Queue {
	if log == nil {
		log = logger.Noop()
	}
	return &Queue{log: log}
}

// Process submits fn as the next unit of work and blocks until it has run,
// returning fn's own outcome. Units submitted concurrently execute one at a
// time, in submission order.
//
// Must not be called from inside a running unit: the nested unit would wait
// behind its own parent forever.
func Process[T any](q *Queue, fn func() T) T {
	var out T
	<-q.submit(func() { out = fn() })
	return out
}

// submit appends the unit to the pending list and starts the drain loop if
// it is not already running.
func (q *Queue) submit(run func()) <-chan struct{} {
	t := task{run: run, done: make(chan struct{})}

	q.mu.Lock()
	q.pending = append(q.pending, t)
	start := !q.draining
	if start {
		q.draining = true
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
	return t.done
}

// drain executes pending units oldest-first until the list is empty, then
// exits. At most one drain loop runs per queue.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		t := q.pending[0]
		q.pending[0] = task{} // release the slot for gc
		if len(q.pending) == 1 {
			q.pending = q.pending[:0]
		} else {
			q.pending = q.pending[1:]
		}
		q.mu.Unlock()

		q.execute(t)
	}
}

// execute runs one unit, converting a panic into a logged failure so the
// drain loop survives.
func (q *Queue) execute(t task) {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			q.log.Errorf("queued unit panicked: %v", r)
		}
	}()
	t.run()
}

// Len returns the number of pending (not yet started) units. Debugging only.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
