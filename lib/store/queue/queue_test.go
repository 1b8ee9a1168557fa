package queue

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/localdb/localdb/lib/logger"
)

func TestProcessReturnsUnitOutcome(t *testing.T) {
	q := New(logger.Noop())

	got := Process(q, func() int { return 42 })
	assert.Equal(t, 42, got)

	err := Process(q, func() error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")
}

func TestUnitsRunInSubmissionOrder(t *testing.T) {
	q := New(logger.Noop())

	var (
		mu    sync.Mutex
		order []int
	)

	// the first unit blocks the drain loop until all others are submitted,
	// so the remaining order is decided purely by the pending list
	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		Process(q, func() struct{} {
			close(started)
			<-release
			return struct{}{}
		})
	}()

	// wait until the blocker occupies the drain loop
	<-started

	for i := 1; i <= 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Process(q, func() struct{} {
				mu.Lock()
				order = append(order, n)
				mu.Unlock()
				return struct{}{}
			})
		}(i)
		// each submission must be in the pending list before the next one
		for q.Len() < i {
			time.Sleep(time.Millisecond)
		}
	}

	close(release)
	wg.Wait()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestSingleFlight(t *testing.T) {
	q := New(logger.Noop())

	var (
		inFlight atomic.Int32
		maxSeen  atomic.Int32
		wg       sync.WaitGroup
	)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Process(q, func() struct{} {
				cur := inFlight.Add(1)
				if cur > maxSeen.Load() {
					maxSeen.Store(cur)
				}
				time.Sleep(time.Millisecond)
				inFlight.Add(-1)
				return struct{}{}
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load(), "expected at most one unit in flight")
}

func TestPanicIsCaughtAndDrainContinues(t *testing.T) {
	q := New(logger.Noop())

	assert.NotPanics(t, func() {
		Process(q, func() struct{} { panic("unit exploded") })
	})

	// the queue must still run subsequent units
	got := Process(q, func() string { return "alive" })
	assert.Equal(t, "alive", got)
}

func TestDrainLoopExitsWhenIdle(t *testing.T) {
	q := New(logger.Noop())

	Process(q, func() struct{} { return struct{}{} })
	assert.Equal(t, 0, q.Len())

	// a later submission must start a fresh drain loop
	got := Process(q, func() int { return 7 })
	assert.Equal(t, 7, got)
}
