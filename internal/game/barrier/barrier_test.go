package barrier

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarrier_ReleasesAllParties(t *testing.T) {
	const parties = 4
	b := New(parties, nil)

	var released atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Arrive()
			released.Add(1)
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(parties), released.Load())
}

func TestBarrier_OnCompleteRunsOncePerCycleBeforeRelease(t *testing.T) {
	const parties = 3
	const cycles = 5

	var completions atomic.Int32
	b := New(parties, func() {
		completions.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := 1; c <= cycles; c++ {
				b.Arrive()
				// The callback must have run before any party is released.
				assert.GreaterOrEqual(t, completions.Load(), int32(c))
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(cycles), completions.Load())
}

func TestBarrier_ReusableAcrossCycles(t *testing.T) {
	const parties = 2
	b := New(parties, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Arrive()
		}
		close(done)
	}()

	for i := 0; i < 10; i++ {
		b.Arrive()
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("barrier did not cycle; partner still blocked")
	}
}

func TestBarrier_ArriveAndDropReleasesBlockedParties(t *testing.T) {
	b := New(2, nil)

	released := make(chan struct{})
	go func() {
		b.Arrive()
		close(released)
	}()

	// Give the party time to park, then abandon the barrier.
	time.Sleep(10 * time.Millisecond)
	b.ArriveAndDrop()

	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("dropped barrier did not release the parked party")
	}
}

func TestBarrier_DropShrinksExpectedForLaterCycles(t *testing.T) {
	var completions atomic.Int32
	b := New(3, func() { completions.Add(1) })

	// One party leaves for good. The drop counts as an arrival for the
	// current cycle, so a single further arrival completes it.
	b.ArriveAndDrop()
	b.Arrive()
	require.Equal(t, int32(1), completions.Load())

	// Later cycles expect only the two remaining parties.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Arrive()
		}()
	}
	wg.Wait()

	require.Equal(t, int32(2), completions.Load())
}
