// Package barrier provides the reusable multi-party phase rendezvous used by
// both engine backends. A barrier releases nobody until the last expected
// party has arrived; the optional completion callback runs exactly once per
// cycle, on the last arriver, while every other party is still held.
package barrier

import "sync"

// Barrier is the pre-emptive (goroutine) implementation. It is reusable:
// after a cycle completes the arrival counter resets and the barrier is
// immediately ready for the next phase.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	expected   int
	arrived    int
	generation uint64
	onComplete func()
}

// New creates a barrier for expected parties. onComplete may be nil.
func New(expected int, onComplete func()) *Barrier {
	b := &Barrier{expected: expected, onComplete: onComplete}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Arrive blocks the caller until expected parties have arrived. The last
// arriver runs the completion callback, resets the cycle and releases
// everyone.
func (b *Barrier) Arrive() {
	b.mu.Lock()
	gen := b.generation
	b.arrived++
	if b.arrived >= b.expected {
		b.completeLocked()
		b.mu.Unlock()
		return
	}
	for gen == b.generation {
		b.cond.Wait()
	}
	b.mu.Unlock()
}

// ArriveAndDrop arrives for the current cycle and permanently removes the
// caller from the expected set, without blocking. The moderator uses it to
// abandon the barriers on shutdown so agents still parked can exit.
func (b *Barrier) ArriveAndDrop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.arrived++
	if b.expected > 0 {
		b.expected--
	}
	if b.expected == 0 || b.arrived >= b.expected {
		b.completeLocked()
	}
}

// completeLocked runs the callback while all waiters are still blocked, then
// opens the next generation. Caller holds b.mu.
func (b *Barrier) completeLocked() {
	if b.onComplete != nil {
		b.onComplete()
	}
	b.arrived = 0
	b.generation++
	b.cond.Broadcast()
}
