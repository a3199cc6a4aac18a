package parallel

import "sync"

// Claim is a first-writer-wins slot shared by a batch of goroutines.
// The first goroutine whose TryClaim succeeds owns the slot; every later
// attempt is rejected and its value discarded. This mirrors a compare-and-set
// on an atomic reference, with a mutex so the stored value (typically a
// pointer pair) is published safely to readers.
//
// A Claim is not resettable: one slot per fan-out batch.
type Claim[T any] struct {
	mu      sync.Mutex
	claimed bool
	value   T
}

// TryClaim attempts to store v in the slot. It returns true if this call
// won the claim, false if another goroutine already claimed it.
// Thread-safe.
//
// Parameters:
//   - v: The value to publish on a successful claim.
//
// Returns:
//   - bool: true if this caller is the first writer.
func (c *Claim[T]) TryClaim(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claimed {
		return false
	}
	c.claimed = true
	c.value = v
	return true
}

// Claimed reports whether the slot has been claimed.
// Thread-safe; may be used by workers to skip work that can no longer win.
func (c *Claim[T]) Claimed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claimed
}

// Value returns the claimed value and whether a claim occurred.
// Thread-safe; typically called after the batch has been waited on.
func (c *Claim[T]) Value() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.claimed
}
