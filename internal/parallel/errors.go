// Package parallel provides small synchronization primitives shared by the
// sweep worker pool.
package parallel

import "sync"

// FaultLog aggregates failures across concurrent sweep batches. The first
// recorded error is kept as the representative cause; later errors only bump
// the count. The zero value is ready to use.
type FaultLog struct {
	mu    sync.Mutex
	first error
	count int
}

// Record notes a batch failure. Nil errors are ignored. Thread-safe.
//
// Parameters:
//   - err: The failure to record (nil is ignored).
func (l *FaultLog) Record(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.first == nil {
		l.first = err
	}
	l.count++
}

// Err returns the first recorded failure, or nil when every batch succeeded.
func (l *FaultLog) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.first
}

// Count returns the number of failures recorded so far.
func (l *FaultLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
