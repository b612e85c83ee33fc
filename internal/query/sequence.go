package query

import "sync"

// Latest holds the most recent result of a stream of overlapping requests.
// Each request takes a sequence number from Begin; Commit only applies the
// result of the newest request issued, so a response overtaken by a later
// request is dropped even when the later one has not resolved yet.
type Latest[T any] struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	value   T
}

// Begin reserves the next sequence number
func (l *Latest[T]) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

// Commit applies value for seq and reports whether it was applied. It
// refuses seq once a later request has been issued.
func (l *Latest[T]) Commit(seq uint64, value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.issued || seq <= l.applied {
		return false
	}
	l.applied = seq
	l.value = value
	return true
}

// Superseded reports whether a request later than seq has been issued
func (l *Latest[T]) Superseded(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return seq < l.issued
}

// Value returns the last applied value and its sequence number
func (l *Latest[T]) Value() (T, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.applied
}
