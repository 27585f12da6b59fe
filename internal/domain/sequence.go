package domain

import "sync"

// IDSequence hands out temporary identifiers for addresses that have not been
// persisted yet. Temporary ids are negative and strictly decreasing so they
// can never collide with storage-assigned ids or with each other, including
// for addresses restored from a serialized snapshot.
type IDSequence struct {
	mu   sync.Mutex
	next int64
}

// NewIDSequence starts a sequence at -1.
func NewIDSequence() *IDSequence {
	return &IDSequence{next: -1}
}

// Next returns the next temporary id.
func (s *IDSequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next--
	return id
}

// Observe records a temporary id seen on a restored address. If the id is at
// or below the sequence cursor, the cursor moves past it so future ids stay
// unique.
func (s *IDSequence) Observe(id int64) {
	if id >= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= s.next {
		s.next = id - 1
	}
}
