package cache

import (
	"sync"
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
)

// Snapshot holds one fully derived list together with the time it was captured.
// It is replaced wholesale on Set; there is no partial invalidation.
type Snapshot[T any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	data       []T
	capturedAt time.Time
	populated  bool
	generation uint64
}

// NewSnapshot creates an empty snapshot. A nil clock defaults to time.Now.
func NewSnapshot[T any](ttl time.Duration, now func() time.Time) *Snapshot[T] {
	if now == nil {
		now = time.Now
	}
	return &Snapshot[T]{ttl: ttl, now: now}
}

// Get returns the cached list while it is younger than the TTL.
func (s *Snapshot[T]) Get() ([]T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stateLocked() != domain.CachePopulated {
		return nil, false
	}
	return s.data, true
}

// Set stores data captured at the current clock time.
func (s *Snapshot[T]) Set(data []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setLocked(data)
}

// Generation identifies the current clear epoch. Read it before loading the
// inputs of a rebuild and pass it to SetIfGeneration.
func (s *Snapshot[T]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generation
}

// SetIfGeneration stores data only when no Clear happened since gen was read.
func (s *Snapshot[T]) SetIfGeneration(gen uint64, data []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return false
	}
	s.setLocked(data)
	return true
}

// Clear forces the snapshot back to EMPTY regardless of age and starts a new
// generation.
func (s *Snapshot[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = nil
	s.capturedAt = time.Time{}
	s.populated = false
	s.generation++
}

// State reports EMPTY, POPULATED or STALE.
func (s *Snapshot[T]) State() domain.CacheState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked()
}

// CapturedAt returns the capture time of the current data, zero when empty.
func (s *Snapshot[T]) CapturedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.capturedAt
}

func (s *Snapshot[T]) setLocked(data []T) {
	s.data = data
	s.capturedAt = s.now()
	s.populated = true
}

func (s *Snapshot[T]) stateLocked() domain.CacheState {
	if !s.populated {
		return domain.CacheEmpty
	}
	if s.now().Sub(s.capturedAt) >= s.ttl {
		return domain.CacheStale
	}
	return domain.CachePopulated
}
