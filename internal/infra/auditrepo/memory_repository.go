package auditrepo

import (
	"context"
	"sync"

	"github.com/yanqian/tone-changer/internal/domain/usage"
)

const defaultMemoryCapacity = 1000

// MemoryRepository is an in-memory EventRepository used for tests/dev. It keeps
// only the most recent events, overwriting the oldest once full.
type MemoryRepository struct {
	mu       sync.RWMutex
	events   []usage.Event
	next     int
	capacity int
}

// NewMemoryRepository constructs a repo holding at most capacity events.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRepository{capacity: capacity}
}

// Save implements usage.EventRepository.
func (r *MemoryRepository) Save(_ context.Context, event usage.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) < r.capacity {
		r.events = append(r.events, event)
		return nil
	}
	r.events[r.next] = event
	r.next = (r.next + 1) % r.capacity
	return nil
}

// Events returns a copy of the retained events, oldest first.
func (r *MemoryRepository) Events() []usage.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]usage.Event, 0, len(r.events))
	out = append(out, r.events[r.next:]...)
	return append(out, r.events[:r.next]...)
}

var _ usage.EventRepository = (*MemoryRepository)(nil)
