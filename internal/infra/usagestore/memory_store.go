package usagestore

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/tone-changer/internal/domain/usage"
)

const defaultMaxTones = 1000

// MemoryStore is an in-memory implementation of the tone store for tests/dev.
// At most maxTones distinct tones are tracked; a new tone evicts the least
// requested one.
type MemoryStore struct {
	mu       sync.RWMutex
	counts   map[string]int64
	displays map[string]string
	maxTones int
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore(maxTones int) *MemoryStore {
	if maxTones <= 0 {
		maxTones = defaultMaxTones
	}
	return &MemoryStore{
		counts:   make(map[string]int64),
		displays: make(map[string]string),
		maxTones: maxTones,
	}
}

// IncrementTone bumps the counter for a canonical tone and records the first display form seen.
func (s *MemoryStore) IncrementTone(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.counts[canonical]; !exists {
		if len(s.counts) >= s.maxTones {
			s.evictLocked()
		}
		s.displays[canonical] = display
	}
	s.counts[canonical]++
	return nil
}

// evictLocked drops the tone that would be ranked last by TopTones.
func (s *MemoryStore) evictLocked() {
	var (
		victim string
		lowest int64 = -1
	)
	for canonical, count := range s.counts {
		if lowest < 0 || count < lowest || (count == lowest && canonical > victim) {
			victim, lowest = canonical, count
		}
	}
	delete(s.counts, victim)
	delete(s.displays, victim)
}

// TopTones returns the most requested tones, ties broken alphabetically.
func (s *MemoryStore) TopTones(_ context.Context, limit int) ([]usage.ToneCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.counts)
	}
	items := make([]usage.ToneCount, 0, len(s.counts))
	for canonical, count := range s.counts {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, usage.ToneCount{Tone: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Tone < items[j].Tone
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ usage.ToneStore = (*MemoryStore)(nil)
