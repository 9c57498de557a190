package usage

import "context"

// EventRepository persists the rewrite audit log.
type EventRepository interface {
	Save(ctx context.Context, event Event) error
}

// ToneStore keeps per-tone request counters.
type ToneStore interface {
	IncrementTone(ctx context.Context, canonical, display string) error
	TopTones(ctx context.Context, limit int) ([]ToneCount, error)
}
