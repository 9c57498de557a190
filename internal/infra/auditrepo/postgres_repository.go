package auditrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/tone-changer/internal/domain/usage"
)

// PostgresRepository implements usage.EventRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save inserts one row into rewrite_events.
func (r *PostgresRepository) Save(ctx context.Context, event usage.Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO rewrite_events (id, request_id, tone, input_chars, status, outcome, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, nullable(event.RequestID), event.Tone, event.InputChars, event.Status, string(event.Outcome), event.LatencyMs, event.CreatedAt)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ usage.EventRepository = (*PostgresRepository)(nil)
