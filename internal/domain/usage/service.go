package usage

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/tone-changer/pkg/errors"
	"github.com/yanqian/tone-changer/pkg/util"
)

const defaultTrendingLimit = 10

// Service records rewrite usage and reports tone statistics.
type Service interface {
	Record(ctx context.Context, event Event) error
	Trending(ctx context.Context) ([]ToneCount, error)
}

type service struct {
	cfg    Config
	repo   EventRepository
	store  ToneStore
	logger *slog.Logger
}

// NewService wires up usage tracking.
func NewService(cfg Config, repo EventRepository, store ToneStore, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		store:  store,
		logger: logger.With("component", "usage.service"),
	}
}

// Record appends the event to the audit log. Tones of requests that passed
// validation also count towards the trending list.
func (s *service) Record(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = util.NowUTC()
	}
	event.Tone = strings.TrimSpace(event.Tone)

	if err := s.repo.Save(ctx, event); err != nil {
		return apperrors.Wrap("usage_error", "failed to save rewrite event", err)
	}

	if event.Outcome == OutcomeInvalidInput || event.Tone == "" {
		return nil
	}
	if err := s.store.IncrementTone(ctx, normalizeTone(event.Tone), event.Tone); err != nil {
		s.logger.Warn("tone counter increment failed", "error", err)
	}
	return nil
}

func (s *service) Trending(ctx context.Context) ([]ToneCount, error) {
	limit := s.cfg.TrendingLimit
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	tones, err := s.store.TopTones(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("usage_error", "failed to load trending tones", err)
	}
	if tones == nil {
		tones = []ToneCount{}
	}
	return tones, nil
}
