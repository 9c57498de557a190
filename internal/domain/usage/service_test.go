package usage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/tone-changer/pkg/errors"
)

func TestRecordFillsIdentityAndCountsTone(t *testing.T) {
	repo := &fakeRepo{}
	store := &fakeStore{}
	svc := NewService(Config{}, repo, store, newTestLogger())

	err := svc.Record(context.Background(), Event{Tone: " Cheerful! ", InputChars: 12, Status: 200, Outcome: OutcomeSuccess})
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	saved := repo.events[0]
	require.NotEqual(t, uuid.Nil, saved.ID)
	require.False(t, saved.CreatedAt.IsZero())
	require.Equal(t, "Cheerful!", saved.Tone)

	require.Equal(t, []string{"cheerful"}, store.canonicals)
	require.Equal(t, []string{"Cheerful!"}, store.displays)
}

func TestRecordSkipsToneCounterForInvalidInput(t *testing.T) {
	repo := &fakeRepo{}
	store := &fakeStore{}
	svc := NewService(Config{}, repo, store, newTestLogger())

	require.NoError(t, svc.Record(context.Background(), Event{Tone: "calm", Status: 400, Outcome: OutcomeInvalidInput}))
	require.NoError(t, svc.Record(context.Background(), Event{Status: 400, Outcome: OutcomeUpstreamError}))
	require.Len(t, repo.events, 2)
	require.Empty(t, store.canonicals)
}

func TestRecordRepositoryFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	svc := NewService(Config{}, repo, &fakeStore{}, newTestLogger())

	err := svc.Record(context.Background(), Event{Tone: "calm", Outcome: OutcomeSuccess})
	require.True(t, apperrors.IsCode(err, "usage_error"))
}

func TestRecordIgnoresStoreFailure(t *testing.T) {
	store := &fakeStore{incrementErr: errors.New("valkey down")}
	svc := NewService(Config{}, &fakeRepo{}, store, newTestLogger())

	require.NoError(t, svc.Record(context.Background(), Event{Tone: "calm", Outcome: OutcomeSuccess}))
}

func TestTrending(t *testing.T) {
	store := &fakeStore{top: []ToneCount{{Tone: "cheerful", Count: 3}}}
	svc := NewService(Config{TrendingLimit: 5}, &fakeRepo{}, store, newTestLogger())

	tones, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.Equal(t, []ToneCount{{Tone: "cheerful", Count: 3}}, tones)
	require.Equal(t, 5, store.lastLimit)

	empty := NewService(Config{}, &fakeRepo{}, &fakeStore{}, newTestLogger())
	tones, err = empty.Trending(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tones)
	require.Empty(t, tones)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRepo struct {
	events []Event
	err    error
}

func (r *fakeRepo) Save(_ context.Context, event Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

type fakeStore struct {
	canonicals   []string
	displays     []string
	top          []ToneCount
	lastLimit    int
	incrementErr error
}

func (s *fakeStore) IncrementTone(_ context.Context, canonical, display string) error {
	if s.incrementErr != nil {
		return s.incrementErr
	}
	s.canonicals = append(s.canonicals, canonical)
	s.displays = append(s.displays, display)
	return nil
}

func (s *fakeStore) TopTones(_ context.Context, limit int) ([]ToneCount, error) {
	s.lastLimit = limit
	return s.top, nil
}
