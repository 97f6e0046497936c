package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func newSession(id string, at time.Time) weather.Session {
	return weather.Session{ID: id, State: location.NewState(), UpdatedAt: at}
}

func TestMemoryStoreCreateGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, time.Hour)

	require.NoError(t, s.Create(ctx, newSession("a", time.Now())))
	require.ErrorIs(t, s.Create(ctx, newSession("a", time.Now())), ErrExists)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "a", got.ID)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreLastTicketWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0, 0)
	require.NoError(t, s.Create(ctx, newSession("a", time.Now())))

	first, t1, err := s.Begin(ctx, "a")
	require.NoError(t, err)
	second, t2, err := s.Begin(ctx, "a")
	require.NoError(t, err)
	require.Greater(t, t2, t1)

	second.State.Query = "London"
	require.NoError(t, s.Commit(ctx, second, t2))

	first.State.Query = "Paris"
	require.ErrorIs(t, s.Commit(ctx, first, t1), weather.ErrSuperseded)

	got, _ := s.Get(ctx, "a")
	require.Equal(t, "London", got.State.Query)
}

func TestMemoryStoreExpiryAndPrune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, 30*time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Create(ctx, newSession("old", now.Add(-time.Hour))))
	require.NoError(t, s.Create(ctx, newSession("fresh", now.Add(-time.Minute))))

	_, err := s.Get(ctx, "old")
	require.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Begin(ctx, "old")
	require.ErrorIs(t, err, ErrNotFound)

	removed, err := s.Prune(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, s.Len())
}

func TestMemoryStoreEvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore(2, 0)

	require.NoError(t, s.Create(ctx, newSession("a", now.Add(-2*time.Minute))))
	require.NoError(t, s.Create(ctx, newSession("b", now.Add(-time.Minute))))
	require.NoError(t, s.Create(ctx, newSession("c", now)))

	_, err := s.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 2, s.Len())
}

func TestMemoryStoreCommitAfterExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, 30*time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Create(ctx, newSession("a", now.Add(-29*time.Minute))))
	session, ticket, err := s.Begin(ctx, "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	session.State.Query = "Paris"
	require.ErrorIs(t, s.Commit(ctx, session, ticket), ErrNotFound)

	_, err = s.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreTouchExtendsLife(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, 30*time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Create(ctx, newSession("a", now)))

	now = now.Add(20 * time.Minute)
	require.NoError(t, s.Touch(ctx, "a", now))

	now = now.Add(20 * time.Minute)
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, now.Add(-20*time.Minute), got.UpdatedAt)

	now = now.Add(11 * time.Minute)
	require.ErrorIs(t, s.Touch(ctx, "a", now), ErrNotFound)
	require.ErrorIs(t, s.Touch(ctx, "missing", now), ErrNotFound)
}
