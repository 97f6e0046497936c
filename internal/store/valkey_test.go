package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// TestValkeyStoreRoundTrip runs against a live server when VALKEY_TEST_ADDR is set.
func TestValkeyStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("VALKEY_TEST_ADDR")
	if addr == "" {
		t.Skip("VALKEY_TEST_ADDR not set")
	}

	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	s := NewValkeyStore(client, "dashboard-test", time.Minute)

	id := uuid.NewString()
	require.NoError(t, s.Create(ctx, newSession(id, time.Now().UTC())))
	require.ErrorIs(t, s.Create(ctx, newSession(id, time.Now().UTC())), ErrExists)

	first, t1, err := s.Begin(ctx, id)
	require.NoError(t, err)
	second, t2, err := s.Begin(ctx, id)
	require.NoError(t, err)

	second.State.Query = "Tokyo"
	require.NoError(t, s.Commit(ctx, second, t2))
	require.ErrorIs(t, s.Commit(ctx, first, t1), weather.ErrSuperseded)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Tokyo", got.State.Query)

	require.NoError(t, s.Touch(ctx, id, time.Now().UTC()))
	require.ErrorIs(t, s.Touch(ctx, uuid.NewString(), time.Now().UTC()), ErrNotFound)

	_, err = s.Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}
