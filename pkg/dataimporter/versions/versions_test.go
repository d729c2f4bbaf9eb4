package versions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, expiration time.Duration) (*Tracker, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewTracker(client, expiration), server
}

func TestTrackerChanged(t *testing.T) {
	ctx := context.Background()
	tracker, server := newTestTracker(t, 0)

	changed, err := tracker.Changed(ctx, "mta-subway", "abc")
	require.NoError(t, err)
	assert.True(t, changed, "never recorded")

	require.NoError(t, tracker.Record(ctx, "mta-subway", "abc"))
	assert.True(t, server.Exists(keyPrefix+"mta-subway"))

	changed, err = tracker.Changed(ctx, "mta-subway", "abc")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = tracker.Changed(ctx, "mta-subway", "def")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = tracker.Changed(ctx, "mta-bus", "abc")
	require.NoError(t, err)
	assert.True(t, changed, "datasets are tracked separately")
}

func TestTrackerForget(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, 0)

	require.NoError(t, tracker.Record(ctx, "mta-subway", "abc"))
	require.NoError(t, tracker.Forget(ctx, "mta-subway"))

	changed, err := tracker.Changed(ctx, "mta-subway", "abc")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestTrackerExpiration(t *testing.T) {
	ctx := context.Background()
	tracker, server := newTestTracker(t, time.Hour)

	require.NoError(t, tracker.Record(ctx, "mta-subway", "abc"))
	assert.Equal(t, time.Hour, server.TTL(keyPrefix+"mta-subway"))

	server.FastForward(2 * time.Hour)

	changed, err := tracker.Changed(ctx, "mta-subway", "abc")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestTrackerUnavailable(t *testing.T) {
	tracker, server := newTestTracker(t, 0)
	server.Close()

	changed, err := tracker.Changed(context.Background(), "mta-subway", "abc")
	assert.Error(t, err)
	assert.True(t, changed)
}
