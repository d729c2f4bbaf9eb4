package redis_client

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsDefaults(t *testing.T) {
	t.Setenv("GTFS_REDIS_ADDRESS", "")
	t.Setenv("GTFS_REDIS_PASSWORD", "")
	t.Setenv("GTFS_REDIS_DATABASE", "")

	options, err := Options()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", options.Addr)
	assert.Equal(t, "", options.Password)
	assert.Equal(t, 0, options.DB)
}

func TestOptionsFromEnvironment(t *testing.T) {
	t.Setenv("GTFS_REDIS_ADDRESS", "redis:6380")
	t.Setenv("GTFS_REDIS_PASSWORD", "s3cret")
	t.Setenv("GTFS_REDIS_DATABASE", "4")

	options, err := Options()
	require.NoError(t, err)

	assert.Equal(t, "redis:6380", options.Addr)
	assert.Equal(t, "s3cret", options.Password)
	assert.Equal(t, 4, options.DB)

	t.Setenv("GTFS_REDIS_DATABASE", "four")
	_, err = Options()
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	server := miniredis.RunT(t)
	t.Setenv("GTFS_REDIS_ADDRESS", server.Addr())
	t.Setenv("GTFS_REDIS_PASSWORD", "")
	t.Setenv("GTFS_REDIS_DATABASE", "")

	require.NoError(t, Connect())
	t.Cleanup(func() { Client.Close() })

	assert.NoError(t, Client.Set(t.Context(), "k", "v", 0).Err())

	value, err := server.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}
