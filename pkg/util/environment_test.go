package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvironmentVariables(t *testing.T) {
	t.Setenv("GTFS_TEST_VALUE", "a=b")
	t.Setenv("GTFS_TEST_EMPTY", "")

	env := GetEnvironmentVariables()

	assert.Equal(t, "a=b", env["GTFS_TEST_VALUE"])
	value, ok := env["GTFS_TEST_EMPTY"]
	assert.True(t, ok)
	assert.Empty(t, value)
}

func TestGetEnvironmentFlag(t *testing.T) {
	t.Setenv("GTFS_TEST_FLAG", "YES")
	assert.True(t, GetEnvironmentFlag("GTFS_TEST_FLAG"))

	t.Setenv("GTFS_TEST_FLAG", "yes")
	assert.True(t, GetEnvironmentFlag("GTFS_TEST_FLAG"))

	t.Setenv("GTFS_TEST_FLAG", "1")
	assert.False(t, GetEnvironmentFlag("GTFS_TEST_FLAG"))
}
