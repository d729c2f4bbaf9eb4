// Package versions remembers the checksum of the last archive imported for
// each dataset, so unchanged archives can be skipped.
package versions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "gtfs-loader:dataset-checksum:"

type Tracker struct {
	Cache *cache.Cache[string]
}

// NewTracker keeps checksums in Redis. A zero expiration keeps them forever.
func NewTracker(client *redis.Client, expiration time.Duration) *Tracker {
	var options []store.Option
	if expiration > 0 {
		options = append(options, store.WithExpiration(expiration))
	}

	redisStore := redisstore.NewRedis(client, options...)

	return &Tracker{
		Cache: cache.New[string](redisStore),
	}
}

// Changed reports whether checksum differs from the one last recorded for
// the dataset. A dataset that was never recorded has changed.
func (t *Tracker) Changed(ctx context.Context, datasetID string, checksum string) (bool, error) {
	previous, err := t.Cache.Get(ctx, key(datasetID))
	if errors.Is(err, store.NotFound{}) || errors.Is(err, redis.Nil) {
		return true, nil
	} else if err != nil {
		return true, fmt.Errorf("reading dataset version: %w", err)
	}

	log.Debug().Str("dataset", datasetID).Str("previous", previous).Str("current", checksum).Msg("Compared dataset version")

	return previous != checksum, nil
}

// Record stores checksum as the latest imported version of the dataset.
func (t *Tracker) Record(ctx context.Context, datasetID string, checksum string) error {
	if err := t.Cache.Set(ctx, key(datasetID), checksum); err != nil {
		return fmt.Errorf("recording dataset version: %w", err)
	}

	return nil
}

// Forget drops the recorded version so the next import always runs.
func (t *Tracker) Forget(ctx context.Context, datasetID string) error {
	return t.Cache.Delete(ctx, key(datasetID))
}

func key(datasetID string) string {
	return keyPrefix + datasetID
}
