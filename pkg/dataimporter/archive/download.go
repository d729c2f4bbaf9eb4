package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
)

// Some feed hosts sit behind bot protection that rejects requests without a
// user agent.
const userAgent = "curl/7.54.1"

// downloadFile writes the body of source into dst. Transport failures and
// 5xx responses are retried with exponential backoff; any other non-200
// status fails straight away.
func downloadFile(ctx context.Context, source string, dst *os.File, opts Options) error {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	attempt := 0
	operation := func() error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %s", gtfs.ErrInvalidURL, err))
		}
		req.Header.Set("User-Agent", userAgent)
		for name, value := range opts.Headers {
			req.Header.Set(name, value)
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("source", source).Msg("Download attempt failed")
			return fmt.Errorf("%w: %s", gtfs.ErrDownloadFailed, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Str("source", source).Msg("Download attempt failed")
			return fmt.Errorf("%w: %s", gtfs.ErrDownloadFailed, resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("%w: %s", gtfs.ErrDownloadFailed, resp.Status))
		}

		// a retried attempt starts over
		if err := dst.Truncate(0); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %s", gtfs.ErrDownloadFailed, err))
		}
		if _, err := dst.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %s", gtfs.ErrDownloadFailed, err))
		}

		written, err := io.Copy(dst, resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %s", gtfs.ErrDownloadFailed, err)
		}

		log.Debug().Int64("bytes", written).Str("source", source).Msg("Downloaded feed archive")
		return nil
	}

	return backoff.Retry(operation, newBackOff(ctx, opts))
}

func newBackOff(ctx context.Context, opts Options) backoff.BackOff {
	exponential := backoff.NewExponentialBackOff()
	if opts.RetryInterval > 0 {
		exponential.InitialInterval = opts.RetryInterval
		exponential.MaxInterval = 8 * opts.RetryInterval
	}

	retries := opts.MaxRetries
	if retries == 0 {
		retries = defaultMaxRetries
	} else if retries < 0 {
		retries = 0
	}

	return backoff.WithContext(backoff.WithMaxRetries(exponential, uint64(retries)), ctx)
}
