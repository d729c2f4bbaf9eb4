// Package archive turns a feed location into a directory of table files.
// The location is a local directory, a local .zip file or an http(s) URL
// to a .zip file.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
)

const defaultMaxRetries = 3

type Options struct {
	// TempDir is where downloads and extracted feeds are written. Empty
	// means os.TempDir().
	TempDir string

	HTTPClient *http.Client
	Headers    map[string]string

	// MaxRetries bounds how often a failed download is retried. Zero means
	// the default of 3; use a negative value to disable retries.
	MaxRetries int
	// RetryInterval is the first wait between download attempts. Zero keeps
	// the exponential backoff default.
	RetryInterval time.Duration
}

// Bundle is a feed unpacked onto the local filesystem.
type Bundle struct {
	// Dir holds the table files.
	Dir string
	// Checksum is the hex sha256 of the archive. It is empty when the
	// source was already a directory.
	Checksum string

	cleanup []string
}

// FS exposes the bundle directory for gtfs.Load.
func (b *Bundle) FS() fs.FS {
	return os.DirFS(b.Dir)
}

// Close removes every temporary file and directory the bundle created.
// A source directory given by the caller is never removed.
func (b *Bundle) Close() error {
	var errs []error

	for _, path := range b.cleanup {
		if err := os.RemoveAll(path); err != nil {
			errs = append(errs, err)
		}
	}
	b.cleanup = nil

	return errors.Join(errs...)
}

// Fetch resolves source into a Bundle. Nothing is cached between calls.
func Fetch(ctx context.Context, source string, opts Options) (*Bundle, error) {
	if isValidUrl(source) {
		return fetchRemote(ctx, source, opts)
	}

	return fetchLocal(source, opts)
}

func fetchLocal(source string, opts Options) (*Bundle, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gtfs.ErrFileNotFound, source)
	}

	if info.IsDir() {
		log.Debug().Str("source", source).Msg("Using feed directory")
		return &Bundle{Dir: source}, nil
	}

	if !strings.EqualFold(filepath.Ext(source), ".zip") {
		return nil, fmt.Errorf("%w: %s is not a zip archive", gtfs.ErrExtractionFailed, source)
	}

	checksum, err := fileChecksum(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gtfs.ErrExtractionFailed, err)
	}

	dir, err := extractToTemp(source, opts)
	if err != nil {
		return nil, err
	}

	return &Bundle{Dir: dir, Checksum: checksum, cleanup: []string{dir}}, nil
}

func fetchRemote(ctx context.Context, source string, opts Options) (*Bundle, error) {
	u, _ := url.Parse(source)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", gtfs.ErrInvalidURL, u.Scheme)
	}
	if !strings.EqualFold(filepath.Ext(u.Path), ".zip") {
		return nil, fmt.Errorf("%w: %s does not point at a .zip file", gtfs.ErrInvalidURL, source)
	}

	tmpFile, err := os.CreateTemp(opts.TempDir, "gtfs-loader-download-")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gtfs.ErrDownloadFailed, err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	log.Info().Str("source", source).Msg("Downloading feed archive")

	if err := downloadFile(ctx, source, tmpFile, opts); err != nil {
		return nil, err
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("%w: %s", gtfs.ErrDownloadFailed, err)
	}

	checksum, err := fileChecksum(tmpFile.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gtfs.ErrDownloadFailed, err)
	}

	dir, err := extractToTemp(tmpFile.Name(), opts)
	if err != nil {
		return nil, err
	}

	return &Bundle{Dir: dir, Checksum: checksum, cleanup: []string{dir}}, nil
}

func extractToTemp(path string, opts Options) (string, error) {
	dir, err := os.MkdirTemp(opts.TempDir, "gtfs-loader-feed-")
	if err != nil {
		return "", fmt.Errorf("%w: %s", gtfs.ErrExtractionFailed, err)
	}

	if err := extractZip(path, dir); err != nil {
		os.RemoveAll(dir)
		return "", err
	}

	return dir, nil
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
