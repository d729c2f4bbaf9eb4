package dataimporter

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/archive"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/datasets"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/versions"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
)

var feedFiles = map[string]string{
	gtfs.AgencyFile: "agency_id,agency_name,agency_url,agency_timezone\n" +
		"MTA NYCT,MTA New York City Transit,http://www.mta.info,America/New_York\n",
	gtfs.StopsFile: "stop_id,stop_name,stop_lat,stop_lon\n" +
		"101,Van Cortlandt Park-242 St,40.889248,-73.898583\n" +
		"103,238 St,40.884667,-73.90087\n",
	gtfs.StopTimesFile: "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,23:58:00,23:58:30,101,1\n" +
		"T1,24:01:00,24:01:30,103,2\n",
}

func writeFeedDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, contents := range feedFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	}

	return dir
}

func writeFeedZip(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feed.zip")
	file, err := os.Create(path)
	require.NoError(t, err)

	writer := zip.NewWriter(file)
	for name, contents := range feedFiles {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(contents))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())

	return path
}

func TestImportDatasetDirectory(t *testing.T) {
	importer := &Importer{Archive: archive.Options{TempDir: t.TempDir()}}

	result, err := importer.ImportDataset(context.Background(), datasets.DataSet{
		Identifier: "mta",
		Source:     writeFeedDir(t),
	}, false)
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Empty(t, result.Checksum)
	assert.Nil(t, result.Tables)
	assert.Equal(t, "America/New_York", result.Feed.Timezone().String())
	assert.Equal(t, 2, result.Feed.StopTimes.Len())
	assert.Equal(t, 0, result.Feed.Trips.Len())
}

func TestImportDatasetSkipsUnchangedArchive(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	importer := &Importer{
		Versions: versions.NewTracker(client, 0),
		Archive:  archive.Options{TempDir: t.TempDir()},
	}
	dataset := datasets.DataSet{Identifier: "mta", Source: writeFeedZip(t)}
	ctx := context.Background()

	first, err := importer.ImportDataset(ctx, dataset, false)
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.NotEmpty(t, first.Checksum)
	require.NotNil(t, first.Feed)

	second, err := importer.ImportDataset(ctx, dataset, false)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Nil(t, second.Feed)
	assert.Equal(t, first.Checksum, second.Checksum)

	forced, err := importer.ImportDataset(ctx, dataset, true)
	require.NoError(t, err)
	assert.False(t, forced.Skipped)

	entries, err := os.ReadDir(importer.Archive.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "bundles are cleaned up")
}

func TestImportDatasetFailureIsNotRecorded(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	importer := &Importer{
		Versions: versions.NewTracker(client, 0),
		Archive:  archive.Options{TempDir: t.TempDir()},
	}
	dataset := datasets.DataSet{
		Identifier:    "mta",
		Source:        writeFeedZip(t),
		RequiredFiles: []string{gtfs.TripsFile},
	}

	_, err := importer.ImportDataset(context.Background(), dataset, false)
	assert.ErrorIs(t, err, gtfs.ErrFileNotFound)

	changed, err := importer.Versions.Changed(context.Background(), "mta", "anything")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, server.Keys())
}

func TestImportDatasetErrors(t *testing.T) {
	importer := &Importer{Archive: archive.Options{TempDir: t.TempDir()}}
	ctx := context.Background()

	_, err := importer.ImportDataset(ctx, datasets.DataSet{Identifier: "a", Source: writeFeedDir(t), Timezone: "Mars/Base"}, false)
	assert.Error(t, err)

	_, err = importer.ImportDataset(ctx, datasets.DataSet{Identifier: "a", Source: filepath.Join(t.TempDir(), "missing.zip")}, false)
	assert.ErrorIs(t, err, gtfs.ErrFileNotFound)

	_, err = importer.ImportDataset(ctx, datasets.DataSet{Identifier: "a", Source: "ftp://example.com/feed.zip"}, false)
	assert.ErrorIs(t, err, gtfs.ErrInvalidURL)
}
