package dataimporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
	"github.com/urfave/cli/v2"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GTFS_TEMP_DIR", t.TempDir())

	var output bytes.Buffer
	app := &cli.App{
		Name:     "gtfs-loader",
		Writer:   &output,
		Commands: []*cli.Command{RegisterCLI()},
	}

	err := app.Run(append([]string{"gtfs-loader", "data-importer"}, args...))

	return output.String(), err
}

func TestLoadCommand(t *testing.T) {
	output, err := runCLI(t, "load", "--source", writeFeedZip(t))
	require.NoError(t, err)

	assert.Contains(t, output, "stop_times.txt       2\n")
	assert.Contains(t, output, "trips.txt            0\n")
	assert.Contains(t, output, "America/New_York")
}

func TestLoadCommandRequiredFile(t *testing.T) {
	_, err := runCLI(t, "load", "--source", writeFeedDir(t), "--require", gtfs.TripsFile)
	assert.ErrorIs(t, err, gtfs.ErrFileNotFound)
}

func TestDumpCommandJSON(t *testing.T) {
	output, err := runCLI(t, "dump", "--source", writeFeedDir(t), "--table", gtfs.StopsFile, "--format", "json", "--limit", "1")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "101", rows[0]["stop_id"])
	assert.Equal(t, "40.889248", rows[0]["stop_lat"])
	assert.NotContains(t, rows[0], "stop_code", "detailed columns are left out")

	output, err = runCLI(t, "dump", "--source", writeFeedDir(t), "--table", gtfs.StopsFile, "--format", "json", "--detailed")
	require.NoError(t, err)

	rows = nil
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "stop_code")
}

func TestDumpCommandText(t *testing.T) {
	output, err := runCLI(t, "dump", "--source", writeFeedDir(t), "--table", gtfs.StopTimesFile)
	require.NoError(t, err)

	assert.Contains(t, output, "export.StopTime{")
	assert.Contains(t, output, `"24:01:30"`)
}

func TestDumpCommandErrors(t *testing.T) {
	_, err := runCLI(t, "dump", "--source", writeFeedDir(t), "--table", "shapes.txt")
	assert.Error(t, err)

	_, err = runCLI(t, "dump", "--source", writeFeedDir(t), "--table", gtfs.StopsFile, "--format", "xml")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	_, err := runCLI(t, "export", "--source", writeFeedZip(t), "--output", out)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(out, gtfs.StopTimesFile))
	require.NoError(t, err)
	assert.Contains(t, string(contents), "T1,24:01:00,24:01:30,103,2")
	assert.NoFileExists(t, filepath.Join(out, gtfs.TripsFile))
}

func TestListAndDatasetCommands(t *testing.T) {
	sources := t.TempDir()
	source := "identifier: local\ndatasets:\n  - identifier: mta\n    source: " + writeFeedZip(t) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(sources, "local.yaml"), []byte(source), 0o644))

	output, err := runCLI(t, "list", "--datasources", sources)
	require.NoError(t, err)
	assert.Contains(t, output, "local-mta\t")

	_, err = runCLI(t, "dataset", "--datasources", sources, "--id", "local-mta")
	assert.NoError(t, err)

	_, err = runCLI(t, "dataset", "--datasources", sources, "--id", "local-bart")
	assert.Error(t, err)

	_, err = runCLI(t, "dataset", "--datasources", sources, "--id", "local-mta", "--refresh")
	assert.Error(t, err, "no refresh interval configured")
}
