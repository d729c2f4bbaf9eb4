package gtfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	newYorkAgency = "agency_id,agency_name,agency_url,agency_timezone\n" +
		"MTA NYCT,MTA New York City Transit,http://www.mta.info,America/New_York\n"
	newYorkStopTimes = "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,08:15:00,08:15:30,101N,1\n" +
		"T1,08:17:00,08:17:30,103N,2\n"
)

func file(text string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(text)}
}

func TestLoadAgencyTimezone(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	feed, err := Load(context.Background(), fstest.MapFS{
		AgencyFile:    file(newYorkAgency),
		StopTimesFile: file(newYorkStopTimes),
	}, LoadOptions{})
	require.NoError(t, err)

	agency, ok := feed.FirstAgency()
	require.True(t, ok)
	assert.Equal(t, "MTA New York City Transit", agency.Name)
	assert.Equal(t, "America/New_York", feed.Timezone().String())

	require.Equal(t, 2, feed.StopTimes.Len())
	arrival := feed.StopTimes.At(0).ArrivalTime
	require.NotNil(t, arrival)
	assert.Equal(t, "America/New_York", arrival.Location().String())
	assert.True(t, time.Date(2000, time.January, 1, 8, 15, 0, 0, newYork).Equal(*arrival))
	assert.False(t, time.Date(2000, time.January, 1, 8, 15, 0, 0, time.UTC).Equal(*arrival))

	assert.Equal(t, 0, feed.Routes.Len())
	assert.Equal(t, 0, feed.Stops.Len())
	assert.Equal(t, 0, feed.Trips.Len())
	assert.Equal(t, 0, feed.CalendarDates.Len())
	assert.Equal(t, 0, feed.Calendars.Len())
}

func TestLoadDefaultTimezone(t *testing.T) {
	fsys := fstest.MapFS{StopTimesFile: file(newYorkStopTimes)}

	feed, err := Load(context.Background(), fsys, LoadOptions{})
	require.NoError(t, err)
	_, ok := feed.FirstAgency()
	assert.False(t, ok)
	assert.Equal(t, time.UTC, feed.Timezone())
	assert.Equal(t, time.UTC, feed.StopTimes.At(0).ArrivalTime.Location())

	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	feed, err = Load(context.Background(), fsys, LoadOptions{DefaultTimezone: london})
	require.NoError(t, err)
	assert.Equal(t, london, feed.Timezone())
	assert.Equal(t, london, feed.StopTimes.At(0).ArrivalTime.Location())
}

func TestLoadAbortsOnAnyTableError(t *testing.T) {
	feed, err := Load(context.Background(), fstest.MapFS{
		AgencyFile:    file(newYorkAgency),
		RoutesFile:    file("route_id,route_type\n1,1\n"),
		StopsFile:     file("stop_id,stop_name\n101N,Van Cortlandt Park\n"),
		StopTimesFile: file(newYorkStopTimes + "T1,8.15am,,104N,3\n"),
	}, LoadOptions{})

	assert.Nil(t, feed)
	assert.ErrorIs(t, err, ErrInvalidFieldType)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, StopTimesFile, parseErr.File)
	assert.Equal(t, 4, parseErr.Line)
}

func TestLoadAgencyErrorStopsEverything(t *testing.T) {
	feed, err := Load(context.Background(), fstest.MapFS{
		AgencyFile:    file("agency_name,agency_url,agency_timezone\nMTA,http://www.mta.info,Not/AZone\n"),
		StopTimesFile: file(newYorkStopTimes),
	}, LoadOptions{})

	assert.Nil(t, feed)
	assert.ErrorIs(t, err, ErrInvalidFieldType)
}

func TestLoadRequiredFiles(t *testing.T) {
	fsys := fstest.MapFS{AgencyFile: file(newYorkAgency)}

	_, err := Load(context.Background(), fsys, LoadOptions{RequiredFiles: []string{AgencyFile, StopTimesFile}})
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), StopTimesFile)

	feed, err := Load(context.Background(), fsys, LoadOptions{RequiredFiles: []string{AgencyFile}})
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Agencies.Len())
	assert.True(t, feed.StopTimes.Header().IsZero())
}

func TestLoadPolicies(t *testing.T) {
	fsys := fstest.MapFS{
		AgencyFile: file(newYorkAgency),
		StopsFile:  file("stop_id,stop_name,vehicle_type\n1,One,3\n"),
	}

	_, err := Load(context.Background(), fsys, LoadOptions{FailurePolicy: FailurePolicy(7)})
	assert.ErrorIs(t, err, ErrUnsupportedPolicy)

	_, err = Load(context.Background(), fsys, LoadOptions{HeaderPolicy: HeaderPolicy(9)})
	assert.ErrorIs(t, err, ErrUnsupportedPolicy)

	_, err = Load(context.Background(), fsys, LoadOptions{})
	assert.ErrorIs(t, err, ErrUnrecognizedColumn)

	feed, err := Load(context.Background(), fsys, LoadOptions{HeaderPolicy: HeaderLenient, MaxConcurrency: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Stops.Len())
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	feed, err := Load(ctx, fstest.MapFS{AgencyFile: file(newYorkAgency)}, LoadOptions{})

	assert.Nil(t, feed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AgencyFile), []byte(newYorkAgency), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, StopTimesFile), []byte(newYorkStopTimes), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TripsFile), []byte("route_id,service_id,trip_id\r\n1,WKD,T1\r\n"), 0o644))

	feed, err := LoadDirectory(context.Background(), dir, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, feed.StopTimes.Len())
	assert.Equal(t, 1, feed.Trips.Len())

	_, err = LoadDirectory(context.Background(), filepath.Join(dir, "missing"), LoadOptions{})
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = LoadDirectory(context.Background(), filepath.Join(dir, AgencyFile), LoadOptions{})
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestIsTableFile(t *testing.T) {
	assert.True(t, IsTableFile(StopTimesFile))
	assert.False(t, IsTableFile("shapes.txt"))
}
