package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
)

var sampleFeed = fstest.MapFS{
	gtfs.AgencyFile: {Data: []byte("agency_id,agency_name,agency_url,agency_timezone,agency_lang\n" +
		"MTA NYCT,MTA New York City Transit,http://www.mta.info,America/New_York,en\n")},
	gtfs.RoutesFile: {Data: []byte("route_id,agency_id,route_short_name,route_long_name,route_type,route_color\n" +
		"1,MTA NYCT,1,\"Broadway - 7 Avenue Local, Manhattan\",1,EE352E\n")},
	gtfs.StopsFile: {Data: []byte("stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station\n" +
		"101,Van Cortlandt Park-242 St,40.889248,-73.898583,1,\n" +
		"101N,Van Cortlandt Park-242 St,40.889248,-73.898583,0,101\n")},
	gtfs.TripsFile: {Data: []byte("route_id,service_id,trip_id,trip_headsign,direction_id\n" +
		"1,WKD,T1,South Ferry,1\n")},
	gtfs.StopTimesFile: {Data: []byte("trip_id,arrival_time,departure_time,stop_id,stop_sequence,shape_dist_traveled\n" +
		"T1,23:58:00,23:58:30,101N,1,0\n" +
		"T1,24:01:00,24:01:30,103N,2,1.25\n")},
	gtfs.CalendarDatesFile: {Data: []byte("service_id,date,exception_type\nWKD,20240704,2\n")},
}

func loadSample(t *testing.T) *gtfs.Feed {
	t.Helper()

	feed, err := gtfs.Load(context.Background(), sampleFeed, gtfs.LoadOptions{})
	require.NoError(t, err)

	return feed
}

func TestTableRows(t *testing.T) {
	feed := loadSample(t)

	rows, err := TableRows(feed, gtfs.StopTimesFile)
	require.NoError(t, err)

	stopTimes := rows.([]StopTime)
	require.Len(t, stopTimes, 2)
	assert.Equal(t, "23:58:00", stopTimes[0].ArrivalTime)
	assert.Equal(t, "24:01:30", stopTimes[1].DepartureTime)
	assert.Equal(t, "1.25", stopTimes[1].ShapeDistTraveled)
	assert.Equal(t, "", stopTimes[0].PickupType)

	rows, err = TableRows(feed, gtfs.RoutesFile)
	require.NoError(t, err)
	assert.Equal(t, "EE352E", rows.([]Route)[0].Colour)

	_, err = TableRows(feed, "shapes.txt")
	assert.Error(t, err)
}

func TestWriteDirectoryRoundTrip(t *testing.T) {
	feed := loadSample(t)
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, WriteDirectory(feed, dir))

	assert.FileExists(t, filepath.Join(dir, gtfs.StopTimesFile))
	assert.NoFileExists(t, filepath.Join(dir, gtfs.CalendarFile), "absent tables are not written")

	reloaded, err := gtfs.LoadDirectory(context.Background(), dir, gtfs.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, feed.Timezone().String(), reloaded.Timezone().String())

	for _, file := range gtfs.TableFiles {
		before, err := TableRows(feed, file)
		require.NoError(t, err)
		after, err := TableRows(reloaded, file)
		require.NoError(t, err)

		assert.Equal(t, before, after, file)
	}
}

func TestWriteDirectoryHeaderOnlyTable(t *testing.T) {
	feed, err := gtfs.Load(context.Background(), fstest.MapFS{
		gtfs.AgencyFile: {Data: []byte("agency_name,agency_url,agency_timezone\nMTA,http://www.mta.info,America/New_York\n")},
		gtfs.TripsFile:  {Data: []byte("route_id,service_id,trip_id\n")},
	}, gtfs.LoadOptions{})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteDirectory(feed, dir))

	contents, err := os.ReadFile(filepath.Join(dir, gtfs.TripsFile))
	require.NoError(t, err)
	assert.Contains(t, string(contents), "route_id,service_id,trip_id")
}
