// Package export flattens a decoded feed back into GTFS rows, either as CSV
// files or as values for other encoders.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
)

// TableRows returns the rows of the named table file, for example
// "stops.txt" gives []Stop.
func TableRows(feed *gtfs.Feed, file string) (any, error) {
	switch file {
	case gtfs.AgencyFile:
		return Rows(feed.Agencies, AgencyRow), nil
	case gtfs.RoutesFile:
		return Rows(feed.Routes, RouteRow), nil
	case gtfs.StopsFile:
		return Rows(feed.Stops, StopRow), nil
	case gtfs.TripsFile:
		return Rows(feed.Trips, TripRow), nil
	case gtfs.StopTimesFile:
		return Rows(feed.StopTimes, StopTimeRow), nil
	case gtfs.CalendarDatesFile:
		return Rows(feed.CalendarDates, CalendarDateRow), nil
	case gtfs.CalendarFile:
		return Rows(feed.Calendars, CalendarRow), nil
	default:
		return nil, fmt.Errorf("unknown table %q", file)
	}
}

// WriteDirectory writes every table that was present in the source feed as
// a CSV file in dir. Tables whose file was absent are skipped.
func WriteDirectory(feed *gtfs.Feed, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	present := map[string]bool{
		gtfs.AgencyFile:        !feed.Agencies.Header().IsZero(),
		gtfs.RoutesFile:        !feed.Routes.Header().IsZero(),
		gtfs.StopsFile:         !feed.Stops.Header().IsZero(),
		gtfs.TripsFile:         !feed.Trips.Header().IsZero(),
		gtfs.StopTimesFile:     !feed.StopTimes.Header().IsZero(),
		gtfs.CalendarDatesFile: !feed.CalendarDates.Header().IsZero(),
		gtfs.CalendarFile:      !feed.Calendars.Header().IsZero(),
	}

	for _, file := range gtfs.TableFiles {
		if !present[file] {
			continue
		}

		rows, err := TableRows(feed, file)
		if err != nil {
			return err
		}

		if err := writeFile(filepath.Join(dir, file), rows); err != nil {
			return fmt.Errorf("writing %s: %w", file, err)
		}

		log.Info().Str("file", file).Str("dir", dir).Msg("Exported table")
	}

	return nil
}

func writeFile(path string, rows any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := gocsv.MarshalFile(rows, file); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
