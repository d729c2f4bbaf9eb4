package gtfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/slices"
)

const (
	AgencyFile        = "agency.txt"
	RoutesFile        = "routes.txt"
	StopsFile         = "stops.txt"
	TripsFile         = "trips.txt"
	StopTimesFile     = "stop_times.txt"
	CalendarDatesFile = "calendar_dates.txt"
	CalendarFile      = "calendar.txt"
)

// TableFiles lists every table file a feed is read from, agency first.
var TableFiles = []string{AgencyFile, RoutesFile, StopsFile, TripsFile, StopTimesFile, CalendarDatesFile, CalendarFile}

// Feed is one fully decoded dataset. Tables refer to each other by
// identifier value only.
type Feed struct {
	Agencies      *Agencies
	Routes        *Routes
	Stops         *Stops
	Trips         *Trips
	StopTimes     *StopTimes
	CalendarDates *CalendarDates
	Calendars     *Calendars

	timezone *time.Location
}

// FirstAgency returns the first row of agency.txt, if there is one.
func (f *Feed) FirstAgency() (Agency, bool) {
	if f.Agencies == nil || f.Agencies.Len() == 0 {
		return Agency{}, false
	}

	return f.Agencies.At(0), true
}

// Timezone is the zone stop times were normalised into.
func (f *Feed) Timezone() *time.Location {
	return f.timezone
}

// LoadDirectory loads the feed stored as table files in dir.
func LoadDirectory(ctx context.Context, dir string, opts LoadOptions) (*Feed, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrFileNotFound, dir)
	}

	return Load(ctx, os.DirFS(dir), opts)
}

// Load decodes every table of the feed in fsys. agency.txt is decoded first
// since its time zone is needed for stop_times.txt; the remaining tables are
// decoded concurrently. Any failure discards the whole feed.
func Load(ctx context.Context, fsys fs.FS, opts LoadOptions) (*Feed, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	for _, file := range opts.RequiredFiles {
		if _, err := fs.Stat(fsys, file); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, file)
		}
	}

	decodeOpts := opts.decodeOptions()
	feed := &Feed{}

	agencies, err := loadTable(ctx, fsys, AgencyFile, func(text string) (*Agencies, error) {
		return DecodeAgencies(text, decodeOpts)
	})
	if err != nil {
		return nil, err
	}
	feed.Agencies = agencies

	feed.timezone = opts.defaultTimezone()
	if agency, ok := feed.FirstAgency(); ok && agency.Timezone != nil {
		feed.timezone = agency.Timezone
	}
	log.Debug().Str("timezone", feed.timezone.String()).Msg("Resolved feed timezone")

	tasks := []func(context.Context) error{
		func(ctx context.Context) (err error) {
			feed.StopTimes, err = loadTable(ctx, fsys, StopTimesFile, func(text string) (*StopTimes, error) {
				return DecodeStopTimes(text, feed.timezone, decodeOpts)
			})
			return err
		},
		func(ctx context.Context) (err error) {
			feed.Routes, err = loadTable(ctx, fsys, RoutesFile, func(text string) (*Routes, error) {
				return DecodeRoutes(text, decodeOpts)
			})
			return err
		},
		func(ctx context.Context) (err error) {
			feed.Stops, err = loadTable(ctx, fsys, StopsFile, func(text string) (*Stops, error) {
				return DecodeStops(text, decodeOpts)
			})
			return err
		},
		func(ctx context.Context) (err error) {
			feed.Trips, err = loadTable(ctx, fsys, TripsFile, func(text string) (*Trips, error) {
				return DecodeTrips(text, decodeOpts)
			})
			return err
		},
		func(ctx context.Context) (err error) {
			feed.CalendarDates, err = loadTable(ctx, fsys, CalendarDatesFile, func(text string) (*CalendarDates, error) {
				return DecodeCalendarDates(text, decodeOpts)
			})
			return err
		},
		func(ctx context.Context) (err error) {
			feed.Calendars, err = loadTable(ctx, fsys, CalendarFile, func(text string) (*Calendars, error) {
				return DecodeCalendars(text, decodeOpts)
			})
			return err
		},
	}

	workers := opts.MaxConcurrency
	if workers <= 0 {
		workers = len(tasks)
	}

	p := pool.New().
		WithMaxGoroutines(workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for _, task := range tasks {
		p.Go(task)
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}

	return feed, nil
}

// loadTable reads and decodes one file. A file that does not exist decodes
// as an empty table; required files have already been checked by Load.
func loadTable[R Record, F Field](ctx context.Context, fsys fs.FS, file string, decode func(string) (*Table[R, F], error)) (*Table[R, F], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	contents, err := fs.ReadFile(fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", file).Msg("Table file not present")
		return newTable[R](Header[F]{}, nil), nil
	} else if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	table, err := decode(string(contents))
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("file", file).
		Int("records", table.Len()).
		Dur("duration", time.Since(start)).
		Msg("Loaded table")

	return table, nil
}

// IsTableFile reports whether name is one of the files a feed is read from.
func IsTableFile(name string) bool {
	return slices.Contains(TableFiles, name)
}
