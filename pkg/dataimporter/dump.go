package dataimporter

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/kr/pretty"
	"github.com/liip/sheriff"
	"github.com/travigo/gtfs-loader/pkg/dataimporter/export"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
)

type DumpFormat string

const (
	DumpFormatText DumpFormat = "text"
	DumpFormatJSON DumpFormat = "json"
)

type DumpOptions struct {
	Format DumpFormat
	// Limit caps the rows written. Zero or less writes every row.
	Limit int
	// Detailed includes the optional columns, otherwise only the basic ones.
	Detailed bool
}

// Dump writes the rows of one table of feed to w.
func Dump(w io.Writer, feed *gtfs.Feed, file string, opts DumpOptions) error {
	rows, err := export.TableRows(feed, file)
	if err != nil {
		return err
	}

	rows = limitRows(rows, opts.Limit)

	switch opts.Format {
	case DumpFormatText, "":
		return dumpText(w, rows)
	case DumpFormatJSON:
		return dumpJSON(w, rows, opts.Detailed)
	default:
		return fmt.Errorf("unknown dump format %q", opts.Format)
	}
}

func dumpText(w io.Writer, rows any) error {
	value := reflect.ValueOf(rows)

	for i := 0; i < value.Len(); i++ {
		if _, err := pretty.Fprintf(w, "%# v\n", value.Index(i).Interface()); err != nil {
			return err
		}
	}

	return nil
}

func dumpJSON(w io.Writer, rows any, detailed bool) error {
	groups := []string{"basic"}
	if detailed {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, rows)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(reduced)
}

func limitRows(rows any, limit int) any {
	value := reflect.ValueOf(rows)
	if limit <= 0 || value.Len() <= limit {
		return rows
	}

	return value.Slice(0, limit).Interface()
}

func rowCount(rows any) int {
	return reflect.ValueOf(rows).Len()
}
