package gtfs

import (
	"fmt"
	"strings"
	"time"

	"github.com/travigo/gtfs-loader/pkg/gtfs/delimited"
)

// binder parses one raw value and writes it into a record.
type binder[R any] func(raw string, record *R, ctx *bindContext) error

type bindContext struct {
	// location is the zone stop times are normalised into
	location *time.Location
}

// schema describes one table file: its recognised columns, which of them
// are required and the dispatch table from column to binder.
type schema[R any, F Field] struct {
	file     string
	columns  []string
	lookup   map[string]F
	required []F
	binders  map[F]binder[R]
}

func newSchema[R any, F Field](file string, columns []string, required []F, binders map[F]binder[R]) *schema[R, F] {
	lookup := make(map[string]F, len(columns))

	// index 0 is the catch-all and is never matched by name
	for i := 1; i < len(columns); i++ {
		lookup[columns[i]] = F(i)
	}

	return &schema[R, F]{
		file:     file,
		columns:  columns,
		lookup:   lookup,
		required: required,
		binders:  binders,
	}
}

func (s *schema[R, F]) missingFrom(header Header[F]) []string {
	var missing []string

	for _, field := range s.required {
		if !header.Contains(field) {
			missing = append(missing, field.String())
		}
	}

	return missing
}

func columnName(columns []string, field int) string {
	if field < 0 || field >= len(columns) {
		return fmt.Sprintf("column(%d)", field)
	}

	return columns[field]
}

type identified[R any] interface {
	*R
	stamp()
}

// decodeTable runs the whole table state machine: header first, then every
// data record against it. The first failure aborts the table.
func decodeTable[R Record, F Field, PR identified[R]](s *schema[R, F], text string, ctx *bindContext, opts DecodeOptions) (*Table[R, F], error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	records := delimited.SplitRecords(text)
	for len(records) > 0 && records[len(records)-1] == "" {
		records = records[:len(records)-1]
	}

	if len(records) == 0 {
		return newTable[R](Header[F]{}, nil), nil
	}

	header, err := readHeader(s, records[0], opts.HeaderPolicy)
	if err != nil {
		return nil, err
	}

	plan := make([]binder[R], header.Len())
	for i, field := range header.fields {
		plan[i] = s.binders[field]
	}
	missing := s.missingFrom(header)

	rows := make([]R, 0, len(records)-1)

	for i, raw := range records[1:] {
		line := i + 2

		fields, err := delimited.ReadRecord(raw)
		if err != nil {
			return nil, &ParseError{File: s.file, Line: line, Err: err}
		}

		if len(fields) != header.Len() {
			return nil, &ParseError{
				File: s.file,
				Line: line,
				Err:  fmt.Errorf("%w: record has %d fields, header has %d", ErrHeaderRecordMismatch, len(fields), header.Len()),
			}
		}

		if len(missing) > 0 {
			return nil, &ParseError{
				File: s.file,
				Line: line,
				Err:  fmt.Errorf("%w: %s", ErrMissingRequiredFields, strings.Join(missing, ", ")),
			}
		}

		var record R
		PR(&record).stamp()

		for column, value := range fields {
			bind := plan[column]
			if bind == nil {
				continue
			}

			if err := bind(value, &record, ctx); err != nil {
				return nil, &ParseError{
					File:   s.file,
					Line:   line,
					Column: header.fields[column].String(),
					Value:  value,
					Err:    err,
				}
			}
		}

		rows = append(rows, record)
	}

	return newTable(header, rows), nil
}
