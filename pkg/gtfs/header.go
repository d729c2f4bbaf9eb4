package gtfs

import (
	"fmt"
	"strings"

	"github.com/travigo/gtfs-loader/pkg/gtfs/delimited"
	"golang.org/x/exp/slices"
)

// Field is implemented by the per-table column identifier types. The zero
// value of every Field type is its nonstandard catch-all.
type Field interface {
	~int
	fmt.Stringer
}

// HeaderPolicy controls what happens to header columns a table does not
// recognise.
type HeaderPolicy int

const (
	// HeaderStrict fails the table on the first unrecognised column.
	HeaderStrict HeaderPolicy = iota
	// HeaderLenient maps unrecognised columns to the nonstandard identifier
	// and ignores their values.
	HeaderLenient
)

// Header is the positional list of column identifiers read from the first
// record of a table file.
type Header[F Field] struct {
	fields []F
}

// Fields returns a copy of the header columns in file order.
func (h Header[F]) Fields() []F {
	return slices.Clone(h.fields)
}

func (h Header[F]) Len() int {
	return len(h.fields)
}

// Field returns the identifier of the column at position i.
func (h Header[F]) Field(i int) F {
	return h.fields[i]
}

func (h Header[F]) Contains(field F) bool {
	return slices.Contains(h.fields, field)
}

// IsZero reports whether no header was read, which is the case for an empty
// table file.
func (h Header[F]) IsZero() bool {
	return h.fields == nil
}

func (h Header[F]) String() string {
	names := make([]string, len(h.fields))
	for i, field := range h.fields {
		names[i] = field.String()
	}

	return strings.Join(names, ",")
}

func readHeader[R any, F Field](s *schema[R, F], record string, policy HeaderPolicy) (Header[F], error) {
	names, err := delimited.ReadHeaderRecord(record)
	if err != nil {
		return Header[F]{}, &ParseError{File: s.file, Line: 1, Err: err}
	}

	fields := make([]F, 0, len(names))
	for _, name := range names {
		field, known := s.lookup[name]
		if !known {
			if policy != HeaderLenient {
				return Header[F]{}, &ParseError{File: s.file, Line: 1, Err: fmt.Errorf("%w %q", ErrUnrecognizedColumn, name)}
			}

			field = F(0)
		}

		fields = append(fields, field)
	}

	return Header[F]{fields: fields}, nil
}
