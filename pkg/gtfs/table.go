package gtfs

import (
	"iter"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Record is implemented by every decoded row type through the embedded
// Identity.
type Record interface {
	Key() uuid.UUID
}

// Identity is the synthetic key of a record. It only identifies a record
// inside a Table and carries no GTFS meaning.
type Identity struct {
	key uuid.UUID
}

// NewIdentity returns a fresh identity for records built outside a decoder.
func NewIdentity() Identity {
	return Identity{key: uuid.New()}
}

func (i Identity) Key() uuid.UUID {
	return i.key
}

func (i *Identity) stamp() {
	i.key = uuid.New()
}

// Table holds the records decoded from one file, in file order, together
// with the header they were decoded with.
type Table[R Record, F Field] struct {
	header  Header[F]
	records []R
}

type (
	Agencies      = Table[Agency, AgencyField]
	Routes        = Table[Route, RouteField]
	Stops         = Table[Stop, StopField]
	Trips         = Table[Trip, TripField]
	StopTimes     = Table[StopTime, StopTimeField]
	CalendarDates = Table[CalendarDate, CalendarDateField]
	Calendars     = Table[Calendar, CalendarField]
)

func newTable[R Record, F Field](header Header[F], records []R) *Table[R, F] {
	return &Table[R, F]{header: header, records: records}
}

func (t *Table[R, F]) Header() Header[F] {
	return t.header
}

func (t *Table[R, F]) Len() int {
	return len(t.records)
}

// At returns the record at position i.
func (t *Table[R, F]) At(i int) R {
	return t.records[i]
}

// Records returns a copy of the records in file order.
func (t *Table[R, F]) Records() []R {
	return slices.Clone(t.records)
}

// All iterates the records in file order without copying them.
func (t *Table[R, F]) All() iter.Seq2[int, R] {
	return func(yield func(int, R) bool) {
		for i, record := range t.records {
			if !yield(i, record) {
				return
			}
		}
	}
}

func (t *Table[R, F]) Get(key uuid.UUID) (R, bool) {
	index := t.indexOf(key)
	if index < 0 {
		var zero R
		return zero, false
	}

	return t.records[index], true
}

// Insert appends a record. Records without an identity, or whose identity is
// already in the table, are rejected.
func (t *Table[R, F]) Insert(record R) bool {
	if record.Key() == uuid.Nil || t.indexOf(record.Key()) >= 0 {
		return false
	}

	t.records = append(t.records, record)
	return true
}

// Remove deletes the record with the given key, keeping the order of the rest.
func (t *Table[R, F]) Remove(key uuid.UUID) bool {
	index := t.indexOf(key)
	if index < 0 {
		return false
	}

	t.records = slices.Delete(t.records, index, index+1)
	return true
}

func (t *Table[R, F]) indexOf(key uuid.UUID) int {
	return slices.IndexFunc(t.records, func(record R) bool {
		return record.Key() == key
	})
}
