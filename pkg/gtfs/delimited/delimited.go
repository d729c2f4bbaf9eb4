// Package delimited splits GTFS text files into records and fields.
//
// Only the dialect GTFS requires is supported: comma separated fields,
// optional double quoting with "" as an escaped quote, and \n, \r\n or \r
// as record terminators. Quoted fields cannot span record terminators.
package delimited

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySubstring = errors.New("empty substring")
	ErrCommaExpected  = errors.New("comma expected after quoted field")
	ErrQuoteExpected  = errors.New("closing quote expected")
)

// SyntaxError reports where in a record tokenizing failed.
// Column is the 1-based field position.
type SyntaxError struct {
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("field %d: %s", e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// SplitRecords splits text into records on \r\n, \n and lone \r.
// A terminator at the very end of text does not start another record.
func SplitRecords(text string) []string {
	if text == "" {
		return nil
	}

	records := []string{}
	start := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			records = append(records, text[start:i])
			start = i + 1
		case '\r':
			records = append(records, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}

	if start < len(text) {
		records = append(records, text[start:])
	}

	return records
}

// ReadRecord splits a single record into its raw field values.
func ReadRecord(record string) ([]string, error) {
	fields := []string{}
	pos := 0

	for {
		column := len(fields) + 1

		if pos < len(record) && record[pos] == '"' {
			value, next, err := readQuoted(record, pos+1)
			if err != nil {
				return nil, &SyntaxError{Column: column, Err: err}
			}
			fields = append(fields, value)

			if next == len(record) {
				return fields, nil
			}
			if record[next] != ',' {
				return nil, &SyntaxError{Column: column, Err: ErrCommaExpected}
			}
			pos = next + 1
			if pos == len(record) {
				return append(fields, ""), nil
			}
			continue
		}

		end := strings.IndexByte(record[pos:], ',')
		if end < 0 {
			return append(fields, record[pos:]), nil
		}
		fields = append(fields, record[pos:pos+end])
		pos += end + 1
		if pos == len(record) {
			return append(fields, ""), nil
		}
	}
}

// ReadHeaderRecord is ReadRecord for a header line, which must not be empty.
func ReadHeaderRecord(record string) ([]string, error) {
	if record == "" {
		return nil, &SyntaxError{Column: 1, Err: ErrEmptySubstring}
	}

	return ReadRecord(record)
}

// readQuoted reads the body of a quoted field starting just after the
// opening quote. It returns the unescaped value and the index just past the
// closing quote.
func readQuoted(record string, pos int) (string, int, error) {
	var value strings.Builder

	for {
		quote := strings.IndexByte(record[pos:], '"')
		if quote < 0 {
			return "", 0, ErrQuoteExpected
		}
		value.WriteString(record[pos : pos+quote])
		pos += quote + 1

		if pos < len(record) && record[pos] == '"' {
			value.WriteByte('"')
			pos++
			continue
		}

		return value.String(), pos, nil
	}
}
