package gtfs

import (
	"errors"
	"fmt"

	"github.com/travigo/gtfs-loader/pkg/gtfs/delimited"
)

// Tokenizer errors
var (
	ErrEmptySubstring = delimited.ErrEmptySubstring
	ErrCommaExpected  = delimited.ErrCommaExpected
	ErrQuoteExpected  = delimited.ErrQuoteExpected
)

// Binding and structural errors
var (
	ErrInvalidFieldType      = errors.New("invalid field type")
	ErrInvalidColor          = errors.New("invalid color")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrHeaderRecordMismatch  = errors.New("record field count does not match header")
	ErrUnrecognizedColumn    = errors.New("unrecognized column")
	ErrUnsupportedPolicy     = errors.New("unsupported policy")
)

// Errors raised while retrieving and unpacking a feed. They are defined here
// so callers can branch on every failure of a load with one import.
var (
	ErrInvalidURL       = errors.New("invalid url")
	ErrDownloadFailed   = errors.New("download failed")
	ErrFileNotFound     = errors.New("file not found")
	ErrExtractionFailed = errors.New("extraction failed")
)

// ParseError locates a decoding failure inside a table file.
// Line is 1-based and counts the header as line 1. Column is empty when the
// failure concerns the whole record.
type ParseError struct {
	File   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	location := e.File
	if e.Line > 0 {
		location = fmt.Sprintf("%s:%d", e.File, e.Line)
	}

	if e.Column == "" {
		return fmt.Sprintf("%s: %s", location, e.Err)
	}

	return fmt.Sprintf("%s: %s %q: %s", location, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
