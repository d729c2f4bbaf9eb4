package gtfs

import (
	"fmt"
	"time"
)

// DecodeOptions configure a single table decode.
type DecodeOptions struct {
	HeaderPolicy HeaderPolicy
}

// FailurePolicy decides what a feed load does when one table fails.
type FailurePolicy int

const (
	// FailAll aborts the whole load on the first table error. No partial
	// feed is returned.
	FailAll FailurePolicy = iota
)

func (p FailurePolicy) String() string {
	switch p {
	case FailAll:
		return "fail-all"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// LoadOptions configure a feed load. The zero value is a strict load with a
// UTC fallback zone and no required files.
type LoadOptions struct {
	// DefaultTimezone is used for stop times when the feed has no agency.
	// nil means UTC.
	DefaultTimezone *time.Location

	FailurePolicy FailurePolicy
	HeaderPolicy  HeaderPolicy

	// RequiredFiles lists table files whose absence fails the load. Other
	// absent files decode as empty tables.
	RequiredFiles []string

	// MaxConcurrency bounds how many tables decode at once after agency.txt.
	// Zero or less means one worker per table.
	MaxConcurrency int
}

func (o LoadOptions) validate() error {
	if o.FailurePolicy != FailAll {
		return fmt.Errorf("%w: failure policy %s", ErrUnsupportedPolicy, o.FailurePolicy)
	}

	if o.HeaderPolicy != HeaderStrict && o.HeaderPolicy != HeaderLenient {
		return fmt.Errorf("%w: header policy %d", ErrUnsupportedPolicy, o.HeaderPolicy)
	}

	return nil
}

func (o LoadOptions) defaultTimezone() *time.Location {
	if o.DefaultTimezone == nil {
		return time.UTC
	}

	return o.DefaultTimezone
}

func (o LoadOptions) decodeOptions() DecodeOptions {
	return DecodeOptions{HeaderPolicy: o.HeaderPolicy}
}
