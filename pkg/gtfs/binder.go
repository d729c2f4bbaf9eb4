package gtfs

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	_ "time/tzdata"
)

// Stop times are parsed onto this date. Hours past 23 roll over onto the
// following days, so 25:30:00 becomes 2000-01-02 01:30:00.
const (
	referenceYear  = 2000
	referenceMonth = time.January
	referenceDay   = 1
)

// Color is a GTFS route colour.
type Color struct {
	R, G, B uint8
}

// ParseColor accepts six hex digits with or without a leading #.
func ParseColor(raw string) (Color, error) {
	hex := strings.TrimPrefix(raw, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: expected 6 hex digits", ErrInvalidColor)
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: expected 6 hex digits", ErrInvalidColor)
	}

	return Color{R: uint8(value >> 16), G: uint8(value >> 8), B: uint8(value)}, nil
}

func (c Color) String() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ParseTimeOfDay parses H:MM:SS or HH:MM:SS on the reference date in loc.
func ParseTimeOfDay(raw string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: expected HH:MM:SS", ErrInvalidFieldType)
	}

	hour, ok := parseDigits(parts[0], 1, 2)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: invalid hour", ErrInvalidFieldType)
	}
	minute, ok := parseDigits(parts[1], 2, 2)
	if !ok || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: invalid minute", ErrInvalidFieldType)
	}
	second, ok := parseDigits(parts[2], 2, 2)
	if !ok || second > 59 {
		return time.Time{}, fmt.Errorf("%w: invalid second", ErrInvalidFieldType)
	}

	return time.Date(referenceYear, referenceMonth, referenceDay, hour, minute, second, 0, loc), nil
}

// FormatTimeOfDay is the inverse of ParseTimeOfDay. Times on the days after
// the reference date come out with hours past 23.
func FormatTimeOfDay(t time.Time) string {
	hours := (t.Day()-referenceDay)*24 + t.Hour()

	return fmt.Sprintf("%02d:%02d:%02d", hours, t.Minute(), t.Second())
}

func parseDigits(s string, minLength int, maxLength int) (int, bool) {
	if len(s) < minLength || len(s) > maxLength {
		return 0, false
	}

	value := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		value = value*10 + int(c-'0')
	}

	return value, true
}

func parseOptionalString(raw string) *string {
	if raw == "" {
		return nil
	}

	return &raw
}

func parseUint(raw string) (uint, error) {
	value, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil {
		return 0, fmt.Errorf("%w: expected unsigned integer", ErrInvalidFieldType)
	}

	return uint(value), nil
}

func parseOptionalUint(raw string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}

	value, err := parseUint(raw)
	if err != nil {
		return nil, err
	}

	return &value, nil
}

func parseOptionalDouble(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: expected decimal number", ErrInvalidFieldType)
	}

	return &value, nil
}

func parseURL(raw string) (*url.URL, error) {
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("%w: expected absolute url", ErrInvalidFieldType)
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: expected absolute url", ErrInvalidFieldType)
	}

	return u, nil
}

func parseOptionalURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}

	return parseURL(raw)
}

func parseTimezone(raw string) (*time.Location, error) {
	// LoadLocation treats "" as UTC and "Local" as the host zone, neither is
	// an IANA identifier
	if raw == "" || raw == "Local" {
		return nil, fmt.Errorf("%w: expected IANA time zone", ErrInvalidFieldType)
	}

	location, err := time.LoadLocation(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone", ErrInvalidFieldType)
	}

	return location, nil
}

func parseOptionalTimezone(raw string) (*time.Location, error) {
	if raw == "" {
		return nil, nil
	}

	return parseTimezone(raw)
}

// parseLocale accepts whatever language.Parse accepts. Tags that are well
// formed but unregistered are kept as given.
func parseLocale(raw string) (*language.Tag, error) {
	if raw == "" {
		return nil, nil
	}

	tag, err := language.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: expected language tag", ErrInvalidFieldType)
	}

	return &tag, nil
}

func parseOptionalColor(raw string) (*Color, error) {
	if raw == "" {
		return nil, nil
	}

	color, err := ParseColor(raw)
	if err != nil {
		return nil, err
	}

	return &color, nil
}

func parseOptionalTimeOfDay(raw string, loc *time.Location) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	value, err := ParseTimeOfDay(raw, loc)
	if err != nil {
		return nil, err
	}

	return &value, nil
}

// parseDate parses a YYYYMMDD service date as midnight UTC.
func parseDate(raw string) (time.Time, error) {
	if len(raw) != 8 {
		return time.Time{}, fmt.Errorf("%w: expected YYYYMMDD", ErrInvalidFieldType)
	}

	date, err := time.Parse("20060102", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected YYYYMMDD", ErrInvalidFieldType)
	}

	return date, nil
}

// The constructors below build dispatch entries. dst selects the record
// attribute the parsed value is written to.

func requiredString[R any](dst func(*R) *string) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		*dst(record) = raw
		return nil
	}
}

func optionalString[R any](dst func(*R) **string) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		*dst(record) = parseOptionalString(raw)
		return nil
	}
}

func requiredUint[R any](dst func(*R) *uint) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseUint(raw)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}

func optionalUint[R any](dst func(*R) **uint) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseOptionalUint(raw)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}

func optionalDouble[R any](dst func(*R) **float64) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseOptionalDouble(raw)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}

func requiredURL[R any](dst func(*R) *url.URL) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseURL(raw)
		if err != nil {
			return err
		}
		*dst(record) = *value
		return nil
	}
}

func optionalURL[R any](dst func(*R) **url.URL) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseOptionalURL(raw)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}

func requiredTimezone[R any](dst func(*R) **time.Location) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseTimezone(raw)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}

func optionalTimezone[R any](dst func(*R) **time.Location) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseOptionalTimezone(raw)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}

func optionalLocale[R any](dst func(*R) **language.Tag) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseLocale(raw)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}

func optionalColor[R any](dst func(*R) **Color) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseOptionalColor(raw)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}

func optionalTimeOfDay[R any](dst func(*R) **time.Time) binder[R] {
	return func(raw string, record *R, ctx *bindContext) error {
		value, err := parseOptionalTimeOfDay(raw, ctx.location)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}

func requiredDate[R any](dst func(*R) *time.Time) binder[R] {
	return func(raw string, record *R, _ *bindContext) error {
		value, err := parseDate(raw)
		if err != nil {
			return err
		}
		*dst(record) = value
		return nil
	}
}
