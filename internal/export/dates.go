// internal/export/dates.go
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	isoDateLayout = "2006-01-02"
	isoTimeLayout = "15:04:05"
)

// ParseISO decodes "YYYY-MM-DD" or "YYYY-MM-DDTHH:mm:ss" as a wall-clock
// reading. No timezone is attached here; NormalizeFilterDate decides what
// offset the wall clock is in.
func ParseISO(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	datePart, timePart, hasTime := strings.Cut(value, "T")

	t, err := time.Parse(isoDateLayout, datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid iso date %q: %w", value, err)
	}
	if !hasTime {
		return t, nil
	}

	clock, err := time.Parse(isoTimeLayout, timePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid iso time %q: %w", value, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC), nil
}

// NormalizeFilterDate converts a from/to filter value into a canonical UTC
// string, treating the input wall clock as being offset minutes ahead of
// UTC (330 for IST). Values that do not parse as ISO dates pass through
// unchanged so the stored procedure sees exactly what the caller sent.
func NormalizeFilterDate(value string, offsetMinutes int) string {
	if strings.TrimSpace(value) == "" {
		return value
	}

	t, err := ParseISO(value)
	if err != nil {
		return value
	}

	zone := time.FixedZone("filter", offsetMinutes*60)
	local := time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, zone)
	return local.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}

// ParseDayOfYear decodes the compact "YYYYddd" encoding: a 4-digit year
// immediately followed by a zero-padded 3-digit ordinal day. "2025032" is
// day 32 of 2025, i.e. February 1st. Ordinals past the end of the year
// roll into the next one, matching how the upstream devices have always
// encoded dates. Anything other than exactly 7 digits is rejected.
func ParseDayOfYear(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) != 7 {
		return time.Time{}, fmt.Errorf("day-of-year value %q must be 7 digits", value)
	}

	year, err := strconv.Atoi(value[:4])
	if err != nil {
		return time.Time{}, fmt.Errorf("day-of-year value %q: bad year: %w", value, err)
	}
	day, err := strconv.Atoi(value[4:])
	if err != nil {
		return time.Time{}, fmt.Errorf("day-of-year value %q: bad ordinal: %w", value, err)
	}
	if day < 1 {
		return time.Time{}, fmt.Errorf("day-of-year value %q: ordinal must be >= 1", value)
	}

	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local).
		AddDate(0, 0, day-1), nil
}

// FreshnessDays returns the whole days elapsed between the day-of-year
// encoded manufacture date and now, floored at zero. Unparseable input
// yields the "NA" sentinel.
func FreshnessDays(rawMfgDate string, now time.Time) string {
	mfg, err := ParseDayOfYear(rawMfgDate)
	if err != nil {
		return sentinelNA
	}

	days := int(midnight(now).Sub(midnight(mfg)).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return strconv.Itoa(days)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
