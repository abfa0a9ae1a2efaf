package model

import (
	"fmt"
	"strings"
	"time"
)

// Date-format qualifiers from UNTDID 2379 as used by the CII udt:DateTimeString
// element. 102 is by far the most common on real documents.
const (
	DateFormatYMD       = "102" // CCYYMMDD
	DateFormatYM        = "610" // CCYYMM
	DateFormatYWeek     = "616" // CCYYWW
	dateLayoutYMD       = "20060102"
	dateLayoutYM        = "200601"
	dateLayoutISO       = "2006-01-02"
	dateLayoutISOCompat = "2006-01-02T15:04:05"
)

// ParseQualifiedDate parses a date string against its UNTDID 2379 format
// qualifier.
func ParseQualifiedDate(format, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	switch format {
	case DateFormatYMD, "":
		return time.Parse(dateLayoutYMD, value)
	case DateFormatYM:
		return time.Parse(dateLayoutYM, value)
	case DateFormatYWeek:
		var year, week int
		if _, err := fmt.Sscanf(value, "%4d%2d", &year, &week); err != nil {
			return time.Time{}, fmt.Errorf("invalid week date %q: %w", value, err)
		}
		// ISO week 1 always contains January 4th
		jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
		_, w := jan4.ISOWeek()
		return jan4.AddDate(0, 0, (week-w)*7), nil
	default:
		return time.Time{}, fmt.Errorf("unknown date format qualifier %q", format)
	}
}

// FormatQualifiedDate renders t for the given qualifier, the inverse of
// ParseQualifiedDate.
func FormatQualifiedDate(format string, t time.Time) string {
	switch format {
	case DateFormatYM:
		return t.Format(dateLayoutYM)
	case DateFormatYWeek:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d%02d", y, w)
	default:
		return t.Format(dateLayoutYMD)
	}
}

// ParseISODate parses a plain ISO-8601 date, tolerating a trailing time part.
func ParseISODate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateLayoutISO, value); err == nil {
		return t, nil
	}
	return time.Parse(dateLayoutISOCompat, value)
}

// ResolveDate implements the read-side fallback chain: a qualified
// representation wins when present, then a plain ISO value, then the supplied
// default. A present-but-unparseable value is an error, never silently
// replaced by the default.
func ResolveDate(qualifiedFormat, qualifiedValue, plain string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(qualifiedValue) != "" {
		return ParseQualifiedDate(qualifiedFormat, qualifiedValue)
	}
	if strings.TrimSpace(plain) != "" {
		return ParseISODate(plain)
	}
	return def, nil
}
