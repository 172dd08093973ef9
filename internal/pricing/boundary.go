package pricing

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimezone is the zone the arena page prints its dates in.
	DefaultTimezone = "US/Eastern"
	// CivilDateLayout matches the arena table dates, e.g. 05/17/2025 or 5/17/2025.
	CivilDateLayout = "1/2/2006"
)

// LoadTimezone resolves a zone name, falling back to DefaultTimezone for unknown names.
func LoadTimezone(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}
	logrus.WithError(err).Warnf("Unknown timezone %q, falling back to %s", name, DefaultTimezone)
	loc, err = time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EarliestInstantOf returns the UTC instant of 00:00:00 local time on civilDate in tz.
func EarliestInstantOf(civilDate, tz string) (time.Time, error) {
	return earliestInstantIn(civilDate, LoadTimezone(tz))
}

// LatestInstantOf returns the UTC instant of 23:59:59.999999 local time on civilDate in tz.
func LatestInstantOf(civilDate, tz string) (time.Time, error) {
	return latestInstantIn(civilDate, LoadTimezone(tz))
}

func earliestInstantIn(civilDate string, loc *time.Location) (time.Time, error) {
	y, m, d, err := parseCivilDate(civilDate)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC(), nil
}

func latestInstantIn(civilDate string, loc *time.Location) (time.Time, error) {
	y, m, d, err := parseCivilDate(civilDate)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, m, d, 23, 59, 59, int(999999*time.Microsecond), loc).UTC(), nil
}

func parseCivilDate(civilDate string) (int, time.Month, int, error) {
	t, err := time.Parse(CivilDateLayout, strings.TrimSpace(civilDate))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w %q: expected MM/DD/YYYY", ErrInvalidCivilDate, civilDate)
	}
	y, m, d := t.Date()
	return y, m, d, nil
}

func minTime(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
