package service

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Booking bounds. Years outside [MinYear, MaxYear] do not fit a DATETIME
// column and no single rental may exceed MaxRentalDays.
const (
	MinYear       = 1000
	MaxYear       = 9999
	MaxRentalDays = 365
)

// ParseDate accepts a calendar date (midnight UTC) or an RFC 3339
// timestamp, which is converted to UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseRange parses a booking interval and requires end after start.
func ParseRange(start, end string) (time.Time, time.Time, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return time.Time{}, time.Time{}, validationf("startDate and endDate are required")
	}
	s, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, validationf("invalid startDate %q", start)
	}
	e, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, validationf("invalid endDate %q", end)
	}
	if err := checkRange(s, e); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

// checkRange applies the ordering and size limits shared by every
// booking interval.
func checkRange(start, end time.Time) error {
	for _, t := range []time.Time{start, end} {
		if y := t.Year(); y < MinYear || y > MaxYear {
			return validationf("dates must fall between years %d and %d", MinYear, MaxYear)
		}
	}
	if !end.After(start) {
		return validationf("endDate must be after startDate")
	}
	if DayCount(start, end) > MaxRentalDays {
		return validationf("rental period cannot exceed %d days", MaxRentalDays)
	}
	return nil
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
