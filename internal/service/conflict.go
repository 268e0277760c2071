package service

import (
	"time"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

const day = 24 * time.Hour

// Overlaps reports whether half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindConflict returns the first confirmed reservation in existing that
// overlaps [start, end), ignoring excludeID. Nil means the slot is free.
func FindConflict(existing []model.Reservation, start, end time.Time, excludeID int64) *model.Reservation {
	for i := range existing {
		r := &existing[i]
		if r.Status != model.StatusConfirmed || (excludeID != 0 && r.ID == excludeID) {
			continue
		}
		if Overlaps(r.StartDate, r.EndDate, start, end) {
			return r
		}
	}
	return nil
}

// AvailableOn reports whether no confirmed reservation touches the UTC
// calendar day containing now. This is the value kept in cars.available.
func AvailableOn(existing []model.Reservation, now time.Time) bool {
	from := startOfDay(now)
	return FindConflict(existing, from, from.Add(day), 0) == nil
}
