package service

import (
	"time"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

// Flat per-day add-on fees.
const (
	GPSDailyFee      model.Money = 500
	TollPassDailyFee model.Money = 300
)

// MaxTotal is the largest amount a DECIMAL(10,2) column holds.
const MaxTotal model.Money = 9_999_999_999

const secondsPerDay = 24 * 60 * 60

// DayCount is the number of billable days in [start, end): partial days
// round up and the minimum is one. Whole days come from calendar dates so
// ranges longer than a time.Duration still count exactly.
func DayCount(start, end time.Time) int64 {
	s0, e0 := startOfDay(start), startOfDay(end)
	days := (e0.Unix() - s0.Unix()) / secondsPerDay
	if end.UTC().Sub(e0) > start.UTC().Sub(s0) {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}

// AddonsPerDay is the daily surcharge for the selected add-ons.
func AddonsPerDay(gps, tollPass bool) model.Money {
	var m model.Money
	if gps {
		m += GPSDailyFee
	}
	if tollPass {
		m += TollPassDailyFee
	}
	return m
}

// Price is days × (rate + add-ons).
func Price(days int64, rate model.Money, gps, tollPass bool) model.Money {
	return model.Money(days) * (rate + AddonsPerDay(gps, tollPass))
}

// checkTotal rejects a price the reservations table cannot store.
func checkTotal(m model.Money) error {
	if m < 0 || m > MaxTotal {
		return validationf("total price %s exceeds the supported maximum", m)
	}
	return nil
}

// Quote prices a booking of [start, end).
func Quote(start, end time.Time, rate model.Money, gps, tollPass bool) model.Money {
	return Price(DayCount(start, end), rate, gps, tollPass)
}
