package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/telemetry"
)

// ReportService aggregates rental activity per calendar day of pickup.
type ReportService struct {
	reservations ReservationReader
}

func NewReportService(reservations ReservationReader) *ReportService {
	return &ReportService{reservations: reservations}
}

// ParseReportRange parses an inclusive day range.
func ParseReportRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	if strings.TrimSpace(startRaw) == "" || strings.TrimSpace(endRaw) == "" {
		return time.Time{}, time.Time{}, validationf("startDate and endDate are required")
	}
	from, err := ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, validationf("invalid startDate %q", startRaw)
	}
	to, err := ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, validationf("invalid endDate %q", endRaw)
	}
	from, to = startOfDay(from), startOfDay(to)
	if to.Before(from) {
		return time.Time{}, time.Time{}, validationf("endDate must not be before startDate")
	}
	return from, to, nil
}

// DailyRentals reports every day in the range with at least one confirmed
// or cancelled reservation starting on it.
func (s *ReportService) DailyRentals(ctx context.Context, startRaw, endRaw string) ([]model.DailyRentals, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.DailyRentals")
	defer span.End()

	from, to, err := ParseReportRange(startRaw, endRaw)
	if err != nil {
		return nil, err
	}
	rows, err := s.reservations.ReportRows(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}
	return AggregateDaily(rows), nil
}

// UserRentals reports a single user's confirmed rentals per day.
func (s *ReportService) UserRentals(ctx context.Context, userID int64, startRaw, endRaw string) ([]model.UserRentals, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.UserRentals")
	defer span.End()

	from, to, err := ParseReportRange(startRaw, endRaw)
	if err != nil {
		return nil, err
	}
	rows, err := s.reservations.ReportRows(ctx, from, to, &userID)
	if err != nil {
		return nil, err
	}
	return AggregateUser(rows), nil
}

// AggregateDaily folds report rows into per-day figures. Rentals, revenue,
// average and car types count confirmed reservations only; cancellations
// are counted separately. Days come out ascending.
func AggregateDaily(rows []model.ReportRow) []model.DailyRentals {
	type acc struct {
		out   model.DailyRentals
		types map[string]struct{}
	}
	days := map[string]*acc{}
	for _, r := range rows {
		if r.Status == model.StatusPending {
			continue
		}
		key := r.StartDate.UTC().Format(dateLayout)
		a, ok := days[key]
		if !ok {
			a = &acc{out: model.DailyRentals{Date: key}, types: map[string]struct{}{}}
			days[key] = a
		}
		switch r.Status {
		case model.StatusConfirmed:
			a.out.TotalRentals++
			a.out.TotalRevenue += r.TotalPrice
			a.types[r.CarType] = struct{}{}
		case model.StatusCancelled:
			a.out.Cancellations++
		}
	}

	out := make([]model.DailyRentals, 0, len(days))
	for _, a := range days {
		a.out.CarTypes = strings.Join(sortedKeys(a.types), ",")
		a.out.AveragePrice = average(a.out.TotalRevenue, a.out.TotalRentals)
		out = append(out, a.out)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// AggregateUser folds a user's confirmed rows into per-day figures.
func AggregateUser(rows []model.ReportRow) []model.UserRentals {
	type acc struct {
		out  model.UserRentals
		cars map[string]struct{}
	}
	days := map[string]*acc{}
	for _, r := range rows {
		if r.Status != model.StatusConfirmed {
			continue
		}
		key := r.StartDate.UTC().Format(dateLayout)
		a, ok := days[key]
		if !ok {
			a = &acc{out: model.UserRentals{Date: key}, cars: map[string]struct{}{}}
			days[key] = a
		}
		a.out.Rentals++
		a.out.TotalSpent += r.TotalPrice
		a.cars[r.CarModel] = struct{}{}
	}

	out := make([]model.UserRentals, 0, len(days))
	for _, a := range days {
		a.out.CarsRented = sortedKeys(a.cars)
		out = append(out, a.out)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// average divides to the nearest cent, halves rounding up.
func average(total model.Money, n int) model.Money {
	if n == 0 {
		return 0
	}
	return (total*2 + model.Money(n)) / model.Money(2*n)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
