package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/metrics"
	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/queue"
	"github.com/iliyamo/car-rental-booking/internal/repository"
	"github.com/iliyamo/car-rental-booking/internal/telemetry"
)

// CreateReservationInput is a booking request. UserID comes from the
// session, never from the request body.
type CreateReservationInput struct {
	CarID       int64
	UserID      int64
	StartDate   string
	EndDate     string
	GPS         bool
	TollPass    bool
	ClientPrice *model.Money
}

// UpdateReservationInput changes a booking. Nil fields keep stored values.
type UpdateReservationInput struct {
	StartDate *string
	EndDate   *string
	GPS       *bool
	TollPass  *bool
}

// Availability answers whether a car is free over an interval.
type Availability struct {
	CarID                    int64  `json:"carId"`
	StartDate                string `json:"startDate"`
	EndDate                  string `json:"endDate"`
	Available                bool   `json:"available"`
	ConflictingReservationID *int64 `json:"conflictingReservationId,omitempty"`
}

// ReservationService is the reservation lifecycle and availability engine.
// Every mutation locks the car row, re-checks overlaps against confirmed
// reservations and refreshes the car's availability hint before commit.
type ReservationService struct {
	tx           TxRunner
	reservations ReservationReader
	cars         CarReader
	publisher    queue.Publisher
	cache        CacheInvalidator
	log          *zap.Logger
	now          func() time.Time
}

func NewReservationService(tx TxRunner, reservations ReservationReader, cars CarReader, publisher queue.Publisher, cache CacheInvalidator, log *zap.Logger) *ReservationService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	if cache == nil {
		cache = nopInvalidator{}
	}
	return &ReservationService{
		tx:           tx,
		reservations: reservations,
		cars:         cars,
		publisher:    publisher,
		cache:        cache,
		log:          log,
		now:          time.Now,
	}
}

// WithClock overrides the clock used for the availability hint.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

// Create books a car. The price is always computed here; a differing
// client price is only logged.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (model.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReservationService.Create")
	defer span.End()
	span.SetAttributes(attribute.Int64("car.id", in.CarID), attribute.Int64("user.id", in.UserID))

	if in.UserID <= 0 {
		return model.Reservation{}, validationf("userId is required")
	}
	if in.CarID <= 0 {
		return model.Reservation{}, validationf("carId is required")
	}
	start, end, err := ParseRange(in.StartDate, in.EndDate)
	if err != nil {
		return model.Reservation{}, err
	}

	began := time.Now()
	var created model.Reservation
	err = s.tx.InTx(ctx, func(q repository.Queries) error {
		car, err := q.LockCar(ctx, in.CarID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFoundf("car %d not found", in.CarID)
			}
			return err
		}
		confirmed, err := q.ListConfirmedByCar(ctx, car.ID)
		if err != nil {
			return err
		}
		if c := FindConflict(confirmed, start, end, 0); c != nil {
			return conflictf("car is already booked for the selected dates")
		}

		price := Quote(start, end, car.PricePerDay, in.GPS, in.TollPass)
		if err := checkTotal(price); err != nil {
			return err
		}
		if in.ClientPrice != nil && *in.ClientPrice != price {
			s.log.Debug("client price differs from server price",
				zap.Int64("car_id", car.ID), zap.Stringer("client", *in.ClientPrice), zap.Stringer("server", price))
		}

		created = model.Reservation{
			CarID:      car.ID,
			UserID:     in.UserID,
			StartDate:  start,
			EndDate:    end,
			TotalPrice: price,
			Status:     model.StatusConfirmed,
			GPS:        in.GPS,
			TollPass:   in.TollPass,
		}
		if err := q.InsertReservation(ctx, &created); err != nil {
			return err
		}
		return s.refreshAvailability(ctx, q, car, append(confirmed, created))
	})
	metrics.BookingLatency.Observe(time.Since(began).Seconds())
	if err != nil {
		if errors.Is(err, ErrConflict) {
			metrics.ReservationConflictsTotal.Inc()
		}
		return model.Reservation{}, err
	}

	metrics.ReservationsCreatedTotal.Inc()
	s.afterCommit(ctx, queue.NewReservationEvent(queue.EventReservationConfirmed, created, s.now()))
	return created, nil
}

// Update changes dates or add-ons of a reservation the actor owns. The
// stored row is left untouched if the new range is invalid or conflicts.
func (s *ReservationService) Update(ctx context.Context, id int64, in UpdateReservationInput, actor Actor) (model.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReservationService.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("reservation.id", id))

	var updated model.Reservation
	err := s.tx.InTx(ctx, func(q repository.Queries) error {
		cur, err := s.lockOwned(ctx, q, id, actor)
		if err != nil {
			return err
		}
		if cur.Status == model.StatusCancelled {
			return conflictf("cancelled reservations cannot be modified")
		}
		car, err := q.LockCar(ctx, cur.CarID)
		if err != nil {
			return err
		}

		next := cur
		if in.StartDate != nil {
			if next.StartDate, err = ParseDate(*in.StartDate); err != nil {
				return validationf("invalid startDate %q", *in.StartDate)
			}
		}
		if in.EndDate != nil {
			if next.EndDate, err = ParseDate(*in.EndDate); err != nil {
				return validationf("invalid endDate %q", *in.EndDate)
			}
		}
		if in.GPS != nil {
			next.GPS = *in.GPS
		}
		if in.TollPass != nil {
			next.TollPass = *in.TollPass
		}
		if err := checkRange(next.StartDate, next.EndDate); err != nil {
			return err
		}

		confirmed, err := q.ListConfirmedByCar(ctx, car.ID)
		if err != nil {
			return err
		}
		if c := FindConflict(confirmed, next.StartDate, next.EndDate, cur.ID); c != nil {
			return conflictf("car is already booked for the selected dates")
		}

		if pricingChanged(cur, next) {
			next.TotalPrice = Quote(next.StartDate, next.EndDate, car.PricePerDay, next.GPS, next.TollPass)
			if err := checkTotal(next.TotalPrice); err != nil {
				return err
			}
		}
		if err := q.UpdateReservation(ctx, &next); err != nil {
			return err
		}
		updated = next
		return s.refreshAvailability(ctx, q, car, replaceReservation(confirmed, next))
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			metrics.ReservationConflictsTotal.Inc()
		}
		return model.Reservation{}, err
	}

	metrics.ReservationsUpdatedTotal.Inc()
	s.afterCommit(ctx, queue.NewReservationEvent(queue.EventReservationUpdated, updated, s.now()))
	return updated, nil
}

// Cancel moves a reservation to cancelled. Cancelling twice succeeds and
// changes nothing.
func (s *ReservationService) Cancel(ctx context.Context, id int64, actor Actor) (model.Reservation, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReservationService.Cancel")
	defer span.End()
	span.SetAttributes(attribute.Int64("reservation.id", id))

	var (
		result  model.Reservation
		changed bool
	)
	err := s.tx.InTx(ctx, func(q repository.Queries) error {
		cur, err := s.lockOwned(ctx, q, id, actor)
		if err != nil {
			return err
		}
		next, moved, err := cur.Status.Transition(model.StatusCancelled)
		if err != nil {
			return conflictf("reservation cannot be cancelled")
		}
		if !moved {
			result = cur
			return nil
		}
		car, err := q.LockCar(ctx, cur.CarID)
		if err != nil {
			return err
		}
		cur.Status = next
		if err := q.UpdateReservation(ctx, &cur); err != nil {
			return err
		}
		confirmed, err := q.ListConfirmedByCar(ctx, car.ID)
		if err != nil {
			return err
		}
		result, changed = cur, true
		return s.refreshAvailability(ctx, q, car, confirmed)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	if changed {
		metrics.ReservationsCancelledTotal.Inc()
		s.afterCommit(ctx, queue.NewReservationEvent(queue.EventReservationCancelled, result, s.now()))
	}
	return result, nil
}

// Get returns a reservation visible to actor.
func (s *ReservationService) Get(ctx context.Context, id int64, actor Actor) (model.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Reservation{}, notFoundf("reservation %d not found", id)
		}
		return model.Reservation{}, err
	}
	if !actor.owns(r) {
		return model.Reservation{}, notFoundf("reservation %d not found", id)
	}
	return r, nil
}

// List returns reservations newest first. Non-admins only ever see their own.
func (s *ReservationService) List(ctx context.Context, f model.ReservationFilter, actor Actor) ([]model.Reservation, error) {
	if !actor.IsAdmin() {
		uid := actor.UserID
		f.UserID = &uid
	}
	return s.reservations.List(ctx, f)
}

// CheckAvailability reports whether the car is free over [start, end).
// It reads confirmed reservations only and ignores the availability hint.
func (s *ReservationService) CheckAvailability(ctx context.Context, carID int64, startRaw, endRaw string) (Availability, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReservationService.CheckAvailability")
	defer span.End()

	start, end, err := ParseRange(startRaw, endRaw)
	if err != nil {
		return Availability{}, err
	}
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Availability{}, notFoundf("car %d not found", carID)
		}
		return Availability{}, err
	}
	confirmed, err := s.reservations.ListConfirmedByCar(ctx, carID)
	if err != nil {
		return Availability{}, err
	}
	out := Availability{
		CarID:     carID,
		StartDate: start.Format(time.RFC3339),
		EndDate:   end.Format(time.RFC3339),
		Available: true,
	}
	if c := FindConflict(confirmed, start, end, 0); c != nil {
		id := c.ID
		out.Available = false
		out.ConflictingReservationID = &id
	}
	return out, nil
}

func (s *ReservationService) lockOwned(ctx context.Context, q repository.Queries, id int64, actor Actor) (model.Reservation, error) {
	cur, err := q.GetReservationForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Reservation{}, notFoundf("reservation %d not found", id)
		}
		return model.Reservation{}, err
	}
	if !actor.owns(cur) {
		return model.Reservation{}, notFoundf("reservation %d not found", id)
	}
	return cur, nil
}

// refreshAvailability rewrites cars.available from the confirmed set the
// transaction ends with.
func (s *ReservationService) refreshAvailability(ctx context.Context, q repository.Queries, car model.Car, confirmed []model.Reservation) error {
	avail := AvailableOn(confirmed, s.now())
	if avail == car.Available {
		return nil
	}
	return q.SetCarAvailable(ctx, car.ID, avail)
}

func (s *ReservationService) afterCommit(ctx context.Context, ev queue.RentalEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		metrics.EventsPublishFailedTotal.WithLabelValues(ev.Type).Inc()
		s.log.Warn("publish event failed", zap.String("type", ev.Type), zap.Int64("reservation_id", ev.ReservationID), zap.Error(err))
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.log.Warn("invalidate catalog cache failed", zap.Error(err))
	}
}

func pricingChanged(a, b model.Reservation) bool {
	return !a.StartDate.Equal(b.StartDate) || !a.EndDate.Equal(b.EndDate) || a.GPS != b.GPS || a.TollPass != b.TollPass
}

// replaceReservation returns confirmed with r swapped in for the row of
// the same id, or dropped when r is no longer confirmed.
func replaceReservation(confirmed []model.Reservation, r model.Reservation) []model.Reservation {
	out := make([]model.Reservation, 0, len(confirmed)+1)
	found := false
	for _, c := range confirmed {
		if c.ID == r.ID {
			found = true
			if r.Status == model.StatusConfirmed {
				out = append(out, r)
			}
			continue
		}
		out = append(out, c)
	}
	if !found && r.Status == model.StatusConfirmed {
		out = append(out, r)
	}
	return out
}
