package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/queue"
	"github.com/iliyamo/car-rental-booking/internal/repository"
)

// fakeStore keeps rows in maps. InTx holds the mutex for the whole
// transaction, which stands in for the car row lock, and only publishes
// the working copy when fn succeeds.
type fakeStore struct {
	mu           sync.Mutex
	cars         map[int64]model.Car
	reservations map[int64]model.Reservation
	payments     map[int64]model.Payment
	nextRes      int64
	nextPay      int64
	clock        time.Time

	// skipPaymentLookup makes GetPaymentByReservation miss so the unique
	// index backstop in InsertPayment is exercised.
	skipPaymentLookup bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cars:         map[int64]model.Car{},
		reservations: map[int64]model.Reservation{},
		payments:     map[int64]model.Payment{},
		clock:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) addCar(id int64, rate model.Money) {
	s.cars[id] = model.Car{ID: id, Model: "Car", Type: "Sedan", PricePerDay: rate, Available: true}
}

func (s *fakeStore) clone() *fakeStore {
	c := &fakeStore{
		cars:              make(map[int64]model.Car, len(s.cars)),
		reservations:      make(map[int64]model.Reservation, len(s.reservations)),
		payments:          make(map[int64]model.Payment, len(s.payments)),
		nextRes:           s.nextRes,
		nextPay:           s.nextPay,
		clock:             s.clock,
		skipPaymentLookup: s.skipPaymentLookup,
	}
	for k, v := range s.cars {
		c.cars[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

func (s *fakeStore) InTx(ctx context.Context, fn func(q repository.Queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.clone()
	if err := fn(&fakeQueries{st: work}); err != nil {
		return err
	}
	s.cars, s.reservations, s.payments = work.cars, work.reservations, work.payments
	s.nextRes, s.nextPay = work.nextRes, work.nextPay
	return nil
}

func (s *fakeStore) confirmedByCar(carID int64) []model.Reservation {
	out := []model.Reservation{}
	for _, r := range s.reservations {
		if r.CarID == carID && r.Status == model.StatusConfirmed {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

type fakeQueries struct{ st *fakeStore }

func (q *fakeQueries) LockCar(_ context.Context, carID int64) (model.Car, error) {
	c, ok := q.st.cars[carID]
	if !ok {
		return model.Car{}, repository.ErrNotFound
	}
	return c, nil
}

func (q *fakeQueries) SetCarAvailable(_ context.Context, carID int64, available bool) error {
	c := q.st.cars[carID]
	c.Available = available
	q.st.cars[carID] = c
	return nil
}

func (q *fakeQueries) GetReservationForUpdate(_ context.Context, id int64) (model.Reservation, error) {
	r, ok := q.st.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return r, nil
}

func (q *fakeQueries) ListConfirmedByCar(_ context.Context, carID int64) ([]model.Reservation, error) {
	return q.st.confirmedByCar(carID), nil
}

func (q *fakeQueries) InsertReservation(_ context.Context, r *model.Reservation) error {
	q.st.nextRes++
	r.ID = q.st.nextRes
	r.CreatedAt = q.st.clock.Add(time.Duration(r.ID) * time.Second)
	r.UpdatedAt = r.CreatedAt
	q.st.reservations[r.ID] = *r
	return nil
}

func (q *fakeQueries) UpdateReservation(_ context.Context, r *model.Reservation) error {
	if _, ok := q.st.reservations[r.ID]; !ok {
		return repository.ErrNotFound
	}
	r.UpdatedAt = q.st.clock.Add(time.Hour)
	q.st.reservations[r.ID] = *r
	return nil
}

func (q *fakeQueries) GetPaymentByReservation(_ context.Context, reservationID int64) (model.Payment, error) {
	if q.st.skipPaymentLookup {
		return model.Payment{}, repository.ErrNotFound
	}
	for _, p := range q.st.payments {
		if p.ReservationID == reservationID {
			return p, nil
		}
	}
	return model.Payment{}, repository.ErrNotFound
}

func (q *fakeQueries) InsertPayment(_ context.Context, p *model.Payment) error {
	for _, existing := range q.st.payments {
		if existing.ReservationID == p.ReservationID {
			return repository.ErrDuplicate
		}
	}
	q.st.nextPay++
	p.ID = q.st.nextPay
	p.CreatedAt = q.st.clock
	q.st.payments[p.ID] = *p
	return nil
}

type fakeReservationReader struct{ st *fakeStore }

func (r fakeReservationReader) GetByID(_ context.Context, id int64) (model.Reservation, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	res, ok := r.st.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return res, nil
}

func (r fakeReservationReader) List(_ context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := []model.Reservation{}
	for _, res := range r.st.reservations {
		if f.UserID != nil && res.UserID != *f.UserID {
			continue
		}
		if f.CarID != nil && res.CarID != *f.CarID {
			continue
		}
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r fakeReservationReader) ListConfirmedByCar(_ context.Context, carID int64) ([]model.Reservation, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.confirmedByCar(carID), nil
}

func (r fakeReservationReader) ReportRows(_ context.Context, from, to time.Time, userID *int64) ([]model.ReportRow, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := []model.ReportRow{}
	end := to.AddDate(0, 0, 1)
	for _, res := range r.st.reservations {
		if res.Status == model.StatusPending || res.StartDate.Before(from) || !res.StartDate.Before(end) {
			continue
		}
		if userID != nil && res.UserID != *userID {
			continue
		}
		car := r.st.cars[res.CarID]
		out = append(out, model.ReportRow{Reservation: res, CarType: car.Type, CarModel: car.Model})
	}
	return out, nil
}

type fakeCarReader struct{ st *fakeStore }

func (c fakeCarReader) GetByID(_ context.Context, id int64) (model.Car, error) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	car, ok := c.st.cars[id]
	if !ok {
		return model.Car{}, repository.ErrNotFound
	}
	return car, nil
}

type fakePaymentReader struct{ st *fakeStore }

func (p fakePaymentReader) List(_ context.Context, f model.PaymentFilter) ([]model.Payment, error) {
	p.st.mu.Lock()
	defer p.st.mu.Unlock()
	out := []model.Payment{}
	for _, pay := range p.st.payments {
		if f.UserID != nil && pay.UserID != *f.UserID {
			continue
		}
		if f.ReservationID != nil && pay.ReservationID != *f.ReservationID {
			continue
		}
		out = append(out, pay)
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.RentalEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.RentalEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) InvalidateCatalog(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}
