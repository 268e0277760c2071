package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

// Queries is the set of statements a booking or payment runs inside one
// transaction.
type Queries interface {
	LockCar(ctx context.Context, carID int64) (model.Car, error)
	SetCarAvailable(ctx context.Context, carID int64, available bool) error
	GetReservationForUpdate(ctx context.Context, id int64) (model.Reservation, error)
	ListConfirmedByCar(ctx context.Context, carID int64) ([]model.Reservation, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	GetPaymentByReservation(ctx context.Context, reservationID int64) (model.Payment, error)
	InsertPayment(ctx context.Context, p *model.Payment) error
}

// Store runs Queries inside a database transaction.
type Store struct {
	db           *sqlx.DB
	cars         *CarRepo
	reservations *ReservationRepo
	payments     *PaymentRepo
}

func NewStore(db *sqlx.DB, cars *CarRepo, reservations *ReservationRepo, payments *PaymentRepo) *Store {
	return &Store{db: db, cars: cars, reservations: reservations, payments: payments}
}

// InTx begins a transaction, hands fn a Queries bound to it and commits
// when fn returns nil. Any error rolls everything back.
func (s *Store) InTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&txQueries{tx: tx, s: s}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	committed = true
	return nil
}

type txQueries struct {
	tx *sqlx.Tx
	s  *Store
}

func (q *txQueries) LockCar(ctx context.Context, carID int64) (model.Car, error) {
	return q.s.cars.LockTx(ctx, q.tx, carID)
}

func (q *txQueries) SetCarAvailable(ctx context.Context, carID int64, available bool) error {
	return q.s.cars.SetAvailableTx(ctx, q.tx, carID, available)
}

func (q *txQueries) GetReservationForUpdate(ctx context.Context, id int64) (model.Reservation, error) {
	return q.s.reservations.GetForUpdateTx(ctx, q.tx, id)
}

func (q *txQueries) ListConfirmedByCar(ctx context.Context, carID int64) ([]model.Reservation, error) {
	return q.s.reservations.ListConfirmedByCarTx(ctx, q.tx, carID)
}

func (q *txQueries) InsertReservation(ctx context.Context, r *model.Reservation) error {
	return q.s.reservations.CreateTx(ctx, q.tx, r)
}

func (q *txQueries) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	return q.s.reservations.UpdateTx(ctx, q.tx, r)
}

func (q *txQueries) GetPaymentByReservation(ctx context.Context, reservationID int64) (model.Payment, error) {
	return q.s.payments.GetByReservationTx(ctx, q.tx, reservationID)
}

func (q *txQueries) InsertPayment(ctx context.Context, p *model.Payment) error {
	return q.s.payments.CreateTx(ctx, q.tx, p)
}
