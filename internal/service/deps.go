package service

import (
	"context"
	"time"

	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/repository"
)

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(q repository.Queries) error) error
}

// ReservationReader serves lock-free reservation reads.
type ReservationReader interface {
	GetByID(ctx context.Context, id int64) (model.Reservation, error)
	List(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error)
	ListConfirmedByCar(ctx context.Context, carID int64) ([]model.Reservation, error)
	ReportRows(ctx context.Context, from, to time.Time, userID *int64) ([]model.ReportRow, error)
}

// CarReader serves lock-free catalog reads.
type CarReader interface {
	GetByID(ctx context.Context, id int64) (model.Car, error)
}

// PaymentReader lists payments.
type PaymentReader interface {
	List(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error)
}

// CacheInvalidator drops cached catalog responses after the availability
// hint may have changed.
type CacheInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateCatalog(context.Context) error { return nil }

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// owns reports whether a may see and modify r. Admins see everything.
func (a Actor) owns(r model.Reservation) bool { return a.IsAdmin() || r.UserID == a.UserID }
