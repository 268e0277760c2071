package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

const paymentColumns = "id, reservation_id, user_id, amount, method, card_last4, status, created_at"

type PaymentRepo struct{ db *sqlx.DB }

func NewPaymentRepo(db *sqlx.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// List returns payments matching f, newest first.
func (r *PaymentRepo) List(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.ReservationID != nil {
		where = append(where, "reservation_id = ?")
		args = append(args, *f.ReservationID)
	}
	q := "SELECT " + paymentColumns + " FROM payments"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"
	out := []model.Payment{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, translate(err, "list payments")
	}
	return out, nil
}

// GetByReservationTx returns the payment of a reservation or ErrNotFound.
func (r *PaymentRepo) GetByReservationTx(ctx context.Context, tx *sqlx.Tx, reservationID int64) (model.Payment, error) {
	var p model.Payment
	err := tx.GetContext(ctx, &p,
		"SELECT "+paymentColumns+" FROM payments WHERE reservation_id = ? LIMIT 1", reservationID)
	return p, translate(err, "get payment")
}

// CreateTx inserts p and reloads it. A second payment for the same
// reservation hits the unique index and returns ErrDuplicate.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, p *model.Payment) error {
	out, err := tx.ExecContext(ctx,
		"INSERT INTO payments (reservation_id, user_id, amount, method, card_last4, status) VALUES (?,?,?,?,?,?)",
		p.ReservationID, p.UserID, p.Amount, p.Method, p.CardLast4, p.Status)
	if err != nil {
		return translate(err, "insert payment")
	}
	id, err := out.LastInsertId()
	if err != nil {
		return translate(err, "insert payment id")
	}
	return translate(tx.GetContext(ctx, p, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", id), "reload payment")
}
