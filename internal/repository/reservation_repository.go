package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

const reservationColumns = "id, car_id, user_id, start_date, end_date, total_price, status, gps, toll_pass, created_at, updated_at"

// ReservationRepo stores reservations. Writes happen only through the
// ...Tx methods so they share the transaction holding the car lock.
type ReservationRepo struct{ db *sqlx.DB }

func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// GetByID returns a reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id int64) (model.Reservation, error) {
	var res model.Reservation
	err := r.db.GetContext(ctx, &res, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id)
	return res, translate(err, "get reservation")
}

// List returns reservations matching f, newest first.
func (r *ReservationRepo) List(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.CarID != nil {
		where = append(where, "car_id = ?")
		args = append(args, *f.CarID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	q := "SELECT " + reservationColumns + " FROM reservations"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"
	out := []model.Reservation{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, translate(err, "list reservations")
	}
	return out, nil
}

// ListConfirmedByCar returns the confirmed reservations of a car without
// locking. Used for read-only availability answers.
func (r *ReservationRepo) ListConfirmedByCar(ctx context.Context, carID int64) ([]model.Reservation, error) {
	out := []model.Reservation{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT "+reservationColumns+" FROM reservations WHERE car_id = ? AND status = ? ORDER BY start_date",
		carID, model.StatusConfirmed)
	if err != nil {
		return nil, translate(err, "list confirmed reservations")
	}
	return out, nil
}

// ReportRows returns non-pending reservations starting on a day in
// [from, to], joined with their car's type and model.
func (r *ReservationRepo) ReportRows(ctx context.Context, from, to time.Time, userID *int64) ([]model.ReportRow, error) {
	q := `SELECT r.id, r.car_id, r.user_id, r.start_date, r.end_date, r.total_price, r.status,
	             r.gps, r.toll_pass, r.created_at, r.updated_at,
	             c.type AS car_type, c.model AS car_model
	      FROM reservations r
	      JOIN cars c ON c.id = r.car_id
	      WHERE r.status <> ? AND r.start_date >= ? AND r.start_date < ?`
	args := []any{model.StatusPending, from, to.AddDate(0, 0, 1)}
	if userID != nil {
		q += " AND r.user_id = ?"
		args = append(args, *userID)
	}
	q += " ORDER BY r.start_date, r.id"
	rows := []model.ReportRow{}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, translate(err, "report rows")
	}
	return rows, nil
}

// GetForUpdateTx loads a reservation and locks its row.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (model.Reservation, error) {
	var res model.Reservation
	err := tx.GetContext(ctx, &res, "SELECT "+reservationColumns+" FROM reservations WHERE id = ? FOR UPDATE", id)
	return res, translate(err, "lock reservation")
}

// ListConfirmedByCarTx is ListConfirmedByCar inside tx. The caller must
// already hold the car lock.
func (r *ReservationRepo) ListConfirmedByCarTx(ctx context.Context, tx *sqlx.Tx, carID int64) ([]model.Reservation, error) {
	out := []model.Reservation{}
	err := tx.SelectContext(ctx, &out,
		"SELECT "+reservationColumns+" FROM reservations WHERE car_id = ? AND status = ? ORDER BY start_date",
		carID, model.StatusConfirmed)
	if err != nil {
		return nil, translate(err, "list confirmed reservations")
	}
	return out, nil
}

// CreateTx inserts res and reloads it so timestamps are filled in.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, res *model.Reservation) error {
	out, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (car_id, user_id, start_date, end_date, total_price, status, gps, toll_pass)
		 VALUES (?,?,?,?,?,?,?,?)`,
		res.CarID, res.UserID, res.StartDate, res.EndDate, res.TotalPrice, res.Status, res.GPS, res.TollPass)
	if err != nil {
		return translate(err, "insert reservation")
	}
	id, err := out.LastInsertId()
	if err != nil {
		return translate(err, "insert reservation id")
	}
	return translate(tx.GetContext(ctx, res, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id), "reload reservation")
}

// UpdateTx writes dates, add-ons, price and status of res and reloads it.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sqlx.Tx, res *model.Reservation) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations
		 SET start_date = ?, end_date = ?, total_price = ?, status = ?, gps = ?, toll_pass = ?, updated_at = UTC_TIMESTAMP()
		 WHERE id = ?`,
		res.StartDate, res.EndDate, res.TotalPrice, res.Status, res.GPS, res.TollPass, res.ID)
	if err != nil {
		return translate(err, "update reservation")
	}
	return translate(tx.GetContext(ctx, res, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", res.ID), "reload reservation")
}
