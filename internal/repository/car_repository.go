package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

const carColumns = "id, model, type, price_per_day, available, location_id, image_url"

// CarRepo reads the catalog and maintains the availability hint.
type CarRepo struct{ db *sqlx.DB }

func NewCarRepo(db *sqlx.DB) *CarRepo { return &CarRepo{db: db} }

// BuildCarQuery renders the catalog listing query for f. Results are
// cheapest first, ties broken by id.
func BuildCarQuery(f model.CarFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.MinPrice != nil {
		where = append(where, "price_per_day >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price_per_day <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.LocationID != nil {
		where = append(where, "location_id = ?")
		args = append(args, *f.LocationID)
	}
	q := "SELECT " + carColumns + " FROM cars"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY price_per_day ASC, id ASC"
	return q, args
}

// List returns cars matching f.
func (r *CarRepo) List(ctx context.Context, f model.CarFilter) ([]model.Car, error) {
	q, args := BuildCarQuery(f)
	cars := []model.Car{}
	if err := r.db.SelectContext(ctx, &cars, q, args...); err != nil {
		return nil, translate(err, "list cars")
	}
	return cars, nil
}

// GetByID returns a single car or ErrNotFound.
func (r *CarRepo) GetByID(ctx context.Context, id int64) (model.Car, error) {
	var c model.Car
	err := r.db.GetContext(ctx, &c, "SELECT "+carColumns+" FROM cars WHERE id = ?", id)
	return c, translate(err, "get car")
}

// LockTx loads the car row with an exclusive lock held until tx ends.
// Competing bookings of the same car serialize here.
func (r *CarRepo) LockTx(ctx context.Context, tx *sqlx.Tx, id int64) (model.Car, error) {
	var c model.Car
	err := tx.GetContext(ctx, &c, "SELECT "+carColumns+" FROM cars WHERE id = ? FOR UPDATE", id)
	return c, translate(err, "lock car")
}

// SetAvailableTx writes the availability hint.
func (r *CarRepo) SetAvailableTx(ctx context.Context, tx *sqlx.Tx, id int64, available bool) error {
	_, err := tx.ExecContext(ctx, "UPDATE cars SET available = ? WHERE id = ?", available, id)
	return translate(err, "set car availability")
}
