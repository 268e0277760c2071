package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/car-rental-booking/internal/model"
)

type LocationRepo struct{ db *sqlx.DB }

func NewLocationRepo(db *sqlx.DB) *LocationRepo { return &LocationRepo{db: db} }

// Search returns locations whose name contains query, case-insensitively,
// ordered by name. An empty query lists everything.
func (r *LocationRepo) Search(ctx context.Context, query string) ([]model.Location, error) {
	locs := []model.Location{}
	query = strings.TrimSpace(query)
	var err error
	if query == "" {
		err = r.db.SelectContext(ctx, &locs, "SELECT id, name FROM locations ORDER BY name")
	} else {
		err = r.db.SelectContext(ctx, &locs,
			"SELECT id, name FROM locations WHERE LOWER(name) LIKE ? ORDER BY name",
			"%"+escapeLike(strings.ToLower(query))+"%")
	}
	if err != nil {
		return nil, translate(err, "search locations")
	}
	return locs, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
