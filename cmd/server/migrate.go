package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/iliyamo/car-rental-booking/internal/database"
	"github.com/iliyamo/car-rental-booking/internal/logger"
	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/repository"
)

func migrateUp(c *cli.Context) error {
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()
	defer logger.Sync()

	if err := database.MigrateUp(db); err != nil {
		return errors.Wrap(err, "migrate up")
	}
	logger.L().Info("migrations applied")
	return nil
}

func migrateDown(c *cli.Context) error {
	steps := c.Int("steps")
	if steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()
	defer logger.Sync()

	if err := database.MigrateDown(db, steps); err != nil {
		return errors.Wrap(err, "migrate down")
	}
	logger.L().Info("migrations rolled back", zap.Int("steps", steps))
	return nil
}

func migrateVersion(c *cli.Context) error {
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	v, dirty, err := database.Version(db)
	if err != nil {
		return errors.Wrap(err, "read schema version")
	}
	fmt.Fprintf(c.App.Writer, "version=%d dirty=%t\n", v, dirty)
	return nil
}

func createAdmin(c *cli.Context) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()
	defer logger.Sync()

	users := repository.NewUserRepo(db)
	u, err := ensureAdmin(c.Context, users, c.String("username"), c.String("password"), cfg.BcryptCost)
	if err != nil {
		return err
	}
	logger.L().Info("admin ready", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return nil
}

type adminStore interface {
	Create(ctx context.Context, username, password, role string, cost int) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	SetRole(ctx context.Context, id int64, role string) error
}

// ensureAdmin creates username as ADMIN. An existing user keeps its
// password and is promoted.
func ensureAdmin(ctx context.Context, users adminStore, username, password string, cost int) (model.User, error) {
	u, err := users.Create(ctx, username, password, model.RoleAdmin, cost)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return model.User{}, errors.Wrap(err, "create admin")
	}
	u, err = users.GetByUsername(ctx, username)
	if err != nil {
		return model.User{}, errors.Wrap(err, "load existing user")
	}
	if u.Role == model.RoleAdmin {
		return u, nil
	}
	if err := users.SetRole(ctx, u.ID, model.RoleAdmin); err != nil {
		return model.User{}, errors.Wrap(err, "promote user")
	}
	u.Role = model.RoleAdmin
	return u, nil
}
