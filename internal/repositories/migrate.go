package repository

import (
	"errors"
	"fmt"

	"github.com/foodcourt-labs/order-platform/internal/config"
	"github.com/golang-migrate/migrate/v4"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies pending schema migrations, including the trigger that feeds
// the orders change channel.
func Migrate(cfg *config.Config) error {

	m, err := migrate.New("file://"+cfg.Database.MigrationsPath, cfg.Database.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
