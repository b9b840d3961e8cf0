package datasources

import (
	"fmt"

	"gorm.io/gorm"

	"merchant-connect.backend/internal/config"
	"merchant-connect.backend/internal/infrastructure/datasources/postgres"
	"merchant-connect.backend/internal/infrastructure/datasources/sqlite"
	"merchant-connect.backend/internal/infrastructure/models"
)

var (
	openPostgres = postgres.Open
	openSQLite   = sqlite.Open
)

// Open connects to the database named by cfg and migrates the schema
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver() {
	case "postgres":
		db, err = openPostgres(cfg.URL)
	default:
		db, err = openSQLite(cfg.SQLitePath())
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables backing the models
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AutoMigrateModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
