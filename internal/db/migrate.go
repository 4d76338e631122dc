package db

import (
	"fmt"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cpuescu-ui/pontaje-app/internal/config"
	"github.com/cpuescu-ui/pontaje-app/internal/models"
)

// ConnectAndMigrate opens the configured database and brings the schema up to
// date. Postgres URLs get a retry loop (container startup races); anything
// else falls back to a local sqlite file. With MIGRATIONS=1 the SQL
// migrations in ./migrations run via golang-migrate, otherwise AutoMigrate
// covers the dev loop.
func ConnectAndMigrate(rawURL string) (*gorm.DB, error) {
	u := NormalizeURL(rawURL)

	logLevel := logger.Silent
	if config.ParseBool("DB_DEBUG", false) {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var (
		db  *gorm.DB
		err error
	)
	if IsPostgres(u) {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(u), cfg)
			if err == nil {
				break
			}
			fmt.Println("Retrying DB connection...", err)
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect database after retries: %w", err)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(SQLitePath(u)), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if config.ParseBool("MIGRATIONS", false) {
		if !IsPostgres(u) {
			return nil, fmt.Errorf("MIGRATIONS=1 requires a postgres DATABASE_URL")
		}
		if err := runSQLMigrations(u); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// AutoMigrate creates or updates tables for every model.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range []interface{}{
		&models.User{}, &models.CompanyProfile{}, &models.Client{}, &models.Job{},
		&models.Timesheet{}, &models.Expense{}, &models.Payment{},
		&models.Invoice{}, &models.InvoiceLine{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
