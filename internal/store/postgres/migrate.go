package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"todoTracker/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrator(connString string) (*migrate.Migrate, *sql.DB, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("чтение миграций: %w", err)
	}

	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, nil, fmt.Errorf("подключение для миграций: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("драйвер миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("создание мигратора: %w", err)
	}
	return m, db, nil
}

// Migrate применяет все миграции из migrations/
func Migrate(connString string) error {
	logger.Info("Store: Применение миграций")

	m, db, err := newMigrator(connString)
	if err != nil {
		logger.Error("Store: Ошибка подготовки миграций", err)
		return err
	}
	defer db.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Store: Ошибка применения миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Store: Миграции применены")
	return nil
}

// Down откатывает все миграции
func Down(connString string) error {
	logger.Info("Store: Откат миграций")

	m, db, err := newMigrator(connString)
	if err != nil {
		logger.Error("Store: Ошибка подготовки миграций", err)
		return err
	}
	defer db.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Store: Ошибка отката миграций", err)
		return fmt.Errorf("откат миграций: %w", err)
	}

	logger.Info("Store: Миграции откачены")
	return nil
}
