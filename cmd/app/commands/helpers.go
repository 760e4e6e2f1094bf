// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/mutchinick/ecomm-workers/internal/app"
	"github.com/mutchinick/ecomm-workers/internal/database"
)

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// migrationsSource returns the migrations directory of a driver.
func migrationsSource(driver string) string {
	if driver == database.DriverMySQL {
		return "file://migrations/mysql"
	}
	return "file://migrations/postgresql"
}

// migrationsDatabaseURL turns a driver DSN into the URL golang-migrate expects. MySQL DSNs
// have no scheme of their own.
func migrationsDatabaseURL(driver, connectionString string) string {
	if driver == database.DriverMySQL && !strings.HasPrefix(connectionString, "mysql://") {
		return "mysql://" + connectionString
	}
	return connectionString
}
