// Package dbtest starts a throwaway Postgres container for package tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/database"
)

var (
	once    sync.Once
	shared  database.Service
	initErr error
)

// New returns a migrated database with every table emptied. The container is
// started on first use and shared by all tests in the package.
func New(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		ctx := context.Background()
		container, err := postgres.Run(ctx, "postgres:16-alpine",
			postgres.WithDatabase("foraging_link"),
			postgres.WithUsername("forager"),
			postgres.WithPassword("forager"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			initErr = err
			return
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			initErr = err
			return
		}

		shared, initErr = database.Open(dsn, slog.New(slog.NewTextHandler(io.Discard, nil)))
		if initErr != nil {
			return
		}
		initErr = shared.Migrate(ctx)
	})
	if initErr != nil {
		t.Fatalf("failed to start test database: %v", initErr)
	}

	db := shared.GetDB()
	if err := truncate(db); err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}
	return db
}

func truncate(db *gorm.DB) error {
	var tables []string
	stmt := &gorm.Statement{DB: db}
	for _, m := range database.Models() {
		if err := stmt.Parse(m); err != nil {
			return err
		}
		tables = append(tables, stmt.Schema.Table)
	}
	return db.Exec("TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE").Error
}

// Service is New for tests that need the database.Service wrapper. Callers must not Close it.
func Service(t *testing.T) database.Service {
	t.Helper()
	New(t)
	return shared
}
