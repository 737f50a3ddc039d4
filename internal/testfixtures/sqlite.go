package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/maintenance-tracker/internal/persistence"
	"github.com/example/maintenance-tracker/internal/persistence/sqlite"
)

// StorageHarness provides repository access backed by a freshly initialised
// store for integration-style persistence tests.
type StorageHarness struct {
	Offices  persistence.OfficeRepository
	Events   persistence.EventRepository
	Users    persistence.UserRepository
	Sessions persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *StorageHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a StorageHarness over a private in-memory SQLite
// database that is migrated automatically. A cleanup callback is registered
// with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *StorageHarness {
	tb.Helper()

	pool, err := sqlite.OpenPool(":memory:")
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &StorageHarness{
		Offices:  sqlite.NewOfficeRepository(pool),
		Events:   sqlite.NewEventRepository(pool, time.UTC),
		Users:    sqlite.NewUserRepository(pool),
		Sessions: sqlite.NewSessionRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// NewMemoryHarness constructs a StorageHarness over the map-backed store.
func NewMemoryHarness(tb testing.TB) *StorageHarness {
	tb.Helper()

	storage := sqlite.NewStorage(time.UTC)
	harness := &StorageHarness{
		Offices:  storage,
		Events:   storage,
		Users:    storage,
		Sessions: storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedCatalog loads the default office catalog into the harness.
func (h *StorageHarness) SeedCatalog(tb testing.TB) {
	tb.Helper()

	if err := h.Offices.SeedOffices(context.Background(), CatalogFixture()); err != nil {
		tb.Fatalf("failed to seed office catalog: %v", err)
	}
}
