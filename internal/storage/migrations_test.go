package storage

import (
	"context"
	"testing"

	"omninews/internal/core"
)

func openTestDatabase(t *testing.T) *core.Database {
	t.Helper()
	db, err := core.OpenDatabase(":memory:", core.NopLogger())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStorageMigrations(t *testing.T) {
	db := openTestDatabase(t)
	manager := NewManager(db, core.NopLogger())
	ctx := context.Background()

	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to query migrations table: %v", err)
	}
	if count != len(manager.Migrations()) {
		t.Errorf("Expected %d migrations, got %d", len(manager.Migrations()), count)
	}

	var tableCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='local_storage'").Scan(&tableCount); err != nil {
		t.Fatalf("Failed to check table: %v", err)
	}
	if tableCount != 1 {
		t.Errorf("Table local_storage was not created")
	}

	// Migrations are idempotent
	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to re-apply migrations: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to query migrations table: %v", err)
	}
	if count != len(manager.Migrations()) {
		t.Errorf("Expected %d migrations after re-apply, got %d", len(manager.Migrations()), count)
	}

	pending, err := manager.Pending(ctx)
	if err != nil {
		t.Fatalf("Failed to list pending migrations: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending migrations, got %d", len(pending))
	}
}

func TestStorageMigrationRollback(t *testing.T) {
	db := openTestDatabase(t)
	manager := NewManager(db, core.NopLogger())
	ctx := context.Background()

	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	if err := manager.Rollback(ctx); err != nil {
		t.Fatalf("Failed to rollback migrations: %v", err)
	}

	var tableCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='local_storage'").Scan(&tableCount); err != nil {
		t.Fatalf("Failed to check table: %v", err)
	}
	if tableCount != 0 {
		t.Errorf("Table local_storage was not removed during rollback")
	}

	if err := manager.Rollback(ctx); err == nil {
		t.Errorf("Expected error rolling back with nothing applied")
	}
}
