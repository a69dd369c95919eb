package storage

import (
	"context"
	"fmt"

	"omninews/internal/core"
)

// Migration001CreateLocalStorage creates the key/value table
var Migration001CreateLocalStorage = core.Migration{
	Version:     1,
	Name:        "create_local_storage",
	Description: "Create the sealed key/value table",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS local_storage (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`,
	DownSQL: `
		DROP TABLE IF EXISTS local_storage;
	`,
}

// Manager handles local storage migrations
type Manager struct {
	migrationService *core.MigrationService
	logger           *core.Logger
}

// NewManager creates a new storage migration manager
func NewManager(db *core.Database, logger *core.Logger) *Manager {
	return &Manager{
		migrationService: core.NewMigrationService(db, logger),
		logger:           logger,
	}
}

// Migrations returns all storage migrations in order
func (m *Manager) Migrations() []core.Migration {
	return []core.Migration{
		Migration001CreateLocalStorage,
	}
}

// Migrate applies all pending migrations
func (m *Manager) Migrate(ctx context.Context) error {
	if err := m.migrationService.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	for _, migration := range m.Migrations() {
		if err := m.migrationService.ApplyMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	m.logger.Debug("Storage migrations completed")
	return nil
}

// Rollback rolls back the most recently applied storage migration
func (m *Manager) Rollback(ctx context.Context) error {
	if err := m.migrationService.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	applied, err := m.migrationService.GetAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	var last *core.Migration
	for _, a := range applied {
		for _, migration := range m.Migrations() {
			if a.Version == migration.Version {
				migration := migration
				last = &migration
			}
		}
	}
	if last == nil {
		return fmt.Errorf("no storage migrations have been applied")
	}

	return m.migrationService.RollbackMigration(ctx, *last)
}

// Pending returns migrations that haven't been applied yet
func (m *Manager) Pending(ctx context.Context) ([]core.Migration, error) {
	applied, err := m.migrationService.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	done := make(map[int]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
	}

	var pending []core.Migration
	for _, migration := range m.Migrations() {
		if !done[migration.Version] {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}
