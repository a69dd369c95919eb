package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"omninews/internal/core"
)

// SQLiteStore keeps items in the local_storage table. Values are sealed
// with the configured secret; a value that no longer opens (secret rotated)
// reads as missing.
type SQLiteStore struct {
	db     *core.Database
	sealer *sealer
	logger *core.Logger
}

// NewSQLiteStore runs the storage migrations and returns a store backed by db
func NewSQLiteStore(ctx context.Context, db *core.Database, secret string, logger *core.Logger) (*SQLiteStore, error) {
	s, err := newSealer(secret)
	if err != nil {
		return nil, core.NewConfigurationError("invalid storage secret", err)
	}

	if err := NewManager(db, logger).Migrate(ctx); err != nil {
		return nil, core.NewDatabaseError("failed to migrate local storage", err)
	}

	return &SQLiteStore{
		db:     db,
		sealer: s,
		logger: logger.ForFeature("storage"),
	}, nil
}

func (s *SQLiteStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var sealed string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, core.NewDatabaseError(fmt.Sprintf("failed to read %s", key), err)
	}

	value, err := s.sealer.open(sealed)
	if err != nil {
		s.logger.Warn("Discarding unreadable storage value", "key", key, "error", err)
		return "", false, nil
	}
	return value, true, nil
}

func (s *SQLiteStore) SetItem(ctx context.Context, key, value string) error {
	sealed, err := s.sealer.seal(value)
	if err != nil {
		return core.NewInternalError("failed to seal value", err)
	}

	_, err = s.db.ExecWithTimeout(ctx, `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, sealed)
	if err != nil {
		return core.NewDatabaseError(fmt.Sprintf("failed to write %s", key), err)
	}
	return nil
}

func (s *SQLiteStore) RemoveItem(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
				return core.NewDatabaseError(fmt.Sprintf("failed to remove %s", key), err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecWithTimeout(ctx, `DELETE FROM local_storage`); err != nil {
		return core.NewDatabaseError("failed to clear local storage", err)
	}
	s.logger.Info("Cleared local storage")
	return nil
}
