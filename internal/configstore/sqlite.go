package configstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore implements the property store on the instance_properties table.
// Each write is a single upsert, so single-key writes are atomic.
type SQLiteStore struct {
	hooks
	db *sql.DB
}

// NewSQLiteStore creates a store on an open, migrated SQLite connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// RegisterProperty inserts key with defaultValue unless it already exists.
func (s *SQLiteStore) RegisterProperty(ctx context.Context, owner, key, defaultValue string) error {
	if err := validKey(owner, key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO instance_properties (owner_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner_id, key) DO NOTHING`,
		owner, key, defaultValue, now(),
	)
	if err != nil {
		return fmt.Errorf("registering property %s: %w", key, err)
	}
	return nil
}

// Property returns the raw value of key.
// Returns ErrPropertyNotFound if the key does not exist.
func (s *SQLiteStore) Property(ctx context.Context, owner, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM instance_properties WHERE owner_id = ? AND key = ?",
		owner, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", ErrPropertyNotFound, owner, key)
		}
		return nil, fmt.Errorf("reading property %s: %w", key, err)
	}
	return []byte(value), nil
}

// SetProperty stores value under key, creating the key if needed.
func (s *SQLiteStore) SetProperty(ctx context.Context, owner, key string, value []byte) error {
	if err := validKey(owner, key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO instance_properties (owner_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		owner, key, string(value), now(),
	)
	if err != nil {
		return fmt.Errorf("writing property %s: %w", key, err)
	}
	return nil
}

// Keys returns the property keys of owner in key order.
func (s *SQLiteStore) Keys(ctx context.Context, owner string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM instance_properties WHERE owner_id = ? ORDER BY key",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning property key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}
	return keys, nil
}

// ApplyChanges runs the apply hooks for owner.
func (s *SQLiteStore) ApplyChanges(ctx context.Context, owner string) error {
	return s.run(ctx, owner)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
