package variable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore persists variables in the variables table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store on an open, migrated SQLite connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Define creates the variable if it does not exist. It reports whether it was created.
func (s *SQLiteStore) Define(ctx context.Context, id string, kind Kind, value any) (bool, error) {
	v, err := newVariable(id, kind, value)
	if err != nil {
		return false, err
	}
	raw, err := encodeValue(v.Value)
	if err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO variables (id, kind, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		id, string(kind), raw, v.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("defining variable %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("defining variable %s: %w", id, err)
	}
	return n > 0, nil
}

// Get returns the variable.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Variable, error) {
	var (
		kind, raw, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT kind, value, updated_at FROM variables WHERE id = ?", id,
	).Scan(&kind, &raw, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Variable{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Variable{}, fmt.Errorf("reading variable %s: %w", id, err)
	}

	value, err := decodeValue(Kind(kind), raw)
	if err != nil {
		return Variable{}, fmt.Errorf("variable %s: %w", id, err)
	}
	// Parse timestamp - format is controlled by us
	ts, _ := time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // Format is controlled

	return Variable{ID: id, Kind: Kind(kind), Value: value, UpdatedAt: ts}, nil
}

// Set coerces value to the variable's kind and stores it.
func (s *SQLiteStore) Set(ctx context.Context, id string, value any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	var kind string
	err = tx.QueryRowContext(ctx, "SELECT kind FROM variables WHERE id = ?", id).Scan(&kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("reading variable %s: %w", id, err)
	}

	coerced, err := Coerce(Kind(kind), value)
	if err != nil {
		return fmt.Errorf("variable %s: %w", id, err)
	}
	raw, err := encodeValue(coerced)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE variables SET value = ?, updated_at = ? WHERE id = ?",
		raw, time.Now().UTC().Format(time.RFC3339), id,
	); err != nil {
		return fmt.Errorf("writing variable %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing variable %s: %w", id, err)
	}
	return nil
}
