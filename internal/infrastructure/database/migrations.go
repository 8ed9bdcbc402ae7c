package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"time"
)

// migrationFile matches YYYYMMDD_HHMMSS_description.(up|down).sql.
var migrationFile = regexp.MustCompile(`^(\d{8}_\d{6})_([a-z0-9_]+)\.(up|down)\.sql$`)

// migrationSource holds the registered migration files.
var migrationSource struct {
	fsys fs.FS
	dir  string
}

// RegisterMigrations sets where Migrate, Rollback and Status read migration
// files from. The migrations package calls it from init with its embedded
// files; tests point it at testdata.
func RegisterMigrations(fsys fs.FS, dir string) {
	migrationSource.fsys = fsys
	migrationSource.dir = dir
}

// Migration is one versioned schema change.
type Migration struct {
	Version string // YYYYMMDD_HHMMSS
	Name    string
	Up      string
	Down    string
}

// MigrationState is a migration with whether and when it was applied.
// Missing is set for versions recorded in the database but no longer shipped.
type MigrationState struct {
	Migration
	Applied   bool
	AppliedAt time.Time
	Missing   bool
}

// Migrate applies every pending migration, oldest first, each in its own
// transaction, and returns how many were applied. A failure leaves earlier
// migrations committed; running Migrate again resumes at the failed one.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	states, err := db.Status(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, st := range states {
		if st.Applied || st.Missing {
			continue
		}
		if err := db.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, st.Up); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				st.Version, time.Now().UTC().Format(time.RFC3339))
			return err
		}); err != nil {
			return n, fmt.Errorf("applying migration %s (%s): %w", st.Version, st.Name, err)
		}
		n++
	}
	return n, nil
}

// Rollback reverts up to steps applied migrations, newest first, and returns
// the reverted versions. It stops with an error at a migration that is not
// shipped or has no down file.
func (db *DB) Rollback(ctx context.Context, steps int) ([]string, error) {
	if steps < 1 {
		return nil, fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	states, err := db.Status(ctx)
	if err != nil {
		return nil, err
	}

	var reverted []string
	for i := len(states) - 1; i >= 0 && len(reverted) < steps; i-- {
		st := states[i]
		if !st.Applied {
			continue
		}
		if st.Missing {
			return reverted, fmt.Errorf("migration %s is applied but not shipped", st.Version)
		}
		if st.Down == "" {
			return reverted, fmt.Errorf("migration %s (%s) has no down file", st.Version, st.Name)
		}
		if err := db.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, st.Down); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", st.Version)
			return err
		}); err != nil {
			return reverted, fmt.Errorf("reverting migration %s (%s): %w", st.Version, st.Name, err)
		}
		reverted = append(reverted, st.Version)
	}
	return reverted, nil
}

// Status lists every shipped migration, plus applied versions that are no
// longer shipped, in version order.
func (db *DB) Status(ctx context.Context) ([]MigrationState, error) {
	shipped, err := loadMigrations()
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}
	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	states := make([]MigrationState, 0, len(shipped))
	for _, m := range shipped {
		st := MigrationState{Migration: m}
		if at, ok := applied[m.Version]; ok {
			st.Applied, st.AppliedAt = true, at
			delete(applied, m.Version)
		}
		states = append(states, st)
	}
	for version, at := range applied {
		states = append(states, MigrationState{
			Migration: Migration{Version: version},
			Applied:   true,
			AppliedAt: at,
			Missing:   true,
		})
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Version < states[j].Version })
	return states, nil
}

// SchemaVersion returns the newest applied version, "" before the first migration.
func (db *DB) SchemaVersion(ctx context.Context) (string, error) {
	if err := db.ensureMigrationsTable(ctx); err != nil {
		return "", err
	}
	var version sql.NullString
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return "", fmt.Errorf("querying schema version: %w", err)
	}
	return version.String, nil
}

func (db *DB) ensureMigrationsTable(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}
	return nil
}

// appliedMigrations maps applied versions to when they were applied.
func (db *DB) appliedMigrations(ctx context.Context) (map[string]time.Time, error) {
	if err := db.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("querying migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]time.Time)
	for rows.Next() {
		var version, at string
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("scanning migration row: %w", err)
		}
		applied[version], _ = time.Parse(time.RFC3339, at) //nolint:errcheck // written by Migrate in RFC3339
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating migrations: %w", err)
	}
	return applied, nil
}

func (db *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// loadMigrations reads the registered migration files. Files not matching
// the naming scheme are ignored; a down file without an up file and two up
// files sharing a version are errors.
func loadMigrations() ([]Migration, error) {
	if migrationSource.fsys == nil {
		return nil, nil
	}
	entries, err := fs.ReadDir(migrationSource.fsys, migrationSource.dir)
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]*Migration)
	downs := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, up, ok := parseMigrationFilename(e.Name())
		if !ok {
			continue
		}
		body, err := fs.ReadFile(migrationSource.fsys, path.Join(migrationSource.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		if !up {
			downs[version] = string(body)
			continue
		}
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("version %s is used by %s and %s", version, prev.Name, name)
		}
		byVersion[version] = &Migration{Version: version, Name: name, Up: string(body)}
	}

	out := make([]Migration, 0, len(byVersion))
	for version, down := range downs {
		m, ok := byVersion[version]
		if !ok {
			return nil, fmt.Errorf("down migration %s has no up file", version)
		}
		m.Down = down
	}
	for _, m := range byVersion {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// parseMigrationFilename splits "20260301_120000_variables.up.sql" into its
// version, name and direction.
func parseMigrationFilename(filename string) (version, name string, up, ok bool) {
	m := migrationFile.FindStringSubmatch(filename)
	if m == nil {
		return "", "", false, false
	}
	return m[1], m[2], m[3] == "up", true
}
