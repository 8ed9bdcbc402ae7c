package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/database"
	_ "github.com/nerrad567/gray-logic-assistant/migrations" // registers embedded migrations
)

// TestSchemaMigrations applies the shipped migrations to a fresh database.
func TestSchemaMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "assistant.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	if v, err := db.SchemaVersion(ctx); err != nil || v != "" {
		t.Fatalf("SchemaVersion() before migrate = %q, %v; want empty", v, err)
	}

	if n, err := db.Migrate(ctx); err != nil || n != 2 {
		t.Fatalf("Migrate() = %d, %v; want 2, nil", n, err)
	}

	for _, table := range []string{"instance_properties", "variables"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != "20260301_120100" {
		t.Errorf("SchemaVersion() = %q, want %q", version, "20260301_120100")
	}

	// variables.kind is constrained
	if _, err := db.ExecContext(ctx,
		"INSERT INTO variables (id, kind, value, updated_at) VALUES ('x', 'colour', '1', '2026-01-01T00:00:00Z')",
	); err == nil {
		t.Error("expected CHECK constraint failure for unknown kind")
	}

	// Down migrations reverse cleanly
	reverted, err := db.Rollback(ctx, 2)
	if err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if len(reverted) != 2 {
		t.Errorf("Rollback() reverted %v, want both migrations", reverted)
	}
	for _, table := range []string{"instance_properties", "variables"} {
		var n int
		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&n); err != nil || n != 0 {
			t.Errorf("table %s still present after rollback (count %d, err %v)", table, n, err)
		}
	}
	if version, _ := db.SchemaVersion(ctx); version != "" {
		t.Errorf("SchemaVersion() after rollback = %q, want empty", version)
	}
}
