package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// openTestDB opens a fresh database file in a temporary directory.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{
		Path:        filepath.Join(t.TempDir(), "assistant.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup
	return db
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var", "lib", "graylogic", "assistant.db")
	db, err := Open(context.Background(), Config{Path: path, BusyTimeout: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close() //nolint:errcheck // test cleanup

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("database file not created: %v", err)
	}
	if mode := info.Mode().Perm(); mode != fileMode {
		t.Errorf("file mode = %o, want %o", mode, fileMode)
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if n := db.Stats().MaxOpenConnections; n != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", n)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatal("Open() with empty path succeeded")
	}
}

func TestOpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "assistant.db")})
	if err == nil {
		t.Fatal("Open() with cancelled context succeeded")
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    []string
		notWant string
	}{
		{
			name: "wal",
			cfg:  Config{Path: "/tmp/a.db", WALMode: true, BusyTimeout: 5},
			want: []string{"file:/tmp/a.db?", "_busy_timeout=5000", "_foreign_keys=on", "_journal_mode=WAL", "_synchronous=NORMAL"},
		},
		{
			name:    "rollback journal",
			cfg:     Config{Path: "/tmp/a.db", BusyTimeout: 2},
			want:    []string{"_busy_timeout=2000"},
			notWant: "_journal_mode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dsn(tt.cfg)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("dsn() = %q, missing %q", got, w)
				}
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("dsn() = %q, must not contain %q", got, tt.notWant)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	db.DB.Close() //nolint:errcheck // forcing the failure path
	if err := db.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() on closed database succeeded")
	}
}

func TestCloseNil(t *testing.T) {
	var db *DB
	if err := db.Close(); err != nil {
		t.Errorf("Close() on nil DB error = %v", err)
	}
	if err := (&DB{}).Close(); err != nil {
		t.Errorf("Close() on unopened DB error = %v", err)
	}
}
