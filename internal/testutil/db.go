package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"agentdb/internal/dbconn"
	"agentdb/internal/dbconn/drivers"
)

// NewTestPool returns a pool backed by a SQLite database in a temporary
// directory, for tests that need a real endpoint without a running server.
func NewTestPool(t *testing.T) *dbconn.Pool {
	t.Helper()

	// Create a temporary directory for the SQLite database
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	cfg, err := dbconn.NewResolver().Resolve("sqlite:" + dbPath)
	if err != nil {
		t.Fatalf("Failed to resolve test descriptor: %v", err)
	}

	driver, err := drivers.ForScheme(cfg.Scheme)
	if err != nil {
		t.Fatalf("Failed to select test driver: %v", err)
	}

	pool, err := dbconn.NewPool(cfg, driver)
	if err != nil {
		t.Fatalf("Failed to create test pool: %v", err)
	}

	// Register cleanup function
	t.Cleanup(func() {
		pool.Close()
		os.Remove(dbPath)
	})

	return pool
}
