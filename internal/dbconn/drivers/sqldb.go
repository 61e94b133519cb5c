package drivers

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"agentdb/internal/dbconn"
)

// Postgres serves postgres and postgresql endpoints through database/sql
// with the pq driver.
type Postgres struct{}

func (Postgres) Open(ctx context.Context, cfg dbconn.Config) (dbconn.DB, error) {
	// pq has no sslmode=prefer; stay plaintext like the async driver does
	// by default.
	db, err := sql.Open("postgres", postgresURL(cfg)+"?sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", pingErr)
	}

	return &SQLDB{db: db}, nil
}

// SQLite serves sqlite endpoints through database/sql. The config's Database
// field carries the file path.
type SQLite struct{}

func (SQLite) Open(ctx context.Context, cfg dbconn.Config) (dbconn.DB, error) {
	db, err := sql.Open("sqlite3", cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", pingErr)
	}

	return &SQLDB{db: db}, nil
}

// SQLDB wraps a database/sql handle as a dbconn.DB.
type SQLDB struct {
	db *sql.DB
}

func (s *SQLDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLDB) Close() error {
	return s.db.Close()
}

// DB exposes the native database/sql handle for query execution.
func (s *SQLDB) DB() *sql.DB {
	return s.db
}
