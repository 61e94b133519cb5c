package drivers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"agentdb/internal/dbconn"
)

// AsyncPostgres serves async-postgres endpoints with a pgx connection pool.
type AsyncPostgres struct{}

func (AsyncPostgres) Open(ctx context.Context, cfg dbconn.Config) (dbconn.DB, error) {
	poolCfg, err := pgxpool.ParseConfig(postgresURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("parsing pool config: %w", err)
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "agentdb"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", pingErr)
	}

	return &PGXDB{pool: pool}, nil
}

// PGXDB wraps a pgx connection pool as a dbconn.DB.
type PGXDB struct {
	pool *pgxpool.Pool
}

func (d *PGXDB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

func (d *PGXDB) Close() error {
	d.pool.Close()
	return nil
}

// Pool exposes the native pgx pool for query execution.
func (d *PGXDB) Pool() *pgxpool.Pool {
	return d.pool
}
