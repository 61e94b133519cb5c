// Package drivers provides the real database drivers behind dbconn.Pool:
// a pgx connection pool for async-postgres endpoints and database/sql for
// postgres and sqlite endpoints.
package drivers

import (
	"fmt"
	"net/url"

	"agentdb/internal/dbconn"
)

// ForScheme returns the driver serving a recognized scheme.
func ForScheme(scheme dbconn.Scheme) (dbconn.Driver, error) {
	switch scheme {
	case dbconn.SchemeAsyncPostgres:
		return AsyncPostgres{}, nil
	case dbconn.SchemePostgres, dbconn.SchemePostgresQL:
		return Postgres{}, nil
	case dbconn.SchemeSQLite:
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", dbconn.ErrUnsupportedScheme, scheme)
	}
}

// postgresURL renders cfg as a postgres:// connection string, the form both
// pgx and pq accept regardless of the scheme the descriptor was written in.
func postgresURL(cfg dbconn.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	return u.String()
}
