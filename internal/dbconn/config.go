package dbconn

import (
	"fmt"
	"net/url"
)

// Scheme selects which database client implementation serves an endpoint.
type Scheme string

// Recognized driver schemes.
const (
	SchemeAsyncPostgres Scheme = "async-postgres"
	SchemePostgres      Scheme = "postgres"
	SchemePostgresQL    Scheme = "postgresql"
	SchemeSQLite        Scheme = "sqlite"
)

// Config represents a resolved database endpoint. It is a plain value:
// construct it once, share it by copy, never mutate it.
type Config struct {
	Scheme   Scheme
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// DefaultConfig returns the endpoint used when no descriptor is supplied.
func DefaultConfig() Config {
	return Config{
		Scheme:   SchemeAsyncPostgres,
		Host:     "localhost",
		Port:     5432,
		Database: "agent_test_platform",
		Username: "agent",
		Password: "agent",
	}
}

// URL renders the full connection descriptor, credentials included. Hand the
// result to database drivers only; use String for anything that may be logged.
func (c Config) URL() string {
	if c.Scheme == SchemeSQLite {
		return fmt.Sprintf("%s:%s", c.Scheme, c.Database)
	}
	u := url.URL{
		Scheme: string(c.Scheme),
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	return u.String()
}

// String renders the descriptor with the password masked.
func (c Config) String() string {
	if c.Scheme == SchemeSQLite {
		return fmt.Sprintf("%s:%s", c.Scheme, c.Database)
	}
	return fmt.Sprintf("%s://%s:***@%s:%d/%s", c.Scheme, c.Username, c.Host, c.Port, c.Database)
}
