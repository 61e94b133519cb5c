package dbconn

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xo/dburl"
)

func init() {
	// dburl does not know the async driver scheme out of the box.
	dburl.RegisterAlias("postgres", string(SchemeAsyncPostgres))
}

var credentialsPattern = regexp.MustCompile(`://[^@\s]+@`)

// redact masks the userinfo portion of a descriptor so it can appear in
// errors and logs.
func redact(raw string) string {
	return credentialsPattern.ReplaceAllString(raw, "://***@")
}

// Resolver turns raw connection descriptors into validated Configs.
type Resolver struct {
	defaults Config
}

// NewResolver creates a resolver that falls back to DefaultConfig when no
// descriptor is supplied.
func NewResolver() *Resolver {
	return &Resolver{defaults: DefaultConfig()}
}

// Resolve parses a connection descriptor into a Config.
// The descriptor format follows <scheme>://<user>:<password>@<host>:<port>/<database>:
//   - async-postgres: pgx connection pool
//   - postgres, postgresql: database/sql with the pq driver
//   - SQLite: sqlite:/path/to/file.db or sqlite:file.db
//
// An empty descriptor resolves to DefaultConfig. Host and port are the only
// fields with documented defaults (localhost and 5432); everything else is
// required, and a malformed descriptor is an error, never a silent fallback.
// Resolution does no network I/O.
func (r *Resolver) Resolve(raw string) (Config, error) {
	if raw == "" {
		return r.defaults, nil
	}

	// Parse the URL to validate it
	u, err := dburl.Parse(raw)
	if errors.Is(err, dburl.ErrUnknownDatabaseScheme) {
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, schemeOf(raw))
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidDescriptor, redact(raw), err)
	}

	switch scheme := Scheme(strings.ToLower(u.OriginalScheme)); scheme {
	case SchemeAsyncPostgres, SchemePostgres, SchemePostgresQL:
		return resolveServer(scheme, u, raw)
	case SchemeSQLite:
		return resolveFile(scheme, u)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.OriginalScheme)
	}
}

func resolveServer(scheme Scheme, u *dburl.URL, raw string) (Config, error) {
	if u.RawQuery != "" {
		return Config{}, fmt.Errorf("%w: %s: unexpected query parameters", ErrInvalidDescriptor, redact(raw))
	}

	username := u.User.Username()
	password, hasPassword := u.User.Password()
	if username == "" || !hasPassword || password == "" {
		return Config{}, fmt.Errorf("%w: %s: missing credentials", ErrInvalidDescriptor, redact(raw))
	}

	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 5432 // default postgres port
	if p := u.Port(); p != "" {
		var err error
		port, err = strconv.Atoi(p)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: invalid port %q", ErrInvalidDescriptor, redact(raw), p)
		}
	}
	if port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("%w: %s: port %d out of range", ErrInvalidDescriptor, redact(raw), port)
	}

	database := strings.TrimPrefix(u.Path, "/")
	if database == "" {
		return Config{}, fmt.Errorf("%w: %s: missing database name", ErrInvalidDescriptor, redact(raw))
	}

	return Config{
		Scheme:   scheme,
		Host:     host,
		Port:     port,
		Database: database,
		Username: username,
		Password: password,
	}, nil
}

func resolveFile(scheme Scheme, u *dburl.URL) (Config, error) {
	// sqlite descriptors are path-style; credentials, host and port carry no
	// meaning and are left zero.
	path := u.Opaque
	if path == "" {
		path = u.Path
	}
	if path == "" {
		return Config{}, fmt.Errorf("%w: %s: missing database file path", ErrInvalidDescriptor, u.String())
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return Config{Scheme: scheme, Database: path}, nil
}

// schemeOf extracts the scheme token for error messages about descriptors
// dburl refuses to parse.
func schemeOf(raw string) string {
	if i := strings.Index(raw, "://"); i > 0 {
		return raw[:i]
	}
	if i := strings.Index(raw, ":"); i > 0 {
		return raw[:i]
	}
	return raw
}
