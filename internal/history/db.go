// Package history is the append-only log of finished quiz attempts.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

// Driver selects the database behind the log.
type Driver string

const (
	DriverDuckDB   Driver = "duckdb"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	// DriverNone disables history.
	DriverNone Driver = "none"
)

// ErrDisabled is returned by Open for DriverNone.
var ErrDisabled = errors.New("history is disabled")

// schemaDDL is portable across the three drivers.
//
//go:embed schema.sql
var schemaDDL string

// SchemaDDL returns the schema applied by EnsureSchema.
func SchemaDDL() string {
	return schemaDDL
}

// ParseDriver validates a configured driver name.
func ParseDriver(value string) (Driver, error) {
	switch Driver(strings.ToLower(strings.TrimSpace(value))) {
	case "", DriverDuckDB:
		return DriverDuckDB, nil
	case DriverSQLite, "sqlite3":
		return DriverSQLite, nil
	case DriverPostgres, "postgresql", "pgx":
		return DriverPostgres, nil
	case DriverNone, "off":
		return DriverNone, nil
	default:
		return "", fmt.Errorf("unsupported history driver %q (expected duckdb|sqlite|postgres|none)", value)
	}
}

func (d Driver) sqlName() (string, error) {
	switch d {
	case DriverDuckDB:
		return "duckdb", nil
	case DriverSQLite:
		return "sqlite", nil
	case DriverPostgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported history driver %q", d)
	}
}

// isFileDSN reports whether dsn names a local database file whose directory
// may need creating.
func (d Driver) isFileDSN(dsn string) bool {
	if dsn == "" || dsn == ":memory:" {
		return false
	}
	switch d {
	case DriverDuckDB:
		return !strings.Contains(dsn, "?")
	case DriverSQLite:
		return !strings.HasPrefix(dsn, "file:")
	default:
		return false
	}
}

// Open connects to the database, pings it, and applies the schema.
func Open(ctx context.Context, driver Driver, dsn string) (*Log, error) {
	if driver == DriverNone {
		return nil, ErrDisabled
	}
	name, err := driver.sqlName()
	if err != nil {
		return nil, err
	}
	if driver == DriverPostgres && dsn == "" {
		return nil, errors.New("history: postgres requires a dsn")
	}
	if driver.isFileDSN(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: ping %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	}
	log := New(db, driver)
	if err := log.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return log, nil
}

// EnsureSchema applies the schema DDL one statement at a time.
func (l *Log) EnsureSchema(ctx context.Context) error {
	if l == nil || l.db == nil {
		return errors.New("history: db is nil")
	}
	for _, statement := range strings.Split(schemaDDL, ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := l.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("history: apply schema: %w", err)
		}
	}
	return nil
}
