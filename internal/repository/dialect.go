package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect selects the SQL flavour and driver behind a *sql.DB.
// Its value doubles as the database/sql driver name.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(name)); d {
	case Postgres, SQLite:
		return d, nil
	case "sqlite":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// DriverName is the name registered with database/sql.
func (d Dialect) DriverName() string { return string(d) }

// rebind rewrites $N placeholders for drivers that expect '?'.
// Queries must use their placeholders in ascending order.
func (d Dialect) rebind(query string) string {
	if d != SQLite {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && isDigit(query[i+1]) {
			for i+1 < len(query) && isDigit(query[i+1]) {
				i++
			}
			b.WriteByte('?')
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (d Dialect) isUniqueViolation(err error) bool {
	switch d {
	case Postgres:
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
	case SQLite:
		var liteErr sqlite3.Error
		return errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	default:
		return false
	}
}

var schemas = map[Dialect]string{
	Postgres: `
		CREATE TABLE IF NOT EXISTS users (
			id               BIGSERIAL PRIMARY KEY,
			username         TEXT        NOT NULL UNIQUE,
			gender           TEXT        NOT NULL,
			birth_date       DATE        NOT NULL,
			account_creation TIMESTAMPTZ NOT NULL
		)`,
	SQLite: `
		CREATE TABLE IF NOT EXISTS users (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			username         TEXT      NOT NULL UNIQUE,
			gender           TEXT      NOT NULL,
			birth_date       DATE      NOT NULL,
			account_creation TIMESTAMP NOT NULL
		)`,
}

// Migrate creates the users table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	schema, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", dialect)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}
