package introspect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDialect is returned by DialectFor for driver names that have no
// catalog queries.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect supplies the three catalog queries the loader needs. Every query
// takes its table and schema names as bound arguments.
//
// The column query must yield (name, declared type, primary key) rows where
// the type may be NULL and the primary key is an integer that is non-zero
// for key columns. The foreign key query must yield (from column, referenced
// table, referenced column) rows where the referenced column may be NULL.
type Dialect interface {
	// Name returns the dialect identifier, e.g. "sqlite".
	Name() string
	// Tables returns the query listing every base table.
	Tables(schemaName string) (string, []any)
	// Columns returns the column query for a single table.
	Columns(schemaName, table string) (string, []any)
	// ForeignKeys returns the foreign key query for a single table.
	ForeignKeys(schemaName, table string) (string, []any)
}

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driverName string) (Dialect, error) {
	switch strings.ToLower(driverName) {
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	case "postgres", "postgresql", "pgx":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, driverName)
	}
}

// SQLite reads the catalog through sqlite_master and the pragma table-valued
// functions. The schema name is ignored.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Tables(string) (string, []any) {
	return `SELECT name FROM sqlite_master WHERE type = 'table'`, nil
}

func (SQLite) Columns(_, table string) (string, []any) {
	return `SELECT name, type, pk FROM pragma_table_info(?) ORDER BY cid`, []any{table}
}

func (SQLite) ForeignKeys(_, table string) (string, []any) {
	return `SELECT "from", "table", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`, []any{table}
}

// Postgres reads information_schema. An empty schema name means "public".
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Tables(schemaName string) (string, []any) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	return query, []any{pgSchema(schemaName)}
}

func (Postgres) Columns(schemaName, table string) (string, []any) {
	// enums and arrays report their real name only through udt_name
	query := `
		SELECT
			c.column_name,
			CASE WHEN c.data_type IN ('USER-DEFINED', 'ARRAY') THEN c.udt_name ELSE c.data_type END,
			CASE WHEN EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON kcu.constraint_name = tc.constraint_name
					AND kcu.table_schema = tc.table_schema
					AND kcu.table_name = tc.table_name
				WHERE tc.constraint_type = 'PRIMARY KEY'
					AND tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND kcu.column_name = c.column_name
			) THEN 1 ELSE 0 END
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`
	return query, []any{pgSchema(schemaName), table}
}

func (Postgres) ForeignKeys(schemaName, table string) (string, []any) {
	query := `
		SELECT
			kcu1.column_name,
			kcu2.table_name AS foreign_table_name,
			kcu2.column_name AS foreign_column_name
		FROM information_schema.referential_constraints rc
		JOIN information_schema.key_column_usage kcu1
			ON kcu1.constraint_name = rc.constraint_name
			AND kcu1.table_schema = rc.constraint_schema
		JOIN information_schema.key_column_usage kcu2
			ON kcu2.constraint_name = rc.unique_constraint_name
			AND kcu2.table_schema = rc.unique_constraint_schema
			AND kcu2.ordinal_position = kcu1.ordinal_position
		WHERE kcu1.table_schema = $1 AND kcu1.table_name = $2
		ORDER BY rc.constraint_name, kcu1.ordinal_position
	`
	return query, []any{pgSchema(schemaName), table}
}

func pgSchema(name string) string {
	if name == "" {
		return "public"
	}
	return name
}

// MySQL reads information_schema. An empty schema name means the
// connection's current database.
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Tables(schemaName string) (string, []any) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
			AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	return query, []any{schemaName}
}

func (MySQL) Columns(schemaName, table string) (string, []any) {
	query := `
		SELECT column_name, data_type, IF(column_key = 'PRI', 1, 0)
		FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
		ORDER BY ordinal_position
	`
	return query, []any{schemaName, table}
}

func (MySQL) ForeignKeys(schemaName, table string) (string, []any) {
	query := `
		SELECT column_name, referenced_table_name, referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
			AND table_name = ?
			AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position
	`
	return query, []any{schemaName, table}
}
