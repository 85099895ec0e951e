package sqleton

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"

	"github.com/lucasefe/sqleton/generator"
	"github.com/lucasefe/sqleton/introspect"
	"github.com/lucasefe/sqleton/schema"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database is an open database handle together with the catalog dialect
// used to read it and the names it is displayed under.
type Database struct {
	// DB is the underlying handle. It must allow concurrent queries.
	DB *sql.DB
	// Dialect selects the catalog queries.
	Dialect introspect.Dialect
	// Name is the digraph name, e.g. "app" for "data/app.db".
	Name string
	// Filename is the default graph title: the file path for SQLite,
	// the database name otherwise.
	Filename string
}

// Options configures a render pass.
type Options struct {
	// Title overrides the graph label. Defaults to Database.Filename.
	Title string
	// EdgeLabels adds source and target column names to every edge.
	EdgeLabels bool
	// Strict fails the render when a foreign key references an unknown table.
	Strict bool
	// Schema names the database schema to read (Postgres, MySQL).
	Schema string
	// ExcludeTables lists tables left out of the graph.
	ExcludeTables []string
	// Concurrency caps the number of catalog queries in flight; 0 means no limit.
	Concurrency int
	// Logger receives debug output. Defaults to discarding it.
	Logger *log.Logger
}

// Open connects to a database and checks that it is reachable.
// An empty driver is detected from the DSN with DetectDriver.
func Open(ctx context.Context, driver, dsn string) (*Database, error) {
	if driver == "" {
		driver = DetectDriver(dsn)
	}

	dialect, err := introspect.DialectFor(driver)
	if err != nil {
		return nil, err
	}

	sqlDriver := driverName(driver)
	if sqlDriver == "sqlite" {
		if err := checkSQLiteFile(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	name, filename := identify(sqlDriver, dsn)
	return &Database{
		DB:       db,
		Dialect:  dialect,
		Name:     name,
		Filename: filename,
	}, nil
}

// Close closes the underlying handle.
func (d *Database) Close() error {
	return d.DB.Close()
}

// DetectDriver guesses the driver name from the shape of a DSN. Postgres
// URLs map to "postgres", go-sql-driver style DSNs to "mysql" and anything
// else is treated as a SQLite file.
func DetectDriver(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case strings.Contains(dsn, "@tcp("), strings.Contains(dsn, "@unix("), strings.Contains(dsn, "@/"):
		return "mysql"
	default:
		return "sqlite"
	}
}

// Load introspects db with the loader options derived from opts.
func Load(ctx context.Context, db *Database, opts Options) (*schema.Schema, error) {
	return introspect.Load(ctx, db.DB,
		introspect.WithDialect(db.Dialect),
		introspect.WithSchema(opts.Schema),
		introspect.WithExcludeTables(opts.ExcludeTables...),
		introspect.WithConcurrency(opts.Concurrency),
		introspect.WithLogger(opts.Logger),
	)
}

// Render loads the schema of db and writes it to w as a Graphviz digraph.
// Nothing is written until the whole schema is loaded. The first query or
// write error is returned unchanged; on a write error w holds a partial
// digraph that should be discarded.
func Render(ctx context.Context, db *Database, w io.Writer, opts Options) error {
	s, err := Load(ctx, db, opts)
	if err != nil {
		return err
	}

	title := opts.Title
	if title == "" {
		title = db.Filename
	}

	return generator.Write(w, db.Name, s, generator.Options{
		Title:      title,
		EdgeLabels: opts.EdgeLabels,
		Strict:     opts.Strict,
	})
}

func driverName(driver string) string {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return "sqlite"
	case "postgres", "postgresql":
		return "postgres"
	default:
		return strings.ToLower(driver)
	}
}

func checkSQLiteFile(dsn string) error {
	path := sqlitePath(dsn)
	if path == ":memory:" || path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to open database file: %w", err)
	}
	return nil
}

func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// identify returns the digraph name and the default title for a DSN.
func identify(sqlDriver, dsn string) (name, filename string) {
	switch sqlDriver {
	case "sqlite":
		filename = sqlitePath(dsn)
		base := filepath.Base(filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	case "postgres", "pgx":
		if cfg, err := pgx.ParseConfig(dsn); err == nil {
			filename = cfg.Database
		}
	case "mysql":
		if cfg, err := mysql.ParseDSN(dsn); err == nil {
			filename = cfg.DBName
		}
	}

	if name == "" {
		name = filename
	}
	if name == "" || name == ":memory:" {
		name = "schema"
	}
	if filename == "" {
		filename = name
	}
	return name, filename
}
