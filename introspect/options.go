package introspect

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures introspection behavior.
type Option func(*options)

type options struct {
	dialect       Dialect
	schemaName    string
	excludeTables []string
	concurrency   int
	logger        *log.Logger
}

func defaultOptions() *options {
	return &options{
		dialect: SQLite{},
		logger:  log.New(io.Discard),
	}
}

// WithDialect selects the catalog queries to run.
// If not specified, defaults to SQLite.
func WithDialect(d Dialect) Option {
	return func(o *options) {
		if d != nil {
			o.dialect = d
		}
	}
}

// WithSchema restricts introspection to a named database schema.
// SQLite ignores it; Postgres defaults to "public" and MySQL to the
// connection's current database.
func WithSchema(name string) Option {
	return func(o *options) {
		o.schemaName = name
	}
}

// WithExcludeTables specifies tables to drop from the result.
func WithExcludeTables(tables ...string) Option {
	return func(o *options) {
		o.excludeTables = tables
	}
}

// WithConcurrency caps the number of catalog queries in flight.
// Zero or a negative value means no limit.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithLogger sets the logger used for per-query debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
