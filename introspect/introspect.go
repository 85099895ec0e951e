// Package introspect loads a relational database's tables, columns and
// foreign keys through database/sql.
//
// Basic usage:
//
//	s, err := introspect.Load(ctx, db,
//	    introspect.WithDialect(introspect.Postgres{}),
//	    introspect.WithSchema("public"),
//	    introspect.WithExcludeTables("migrations"),
//	)
//
// The table list is read first; the column and foreign key queries of every
// table are then issued concurrently. The first failing query fails the whole
// load and its error is returned unchanged.
package introspect

import (
	"context"
	"database/sql"

	"golang.org/x/sync/errgroup"

	"github.com/lucasefe/sqleton/schema"
)

// Querier is the read-only part of *sql.DB, *sql.Conn and *sql.Tx the loader
// needs. Implementations must allow concurrent queries.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Load introspects the database behind q and returns its schema.
// Tables keep the order the catalog returned them in.
func Load(ctx context.Context, q Querier, opts ...Option) (*schema.Schema, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	tables, err := getTables(ctx, q, o)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("listed tables", "dialect", o.dialect.Name(), "count", len(tables))

	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}

	// each goroutine owns one field of one table
	for i := range tables {
		t := &tables[i]
		g.Go(func() error {
			columns, err := getColumns(gctx, q, o, t.Name)
			if err != nil {
				return err
			}
			t.Columns = columns
			return nil
		})
		g.Go(func() error {
			keys, err := getForeignKeys(gctx, q, o, t.Name)
			if err != nil {
				return err
			}
			t.ForeignKeys = keys
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &schema.Schema{Tables: tables}
	if len(o.excludeTables) > 0 {
		result = schema.FilterTables(result, o.excludeTables)
	}

	return result, nil
}

func getTables(ctx context.Context, q Querier, o *options) ([]schema.Table, error) {
	query, args := o.dialect.Tables(o.schemaName)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]schema.Table, 0)
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, schema.Table{Name: tableName})
	}

	return tables, rows.Err()
}

func getColumns(ctx context.Context, q Querier, o *options, tableName string) ([]schema.Column, error) {
	query, args := o.dialect.Columns(o.schemaName, tableName)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make([]schema.Column, 0)
	for rows.Next() {
		var (
			col      schema.Column
			dataType sql.NullString
			pk       int64
		)
		if err := rows.Scan(&col.Name, &dataType, &pk); err != nil {
			return nil, err
		}
		col.Type = dataType.String
		col.PrimaryKey = pk != 0

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	o.logger.Debug("loaded columns", "table", tableName, "count", len(columns))
	return columns, nil
}

func getForeignKeys(ctx context.Context, q Querier, o *options, tableName string) ([]schema.ForeignKey, error) {
	query, args := o.dialect.ForeignKeys(o.schemaName, tableName)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]schema.ForeignKey, 0)
	for rows.Next() {
		var (
			fk schema.ForeignKey
			to sql.NullString
		)
		if err := rows.Scan(&fk.From, &fk.Table, &to); err != nil {
			return nil, err
		}
		fk.To = to.String

		keys = append(keys, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	o.logger.Debug("loaded foreign keys", "table", tableName, "count", len(keys))
	return keys, nil
}
