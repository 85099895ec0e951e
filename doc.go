// Package sqleton draws relational database schemas as Graphviz digraphs.
//
// The package introspects a database's tables, columns, primary keys and
// foreign keys and writes a DOT description in which every table is a node
// listing its columns and every foreign key is an edge to the referenced
// table.
//
// # Basic Usage
//
// Render a SQLite file to stdout:
//
//	import "github.com/lucasefe/sqleton"
//
//	db, err := sqleton.Open(ctx, "sqlite", "app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := sqleton.Render(ctx, db, os.Stdout, sqleton.Options{EdgeLabels: true}); err != nil {
//	    log.Fatal(err)
//	}
//
// # Deferred Completion
//
// Start runs the same render in the background. The returned Future can be
// waited on, and an optional callback is invoked once with the outcome:
//
//	f := sqleton.Start(ctx, db, out, sqleton.Options{}, func(err error) {
//	    if err != nil {
//	        log.Print(err)
//	    }
//	})
//	err := f.Wait()
//
// # Drivers
//
// Open registers and understands the "sqlite" (modernc.org/sqlite),
// "postgres" (lib/pq), "pgx" (pgx stdlib) and "mysql" (go-sql-driver)
// drivers. Leave the driver empty to detect it from the DSN.
//
// # Subpackages
//
//   - github.com/lucasefe/sqleton/schema - Data structures for tables, columns and foreign keys
//   - github.com/lucasefe/sqleton/introspect - Concurrent catalog loading with functional options
//   - github.com/lucasefe/sqleton/generator - DOT generation and Graphviz image export
package sqleton
