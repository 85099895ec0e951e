// Command example builds a small library database and draws it.
//
// Run with: go run ./example [output_dir]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lucasefe/sqleton"
	"github.com/lucasefe/sqleton/generator"
	"github.com/lucasefe/sqleton/introspect"
)

var libraryDDL = []string{
	`CREATE TABLE authors (id INTEGER PRIMARY KEY, name TEXT NOT NULL, born DATE)`,
	`CREATE TABLE books (
		id INTEGER PRIMARY KEY,
		author_id INTEGER NOT NULL REFERENCES authors(id),
		title TEXT NOT NULL,
		isbn VARCHAR(13)
	)`,
	`CREATE TABLE members (id INTEGER PRIMARY KEY, email TEXT UNIQUE, joined)`,
	`CREATE TABLE loans (
		book_id INTEGER REFERENCES books(id),
		member_id INTEGER REFERENCES members(id),
		due DATE,
		PRIMARY KEY (book_id, member_id)
	)`,
}

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx := context.Background()
	path := filepath.Join(dir, "library.db")

	fmt.Printf("Creating sample database %s...\n", path)
	if err := createLibrary(path); err != nil {
		log.Fatalf("Failed to create sample database: %v", err)
	}

	db, err := sqleton.Open(ctx, "sqlite", path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("\n=== Example 1: Deferred render with a callback ===")
	dotPath := filepath.Join(dir, "library.dot")
	out, err := os.Create(dotPath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", dotPath, err)
	}
	f := sqleton.Start(ctx, db, out, sqleton.Options{EdgeLabels: true}, func(err error) {
		if err != nil {
			log.Printf("render failed: %v", err)
		}
	})
	if err := f.Wait(); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	out.Close()
	fmt.Printf("DOT written to %s\n", dotPath)

	fmt.Println("\n=== Example 2: Using subpackages directly ===")
	s, err := introspect.Load(ctx, db.DB,
		introspect.WithDialect(introspect.SQLite{}),
		introspect.WithExcludeTables("members"),
	)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}
	for _, t := range s.Tables {
		fmt.Printf("  %s: %d columns, %d foreign keys\n", t.Name, len(t.Columns), len(t.ForeignKeys))
	}

	dot, err := generator.Generate(db.Name, s, generator.Options{Title: "Library without members"})
	if err != nil {
		log.Fatalf("Failed to generate DOT: %v", err)
	}

	fmt.Println("\n=== Example 3: SVG export ===")
	svg, err := generator.RenderImage(ctx, dot, generator.FormatSVG)
	if err != nil {
		log.Fatalf("Failed to render SVG: %v", err)
	}
	svgPath := filepath.Join(dir, "library.svg")
	if err := os.WriteFile(svgPath, svg, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", svgPath, err)
	}
	fmt.Printf("SVG written to %s (%d bytes)\n", svgPath, len(svg))
}

func createLibrary(path string) error {
	os.Remove(path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range libraryDDL {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
