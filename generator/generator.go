// Package generator converts a schema into a Graphviz DOT digraph.
//
// Every table becomes a node whose label is a record listing its columns;
// every foreign key becomes an edge to the referenced table.
//
// Basic usage:
//
//	err := generator.Write(os.Stdout, "blog", s, generator.Options{EdgeLabels: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lucasefe/sqleton/schema"
)

// ErrDanglingReference is returned in strict mode when a foreign key points
// at a table that is not part of the schema.
var ErrDanglingReference = errors.New("foreign key references unknown table")

// Options configures DOT generation.
type Options struct {
	// Title is the bold graph label. Defaults to the graph name.
	Title string
	// EdgeLabels attaches the source and target column names to each edge.
	EdgeLabels bool
	// Strict rejects foreign keys whose referenced table is missing
	// before anything is written.
	Strict bool
}

var (
	nodeDefaults = []attr{
		{"shape", "Mrecord"},
		{"fontsize", "10"},
		{"fontname", "Helvetica"},
		{"margin", "0.07,0.04"},
		{"penwidth", "1.0"},
	}
	edgeDefaults = []attr{
		{"arrowsize", "0.8"},
		{"fontsize", "6"},
		{"style", "solid"},
		{"penwidth", "0.9"},
		{"fontname", "Helvetica"},
		{"labelangle", "33"},
		{"labeldistance", "2.0"},
	}
)

// Write renders s as a digraph called name and writes it to w.
// Writes are issued in output order; the first failing write stops
// generation and its error is returned unchanged, leaving w with a partial
// digraph.
func Write(w io.Writer, name string, s *schema.Schema, opts Options) error {
	if opts.Strict {
		if err := checkReferences(s); err != nil {
			return err
		}
	}

	title := opts.Title
	if title == "" {
		title = name
	}

	d := &dotWriter{w: w}
	d.line("digraph %s {", ident(name))
	d.line(`  rankdir="LR";`)
	d.line(`  ranksep="1.5";`)
	d.line(`  nodesep="1.4";`)
	d.line(`  concentrate="true";`)
	d.line(`  pad="0.4,0.4";`)
	d.line(`  fontname="Helvetica";`)
	d.line(`  fontsize="10";`)
	d.line("  label=%s;", quote(bold(text(title))))
	d.line("  node[%s];", attrs(nodeDefaults, ", "))
	d.line("  edge[%s];", attrs(edgeDefaults, ", "))
	d.line("  graph [overlap=false];")

	for _, t := range s.Tables {
		d.line("  %s", node(t))
	}

	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			d.line("  %s", edge(t, fk, opts))
		}
	}

	d.line("}")
	return d.err
}

// Generate renders s into a byte slice.
func Generate(name string, s *schema.Schema, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, name, s, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func node(t schema.Table) string {
	return fmt.Sprintf("%s [%s];", ident(t.Name), attrs([]attr{{"label", label(t)}}, ", "))
}

func edge(t schema.Table, fk schema.ForeignKey, opts Options) string {
	var labels []attr
	if opts.EdgeLabels {
		labels = []attr{{"taillabel", fk.From}, {"headlabel", fk.To}}
	}
	return fmt.Sprintf("%s -> %s [%s];", ident(t.Name), ident(fk.Table), attrs(labels, ", "))
}

func label(t schema.Table) string {
	return head(t) + "|" + body(t)
}

func head(t schema.Table) string {
	cell := td(bold(text(t.Name), attr{"point-size", "11"}),
		attr{"height", "24"}, attr{"valign", "bottom"})
	return table([]string{tr(cell)})
}

func body(t schema.Table) string {
	rows := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		rows[i] = tr(td(column(c)))
	}
	return table(rows, attr{"width", "134"})
}

func column(c schema.Column) string {
	marker := " "
	if c.PrimaryKey {
		marker = "* "
	}
	return text(c.Name) + marker + italic(text(typeName(c.Type)))
}

// typeName lower-cases a declared type; a missing type reads "none".
func typeName(t string) string {
	if t == "" {
		return "none"
	}
	return strings.ToLower(t)
}

func checkReferences(s *schema.Schema) error {
	known := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		known[t.Name] = true
	}
	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			if !known[fk.Table] {
				return fmt.Errorf("%w: %s.%s -> %s", ErrDanglingReference, t.Name, fk.From, fk.Table)
			}
		}
	}
	return nil
}

// dotWriter remembers the first write error and skips every write after it.
type dotWriter struct {
	w   io.Writer
	err error
}

func (d *dotWriter) line(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format+"\n", args...)
}
