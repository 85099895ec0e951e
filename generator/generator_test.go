package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/lucasefe/sqleton/schema"
)

func blogSchema() *schema.Schema {
	return &schema.Schema{
		Tables: []schema.Table{
			{
				Name: "users",
				Columns: []schema.Column{
					{Name: "id", Type: "INTEGER", PrimaryKey: true},
					{Name: "name", Type: "TEXT"},
				},
			},
			{
				Name: "posts",
				Columns: []schema.Column{
					{Name: "id", Type: "INTEGER", PrimaryKey: true},
					{Name: "user_id", Type: "INTEGER"},
					{Name: "title", Type: "TEXT"},
				},
				ForeignKeys: []schema.ForeignKey{
					{From: "user_id", Table: "users", To: "id"},
				},
			},
		},
	}
}

func TestGenerateEmptySchema(t *testing.T) {
	result, err := Generate("empty", &schema.Schema{}, Options{Title: "empty.db"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	expected := `digraph empty {
  rankdir="LR";
  ranksep="1.5";
  nodesep="1.4";
  concentrate="true";
  pad="0.4,0.4";
  fontname="Helvetica";
  fontsize="10";
  label=<<font><b>empty.db</b></font>>;
  node[shape="Mrecord", fontsize="10", fontname="Helvetica", margin="0.07,0.04", penwidth="1.0"];
  edge[arrowsize="0.8", fontsize="6", style="solid", penwidth="0.9", fontname="Helvetica", labelangle="33", labeldistance="2.0"];
  graph [overlap=false];
}
`
	if string(result) != expected {
		t.Errorf("Generate() =\n%s\nwant\n%s", result, expected)
	}
}

func TestGenerateNodes(t *testing.T) {
	result, err := Generate("blog", blogSchema(), Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	dot := string(result)

	expectedUsers := `  users [label=<<table border="0" cellspacing="0.5"><tr><td align="left" height="24" valign="bottom">` +
		`<font point-size="11"><b>users</b></font></td></tr></table>|` +
		`<table border="0" cellspacing="0.5" width="134">` +
		`<tr><td align="left">id* <font color="grey60"><i>integer</i></font></td></tr>` +
		`<tr><td align="left">name <font color="grey60"><i>text</i></font></td></tr>` +
		`</table>>];`
	if !strings.Contains(dot, expectedUsers+"\n") {
		t.Errorf("Generated DOT missing users node:\n%s", dot)
	}

	usersAt := strings.Index(dot, "  users [")
	postsAt := strings.Index(dot, "  posts [")
	if usersAt < 0 || postsAt < 0 || usersAt > postsAt {
		t.Errorf("Expected users node before posts node:\n%s", dot)
	}

	if !strings.Contains(dot, `label=<<font><b>blog</b></font>>;`) {
		t.Errorf("Expected title to default to the graph name:\n%s", dot)
	}
}

func TestGenerateColumnCells(t *testing.T) {
	result, err := Generate("blog", blogSchema(), Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	var postsLine string
	for _, line := range strings.Split(string(result), "\n") {
		if strings.HasPrefix(line, "  posts [") {
			postsLine = line
		}
	}
	if postsLine == "" {
		t.Fatalf("posts node missing:\n%s", result)
	}

	bodyTable := postsLine[strings.Index(postsLine, "|"):]
	if got := strings.Count(bodyTable, `<td align="left">`); got != 3 {
		t.Errorf("Expected 3 column cells, got %d", got)
	}

	cells := []string{
		`id* <font color="grey60"><i>integer</i></font>`,
		`user_id <font color="grey60"><i>integer</i></font>`,
		`title <font color="grey60"><i>text</i></font>`,
	}
	last := -1
	for _, cell := range cells {
		at := strings.Index(bodyTable, cell)
		if at < 0 {
			t.Fatalf("Missing cell %q in %s", cell, bodyTable)
		}
		if at < last {
			t.Errorf("Cell %q out of order", cell)
		}
		last = at
	}
}

func TestGenerateEdges(t *testing.T) {
	tests := []struct {
		name       string
		edgeLabels bool
		expected   string
	}{
		{"without labels", false, "  posts -> users [];\n"},
		{"with labels", true, `  posts -> users [taillabel="user_id", headlabel="id"];` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Generate("blog", blogSchema(), Options{EdgeLabels: tt.edgeLabels})
			if err != nil {
				t.Fatalf("Generate returned error: %v", err)
			}

			dot := string(result)
			if strings.Count(dot, " -> ") != 1 {
				t.Errorf("Expected exactly one edge:\n%s", dot)
			}
			if !strings.Contains(dot, tt.expected) {
				t.Errorf("Generated DOT missing edge %q:\n%s", tt.expected, dot)
			}
			if !tt.edgeLabels && strings.Contains(dot, "taillabel") {
				t.Errorf("Unexpected edge labels:\n%s", dot)
			}
		})
	}
}

func TestGenerateTableWithoutColumns(t *testing.T) {
	s := &schema.Schema{Tables: []schema.Table{{Name: "empty"}}}

	result, err := Generate("db", s, Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if !strings.Contains(string(result), `|<table border="0" cellspacing="0.5" width="134"></table>>];`) {
		t.Errorf("Expected an empty body table:\n%s", result)
	}
}

func TestGenerateDanglingReference(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.Table{
			{
				Name:        "posts",
				Columns:     []schema.Column{{Name: "user_id"}},
				ForeignKeys: []schema.ForeignKey{{From: "user_id", Table: "users", To: "id"}},
			},
		},
	}

	result, err := Generate("db", s, Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.Contains(string(result), "posts -> users [];") {
		t.Errorf("Expected dangling edge to be emitted:\n%s", result)
	}

	var buf strings.Builder
	err = Write(&buf, "db", s, Options{Strict: true})
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("Expected ErrDanglingReference, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Strict mode wrote output before failing: %q", buf.String())
	}
}

// failingWriter accepts n writes and fails every write after that.
type failingWriter struct {
	n      int
	writes int
	err    error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.n {
		return 0, w.err
	}
	return len(p), nil
}

func TestWriteFailure(t *testing.T) {
	boom := errors.New("disk full")
	w := &failingWriter{n: 3, err: boom}

	err := Write(w, "blog", blogSchema(), Options{})
	if err != boom {
		t.Fatalf("Expected write error to be returned unchanged, got %v", err)
	}
	if w.writes != 4 {
		t.Errorf("Expected writing to stop at the first failure, got %d writes", w.writes)
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"INTEGER", "integer"},
		{"VarChar(255)", "varchar(255)"},
		{"", "none"},
		{"text", "text"},
	}

	for _, tt := range tests {
		if got := typeName(tt.in); got != tt.expected {
			t.Errorf("typeName(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestColumnPrimaryKeyMarker(t *testing.T) {
	pk := column(schema.Column{Name: "id", Type: "INTEGER", PrimaryKey: true})
	if !strings.HasPrefix(pk, "id* ") {
		t.Errorf("Expected primary key marker, got %q", pk)
	}

	plain := column(schema.Column{Name: "id", Type: "INTEGER"})
	if strings.Contains(plain, "*") {
		t.Errorf("Unexpected primary key marker, got %q", plain)
	}
	if !strings.HasPrefix(plain, "id <font") {
		t.Errorf("Expected a single space after the name, got %q", plain)
	}
}
