// Package schema defines the data structures for representing a relational
// database schema. These types are filled by the introspect package and
// consumed by the generator package.
package schema

// Schema represents a database schema containing multiple tables.
// It is the top-level container returned by introspection.
type Schema struct {
	// Tables contains all tables found in the catalog, in the order the
	// catalog query returned them.
	Tables []Table `json:"tables"`
}

// Table represents a database table with its columns and foreign keys.
type Table struct {
	// Name is the table name without schema qualification.
	Name string `json:"name"`
	// Columns contains all columns in the table, in declaration order.
	// It may be empty.
	Columns []Column `json:"columns"`
	// ForeignKeys contains references from this table to other tables.
	ForeignKeys []ForeignKey `json:"foreign_keys"`
}

// Column represents a database column within a table.
type Column struct {
	// Name is the column name.
	Name string `json:"name"`
	// Type is the declared type exactly as the catalog reported it.
	// An empty Type means no type was declared.
	Type string `json:"type,omitempty"`
	// PrimaryKey indicates whether this column is part of the primary key.
	PrimaryKey bool `json:"pk"`
}

// ForeignKey represents a single-column reference to another table.
type ForeignKey struct {
	// From is the referencing column in the owning table.
	From string `json:"from"`
	// Table is the referenced table. It is not checked against the schema.
	Table string `json:"table"`
	// To is the referenced column. It is empty when the catalog reports an
	// implicit reference to the referenced table's primary key.
	To string `json:"to,omitempty"`
}

// Table returns the table with the given name, if present.
func (s *Schema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
