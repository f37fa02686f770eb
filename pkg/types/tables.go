package types

import "maps"

// IDField is the reserved row field holding the identifier.
const IDField = "id"

// Row is a single table entry: field names mapped to JSON-representable values.
type Row map[string]any

// ID returns the raw identifier value stored in the row.
func (r Row) ID() (any, bool) {
	id, ok := r[IDField]
	return id, ok
}

// Clone returns a shallow copy of the row. Nested values are shared.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Merge copies every field of patch into r, overwriting fields of the same name.
func (r Row) Merge(patch Row) {
	maps.Copy(r, patch)
}

// Document is the whole stored value: table names mapped to ordered rows.
type Document map[string][]Row

// Table returns the rows of name and whether the table exists.
func (d Document) Table(name string) ([]Row, bool) {
	rows, ok := d[name]
	return rows, ok
}
