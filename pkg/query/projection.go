// Package query builds parameterized SELECT statements over a
// projection that maps logical field names to qualified columns.
package query

import "strings"

// ProjectionMap ties one table's logical field names to alias-qualified
// column references. Registration order fixes the SELECT column order.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	byName  map[string]string
	ordered []string
}

// NewProjectionMap returns an empty projection for schema.table under
// the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		byName:  make(map[string]string),
		ordered: make([]string, 0),
	}
}

// Project registers one column under its logical field name.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byName[viewName] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// From renders the table reference as "schema.table alias".
func (p *ProjectionMap) From() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Column resolves a logical field name to its qualified column. Names
// without a registration pass through unchanged.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.byName[viewName]; ok {
		return col
	}
	return viewName
}

// Columns renders the registered columns as a SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}

// ColumnList returns the registered columns in registration order.
func (p *ProjectionMap) ColumnList() []string {
	return p.ordered
}
