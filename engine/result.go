package engine

import (
	"fmt"
	"strings"

	"github.com/arcdb/arc/file"
)

// Result is whatever Database.Exec returns: a row set for a query, or
// an affected-row count for DML/DDL.
type Result interface {
	fmt.Stringer
}

// QueryResult holds a SELECT statement's projected columns and rows.
type QueryResult struct {
	Columns []string
	Types   []file.FieldType
	Rows    [][]file.Value
}

const noRowsLabel = "No records"

// String renders QueryResult as a padded ASCII table, matching the
// teacher's Rows.String layout.
func (r QueryResult) String() string {
	if len(r.Rows) == 0 {
		return noRowsLabel
	}

	const pad = 4
	width := make([]int, len(r.Columns))
	for i, c := range r.Columns {
		width[i] = len(c) + pad
	}
	for _, row := range r.Rows {
		for i, v := range row {
			if l := len(v.String()) + pad; l > width[i] {
				width[i] = l
			}
		}
	}

	var b strings.Builder
	b.WriteString("\n|")
	for i, c := range r.Columns {
		b.WriteString(center(c, width[i]))
		b.WriteString("|")
	}
	b.WriteString("\n|")
	for _, w := range width {
		b.WriteString(strings.Repeat("-", w))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, row := range r.Rows {
		b.WriteString("|")
		for i, v := range row {
			b.WriteString(center(v.String(), width[i]))
			b.WriteString("|")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func center(s string, width int) string {
	return fmt.Sprintf("%*s", -width, fmt.Sprintf("%*s", (width+len(s))/2, s))
}

// StatementResult holds how many rows a DML statement affected (always
// 0 for DDL, which changes the catalog rather than any table's rows).
type StatementResult struct {
	Affected int
}

func (r StatementResult) String() string {
	return fmt.Sprintf("%d row(s) affected", r.Affected)
}
