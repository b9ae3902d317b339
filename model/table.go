package model

import "strings"

// Table is an extracted table: rows of cell text in source order.
// Rows are not required to have the same length.
type Table [][]string

// NewTable builds a table from raw cell text, trimming surrounding
// whitespace from every cell. Row and cell order are preserved.
func NewTable(rows [][]string) Table {
	t := make(Table, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, strings.TrimSpace(cell))
		}
		t = append(t, cells)
	}
	return t
}

// RowCount returns the number of rows.
func (t Table) RowCount() int {
	return len(t)
}

// ColCount returns the length of the longest row.
func (t Table) ColCount() int {
	n := 0
	for _, row := range t {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// RowLengths returns the cell count of each row.
func (t Table) RowLengths() []int {
	lengths := make([]int, len(t))
	for i, row := range t {
		lengths[i] = len(row)
	}
	return lengths
}

// Text renders each row as tab-joined cells followed by a newline.
func (t Table) Text() string {
	var sb strings.Builder
	for _, row := range t {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}
