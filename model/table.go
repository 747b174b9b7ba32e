package model

// Table is an ordered sequence of rows.
type Table struct {
	Rows    []Row
	StyleID string
}

func (t *Table) Type() ElementType { return ElementTypeTable }

// Row is an ordered sequence of cells. Header is set when the package marks
// the row as a repeating header row.
type Row struct {
	Cells  []Cell
	Header bool
}

// Cell holds its own paragraphs, so cell content keeps run formatting.
type Cell struct {
	Paragraphs []*Paragraph
	ColSpan    int
}
