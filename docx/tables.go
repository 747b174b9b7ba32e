package docx

import (
	"strconv"

	"github.com/tsawler/wordhtml/model"
)

// TableParser handles parsing of DOCX tables.
type TableParser struct {
	paragraphs *paragraphBuilder
}

// newTableParser creates a new table parser.
func newTableParser(pb *paragraphBuilder) *TableParser {
	return &TableParser{paragraphs: pb}
}

// ParseTable parses a table XML element into a model.Table.
func (tp *TableParser) ParseTable(tbl *tableXML) *model.Table {
	parsed := &model.Table{
		StyleID: tbl.Properties.Style.Val,
	}

	for _, row := range tbl.Rows {
		parsed.Rows = append(parsed.Rows, tp.parseRow(row))
	}

	return parsed
}

// parseRow parses a table row.
func (tp *TableParser) parseRow(row tableRowXML) model.Row {
	parsed := model.Row{
		Header: row.Properties.Header.set() && row.Properties.Header.value(),
	}

	for _, cell := range row.Cells {
		parsed.Cells = append(parsed.Cells, tp.parseCell(cell))
	}

	return parsed
}

// parseCell parses a table cell. Paragraphs of nested tables are appended
// to the cell in document order.
func (tp *TableParser) parseCell(cell tableCellXML) model.Cell {
	parsed := model.Cell{ColSpan: 1}

	if cell.Properties.GridSpan.Val != "" {
		if span, err := strconv.Atoi(cell.Properties.GridSpan.Val); err == nil && span > 0 {
			parsed.ColSpan = span
		}
	}

	parsed.Paragraphs = tp.flatten(cell.Content)
	return parsed
}

// flatten returns every paragraph of block content, descending into
// nested tables row by row.
func (tp *TableParser) flatten(content blockXML) []*model.Paragraph {
	var out []*model.Paragraph
	for _, el := range content.Elements {
		switch el.Kind {
		case blockParagraph:
			out = append(out, tp.paragraphs.build(el.Paragraph))
		case blockTable:
			for _, row := range el.Table.Rows {
				for _, c := range row.Cells {
					out = append(out, tp.flatten(c.Content)...)
				}
			}
		}
	}
	return out
}
