package model

import "strings"

// ElementType represents the type of body element
type ElementType int

const (
	ElementTypeUnknown ElementType = iota
	ElementTypeParagraph
	ElementTypeTable
)

func (et ElementType) String() string {
	switch et {
	case ElementTypeParagraph:
		return "Paragraph"
	case ElementTypeTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// Element is the interface for all body elements
type Element interface {
	Type() ElementType
}

// Alignment is a paragraph's horizontal alignment.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	case AlignJustify:
		return "justify"
	default:
		return "start"
	}
}

// ParseAlignment maps a WordprocessingML justification value to an Alignment.
// Unknown values map to AlignStart.
func ParseAlignment(val string) Alignment {
	switch strings.ToLower(val) {
	case "center":
		return AlignCenter
	case "right", "end":
		return AlignEnd
	case "both", "justify", "distribute":
		return AlignJustify
	default:
		return AlignStart
	}
}

// Paragraph is an ordered sequence of runs.
type Paragraph struct {
	Runs      []Run
	Alignment Alignment
	StyleID   string
	StyleName string // display name from styles.xml; empty if unknown
}

func (p *Paragraph) Type() ElementType { return ElementTypeParagraph }

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// IsBlank reports whether the paragraph has no visible text.
func (p *Paragraph) IsBlank() bool {
	return strings.TrimSpace(p.Text()) == ""
}

// Drawings returns every drawing reference in run order.
func (p *Paragraph) Drawings() []Drawing {
	var out []Drawing
	for _, r := range p.Runs {
		out = append(out, r.Drawings...)
	}
	return out
}

// Run is a span of text sharing one set of formatting.
// Color and Size keep the raw package values (hex color, half-points) so
// that malformed values can be dropped when styles are resolved.
type Run struct {
	Text       string
	Bold       bool
	Italic     bool
	Underline  bool
	Color      string
	Size       string
	FontFamily string
	Drawings   []Drawing
}

// Drawing is an embedded image placeholder referencing a relationship ID.
type Drawing struct {
	RelID       string
	Name        string
	Description string
}
