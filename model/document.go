package model

// Document represents a word-processing document with its body, sections
// and relationship graph.
type Document struct {
	Metadata      Metadata
	Body          []Element
	Sections      []*Section
	Relationships *RelationshipMap
}

// Metadata contains document-level information
type Metadata struct {
	Title   string
	Author  string
	Subject string
	Creator string
}

// Section groups body content that shares page settings. Header and Footer
// are nil when the section does not reference one.
type Section struct {
	Header *HeaderFooter
	Footer *HeaderFooter
}

// HeaderFooter is the paragraph content of one header or footer part.
type HeaderFooter struct {
	Paragraphs []*Paragraph
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Body:          make([]Element, 0),
		Relationships: NewRelationshipMap(nil),
	}
}

// Append adds an element to the end of the body.
func (d *Document) Append(e Element) {
	d.Body = append(d.Body, e)
}

// AddSection adds a section to the document.
func (d *Document) AddSection(s *Section) {
	d.Sections = append(d.Sections, s)
}

// Paragraphs returns the top-level body paragraphs in document order.
// Paragraphs nested in tables are not included.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, e := range d.Body {
		if p, ok := e.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Tables returns the top-level body tables in document order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, e := range d.Body {
		if t, ok := e.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}
