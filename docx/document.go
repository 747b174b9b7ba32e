package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// XML namespaces used in DOCX files
const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name  `xml:"document"`
	Body    *blockXML `xml:"body"`
}

// blockKind distinguishes entries of blockXML.Elements.
type blockKind int

const (
	blockParagraph blockKind = iota
	blockTable
)

// blockElement is a paragraph or table in document order.
type blockElement struct {
	Kind      blockKind
	Paragraph *paragraphXML
	Table     *tableXML
}

// blockXML is block-level content: the body, a table cell, a header
// (<w:hdr>) or a footer (<w:ftr>). encoding/xml would split paragraphs and tables into separate
// slices, so UnmarshalXML walks the children to keep their order.
// Content controls (w:sdt) are unwrapped in place; other unknown
// elements are skipped.
type blockXML struct {
	Elements []blockElement
	SectPr   *sectPrXML // trailing body-level section properties
}

// UnmarshalXML implements xml.Unmarshaler.
func (b *blockXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return b.decodeChildren(d)
}

func (b *blockXML) decodeChildren(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "sectPr" {
				s := &sectPrXML{}
				if err := d.DecodeElement(s, &t); err != nil {
					return err
				}
				b.SectPr = s
				continue
			}
			if err := b.decodeOne(d, t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// paragraphXML represents a paragraph element (<w:p>). Runs found inside
// hyperlinks, insertions, smart tags, simple fields and content controls are
// flattened into Runs in document order.
type paragraphXML struct {
	Properties paragraphPropsXML
	Runs       []runXML
}

// UnmarshalXML implements xml.Unmarshaler.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return p.decodeChildren(d)
}

func (p *paragraphXML) decodeChildren(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := d.DecodeElement(&p.Properties, &t); err != nil {
					return err
				}
			case "r":
				var r runXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case "hyperlink", "ins", "smartTag", "fldSimple", "sdt", "sdtContent", "customXml":
				if err := p.decodeChildren(d); err != nil {
					return err
				}
			default:
				// w:del, bookmarks, proofErr, comments and anything newer.
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         styleRefXML      `xml:"pStyle"`
	Justification justificationXML `xml:"jc"`
	SectPr        *sectPrXML       `xml:"sectPr"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// justificationXML represents text justification.
type justificationXML struct {
	Val string `xml:"val,attr"` // left, center, right, both
}

// sectPrXML represents section properties (<w:sectPr>).
type sectPrXML struct {
	HeaderRefs []hdrFtrRefXML `xml:"headerReference"`
	FooterRefs []hdrFtrRefXML `xml:"footerReference"`
}

// hdrFtrRefXML references a header or footer part by relationship ID.
type hdrFtrRefXML struct {
	Type string `xml:"type,attr"` // default, first, even
	ID   string `xml:"id,attr"`
}

// pickRef returns the default reference, or the first one when the
// section declares no default.
func pickRef(refs []hdrFtrRefXML) string {
	for _, r := range refs {
		if r.Type == "default" || r.Type == "" {
			return r.ID
		}
	}
	if len(refs) > 0 {
		return refs[0].ID
	}
	return ""
}

// runXML represents a text run (<w:r>). Text is assembled from w:t, w:tab,
// w:br, w:cr and w:sym children in document order.
type runXML struct {
	Properties runPropsXML
	Text       string
	Drawings   []drawingRef
}

// drawingRef is an image reference found inside a run.
type drawingRef struct {
	RelID string
	Name  string
	Descr string
}

// UnmarshalXML implements xml.Unmarshaler.
func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.Properties, &t); err != nil {
					return err
				}
			case "t":
				var txt textXML
				if err := d.DecodeElement(&txt, &t); err != nil {
					return err
				}
				sb.WriteString(txt.Value)
			case "tab":
				sb.WriteString("\t")
				if err := d.Skip(); err != nil {
					return err
				}
			case "br", "cr":
				sb.WriteString("\n")
				if err := d.Skip(); err != nil {
					return err
				}
			case "sym":
				var sym symXML
				if err := d.DecodeElement(&sym, &t); err != nil {
					return err
				}
				if c := sym.rune(); c != 0 {
					sb.WriteRune(c)
				}
			case "drawing":
				var dr drawingXML
				if err := d.DecodeElement(&dr, &t); err != nil {
					return err
				}
				r.Drawings = append(r.Drawings, dr.refs()...)
			case "pict":
				var pict pictXML
				if err := d.DecodeElement(&pict, &t); err != nil {
					return err
				}
				r.Drawings = append(r.Drawings, pict.refs()...)
			case "AlternateContent":
				var ac alternateContentXML
				if err := d.DecodeElement(&ac, &t); err != nil {
					return err
				}
				refs, text := ac.resolve()
				r.Drawings = append(r.Drawings, refs...)
				sb.WriteString(text)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			r.Text = sb.String()
			return nil
		}
	}
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Style     styleRefXML  `xml:"rStyle"`
	Bold      boolXML      `xml:"b"`
	Italic    boolXML      `xml:"i"`
	Underline underlineXML `xml:"u"`
	FontSize  sizeXML      `xml:"sz"`
	Font      fontXML      `xml:"rFonts"`
	Color     colorXML     `xml:"color"`
}

// boolXML represents a boolean toggle. An element without w:val means true.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// set reports whether the element was present.
func (b boolXML) set() bool {
	return b.XMLName.Local != ""
}

// value returns the toggle value of a present element.
func (b boolXML) value() bool {
	switch strings.ToLower(b.Val) {
	case "false", "0", "off", "none":
		return false
	}
	return true
}

// underlineXML represents underline style.
type underlineXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"` // single, double, none, etc.
}

// sizeXML represents font size (in half-points).
type sizeXML struct {
	Val string `xml:"val,attr"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	CS       string `xml:"cs,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

// name returns the font used for Latin text.
func (f fontXML) name() string {
	if f.ASCII != "" {
		return f.ASCII
	}
	return f.HAnsi
}

// colorXML represents text color.
type colorXML struct {
	Val string `xml:"val,attr"` // Hex color or "auto"
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"space,attr"` // preserve
	Value string `xml:",chardata"`
}

// symXML represents a symbol character (<w:sym>).
type symXML struct {
	Font string `xml:"font,attr"`
	Char string `xml:"char,attr"` // Hex character code
}

// rune decodes the symbol. Symbol fonts use the F000 private-use offset,
// which is removed so the character lands in its plain code point.
func (s symXML) rune() rune {
	v, err := strconv.ParseUint(s.Char, 16, 32)
	if err != nil || v == 0 {
		return 0
	}
	if v >= 0xF000 && v <= 0xF0FF {
		v -= 0xF000
	}
	return rune(v)
}

// drawingXML represents an embedded drawing/image.
type drawingXML struct {
	Inline *inlineXML `xml:"inline"`
	Anchor *inlineXML `xml:"anchor"`
}

// inlineXML represents an inline or anchored image.
type inlineXML struct {
	DocPr docPrXML  `xml:"docPr"`
	Blips []blipXML `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// docPrXML represents document properties of an image.
type docPrXML struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"` // Alt text
}

// blipXML represents an image reference.
type blipXML struct {
	Embed string `xml:"embed,attr"` // Relationship ID
}

func (dr drawingXML) refs() []drawingRef {
	var out []drawingRef
	for _, in := range []*inlineXML{dr.Inline, dr.Anchor} {
		if in == nil {
			continue
		}
		for _, b := range in.Blips {
			if b.Embed == "" {
				continue
			}
			out = append(out, drawingRef{RelID: b.Embed, Name: in.DocPr.Name, Descr: in.DocPr.Descr})
		}
	}
	return out
}

// pictXML represents a legacy VML picture (<w:pict>).
type pictXML struct {
	Shapes []vmlShapeXML `xml:"shape"`
}

// vmlShapeXML represents a v:shape with image data.
type vmlShapeXML struct {
	ImageData []vmlImageDataXML `xml:"imagedata"`
}

// vmlImageDataXML carries the r:id of the picture.
type vmlImageDataXML struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
}

func (p pictXML) refs() []drawingRef {
	var out []drawingRef
	for _, s := range p.Shapes {
		for _, img := range s.ImageData {
			if img.ID != "" {
				out = append(out, drawingRef{RelID: img.ID, Name: img.Title})
			}
		}
	}
	return out
}

// alternateContentXML represents mc:AlternateContent inside a run.
type alternateContentXML struct {
	Choices  []alternateBranchXML `xml:"Choice"`
	Fallback alternateBranchXML   `xml:"Fallback"`
}

// alternateBranchXML is one mc:Choice or mc:Fallback.
type alternateBranchXML struct {
	Drawings []drawingXML `xml:"drawing"`
	Picts    []pictXML    `xml:"pict"`
	Text     []textXML    `xml:"t"`
}

func (b alternateBranchXML) refs() []drawingRef {
	var out []drawingRef
	for _, dr := range b.Drawings {
		out = append(out, dr.refs()...)
	}
	for _, p := range b.Picts {
		out = append(out, p.refs()...)
	}
	return out
}

func (b alternateBranchXML) text() string {
	var sb strings.Builder
	for _, t := range b.Text {
		sb.WriteString(t.Value)
	}
	return sb.String()
}

// resolve picks the first Choice carrying an image, otherwise the Fallback.
// Only one branch contributes so the same picture is not counted twice.
func (ac alternateContentXML) resolve() ([]drawingRef, string) {
	for _, c := range ac.Choices {
		if refs := c.refs(); len(refs) > 0 {
			return refs, c.text()
		}
	}
	return ac.Fallback.refs(), ac.Fallback.text()
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Properties tablePropsXML `xml:"tblPr"`
	Rows       []tableRowXML `xml:"tr"`
}

// tablePropsXML represents table properties.
type tablePropsXML struct {
	Style styleRefXML `xml:"tblStyle"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties rowPropsXML    `xml:"trPr"`
	Cells      []tableCellXML `xml:"tc"`
}

// rowPropsXML represents row properties.
type rowPropsXML struct {
	Header boolXML `xml:"tblHeader"` // Is this a header row?
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Properties cellPropsXML
	Content    blockXML
}

// UnmarshalXML implements xml.Unmarshaler.
func (c *tableCellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tcPr" {
				if err := d.DecodeElement(&c.Properties, &t); err != nil {
					return err
				}
				continue
			}
			// Re-enter block decoding with the element we already consumed.
			if err := c.Content.decodeOne(d, t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// decodeOne handles a single child start element of block content.
func (b *blockXML) decodeOne(d *xml.Decoder, t xml.StartElement) error {
	switch t.Name.Local {
	case "p":
		p := &paragraphXML{}
		if err := d.DecodeElement(p, &t); err != nil {
			return err
		}
		b.Elements = append(b.Elements, blockElement{Kind: blockParagraph, Paragraph: p})
	case "tbl":
		tbl := &tableXML{}
		if err := d.DecodeElement(tbl, &t); err != nil {
			return err
		}
		b.Elements = append(b.Elements, blockElement{Kind: blockTable, Table: tbl})
	case "sdt", "sdtContent", "customXml", "ins", "smartTag":
		// Wrappers: their children are ordinary block content.
		return b.decodeChildren(d)
	default:
		return d.Skip()
	}
	return nil
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	GridSpan gridSpanXML `xml:"gridSpan"`
}

// gridSpanXML represents column span.
type gridSpanXML struct {
	Val string `xml:"val,attr"` // Number of columns spanned
}
