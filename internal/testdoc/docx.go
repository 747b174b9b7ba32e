// Package testdoc builds small .docx and .doc files in memory for tests.
package testdoc

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Part is one file of a test package.
type Part struct {
	Name string
	Data string
}

// ContentTypes is a minimal [Content_Types].xml part.
const ContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

// PackageRels is the package-level relationships part.
const PackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Relationship types used by fixtures.
const (
	RelImage  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelHeader = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	RelFooter = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
)

const namespaces = ` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
 xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"
 xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
 xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
 xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"
 xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"
 xmlns:v="urn:schemas-microsoft-com:vml"`

// WrapDocument wraps body content in a w:document element.
func WrapDocument(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document` + namespaces + `>
  <w:body>` + body + `</w:body>
</w:document>`
}

// WrapHeader wraps paragraphs in a w:hdr element.
func WrapHeader(content string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr` + namespaces + `>` + content + `</w:hdr>`
}

// WrapFooter wraps paragraphs in a w:ftr element.
func WrapFooter(content string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr` + namespaces + `>` + content + `</w:ftr>`
}

// WrapRels wraps relationship elements in a Relationships part.
func WrapRels(rels string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + rels + `</Relationships>`
}

// WrapStyles wraps style definitions in a w:styles element.
func WrapStyles(styles string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + styles + `</w:styles>`
}

// Rel returns one Relationship element.
func Rel(id, typ, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, typ, target)
}

// Paragraph returns a w:p holding one plain run.
func Paragraph(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

// Drawing returns a w:p holding one inline picture that references relID.
func Drawing(relID string) string {
	return `<w:p><w:r><w:drawing><wp:inline><wp:docPr id="1" name="Picture"/>` +
		`<a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed="` + relID + `"/>` +
		`</pic:blipFill></pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`
}

// Package writes the parts into an in-memory ZIP archive.
func Package(parts ...Part) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.Name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", p.Name, err)
		}
		if _, err := w.Write([]byte(p.Data)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip: %w", err)
	}
	return buf.Bytes(), nil
}

// DOCX returns a minimal package with the given body content plus any
// extra parts.
func DOCX(body string, extra ...Part) ([]byte, error) {
	parts := []Part{
		{"[Content_Types].xml", ContentTypes},
		{"_rels/.rels", PackageRels},
		{"word/document.xml", WrapDocument(body)},
	}
	return Package(append(parts, extra...)...)
}
