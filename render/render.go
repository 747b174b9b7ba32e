// Package render turns a [model.Document] into a standalone HTML document.
//
// Rendering is a single deterministic pass over the body in document
// order. Text is escaped once per run; runs carry a styled span only when
// they have formatting; images are joined to drawings through an
// [ImageResolver].
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/wordhtml/headerfooter"
	"github.com/tsawler/wordhtml/model"
	"github.com/tsawler/wordhtml/style"
)

// ImageResolver maps a drawing's relationship ID to its extracted image.
// *media.Extractor satisfies it.
type ImageResolver interface {
	Lookup(relID string) (model.ExtractedImage, bool)
}

// Renderer renders documents. The zero value renders text and tables
// without images.
type Renderer struct {
	// Images resolves drawings; nil renders no images.
	Images ImageResolver
	// ImageDir is the image directory relative to the HTML file.
	ImageDir string
	// HeaderRow renders the first row of each table, and rows marked as
	// repeating header rows, with <th> cells.
	HeaderRow bool
}

// Input carries the document-level values that are not part of the model.
type Input struct {
	Title        string
	Author       string
	HeaderFooter headerfooter.Compiled
	Policy       headerfooter.Policy
}

var baseCSS = []string{
	"body { font-family: Arial, sans-serif; line-height: 1.6; margin: 40px; }",
	"table { margin: 20px 0; width: 100%; }",
	"p { margin: 10px 0; }",
	"img { margin: 10px 0; display: block; }",
}

// Render returns the complete HTML document.
func (r *Renderer) Render(doc *model.Document, in Input) string {
	lines := []string{
		"<!DOCTYPE html>",
		"<html>",
		"<head>",
		`<meta charset="UTF-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1.0">`,
	}
	if in.Author != "" {
		lines = append(lines, `<meta name="author" content="`+escapeAttr(in.Author)+`">`)
	}
	lines = append(lines, "<title>"+Escape(in.Title)+"</title>", "<style>")
	lines = append(lines, baseCSS...)
	if css := headerfooter.CSS(in.Policy); css != "" {
		lines = append(lines, css)
	}
	lines = append(lines, "</style>", "</head>", "<body>")

	showHF := in.Policy != headerfooter.Skip
	if showHF && len(in.HeaderFooter.Headers) > 0 {
		lines = append(lines, `<header class="document-header">`)
		lines = append(lines, in.HeaderFooter.Headers...)
		lines = append(lines, "</header>")
	}

	lines = append(lines, `<main class="document-content">`)
	if doc != nil {
		for _, el := range doc.Body {
			switch e := el.(type) {
			case *model.Paragraph:
				lines = append(lines, r.Paragraph(e))
			case *model.Table:
				lines = append(lines, r.Table(e))
			}
		}
	}
	lines = append(lines, "</main>")

	if showHF && len(in.HeaderFooter.Footers) > 0 {
		lines = append(lines, `<footer class="document-footer">`)
		lines = append(lines, in.HeaderFooter.Footers...)
		lines = append(lines, "</footer>")
	}

	lines = append(lines, "</body>", "</html>")
	return strings.Join(lines, "\n")
}

// Paragraph renders one paragraph. A paragraph with no visible text and
// no resolvable image renders as <br/>.
func (r *Renderer) Paragraph(p *model.Paragraph) string {
	return r.paragraph(p, r.Images)
}

// Fragment renders a header or footer paragraph. Images are not rendered
// in headers and footers. It matches [headerfooter.FragmentFunc].
func (r *Renderer) Fragment(p *model.Paragraph) (string, error) {
	if p == nil {
		return "", fmt.Errorf("nil paragraph")
	}
	return r.paragraph(p, nil), nil
}

func (r *Renderer) paragraph(p *model.Paragraph, images ImageResolver) string {
	imgs := r.images(p, images)
	if p.IsBlank() && imgs == "" {
		return "<br/>"
	}

	var sb strings.Builder
	if !p.IsBlank() {
		for _, run := range p.Runs {
			sb.WriteString(r.run(run))
		}
	}
	sb.WriteString(imgs)

	tag := "p"
	if level, ok := HeadingLevel(p.StyleName); ok {
		tag = "h" + strconv.Itoa(level)
	}

	open := "<" + tag
	if s := style.Inline(style.ForParagraph(*p)); s != "" {
		open += ` style="` + escapeAttr(s) + `"`
	}
	return open + ">" + sb.String() + "</" + tag + ">"
}

// run renders a run's text. Plain runs are emitted as bare escaped text.
func (r *Renderer) run(run model.Run) string {
	if run.Text == "" {
		return ""
	}

	text := strings.ReplaceAll(Escape(run.Text), "\n", "<br/>")
	if s := style.Inline(style.ForRun(run)); s != "" {
		return `<span style="` + escapeAttr(s) + `">` + text + "</span>"
	}
	return text
}

// images renders the img tags for every resolvable drawing in p.
// Unresolved drawings are left out.
func (r *Renderer) images(p *model.Paragraph, images ImageResolver) string {
	if images == nil {
		return ""
	}

	var sb strings.Builder
	for _, d := range p.Drawings() {
		img, ok := images.Lookup(d.RelID)
		if !ok {
			continue
		}
		alt := d.Description
		if alt == "" {
			alt = "Image " + strconv.Itoa(img.Index)
		}
		sb.WriteString(`<img src="` + escapeAttr(img.Source(r.ImageDir)) + `" alt="` + escapeAttr(alt) +
			`" style="max-width: 100%; height: auto;"/>`)
	}
	return sb.String()
}

// Table renders a table. Each cell holds its paragraphs that have text or
// an image; a cell with neither renders a non-breaking space.
func (r *Renderer) Table(t *model.Table) string {
	var sb strings.Builder
	sb.WriteString(`<table border="1" cellpadding="5" cellspacing="0" style="border-collapse: collapse;">`)

	for i, row := range t.Rows {
		cellTag := "td"
		if r.HeaderRow && (i == 0 || row.Header) {
			cellTag = "th"
		}

		sb.WriteString("<tr>")
		for _, cell := range row.Cells {
			sb.WriteString("<" + cellTag)
			if cell.ColSpan > 1 {
				sb.WriteString(` colspan="` + strconv.Itoa(cell.ColSpan) + `"`)
			}
			sb.WriteString(">")

			var content strings.Builder
			for _, p := range cell.Paragraphs {
				if p.IsBlank() && r.images(p, r.Images) == "" {
					continue
				}
				content.WriteString(r.Paragraph(p))
			}
			if content.Len() == 0 {
				sb.WriteString("&nbsp;")
			} else {
				sb.WriteString(content.String())
			}

			sb.WriteString("</" + cellTag + ">")
		}
		sb.WriteString("</tr>")
	}

	sb.WriteString("</table>")
	return sb.String()
}
