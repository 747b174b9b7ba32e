// Package docx provides DOCX (Office Open XML) package reading.
//
// A [Reader] opens the ZIP container, resolves the document relationships
// and turns word/document.xml into a [model.Document] whose body keeps the
// original paragraph and table order. Parts the reader does not understand
// are ignored.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tsawler/wordhtml/model"
)

// ErrPackageCorrupt reports a container that is not a valid ZIP archive or
// that lacks the main document part.
var ErrPackageCorrupt = errors.New("docx: package corrupt")

// mainDocumentPart is the only part a package must contain.
const mainDocumentPart = "word/document.xml"

// Reader provides access to DOCX document content.
type Reader struct {
	closer    io.Closer
	zipReader *zip.Reader
	files     map[string]*zip.File
	document  *documentXML
	styles    *stylesXML
	rels      *model.RelationshipMap
	coreProps *corePropertiesXML
	appProps  *appPropertiesXML
	resolver  *StyleResolver
	warnings  []error
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ZIP archive: %v", ErrPackageCorrupt, err)
	}

	r, err := newReader(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// OpenBytes opens a DOCX package held in memory.
func OpenBytes(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: opening ZIP archive: %v", ErrPackageCorrupt, err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	// Relationships are optional; a package without them has no media.
	r.parseRelationships()

	if err := r.parseDocument(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackageCorrupt, err)
	}

	r.parseStyles()
	r.resolver = NewStyleResolver(r.styles)

	r.parseCoreProperties()
	r.parseAppProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// Warnings returns the non-fatal problems met while reading optional parts.
func (r *Reader) Warnings() []error {
	return append([]error(nil), r.warnings...)
}

// Relationships returns the document relationship map.
func (r *Reader) Relationships() *model.RelationshipMap {
	return r.rels
}

// validate checks that the main document part exists.
func (r *Reader) validate() error {
	if _, ok := r.files[mainDocumentPart]; !ok {
		return fmt.Errorf("%w: missing required file: %s", ErrPackageCorrupt, mainDocumentPart)
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships builds the relationship map from
// word/_rels/document.xml.rels and loads the bytes of internal targets.
func (r *Reader) parseRelationships() {
	r.rels = model.NewRelationshipMap(nil)

	data, err := r.getFileContent("word/_rels/document.xml.rels")
	if err != nil {
		return
	}

	var parsed relationshipsXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		r.warnings = append(r.warnings, fmt.Errorf("parsing relationships: %w", err))
		return
	}

	rels := make([]model.Relationship, 0, len(parsed.Relationships))
	for _, rel := range parsed.Relationships {
		entry := model.Relationship{
			ID:       rel.ID,
			Type:     rel.Type,
			External: strings.EqualFold(rel.TargetMode, "External"),
		}
		if entry.External {
			entry.Target = rel.Target
			rels = append(rels, entry)
			continue
		}

		entry.Target = resolveTarget("word", rel.Target)
		if _, ok := r.files[entry.Target]; ok {
			content, err := r.getFileContent(entry.Target)
			if err != nil {
				r.warnings = append(r.warnings, fmt.Errorf("reading %s: %w", entry.Target, err))
			} else {
				entry.Data = content
			}
		}
		rels = append(rels, entry)
	}

	r.rels = model.NewRelationshipMap(rels)
}

// resolveTarget turns a relationship target into a part name.
// Targets starting with "/" are relative to the package root.
func resolveTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(base, target))
}

// parseDocument parses the main document content.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent(mainDocumentPart)
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}
	if r.document.Body == nil {
		r.document.Body = &blockXML{}
	}

	return nil
}

// parseStyles parses the styles definition file.
func (r *Reader) parseStyles() {
	data, err := r.getFileContent("word/styles.xml")
	if err != nil {
		return
	}

	styles := &stylesXML{}
	if err := xml.Unmarshal(data, styles); err != nil {
		r.warnings = append(r.warnings, fmt.Errorf("parsing styles: %w", err))
		return
	}
	r.styles = styles
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.coreProps = props
	}
}

// parseAppProperties parses application metadata.
func (r *Reader) parseAppProperties() {
	data, err := r.getFileContent("docProps/app.xml")
	if err != nil {
		return
	}

	props := &appPropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.appProps = props
	}
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.Metadata{}
	if r.coreProps != nil {
		meta.Title = strings.TrimSpace(r.coreProps.Title)
		meta.Author = strings.TrimSpace(r.coreProps.Creator)
		meta.Subject = strings.TrimSpace(r.coreProps.Subject)
	}
	if r.appProps != nil {
		meta.Creator = r.appProps.Application
	}
	return meta
}

// Document returns the model.Document representation of the package.
// Each call builds a fresh document.
func (r *Reader) Document() (*model.Document, error) {
	if r.document == nil {
		return nil, fmt.Errorf("document not parsed")
	}

	doc := model.NewDocument()
	doc.Metadata = r.Metadata()
	doc.Relationships = r.rels

	pb := &paragraphBuilder{resolver: r.resolver}
	tp := newTableParser(pb)

	body := r.document.Body
	for _, el := range body.Elements {
		switch el.Kind {
		case blockParagraph:
			doc.Append(pb.build(el.Paragraph))
			if s := el.Paragraph.Properties.SectPr; s != nil {
				doc.AddSection(r.buildSection(s, tp))
			}
		case blockTable:
			doc.Append(tp.ParseTable(el.Table))
		}
	}

	// The body-level sectPr describes the last section. A document always
	// has at least one section.
	if body.SectPr != nil || len(doc.Sections) == 0 {
		s := body.SectPr
		if s == nil {
			s = &sectPrXML{}
		}
		doc.AddSection(r.buildSection(s, tp))
	}

	return doc, nil
}

// buildSection resolves a section's default header and footer parts.
func (r *Reader) buildSection(s *sectPrXML, tp *TableParser) *model.Section {
	return &model.Section{
		Header: r.headerFooter(pickRef(s.HeaderRefs), tp),
		Footer: r.headerFooter(pickRef(s.FooterRefs), tp),
	}
}

// headerFooter loads a header or footer part through its relationship.
// Missing or unreadable parts yield nil and a warning.
func (r *Reader) headerFooter(relID string, tp *TableParser) *model.HeaderFooter {
	if relID == "" {
		return nil
	}

	rel, ok := r.rels.Get(relID)
	if !ok || len(rel.Data) == 0 {
		r.warnings = append(r.warnings, fmt.Errorf("header/footer relationship %s not found", relID))
		return nil
	}

	var content blockXML
	if err := xml.Unmarshal(rel.Data, &content); err != nil {
		r.warnings = append(r.warnings, fmt.Errorf("parsing %s: %w", rel.Target, err))
		return nil
	}

	return &model.HeaderFooter{Paragraphs: tp.flatten(content)}
}

// paragraphBuilder converts paragraph XML into model paragraphs.
type paragraphBuilder struct {
	resolver *StyleResolver
}

// build converts one paragraph, applying style resolution.
func (pb *paragraphBuilder) build(p *paragraphXML) *model.Paragraph {
	style := pb.resolver.Resolve(p.Properties.Style.Val)

	alignment := style.Alignment
	if p.Properties.Justification.Val != "" {
		alignment = p.Properties.Justification.Val
	}

	parsed := &model.Paragraph{
		StyleID:   p.Properties.Style.Val,
		StyleName: style.Name,
		Alignment: model.ParseAlignment(alignment),
	}

	for _, run := range p.Runs {
		if run.Text == "" && len(run.Drawings) == 0 {
			continue
		}

		rr := pb.resolver.ResolveRun(run.Properties)
		mr := model.Run{
			Text:       run.Text,
			Bold:       rr.Bold,
			Italic:     rr.Italic,
			Underline:  rr.Underline,
			Color:      rr.Color,
			Size:       rr.Size,
			FontFamily: rr.FontName,
		}
		for _, d := range run.Drawings {
			mr.Drawings = append(mr.Drawings, model.Drawing{
				RelID:       d.RelID,
				Name:        d.Name,
				Description: d.Descr,
			})
		}
		parsed.Runs = append(parsed.Runs, mr)
	}

	return parsed
}
