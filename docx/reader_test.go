package docx

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/wordhtml/model"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-png-payload")

func TestOpen(t *testing.T) {
	data := createTestDOCX(t, `<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`)
	path := writeTestFile(t, "test.docx", data)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.document == nil {
		t.Error("document should not be nil")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open("/nonexistent/file.docx")
	if !errors.Is(err, ErrPackageCorrupt) {
		t.Errorf("Open() error = %v, want ErrPackageCorrupt", err)
	}
}

func TestOpen_InvalidZip(t *testing.T) {
	invalidPath := filepath.Join(t.TempDir(), "invalid.docx")
	os.WriteFile(invalidPath, []byte("not a zip file"), 0o644)

	_, err := Open(invalidPath)
	if !errors.Is(err, ErrPackageCorrupt) {
		t.Errorf("Open() error = %v, want ErrPackageCorrupt", err)
	}
}

func TestOpenBytes_MissingDocumentXML(t *testing.T) {
	data := buildPackage(t,
		part{Name: "[Content_Types].xml", Data: contentTypes},
		part{Name: "word/styles.xml", Data: wrapStyles("")},
	)

	_, err := OpenBytes(data)
	if !errors.Is(err, ErrPackageCorrupt) {
		t.Fatalf("OpenBytes() error = %v, want ErrPackageCorrupt", err)
	}
	if !strings.Contains(err.Error(), "word/document.xml") {
		t.Errorf("error %q should name the missing part", err)
	}
}

func TestOpenBytes_MalformedDocument(t *testing.T) {
	data := buildPackage(t, part{Name: "word/document.xml", Data: "<w:document><w:body><w:p>"})

	if _, err := OpenBytes(data); !errors.Is(err, ErrPackageCorrupt) {
		t.Errorf("OpenBytes() error = %v, want ErrPackageCorrupt", err)
	}
}

func TestOpenBytes_ToleratesMissingContentTypes(t *testing.T) {
	data := buildPackage(t, part{Name: "word/document.xml", Data: wrapDocument(`<w:p><w:r><w:t>ok</w:t></w:r></w:p>`)})

	_, doc := openDocument(t, data)
	if got := doc.Paragraphs()[0].Text(); got != "ok" {
		t.Errorf("Text() = %q, want %q", got, "ok")
	}
}

func TestOpenBytes_IgnoresUnknownParts(t *testing.T) {
	data := createTestDOCX(t, `<w:p><w:r><w:t>ok</w:t></w:r></w:p>`,
		part{Name: "word/futureFeature.xml", Data: "<<< not xml"},
		part{Name: "customXml/item1.xml", Data: "<data/>"},
	)

	r, doc := openDocument(t, data)
	if len(doc.Body) != 1 {
		t.Errorf("Body len = %d, want 1", len(doc.Body))
	}
	if len(r.Warnings()) != 0 {
		t.Errorf("Warnings() = %v, want none", r.Warnings())
	}
}

func TestDocument_BodyOrder(t *testing.T) {
	body := `
<w:p><w:r><w:t>First</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:t>Second</w:t></w:r></w:p>
<w:sdt><w:sdtPr/><w:sdtContent><w:p><w:r><w:t>Inside control</w:t></w:r></w:p></w:sdtContent></w:sdt>
<w:bookmarkStart w:id="0" w:name="x"/>
<w:p><w:r><w:t>Third</w:t></w:r></w:p>`

	_, doc := openDocument(t, createTestDOCX(t, body))

	want := []string{"P:First", "T", "P:Second", "P:Inside control", "P:Third"}
	if len(doc.Body) != len(want) {
		t.Fatalf("Body len = %d, want %d", len(doc.Body), len(want))
	}
	for i, el := range doc.Body {
		var got string
		switch e := el.(type) {
		case *model.Paragraph:
			got = "P:" + e.Text()
		case *model.Table:
			got = "T"
		}
		if got != want[i] {
			t.Errorf("Body[%d] = %q, want %q", i, got, want[i])
		}
	}
}

func TestDocument_RunText(t *testing.T) {
	body := `<w:p>
<w:r><w:t xml:space="preserve">Tab</w:t><w:tab/><w:t>bed</w:t></w:r>
<w:r><w:br/><w:t>next</w:t></w:r>
<w:hyperlink r:id="rId9"><w:r><w:t> link</w:t></w:r></w:hyperlink>
<w:del><w:r><w:delText>gone</w:delText></w:r></w:del>
<w:ins><w:r><w:t> added</w:t></w:r></w:ins>
<w:proofErr w:type="spellStart"/>
</w:p>`

	_, doc := openDocument(t, createTestDOCX(t, body))

	got := doc.Paragraphs()[0].Text()
	want := "Tab\tbed\nnext link added"
	if got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestDocument_Symbol(t *testing.T) {
	body := `<w:p><w:r><w:sym w:font="Wingdings" w:char="F041"/></w:r></w:p>`

	_, doc := openDocument(t, createTestDOCX(t, body))

	if got := doc.Paragraphs()[0].Text(); got != "A" {
		t.Errorf("Text() = %q, want %q", got, "A")
	}
}

func TestDocument_RunFormatting(t *testing.T) {
	body := `<w:p><w:pPr><w:jc w:val="center"/></w:pPr>
<w:r><w:rPr><w:b/><w:i/><w:u w:val="single"/><w:color w:val="FF0000"/><w:sz w:val="24"/><w:rFonts w:ascii="Times New Roman"/></w:rPr><w:t>styled</w:t></w:r>
<w:r><w:rPr><w:b w:val="0"/><w:u w:val="none"/><w:color w:val="auto"/></w:rPr><w:t>plain</w:t></w:r>
</w:p>`

	_, doc := openDocument(t, createTestDOCX(t, body))

	p := doc.Paragraphs()[0]
	if p.Alignment != model.AlignCenter {
		t.Errorf("Alignment = %v, want center", p.Alignment)
	}
	if len(p.Runs) != 2 {
		t.Fatalf("Runs len = %d, want 2", len(p.Runs))
	}

	styled := p.Runs[0]
	if !styled.Bold || !styled.Italic || !styled.Underline {
		t.Errorf("styled run flags = %+v", styled)
	}
	if styled.Color != "FF0000" || styled.Size != "24" || styled.FontFamily != "Times New Roman" {
		t.Errorf("styled run = %+v", styled)
	}

	plain := p.Runs[1]
	if plain.Bold || plain.Italic || plain.Underline {
		t.Errorf("plain run flags = %+v", plain)
	}
	if plain.Color != "auto" {
		t.Errorf("plain run Color = %q, want raw value %q", plain.Color, "auto")
	}
}

func TestDocument_CharacterStyle(t *testing.T) {
	styles := `
<w:style w:type="character" w:styleId="Strong"><w:name w:val="Strong"/><w:rPr><w:b/></w:rPr></w:style>
<w:style w:type="character" w:styleId="Loud"><w:name w:val="Loud"/><w:basedOn w:val="Strong"/><w:rPr><w:color w:val="00FF00"/></w:rPr></w:style>`
	body := `<w:p>
<w:r><w:rPr><w:rStyle w:val="Loud"/></w:rPr><w:t>inherited</w:t></w:r>
<w:r><w:rPr><w:rStyle w:val="Loud"/><w:b w:val="false"/></w:rPr><w:t>override</w:t></w:r>
</w:p>`

	data := createTestDOCX(t, body, part{Name: "word/styles.xml", Data: wrapStyles(styles)})
	_, doc := openDocument(t, data)

	runs := doc.Paragraphs()[0].Runs
	if !runs[0].Bold || runs[0].Color != "00FF00" {
		t.Errorf("inherited run = %+v", runs[0])
	}
	if runs[1].Bold || runs[1].Color != "00FF00" {
		t.Errorf("override run = %+v", runs[1])
	}
}

func TestDocument_ParagraphStyle(t *testing.T) {
	styles := `
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:pPr><w:jc w:val="center"/></w:pPr><w:rPr><w:b/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="MyQuote"><w:name w:val="Quote Block"/><w:basedOn w:val="Heading1"/></w:style>`
	body := `
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="MyQuote"/><w:jc w:val="right"/></w:pPr><w:r><w:t>Quote</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading7"/></w:pPr><w:r><w:t>Deep</w:t></w:r></w:p>`

	data := createTestDOCX(t, body, part{Name: "word/styles.xml", Data: wrapStyles(styles)})
	_, doc := openDocument(t, data)

	paras := doc.Paragraphs()
	if paras[0].StyleName != "Heading 1" || paras[0].Alignment != model.AlignCenter {
		t.Errorf("heading paragraph = %+v", paras[0])
	}
	// Paragraph style run properties do not leak into runs.
	if paras[0].Runs[0].Bold {
		t.Error("paragraph style bold should not be applied to the run")
	}
	if paras[1].StyleName != "Quote Block" || paras[1].Alignment != model.AlignEnd {
		t.Errorf("quote paragraph = %+v", paras[1])
	}
	if paras[2].StyleName != "Heading 7" {
		t.Errorf("undeclared heading StyleName = %q, want %q", paras[2].StyleName, "Heading 7")
	}
}

func TestDocument_Drawings(t *testing.T) {
	rels := wrapRels(`
<Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
<Relationship Id="rId8" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image2.png"/>
<Relationship Id="rId9" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com" TargetMode="External"/>`)

	body := `<w:p>
<w:r><w:t>Before</w:t></w:r>
<w:r><w:drawing><wp:inline><wp:docPr id="1" name="Picture 1" descr="A chart"/>
<a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed="rId8"/></pic:blipFill></pic:pic></a:graphicData></a:graphic>
</wp:inline></w:drawing></w:r>
<w:r><mc:AlternateContent>
<mc:Choice Requires="wps"><w:drawing><wp:anchor><wp:docPr id="2" name="Picture 2"/>
<a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed="rId7"/></pic:blipFill></pic:pic></a:graphicData></a:graphic>
</wp:anchor></w:drawing></mc:Choice>
<mc:Fallback><w:pict><v:shape><v:imagedata r:id="rId7"/></v:shape></w:pict></mc:Fallback>
</mc:AlternateContent></w:r>
<w:r><w:pict><v:shape><v:imagedata r:id="rId99"/></v:shape></w:pict></w:r>
</w:p>`

	data := createTestDOCX(t, body,
		part{Name: "word/_rels/document.xml.rels", Data: rels},
		part{Name: "word/media/image1.png", Data: string(pngBytes)},
		part{Name: "word/media/image2.png", Data: string(pngBytes)},
	)
	r, doc := openDocument(t, data)

	drawings := doc.Paragraphs()[0].Drawings()
	if len(drawings) != 3 {
		t.Fatalf("Drawings() len = %d, want 3", len(drawings))
	}
	if drawings[0].RelID != "rId8" || drawings[0].Description != "A chart" {
		t.Errorf("drawing[0] = %+v", drawings[0])
	}
	if drawings[1].RelID != "rId7" {
		t.Errorf("drawing[1] = %+v, want rId7 once", drawings[1])
	}
	if drawings[2].RelID != "rId99" {
		t.Errorf("drawing[2] = %+v, want rId99", drawings[2])
	}

	rel, ok := r.Relationships().Get("rId7")
	if !ok || rel.Target != "word/media/image1.png" || string(rel.Data) != string(pngBytes) {
		t.Errorf("rId7 = %+v, %v", rel, ok)
	}
	ext, ok := doc.Relationships.Get("rId9")
	if !ok || !ext.External || ext.Data != nil {
		t.Errorf("rId9 = %+v, %v", ext, ok)
	}
	if _, ok := doc.Relationships.Get("rId99"); ok {
		t.Error("rId99 should not resolve")
	}

	media := doc.Relationships.Media()
	if len(media) != 2 || media[0].ID != "rId7" || media[1].ID != "rId8" {
		t.Errorf("Media() = %+v, want rId7, rId8 in declaration order", media)
	}
}

func TestDocument_MalformedRelationshipsTolerated(t *testing.T) {
	data := createTestDOCX(t, `<w:p><w:r><w:t>ok</w:t></w:r></w:p>`,
		part{Name: "word/_rels/document.xml.rels", Data: "<Relationships><Relationship"},
	)

	r, doc := openDocument(t, data)
	if doc.Relationships.Len() != 0 {
		t.Errorf("Relationships.Len() = %d, want 0", doc.Relationships.Len())
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("Warnings() = %v, want one warning", r.Warnings())
	}
}

func TestDocument_Sections(t *testing.T) {
	rels := wrapRels(`
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="/word/footer1.xml"/>
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header2.xml"/>
<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header3.xml"/>`)

	hdr := func(text string) string {
		return `<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p><w:p/></w:hdr>`
	}
	footer := `<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p><w:r><w:t>Page footer</w:t></w:r></w:p></w:ftr>`

	body := `
<w:p><w:pPr><w:sectPr><w:headerReference w:type="first" r:id="rId4"/><w:headerReference w:type="default" r:id="rId1"/><w:footerReference w:type="default" r:id="rId2"/></w:sectPr></w:pPr><w:r><w:t>Section one</w:t></w:r></w:p>
<w:p><w:r><w:t>Section two</w:t></w:r></w:p>
<w:sectPr><w:headerReference w:type="even" r:id="rId3"/><w:footerReference w:type="default" r:id="rId42"/></w:sectPr>`

	data := createTestDOCX(t, body,
		part{Name: "word/_rels/document.xml.rels", Data: rels},
		part{Name: "word/header1.xml", Data: hdr("First header")},
		part{Name: "word/header2.xml", Data: hdr("Even header")},
		part{Name: "word/header3.xml", Data: hdr("Title page header")},
		part{Name: "word/footer1.xml", Data: footer},
	)
	r, doc := openDocument(t, data)

	if len(doc.Sections) != 2 {
		t.Fatalf("Sections len = %d, want 2", len(doc.Sections))
	}

	first := doc.Sections[0]
	if first.Header == nil || first.Header.Paragraphs[0].Text() != "First header" {
		t.Errorf("first header = %+v", first.Header)
	}
	if len(first.Header.Paragraphs) != 2 {
		t.Errorf("first header paragraphs = %d, want 2 (blank kept for the compiler to drop)", len(first.Header.Paragraphs))
	}
	if first.Footer == nil || first.Footer.Paragraphs[0].Text() != "Page footer" {
		t.Errorf("first footer = %+v", first.Footer)
	}

	second := doc.Sections[1]
	if second.Header == nil || second.Header.Paragraphs[0].Text() != "Even header" {
		t.Errorf("second header = %+v", second.Header)
	}
	if second.Footer != nil {
		t.Errorf("second footer = %+v, want nil for missing relationship", second.Footer)
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("Warnings() = %v, want one for rId42", r.Warnings())
	}

	// Header content never enters the body.
	for _, p := range doc.Paragraphs() {
		if strings.Contains(p.Text(), "header") {
			t.Errorf("body contains header text %q", p.Text())
		}
	}
}

func TestDocument_DefaultSection(t *testing.T) {
	_, doc := openDocument(t, createTestDOCX(t, `<w:p/>`))

	if len(doc.Sections) != 1 {
		t.Fatalf("Sections len = %d, want 1", len(doc.Sections))
	}
	if doc.Sections[0].Header != nil || doc.Sections[0].Footer != nil {
		t.Error("default section should have no header or footer")
	}
}

func TestDocument_EmptyBody(t *testing.T) {
	data := buildPackage(t, part{Name: "word/document.xml", Data: `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`})

	_, doc := openDocument(t, data)
	if len(doc.Body) != 0 {
		t.Errorf("Body len = %d, want 0", len(doc.Body))
	}
}

func TestMetadata(t *testing.T) {
	core := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title> Quarterly Report </dc:title><dc:creator>Jane Doe</dc:creator><dc:subject>Finance</dc:subject>
</cp:coreProperties>`
	app := `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"><Application>Microsoft Office Word</Application></Properties>`

	data := createTestDOCX(t, `<w:p/>`, part{Name: "docProps/core.xml", Data: core}, part{Name: "docProps/app.xml", Data: app})
	_, doc := openDocument(t, data)

	want := model.Metadata{Title: "Quarterly Report", Author: "Jane Doe", Subject: "Finance", Creator: "Microsoft Office Word"}
	if doc.Metadata != want {
		t.Errorf("Metadata = %+v, want %+v", doc.Metadata, want)
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"media/image1.png", "word/media/image1.png"},
		{"../customXml/item1.xml", "customXml/item1.xml"},
		{"/word/media/image2.png", "word/media/image2.png"},
		{"./header1.xml", "word/header1.xml"},
	}

	for _, tt := range tests {
		if got := resolveTarget("word", tt.target); got != tt.want {
			t.Errorf("resolveTarget(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}
