package render

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/tsawler/wordhtml/headerfooter"
	"github.com/tsawler/wordhtml/legacy"
	"github.com/tsawler/wordhtml/model"
)

// imageMap is a fixed ImageResolver.
type imageMap map[string]model.ExtractedImage

func (m imageMap) Lookup(relID string) (model.ExtractedImage, bool) {
	img, ok := m[relID]
	return img, ok
}

func parseHTML(t *testing.T, s string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}
	return doc
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func para(text string) *model.Paragraph {
	return &model.Paragraph{Runs: []model.Run{{Text: text}}}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<tag>", "&lt;tag&gt;"},
		{"&amp;", "&amp;amp;"},
		{`"quoted" 'single'`, `"quoted" 'single'`},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		name   string
		level  int
		isHead bool
	}{
		{"Heading 1", 1, true},
		{"Heading 6", 6, true},
		{"Heading 7", 6, true},
		{"Heading 42", 6, true},
		{"Heading 0", 1, true},
		{"Heading abc", 2, true},
		{"Heading", 2, true},
		{"Normal", 0, false},
		{"Title", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		level, ok := HeadingLevel(tt.name)
		if level != tt.level || ok != tt.isHead {
			t.Errorf("HeadingLevel(%q) = %d, %v; want %d, %v", tt.name, level, ok, tt.level, tt.isHead)
		}
	}
}

func TestParagraph(t *testing.T) {
	r := &Renderer{}

	tests := []struct {
		name string
		p    *model.Paragraph
		want string
	}{
		{"empty", &model.Paragraph{}, "<br/>"},
		{"whitespace", para("  \t "), "<br/>"},
		{"plain", para("Hello"), "<p>Hello</p>"},
		{
			"styled run",
			&model.Paragraph{Runs: []model.Run{{Text: "Bold", Bold: true}, {Text: " tail"}}},
			`<p><span style="font-weight: bold">Bold</span> tail</p>`,
		},
		{
			"alignment",
			&model.Paragraph{Alignment: model.AlignCenter, Runs: []model.Run{{Text: "Centered"}}},
			`<p style="text-align: center">Centered</p>`,
		},
		{
			"escape once across runs",
			&model.Paragraph{Runs: []model.Run{{Text: "a & b"}, {Text: " <c>", Italic: true}, {Text: " > d"}}},
			`<p>a &amp; b<span style="font-style: italic"> &lt;c&gt;</span> &gt; d</p>`,
		},
		{"line break", para("one\ntwo"), "<p>one<br/>two</p>"},
		{
			"heading 7 clamps",
			&model.Paragraph{StyleName: "Heading 7", Runs: []model.Run{{Text: "Deep"}}},
			"<h6>Deep</h6>",
		},
		{
			"unparsable heading",
			&model.Paragraph{StyleName: "Heading abc", Runs: []model.Run{{Text: "Odd"}}},
			"<h2>Odd</h2>",
		},
		{
			"heading with alignment",
			&model.Paragraph{StyleName: "Heading 1", Alignment: model.AlignEnd, Runs: []model.Run{{Text: "Right"}}},
			`<h1 style="text-align: right">Right</h1>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Paragraph(tt.p); got != tt.want {
				t.Errorf("Paragraph() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParagraph_StyleAttributeEscaped(t *testing.T) {
	r := &Renderer{}
	p := &model.Paragraph{Runs: []model.Run{{Text: "hi", FontFamily: `Evil" onmouseover="alert(1)`}}}

	got := r.Paragraph(p)
	want := `<p><span style="font-family: 'Evil&quot; onmouseover=&quot;alert(1)', sans-serif">hi</span></p>`
	if got != want {
		t.Errorf("Paragraph() = %q, want %q", got, want)
	}

	spans := findAll(parseHTML(t, got), "span")
	if len(spans) != 1 {
		t.Fatalf("found %d spans, want 1", len(spans))
	}
	if len(spans[0].Attr) != 1 {
		t.Errorf("span has attributes %v, want only style", spans[0].Attr)
	}
	if s := attr(spans[0], "style"); s != `font-family: 'Evil" onmouseover="alert(1)', sans-serif` {
		t.Errorf("style = %q", s)
	}
}

func TestParagraph_Images(t *testing.T) {
	r := &Renderer{
		ImageDir: "report_images",
		Images: imageMap{
			"rId5": {Index: 1, Filename: "image_001.png"},
			"rId6": {Index: 2, Filename: "image_002.jpg", DataURI: "data:image/jpeg;base64,AAAA"},
		},
	}

	onlyImage := &model.Paragraph{Runs: []model.Run{{Drawings: []model.Drawing{{RelID: "rId5"}}}}}
	want := `<p><img src="report_images/image_001.png" alt="Image 1" style="max-width: 100%; height: auto;"/></p>`
	if got := r.Paragraph(onlyImage); got != want {
		t.Errorf("Paragraph(image only) = %q, want %q", got, want)
	}

	mixed := &model.Paragraph{Runs: []model.Run{
		{Text: "Figure:", Drawings: []model.Drawing{{RelID: "rId6", Description: `A "chart"`}}},
		{Drawings: []model.Drawing{{RelID: "rId404"}}},
	}}
	want = `<p>Figure:<img src="data:image/jpeg;base64,AAAA" alt="A &quot;chart&quot;" style="max-width: 100%; height: auto;"/></p>`
	if got := r.Paragraph(mixed); got != want {
		t.Errorf("Paragraph(mixed) = %q, want %q", got, want)
	}

	unresolved := &model.Paragraph{Runs: []model.Run{{Drawings: []model.Drawing{{RelID: "rId404"}}}}}
	if got := r.Paragraph(unresolved); got != "<br/>" {
		t.Errorf("Paragraph(unresolved) = %q, want <br/>", got)
	}

	frag, err := r.Fragment(onlyImage)
	if err != nil || frag != "<br/>" {
		t.Errorf("Fragment() = %q, %v; header images are not rendered", frag, err)
	}
}

func threeRowTable() *model.Table {
	row := func(header bool, cells ...string) model.Row {
		r := model.Row{Header: header}
		for _, c := range cells {
			r.Cells = append(r.Cells, model.Cell{ColSpan: 1, Paragraphs: []*model.Paragraph{para(c)}})
		}
		return r
	}
	return &model.Table{Rows: []model.Row{
		row(true, "Name", "Qty"),
		row(false, "Apples", "3"),
		row(false, "Pears", ""),
	}}
}

func TestTable_NoHeaderPromotion(t *testing.T) {
	out := (&Renderer{}).Table(threeRowTable())
	doc := parseHTML(t, out)

	if n := len(findAll(doc, "table")); n != 1 {
		t.Errorf("tables = %d, want 1", n)
	}
	if n := len(findAll(doc, "tr")); n != 3 {
		t.Errorf("rows = %d, want 3", n)
	}
	if n := len(findAll(doc, "th")); n != 0 {
		t.Errorf("th cells = %d, want 0", n)
	}
	if n := len(findAll(doc, "td")); n != 6 {
		t.Errorf("td cells = %d, want 6", n)
	}
	if !strings.Contains(out, "<td>&nbsp;</td>") {
		t.Errorf("empty cell should render &nbsp;: %s", out)
	}
	if !strings.HasPrefix(out, `<table border="1" cellpadding="5" cellspacing="0" style="border-collapse: collapse;">`) {
		t.Errorf("unexpected table open tag: %s", out)
	}
}

func TestTable_HeaderPromotion(t *testing.T) {
	tbl := threeRowTable()
	tbl.Rows[2].Header = true

	doc := parseHTML(t, (&Renderer{HeaderRow: true}).Table(tbl))

	ths := findAll(doc, "th")
	if len(ths) != 4 {
		t.Fatalf("th cells = %d, want 4 (row 0 and the flagged row)", len(ths))
	}
	if textOf(ths[0]) != "Name" {
		t.Errorf("first th = %q", textOf(ths[0]))
	}
}

func TestTable_CellContent(t *testing.T) {
	tbl := &model.Table{Rows: []model.Row{{Cells: []model.Cell{
		{ColSpan: 2, Paragraphs: []*model.Paragraph{para("one"), para(" "), para("two")}},
		{ColSpan: 1, Paragraphs: []*model.Paragraph{{Runs: []model.Run{{Drawings: []model.Drawing{{RelID: "rId1"}}}}}}},
	}}}}
	r := &Renderer{Images: imageMap{"rId1": {Index: 1, Filename: "image_001.png"}}, ImageDir: "x_images"}

	out := r.Table(tbl)
	if !strings.Contains(out, `<td colspan="2"><p>one</p><p>two</p></td>`) {
		t.Errorf("blank paragraphs should be dropped from cells: %s", out)
	}
	if !strings.Contains(out, `<td><p><img src="x_images/image_001.png"`) {
		t.Errorf("image-only cell paragraph should render: %s", out)
	}
}

func testDocument() *model.Document {
	doc := model.NewDocument()
	doc.Append(&model.Paragraph{StyleName: "Heading 1", Runs: []model.Run{{Text: "Report"}}})
	doc.Append(threeRowTable())
	doc.Append(&model.Paragraph{})
	doc.Append(para("Done & dusted"))
	return doc
}

func TestRender_Document(t *testing.T) {
	r := &Renderer{}
	in := Input{
		Title:  "Q3 <draft>",
		Author: "Jane Doe",
		HeaderFooter: headerfooter.Compiled{
			Headers: []string{"<p>Acme</p>"},
			Footers: []string{"<p>Page</p>"},
		},
		Policy: headerfooter.Include,
	}

	out := r.Render(testDocument(), in)
	if !strings.HasPrefix(out, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">") {
		t.Errorf("unexpected document start:\n%s", out[:min(len(out), 120)])
	}
	if !strings.Contains(out, "<title>Q3 &lt;draft&gt;</title>") {
		t.Error("title should be escaped")
	}
	if !strings.Contains(out, `<meta name="author" content="Jane Doe">`) {
		t.Error("author meta missing")
	}

	doc := parseHTML(t, out)

	mains := findAll(doc, "main")
	if len(mains) != 1 || attr(mains[0], "class") != "document-content" {
		t.Fatalf("main = %v", mains)
	}
	var order []string
	for c := mains[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			order = append(order, c.Data)
		}
	}
	if got := strings.Join(order, ","); got != "h1,table,br,p" {
		t.Errorf("body order = %s, want h1,table,br,p", got)
	}

	headers := findAll(doc, "header")
	if len(headers) != 1 || attr(headers[0], "class") != "document-header" || textOf(headers[0]) != "\nAcme\n" {
		t.Errorf("header = %v", headers)
	}
	footers := findAll(doc, "footer")
	if len(footers) != 1 || attr(footers[0], "class") != "document-footer" {
		t.Errorf("footer = %v", footers)
	}

	style := textOf(findAll(doc, "style")[0])
	if !strings.Contains(style, "body { font-family: Arial, sans-serif; line-height: 1.6; margin: 40px; }") {
		t.Error("base stylesheet missing")
	}
	if !strings.Contains(style, ".document-header {") {
		t.Error("header/footer stylesheet missing")
	}
}

func TestRender_SkipPolicy(t *testing.T) {
	in := Input{
		Title:        "x",
		HeaderFooter: headerfooter.Compiled{Headers: []string{"<p>Acme</p>"}},
		Policy:       headerfooter.Skip,
	}

	out := (&Renderer{}).Render(testDocument(), in)
	if strings.Contains(out, "<header") || strings.Contains(out, "document-header") {
		t.Errorf("skip policy should leave out headers and their CSS:\n%s", out)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := &Renderer{HeaderRow: true}
	in := Input{Title: "same"}

	if a, b := r.Render(testDocument(), in), r.Render(testDocument(), in); a != b {
		t.Error("Render() output differs between calls")
	}
}

func TestRenderLegacy(t *testing.T) {
	paras := []legacy.Paragraph{
		{Text: "CHAPTER ONE", Heading: true},
		{Text: "Fish & chips", Heading: false},
	}
	images := []model.ExtractedImage{{Index: 1, Filename: "image_001.jpg"}}

	out := RenderLegacy("old <memo>", paras, images, "memo_images")
	doc := parseHTML(t, out)

	h2 := findAll(doc, "h2")
	if len(h2) != 1 || textOf(h2[0]) != "CHAPTER ONE" {
		t.Errorf("h2 = %v", h2)
	}
	if !strings.Contains(out, "<p>Fish &amp; chips</p>") {
		t.Error("paragraph text should be escaped once")
	}
	if !strings.Contains(out, "<title>old &lt;memo&gt;</title>") {
		t.Error("title should be escaped")
	}

	imgs := findAll(doc, "img")
	if len(imgs) != 1 || attr(imgs[0], "src") != "memo_images/image_001.jpg" || attr(imgs[0], "alt") != "Image 1" {
		t.Errorf("img = %v", imgs)
	}
	if !strings.Contains(out, "<code>memo_images/</code>") {
		t.Error("note should name the image directory")
	}
}

func TestRenderLegacy_NoImages(t *testing.T) {
	out := RenderLegacy("t", []legacy.Paragraph{{Text: "x"}}, nil, "")
	if strings.Contains(out, `class="note"`) {
		t.Error("no note expected without images")
	}
}
