package wordhtml

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/wordhtml/docx"
	"github.com/tsawler/wordhtml/format"
	"github.com/tsawler/wordhtml/headerfooter"
	"github.com/tsawler/wordhtml/legacy"
	"github.com/tsawler/wordhtml/media"
	"github.com/tsawler/wordhtml/model"
	"github.com/tsawler/wordhtml/render"
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Convert renders input to an HTML file at output. Images, when the mode
// extracts them to files, are written to a sibling "{stem}_images"
// directory that is only created once the first image is written.
//
// Convert never panics on bad input; every failure is reported through
// the result. ctx is checked between pipeline stages.
func Convert(ctx context.Context, input, output string, mode Mode, opts ...Option) ConversionResult {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o = o.forMode(mode)

	c := &conversion{
		ctx:    ctx,
		input:  input,
		output: output,
		opts:   o,
		log:    o.logger.With(slog.String("input", input), slog.String("mode", mode.String())),
	}
	return c.run()
}

// conversion holds the state of one Convert call.
type conversion struct {
	ctx    context.Context
	input  string
	output string
	opts   options
	log    *slog.Logger

	format   format.Format
	images   []model.ExtractedImage
	warnings []Warning
}

func (c *conversion) run() ConversionResult {
	data, err := os.ReadFile(c.input)
	if err != nil {
		return c.fail(&Error{Kind: KindInputRead, Op: "read", Path: c.input, Err: err})
	}

	c.format = format.ResolveContent(c.input, data)
	c.log.Debug("detected format", slog.String("format", c.format.String()))

	var html string
	switch c.format {
	case format.DOCX:
		html, err = c.convertPackage(data)
	case format.DOC:
		html, err = c.convertLegacy(data)
	default:
		err = &Error{Kind: KindUnsupportedFormat, Op: "detect", Path: c.input,
			Err: fmt.Errorf("extension %q does not match a supported signature", filepath.Ext(c.input))}
	}
	if err != nil {
		return c.fail(err)
	}

	if err := c.checkpoint("write"); err != nil {
		return c.fail(err)
	}
	if err := c.write(html); err != nil {
		return c.fail(err)
	}

	res := ConversionResult{
		Success:         true,
		HTMLPath:        c.output,
		ImagesExtracted: len(c.images),
		Message:         fmt.Sprintf("Successfully converted %s file to HTML", c.format.Extension()),
		Warnings:        c.warnings,
	}
	if c.writesImageFiles() && len(c.images) > 0 {
		res.ImagesDir = c.imagesDir()
	}

	c.logWarnings()
	c.log.Info("converted",
		slog.String("output", c.output),
		slog.Int("images", res.ImagesExtracted),
		slog.Int("warnings", len(c.warnings)))
	return res
}

// convertPackage runs the package pipeline: parse, extract images,
// compile headers and footers, render.
func (c *conversion) convertPackage(data []byte) (string, error) {
	if err := c.checkpoint("parse"); err != nil {
		return "", err
	}

	r, err := docx.OpenBytes(data)
	if err != nil {
		return "", &Error{Kind: KindPackageCorrupt, Op: "parse", Path: c.input, Err: err}
	}
	defer r.Close()

	doc, err := r.Document()
	if err != nil {
		return "", &Error{Kind: KindPackageCorrupt, Op: "parse", Path: c.input, Err: err}
	}
	for _, w := range r.Warnings() {
		c.warn(model.WarnPackagePart, w.Error())
	}
	c.log.Debug("parsed package",
		slog.Int("paragraphs", len(doc.Paragraphs())),
		slog.Int("tables", len(doc.Tables())),
		slog.Int("sections", len(doc.Sections)),
		slog.Int("relationships", doc.Relationships.Len()))

	rnd := &render.Renderer{
		HeaderRow: c.opts.headerRow,
		ImageDir:  c.imagesDirName(),
	}

	if c.opts.imageMode != media.Skip {
		if err := c.checkpoint("images"); err != nil {
			return "", err
		}

		ext := c.newExtractor()
		images, warnings, err := ext.Extract(doc.Relationships, c.imagesDir())
		c.warnings = append(c.warnings, warnings...)
		if err != nil {
			return "", &Error{Kind: KindIOWrite, Op: "images", Path: c.imagesDir(), Err: err}
		}
		c.images = images
		rnd.Images = ext

		for _, d := range drawings(doc) {
			if _, ok := ext.Lookup(d.RelID); !ok {
				c.warn(model.WarnRelationshipMissing, fmt.Sprintf("drawing references unknown image relationship %q", d.RelID))
			}
		}
	}

	var hf headerfooter.Compiled
	if c.opts.hfPolicy != headerfooter.Skip {
		if err := c.checkpoint("headers"); err != nil {
			return "", err
		}
		var warnings []model.Warning
		hf, warnings = headerfooter.Compile(doc, c.opts.hfPolicy, rnd.Fragment)
		c.warnings = append(c.warnings, warnings...)
	}

	if err := c.checkpoint("render"); err != nil {
		return "", err
	}
	return rnd.Render(doc, render.Input{
		Title:        c.title(),
		Author:       doc.Metadata.Author,
		HeaderFooter: hf,
		Policy:       c.opts.hfPolicy,
	}), nil
}

// convertLegacy recovers text and carved images from a binary document.
func (c *conversion) convertLegacy(data []byte) (string, error) {
	if err := c.checkpoint("extract"); err != nil {
		return "", err
	}

	var ext *media.Extractor
	if c.opts.imageMode != media.Skip {
		ext = c.newExtractor()
	}

	res, err := legacy.Extract(data, c.imagesDir(), ext)
	c.warnings = append(c.warnings, res.Warnings...)
	if err != nil {
		return "", newError("extract", c.input, err)
	}
	c.images = res.Images

	if err := c.checkpoint("render"); err != nil {
		return "", err
	}
	return render.RenderLegacy(c.title(), legacy.Paragraphs(res.Text), res.Images, c.imagesDirName()), nil
}

func (c *conversion) newExtractor() *media.Extractor {
	ext := media.NewExtractor(c.opts.imageMode, c.opts.optimize)
	ext.Logger = c.log
	return ext
}

// write creates the output's parent directory if needed and writes html.
func (c *conversion) write(html string) error {
	if dir := filepath.Dir(c.output); dir != "" {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return &Error{Kind: KindIOWrite, Op: "write", Path: dir, Err: err}
		}
	}
	if err := os.WriteFile(c.output, []byte(html), filePermissions); err != nil {
		return &Error{Kind: KindIOWrite, Op: "write", Path: c.output, Err: err}
	}
	return nil
}

func (c *conversion) checkpoint(op string) error {
	if c.ctx == nil {
		return nil
	}
	if err := c.ctx.Err(); err != nil {
		return &Error{Kind: KindCanceled, Op: op, Path: c.input, Err: err}
	}
	return nil
}

func (c *conversion) fail(err error) ConversionResult {
	c.logWarnings()
	c.log.Error("conversion failed", slog.Any("error", err))

	msg := "Only .doc and .docx files are supported"
	if KindOf(err) != KindUnsupportedFormat {
		msg = fmt.Sprintf("Failed to convert %s file: %v", c.sourceLabel(), err)
	}
	return ConversionResult{
		Message:  msg,
		Err:      err,
		Warnings: c.warnings,
	}
}

func (c *conversion) warn(kind model.WarningKind, msg string) {
	c.warnings = append(c.warnings, model.Warning{Kind: kind, Message: msg})
}

func (c *conversion) logWarnings() {
	for _, w := range c.warnings {
		c.log.Warn(w.Message, slog.String("kind", string(w.Kind)))
	}
}

func (c *conversion) sourceLabel() string {
	if ext := c.format.Extension(); ext != "" {
		return ext
	}
	return strings.ToLower(filepath.Ext(c.input))
}

func (c *conversion) writesImageFiles() bool {
	return c.opts.imageMode == media.External
}

// imagesDirName is the image directory as referenced from the HTML file.
// Inline images need none.
func (c *conversion) imagesDirName() string {
	if !c.writesImageFiles() {
		return ""
	}
	return stem(c.output) + "_images"
}

func (c *conversion) imagesDir() string {
	return filepath.Join(filepath.Dir(c.output), stem(c.output)+"_images")
}

func (c *conversion) title() string {
	if c.opts.title != "" {
		return c.opts.title
	}
	return stem(c.input)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// drawings returns every drawing in the body, including those in table
// cells, in document order.
func drawings(doc *model.Document) []model.Drawing {
	var out []model.Drawing
	for _, el := range doc.Body {
		switch e := el.(type) {
		case *model.Paragraph:
			out = append(out, e.Drawings()...)
		case *model.Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					for _, p := range cell.Paragraphs {
						out = append(out, p.Drawings()...)
					}
				}
			}
		}
	}
	return out
}
