// Package media extracts embedded images from a document and writes them
// next to the rendered HTML or encodes them inline.
//
// Images are taken from the relationship map in declaration order, which
// fixes their output names (image_001.png, image_002.jpg, ...) no matter
// where in the body they are referenced. Drawings are joined to their
// output through [Extractor.Lookup].
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/wordhtml/model"
)

// ErrIOWrite reports that an image could not be written to disk.
var ErrIOWrite = errors.New("media: write failed")

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Default optimization bounds.
const (
	DefaultMaxWidth  = 1200
	DefaultMaxHeight = 800
	DefaultQuality   = 85
)

// Mode selects how extracted images reach the HTML.
type Mode int

const (
	// External writes image files into a directory beside the HTML.
	External Mode = iota
	// Inline embeds images as base64 data URIs.
	Inline
	// Skip extracts nothing; images render as absent.
	Skip
)

func (m Mode) String() string {
	switch m {
	case External:
		return "external"
	case Inline:
		return "inline"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "external", "inline" or "skip".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "external", "":
		return External, nil
	case "inline":
		return Inline, nil
	case "skip":
		return Skip, nil
	}
	return External, fmt.Errorf("unknown image mode %q", s)
}

// Extractor extracts images for one conversion. It numbers images
// sequentially and must not be shared between conversions.
type Extractor struct {
	Mode      Mode
	Optimize  bool
	MaxWidth  int
	MaxHeight int
	Quality   int
	Logger    *slog.Logger

	images   []model.ExtractedImage
	byRel    map[string]int
	warnings []model.Warning
	dirReady bool
}

// NewExtractor returns an extractor with the default optimization bounds.
func NewExtractor(mode Mode, optimize bool) *Extractor {
	return &Extractor{
		Mode:      mode,
		Optimize:  optimize,
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		Quality:   DefaultQuality,
	}
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

// Extract processes every media relationship in rels. In External mode
// files are written to outputDir, which is created on the first write.
// Per-image decode problems become warnings; a failed write aborts the
// extraction with ErrIOWrite.
func (e *Extractor) Extract(rels *model.RelationshipMap, outputDir string) ([]model.ExtractedImage, []model.Warning, error) {
	if e.Mode == Skip {
		return nil, nil, nil
	}

	for _, rel := range rels.Media() {
		if _, done := e.byRel[rel.ID]; done {
			continue
		}
		if err := e.add(rel.ID, rel.Name(), rel.Data, outputDir); err != nil {
			return e.Images(), e.Warnings(), err
		}
	}

	return e.Images(), e.Warnings(), nil
}

// ExtractData processes image blobs that have no relationship, such as
// pictures carved out of a legacy document. Numbering continues from any
// previous extraction.
func (e *Extractor) ExtractData(blobs [][]byte, outputDir string) ([]model.ExtractedImage, []model.Warning, error) {
	if e.Mode == Skip {
		return nil, nil, nil
	}

	for _, data := range blobs {
		if len(data) == 0 {
			continue
		}
		if err := e.add("", "", data, outputDir); err != nil {
			return e.Images(), e.Warnings(), err
		}
	}

	return e.Images(), e.Warnings(), nil
}

// Lookup returns the extracted image for a relationship ID.
func (e *Extractor) Lookup(relID string) (model.ExtractedImage, bool) {
	i, ok := e.byRel[relID]
	if !ok {
		return model.ExtractedImage{}, false
	}
	return e.images[i], true
}

// Images returns the extracted images in extraction order.
func (e *Extractor) Images() []model.ExtractedImage {
	return append([]model.ExtractedImage(nil), e.images...)
}

// Warnings returns the problems recorded so far.
func (e *Extractor) Warnings() []model.Warning {
	return append([]model.Warning(nil), e.warnings...)
}

func (e *Extractor) add(relID, name string, data []byte, outputDir string) error {
	if e.Optimize {
		optimized, err := Optimize(data, e.MaxWidth, e.MaxHeight, e.Quality)
		if err != nil {
			e.warn(model.WarnImageDecode, fmt.Sprintf("%s: %v; keeping original bytes", describe(relID, name), err))
		} else {
			data = optimized
		}
	}

	format := Sniff(data)
	img := model.ExtractedImage{
		Index:        len(e.images) + 1,
		RelID:        relID,
		OriginalName: name,
		Filename:     fmt.Sprintf("image_%03d%s", len(e.images)+1, format.Extension()),
		Format:       string(format),
	}

	switch e.Mode {
	case Inline:
		img.DataURI = "data:" + format.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(data)
		img.Size = len(data)
	default:
		if err := e.ensureDir(outputDir); err != nil {
			return err
		}
		img.Path = filepath.Join(outputDir, img.Filename)
		if err := os.WriteFile(img.Path, data, filePermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrIOWrite, err)
		}
		img.Size = len(data)
	}

	if relID != "" {
		if e.byRel == nil {
			e.byRel = make(map[string]int)
		}
		e.byRel[relID] = len(e.images)
	}
	e.images = append(e.images, img)

	e.logger().Debug("extracted image",
		slog.String("file", img.Filename),
		slog.String("source", describe(relID, name)),
		slog.Int("bytes", img.Size))
	return nil
}

func (e *Extractor) ensureDir(dir string) error {
	if e.dirReady {
		return nil
	}
	if dir == "" {
		return fmt.Errorf("%w: no output directory", ErrIOWrite)
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrIOWrite, err)
	}
	e.dirReady = true
	return nil
}

func (e *Extractor) warn(kind model.WarningKind, msg string) {
	e.warnings = append(e.warnings, model.Warning{Kind: kind, Message: msg})
	e.logger().Warn(msg, slog.String("kind", string(kind)))
}

func describe(relID, name string) string {
	switch {
	case name != "":
		return name
	case relID != "":
		return relID
	default:
		return "embedded image"
	}
}
