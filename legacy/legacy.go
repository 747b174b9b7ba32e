// Package legacy recovers text and pictures from Word 97-2003 binary
// documents (.doc).
//
// The binary format exposes no usable style model here, so the result is
// flat text plus pictures carved out of the Data stream. [Paragraphs]
// splits the text into blocks and guesses which lines are headings.
package legacy

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/richardlehane/mscfb"

	"github.com/tsawler/wordhtml/media"
	"github.com/tsawler/wordhtml/model"
)

// ErrExtraction reports that no text could be recovered from a document.
var ErrExtraction = errors.New("legacy: extraction failed")

// Result is the outcome of a legacy extraction.
type Result struct {
	Text     string
	Images   []model.ExtractedImage
	Warnings []model.Warning
}

// streams holds the OLE2 streams the extractor reads.
type streams struct {
	wordDocument []byte
	table0       []byte
	table1       []byte
	data         []byte
}

// table returns the table stream named by the FIB's fWhichTblStm bit,
// or whichever table stream exists.
func (s streams) table() []byte {
	if len(s.wordDocument) >= fibFlags+2 {
		flags := le16(s.wordDocument, fibFlags)
		if flags&0x0200 != 0 && len(s.table1) > 0 {
			return s.table1
		}
		if flags&0x0200 == 0 && len(s.table0) > 0 {
			return s.table0
		}
	}
	if len(s.table1) > 0 {
		return s.table1
	}
	return s.table0
}

// Extract recovers the text of a .doc file. When images is non-nil,
// pictures found in the Data stream are handed to it and written to
// outputDir. Image problems never fail the extraction; a failed write
// does.
func Extract(data []byte, outputDir string, images *media.Extractor) (Result, error) {
	s, err := readStreams(data)
	if err != nil {
		return Result{}, err
	}

	text := ReadText(s.wordDocument, s.table())
	if text == "" {
		return Result{}, fmt.Errorf("%w: no text found", ErrExtraction)
	}

	res := Result{Text: text}
	if images == nil || len(s.data) == 0 {
		return res, nil
	}

	blobs, err := carveSafely(s.data)
	if err != nil {
		res.Warnings = append(res.Warnings, model.Warning{
			Kind:    model.WarnImageDecode,
			Message: fmt.Sprintf("scanning Data stream: %v", err),
		})
		return res, nil
	}

	extracted, warnings, err := images.ExtractData(blobs, outputDir)
	res.Images = extracted
	res.Warnings = append(res.Warnings, warnings...)
	if err != nil {
		return res, err
	}
	return res, nil
}

// readStreams opens the compound file and loads the streams of interest.
func readStreams(data []byte) (s streams, err error) {
	// mscfb may panic on damaged sector chains.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: reading compound file: %v", ErrExtraction, r)
		}
	}()

	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	for entry, nerr := doc.Next(); nerr == nil; entry, nerr = doc.Next() {
		var dst *[]byte
		switch entry.Name {
		case "WordDocument":
			dst = &s.wordDocument
		case "0Table":
			dst = &s.table0
		case "1Table":
			dst = &s.table1
		case "Data":
			dst = &s.data
		default:
			continue
		}
		b, rerr := io.ReadAll(entry)
		if rerr != nil {
			return s, fmt.Errorf("%w: reading %s stream: %v", ErrExtraction, entry.Name, rerr)
		}
		*dst = b
	}

	if len(s.wordDocument) == 0 {
		return s, fmt.Errorf("%w: no WordDocument stream", ErrExtraction)
	}
	return s, nil
}

func carveSafely(stream []byte) (blobs [][]byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("carving images: %v", r)
		}
	}()
	return CarveImages(stream), nil
}
