// Package format provides input format detection for the wordhtml converter.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates an Office Open XML word-processing package (.docx).
	DOCX
	// DOC indicates a legacy binary Word document (.doc) stored in an OLE2 container.
	DOC
)

// Signatures of the two container families.
var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case DOC:
		return "DOC"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case DOC:
		return ".doc"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx", ".docm", ".dotx":
		return DOCX
	case ".doc", ".dot":
		return DOC
	default:
		return Unknown
	}
}

// DetectFromMagic checks the leading bytes of a file. A ZIP signature is
// reported as DOCX without inspecting the archive; use DetectFromReader to
// confirm the package actually carries a word/ part.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, oleMagic):
		return DOC
	case bytes.HasPrefix(data, zipMagic):
		return DOCX
	default:
		return Unknown
	}
}

// DetectFromReader inspects the content to determine format.
// ZIP archives are only reported as DOCX when they contain a word/ part.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch DetectFromMagic(magic) {
	case DOC:
		return DOC, nil
	case DOCX:
		return detectZIPFormat(r, size)
	}
	return Unknown, nil
}

// detectZIPFormat reports DOCX if the archive holds WordprocessingML parts.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return DOCX, nil
		}
	}

	return Unknown, nil
}

// Resolve combines the extension and the signature. The signature must agree
// with the extension's family; a file without a recognized extension is
// accepted on its signature alone. Disagreement yields Unknown.
func Resolve(filename string, head []byte) Format {
	byExt := Detect(filename)
	byMagic := DetectFromMagic(head)

	if byExt == Unknown {
		if filepath.Ext(filename) == "" {
			return byMagic
		}
		return Unknown
	}
	if byMagic != byExt {
		return Unknown
	}
	return byExt
}

// ResolveContent is Resolve over a whole file. A ZIP archive without a
// word/ part is Unknown; an archive that cannot be read at all stays DOCX
// so that the package reader reports it as corrupt.
func ResolveContent(filename string, data []byte) Format {
	head := data
	if len(head) > 8 {
		head = head[:8]
	}

	f := Resolve(filename, head)
	if f != DOCX {
		return f
	}
	if inner, err := DetectFromReader(bytes.NewReader(data), int64(len(data))); err == nil && inner == Unknown {
		return Unknown
	}
	return f
}
