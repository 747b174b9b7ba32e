package wordhtml

import (
	"context"
	"errors"

	"github.com/tsawler/wordhtml/docx"
	"github.com/tsawler/wordhtml/legacy"
	"github.com/tsawler/wordhtml/media"
)

// Sentinel errors for conversion failures. A failed ConversionResult
// carries an *Error that matches exactly one of them with errors.Is.
var (
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrInputRead           = errors.New("reading input failed")
	ErrPackageCorrupt      = errors.New("package corrupt")
	ErrRelationshipMissing = errors.New("relationship missing")
	ErrImageDecode         = errors.New("image decode failed")
	ErrIOWrite             = errors.New("writing output failed")
	ErrLegacyExtraction    = errors.New("legacy extraction failed")
	ErrCanceled            = errors.New("conversion canceled")
)

// Kind classifies a conversion error.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnsupportedFormat
	KindInputRead
	KindPackageCorrupt
	KindRelationshipMissing
	KindImageDecode
	KindIOWrite
	KindLegacyExtraction
	KindCanceled
)

var kindSentinels = map[Kind]error{
	KindUnsupportedFormat:   ErrUnsupportedFormat,
	KindInputRead:           ErrInputRead,
	KindPackageCorrupt:      ErrPackageCorrupt,
	KindRelationshipMissing: ErrRelationshipMissing,
	KindImageDecode:         ErrImageDecode,
	KindIOWrite:             ErrIOWrite,
	KindLegacyExtraction:    ErrLegacyExtraction,
	KindCanceled:            ErrCanceled,
}

func (k Kind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindInputRead:
		return "InputRead"
	case KindPackageCorrupt:
		return "PackageCorrupt"
	case KindRelationshipMissing:
		return "RelationshipMissing"
	case KindImageDecode:
		return "ImageDecodeFailure"
	case KindIOWrite:
		return "IOWriteFailure"
	case KindLegacyExtraction:
		return "LegacyExtractionFailure"
	case KindCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// Error is a structured conversion error.
type Error struct {
	Kind Kind
	Op   string // pipeline stage, e.g. "read", "parse", "images", "write"
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind's sentinel and the underlying cause, so
// errors.Is matches ErrPackageCorrupt as well as docx.ErrPackageCorrupt.
func (e *Error) Unwrap() []error {
	var errs []error
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// newError classifies err by the package sentinels it wraps.
func newError(op, path string, err error) *Error {
	return &Error{Kind: kindOf(err), Op: op, Path: path, Err: err}
}

func kindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrCanceled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, ErrInputRead):
		return KindInputRead
	case errors.Is(err, docx.ErrPackageCorrupt), errors.Is(err, ErrPackageCorrupt):
		return KindPackageCorrupt
	case errors.Is(err, media.ErrIOWrite), errors.Is(err, ErrIOWrite):
		return KindIOWrite
	case errors.Is(err, legacy.ErrExtraction), errors.Is(err, ErrLegacyExtraction):
		return KindLegacyExtraction
	}
	return KindUnknown
}

// KindOf reports the kind of a conversion error, or KindUnknown.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return kindOf(err)
}
