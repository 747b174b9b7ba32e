// Package wordhtml converts word-processing documents to standalone HTML.
//
// Office Open XML packages (.docx) go through the full pipeline: the
// package is parsed into a document model, embedded images are extracted,
// headers and footers are compiled, and the body is rendered with inline
// CSS. Legacy binary documents (.doc) fall back to flat text recovery with
// a heading heuristic and carved images.
//
// Basic usage:
//
//	res := wordhtml.Convert(ctx, "report.docx", "out/report.html", wordhtml.Enhanced)
//	if !res.Success {
//	    log.Fatal(res.Err)
//	}
//	fmt.Println(res.HTMLPath, res.ImagesExtracted)
//
// With options:
//
//	res := wordhtml.Convert(ctx, "report.docx", "report.html", wordhtml.Complete,
//	    wordhtml.WithImageMode(media.Inline),
//	    wordhtml.WithHeaderFooterPolicy(headerfooter.PrintOnly),
//	    wordhtml.WithHeaderRow(true),
//	)
//
// Conversions share no state, so any number may run concurrently. The
// batch package drives many of them through a bounded worker pool.
package wordhtml

import (
	"fmt"
	"strings"

	"github.com/tsawler/wordhtml/model"
)

// Mode selects how much of a document is rendered.
type Mode int

const (
	// Basic renders text and tables only.
	Basic Mode = iota
	// Enhanced also extracts and renders images.
	Enhanced
	// Complete also renders headers and footers.
	Complete
)

func (m Mode) String() string {
	switch m {
	case Basic:
		return "basic"
	case Enhanced:
		return "enhanced"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "basic", "enhanced" or "complete". An empty string
// selects Enhanced.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return Basic, nil
	case "", "enhanced":
		return Enhanced, nil
	case "complete":
		return Complete, nil
	}
	return Basic, fmt.Errorf("invalid conversion mode: %q", s)
}

// Warning is a non-fatal problem recorded during a conversion.
type Warning = model.Warning

// ConversionResult reports the outcome of one conversion. A conversion
// that recorded warnings but wrote its HTML still reports Success.
type ConversionResult struct {
	Success         bool
	HTMLPath        string
	ImagesExtracted int
	ImagesDir       string // empty unless image files were written
	Message         string
	Err             error // *Error when Success is false
	Warnings        []Warning
}

// FormatWarnings returns the warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
