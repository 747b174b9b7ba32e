// Package headerfooter collects section headers and footers into HTML
// fragments, independent of the main body flow.
//
// A [Policy] decides whether the fragments are shown on screen and in
// print, only in print, or dropped entirely. [CSS] returns the matching
// presentation rules.
package headerfooter

import (
	"fmt"
	"strings"

	"github.com/tsawler/wordhtml/model"
)

// Policy controls header and footer output.
type Policy int

const (
	// Include renders headers and footers on screen and in print.
	Include Policy = iota
	// Skip omits them.
	Skip
	// PrintOnly renders them but hides them on screen.
	PrintOnly
)

func (p Policy) String() string {
	switch p {
	case Include:
		return "include"
	case Skip:
		return "skip"
	case PrintOnly:
		return "print-only"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "include", "skip" or "print-only".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "include", "":
		return Include, nil
	case "skip":
		return Skip, nil
	case "print-only", "print_only", "printonly":
		return PrintOnly, nil
	}
	return Include, fmt.Errorf("unknown header/footer policy %q", s)
}

// FragmentFunc renders one header or footer paragraph.
type FragmentFunc func(*model.Paragraph) (string, error)

// Compiled holds rendered header and footer fragments from all sections
// in section order.
type Compiled struct {
	Headers []string
	Footers []string
}

// Empty reports whether nothing was compiled.
func (c Compiled) Empty() bool {
	return len(c.Headers) == 0 && len(c.Footers) == 0
}

// Compile renders the non-blank header and footer paragraphs of every
// section. A paragraph that fails to render is left out and reported as
// a warning. Skip yields an empty result.
func Compile(doc *model.Document, policy Policy, render FragmentFunc) (Compiled, []model.Warning) {
	var (
		out      Compiled
		warnings []model.Warning
	)
	if doc == nil || policy == Skip {
		return out, nil
	}

	collect := func(hf *model.HeaderFooter, section int, part string) []string {
		if hf == nil {
			return nil
		}
		var frags []string
		for _, p := range hf.Paragraphs {
			if p == nil || p.IsBlank() {
				continue
			}
			html, err := render(p)
			if err != nil {
				warnings = append(warnings, model.Warning{
					Kind:    model.WarnHeaderFooter,
					Message: fmt.Sprintf("section %d %s: %v", section+1, part, err),
				})
				continue
			}
			frags = append(frags, html)
		}
		return frags
	}

	for i, s := range doc.Sections {
		if s == nil {
			continue
		}
		out.Headers = append(out.Headers, collect(s.Header, i, "header")...)
		out.Footers = append(out.Footers, collect(s.Footer, i, "footer")...)
	}

	return out, warnings
}

var screenRules = []string{
	".document-header {",
	"  background: #f8f9fa;",
	"  border-bottom: 2px solid #e9ecef;",
	"  padding: 15px 40px;",
	"  margin-bottom: 20px;",
	"}",
	".document-footer {",
	"  background: #f8f9fa;",
	"  border-top: 2px solid #e9ecef;",
	"  padding: 15px 40px;",
	"  margin-top: 20px;",
	"}",
}

var printRules = []string{
	"@media print {",
	"  @page {",
	"    margin-top: 2cm;",
	"    margin-bottom: 2cm;",
	"  }",
	"  .document-header {",
	"    position: running(header);",
	"    background: white !important;",
	"    border: none !important;",
	"    margin: 0 !important;",
	"    padding: 10px 0 !important;",
	"  }",
	"  .document-footer {",
	"    position: running(footer);",
	"    background: white !important;",
	"    border: none !important;",
	"    margin: 0 !important;",
	"    padding: 10px 0 !important;",
	"  }",
	"  .no-print { display: none !important; }",
	"}",
}

var hideOnScreen = []string{
	"@media screen {",
	"  .document-header, .document-footer { display: none; }",
	"}",
}

// CSS returns the stylesheet rules for a policy. Skip returns "".
func CSS(policy Policy) string {
	var lines []string
	switch policy {
	case Include:
		lines = append(lines, screenRules...)
		lines = append(lines, printRules...)
	case PrintOnly:
		lines = append(lines, printRules...)
		lines = append(lines, hideOnScreen...)
	}
	return strings.Join(lines, "\n")
}
