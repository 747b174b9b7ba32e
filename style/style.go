// Package style converts run and paragraph formatting into CSS
// declarations.
//
// Every property is independent: a run may carry any subset of them and a
// malformed value is dropped without affecting the others. An empty result
// means no style attribute should be written at all.
package style

import (
	"math"
	"strconv"
	"strings"

	"github.com/tsawler/wordhtml/model"
)

// PixelsPerPoint converts point sizes to CSS pixels. It is an approximation
// of 96/72 kept for output compatibility.
const PixelsPerPoint = 1.33

// Declaration is a single CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// String returns the declaration as "property: value".
func (d Declaration) String() string {
	return d.Property + ": " + d.Value
}

// ForRun returns the declarations for a run in a fixed order: weight,
// style, decoration, color, size, family.
func ForRun(r model.Run) []Declaration {
	var decls []Declaration

	if r.Bold {
		decls = append(decls, Declaration{"font-weight", "bold"})
	}
	if r.Italic {
		decls = append(decls, Declaration{"font-style", "italic"})
	}
	if r.Underline {
		decls = append(decls, Declaration{"text-decoration", "underline"})
	}
	if c, ok := Color(r.Color); ok {
		decls = append(decls, Declaration{"color", c})
	}
	if px, ok := PixelSize(r.Size); ok {
		decls = append(decls, Declaration{"font-size", strconv.Itoa(px) + "px"})
	}
	if f, ok := FontFamily(r.FontFamily); ok {
		decls = append(decls, Declaration{"font-family", f})
	}

	return decls
}

// ForParagraph returns the declarations for a paragraph. Only a non-default
// alignment produces one.
func ForParagraph(p model.Paragraph) []Declaration {
	if v, ok := TextAlign(p.Alignment); ok {
		return []Declaration{{"text-align", v}}
	}
	return nil
}

// Inline joins declarations for use in a style attribute. It returns ""
// for an empty list.
func Inline(decls []Declaration) string {
	if len(decls) == 0 {
		return ""
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}

// Color converts a six-digit hex color ("FF0000") to "rgb(255, 0, 0)".
// "auto", empty and malformed values report false.
func Color(hex string) (string, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return "", false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", false
	}
	r, g, b := (v>>16)&0xFF, (v>>8)&0xFF, v&0xFF
	return "rgb(" + strconv.FormatUint(r, 10) + ", " + strconv.FormatUint(g, 10) + ", " + strconv.FormatUint(b, 10) + ")", true
}

// MaxHalfPoints is the largest font size Word accepts (1638pt).
const MaxHalfPoints = 3276

// PixelSize converts a w:sz value, given in half-points, to whole pixels.
// Absent, malformed, non-positive and out-of-range sizes report false.
func PixelSize(halfPoints string) (int, bool) {
	hp, err := strconv.ParseFloat(strings.TrimSpace(halfPoints), 64)
	if err != nil || math.IsNaN(hp) || math.IsInf(hp, 0) || hp <= 0 || hp > MaxHalfPoints {
		return 0, false
	}
	return PointsToPixels(hp / 2), true
}

// PointsToPixels returns floor(pt * PixelsPerPoint).
func PointsToPixels(pt float64) int {
	return int(pt * PixelsPerPoint)
}

// FontFamily returns "'Name', sans-serif". Single quotes in the name are
// escaped.
func FontFamily(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return "'" + strings.ReplaceAll(name, "'", `\'`) + "', sans-serif", true
}

// TextAlign maps an alignment to its CSS value. Start is the default and
// reports false.
func TextAlign(a model.Alignment) (string, bool) {
	switch a {
	case model.AlignCenter:
		return "center", true
	case model.AlignEnd:
		return "right", true
	case model.AlignJustify:
		return "justify", true
	}
	return "", false
}
