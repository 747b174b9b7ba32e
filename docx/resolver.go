package docx

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ResolvedStyle contains the properties of a style after walking its
// basedOn chain.
type ResolvedStyle struct {
	// Identity
	ID   string
	Name string // display name, e.g. "Heading 1"
	Type string // paragraph, character, table

	// Paragraph properties
	Alignment string // raw w:jc value; empty when no style in the chain sets it

	// Run/character properties. Nil means "not set by this style chain".
	Bold      *bool
	Italic    *bool
	Underline *bool
	Color     string // raw w:color value
	Size      string // raw w:sz value in half-points
	FontName  string
}

// StyleResolver resolves styles with inheritance support.
type StyleResolver struct {
	styles   map[string]*styleDefXML
	resolved map[string]*ResolvedStyle
	title    cases.Caser
}

// builtInHeadingID matches Word's heading style IDs such as "Heading1".
var builtInHeadingID = regexp.MustCompile(`(?i)^heading\s*(\d+)$`)

// NewStyleResolver creates a new style resolver from parsed styles.
// A nil styles value yields a resolver that knows only built-in IDs.
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{
		styles:   make(map[string]*styleDefXML),
		resolved: make(map[string]*ResolvedStyle),
		title:    cases.Title(language.English),
	}

	if styles == nil {
		return sr
	}

	// Build style map
	for i := range styles.Styles {
		style := &styles.Styles[i]
		if style.StyleID == "" {
			continue
		}
		if _, dup := sr.styles[style.StyleID]; !dup {
			sr.styles[style.StyleID] = style
		}
	}

	return sr
}

// Resolve returns the resolved style for the given style ID.
// Unknown IDs resolve to a style carrying only a derived display name.
func (sr *StyleResolver) Resolve(styleID string) *ResolvedStyle {
	if styleID == "" {
		return &ResolvedStyle{}
	}

	// Check cache
	if resolved, ok := sr.resolved[styleID]; ok {
		return resolved
	}

	resolved := &ResolvedStyle{ID: styleID}

	styleDef, ok := sr.styles[styleID]
	if !ok {
		resolved.Name = sr.nameFromID(styleID)
		sr.resolved[styleID] = resolved
		return resolved
	}

	resolved.Name = sr.displayName(styleDef.Name.Val, styleID)
	resolved.Type = styleDef.Type

	// Apply properties from base to derived
	for _, sid := range sr.buildInheritanceChain(styleID) {
		if def, ok := sr.styles[sid]; ok {
			applyStyleDef(resolved, def)
		}
	}

	sr.resolved[styleID] = resolved
	return resolved
}

// buildInheritanceChain returns style IDs from base to derived.
func (sr *StyleResolver) buildInheritanceChain(styleID string) []string {
	var chain []string
	visited := make(map[string]bool)

	current := styleID
	for current != "" && !visited[current] {
		visited[current] = true
		chain = append([]string{current}, chain...) // Prepend

		if def, ok := sr.styles[current]; ok {
			current = def.BasedOn.Val
		} else {
			break
		}
	}

	return chain
}

// displayName returns the name shown in Word's UI. Built-in styles are
// stored in lower case ("heading 1", "title") and are title-cased here.
func (sr *StyleResolver) displayName(name, styleID string) string {
	if name == "" {
		return sr.nameFromID(styleID)
	}
	if name == strings.ToLower(name) {
		return sr.title.String(name)
	}
	return name
}

// nameFromID derives a display name when styles.xml does not define the
// style. "Heading3" becomes "Heading 3"; other IDs are used as-is.
func (sr *StyleResolver) nameFromID(styleID string) string {
	if m := builtInHeadingID.FindStringSubmatch(styleID); m != nil {
		return "Heading " + m[1]
	}
	return styleID
}

// applyStyleDef applies a style definition's properties to a resolved style.
func applyStyleDef(resolved *ResolvedStyle, def *styleDefXML) {
	if def.PPr.Justification.Val != "" {
		resolved.Alignment = def.PPr.Justification.Val
	}
	applyRunProps(resolved, def.RPr)
}

// applyRunProps overlays run properties that are present in rpr.
func applyRunProps(resolved *ResolvedStyle, rpr runPropsXML) {
	if rpr.Bold.set() {
		v := rpr.Bold.value()
		resolved.Bold = &v
	}
	if rpr.Italic.set() {
		v := rpr.Italic.value()
		resolved.Italic = &v
	}
	if rpr.Underline.XMLName.Local != "" {
		v := rpr.Underline.Val != "none" && rpr.Underline.Val != "0" && rpr.Underline.Val != "false"
		resolved.Underline = &v
	}
	if rpr.Color.Val != "" {
		resolved.Color = rpr.Color.Val
	}
	if rpr.FontSize.Val != "" {
		resolved.Size = rpr.FontSize.Val
	}
	if name := rpr.Font.name(); name != "" {
		resolved.FontName = name
	}
}

// ResolvedRun contains resolved properties for a text run.
type ResolvedRun struct {
	Bold      bool
	Italic    bool
	Underline bool
	Color     string
	Size      string
	FontName  string
}

// ResolveRun resolves run properties from the run's character style chain
// and its direct formatting; direct formatting wins. Paragraph styles and
// document defaults are not applied.
func (sr *StyleResolver) ResolveRun(runProps runPropsXML) ResolvedRun {
	merged := &ResolvedStyle{}
	if runProps.Style.Val != "" {
		base := sr.Resolve(runProps.Style.Val)
		*merged = *base
	}
	applyRunProps(merged, runProps)

	return ResolvedRun{
		Bold:      merged.Bold != nil && *merged.Bold,
		Italic:    merged.Italic != nil && *merged.Italic,
		Underline: merged.Underline != nil && *merged.Underline,
		Color:     merged.Color,
		Size:      merged.Size,
		FontName:  merged.FontName,
	}
}
