package render

import "strings"

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Escape escapes &, < and > in a text node. No other character is
// changed. Callers escape each text node exactly once, before it is
// wrapped in markup.
func Escape(s string) string {
	return textEscaper.Replace(s)
}

// escapeAttr escapes a double-quoted attribute value.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
