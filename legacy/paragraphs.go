package legacy

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// headingMaxLen is the length below which a line may be a heading.
const headingMaxLen = 100

// Paragraph is a block of recovered text.
type Paragraph struct {
	Text    string
	Heading bool
}

// Paragraphs splits text into blocks at blank lines and then into lines.
// A line shorter than 100 characters is a heading when it is all upper
// case or starts with "Chapter" or "Section". Blank lines are dropped.
func Paragraphs(text string) []Paragraph {
	var out []Paragraph
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		for _, line := range strings.Split(block, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			out = append(out, Paragraph{Text: trimmed, Heading: isHeading(line)})
		}
	}
	return out
}

func isHeading(line string) bool {
	if utf8.RuneCountInString(line) >= headingMaxLen {
		return false
	}
	return isUpper(line) || strings.HasPrefix(line, "Chapter") || strings.HasPrefix(line, "Section")
}

// isUpper reports whether s has at least one cased letter and no
// lower-case letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}
