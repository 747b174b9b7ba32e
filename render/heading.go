package render

import (
	"strconv"
	"strings"
)

// HeadingLevel reports the heading level encoded in a style display name
// such as "Heading 3". Levels above 6 are clamped to 6 and levels below 1
// to 1; a name with an unparsable level maps to 2. Names not starting
// with "Heading" are not headings.
func HeadingLevel(styleName string) (int, bool) {
	if !strings.HasPrefix(styleName, "Heading") {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(styleName, "Heading")))
	switch {
	case err != nil:
		return 2, true
	case n > 6:
		return 6, true
	case n < 1:
		return 1, true
	}
	return n, true
}
