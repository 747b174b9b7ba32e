package legacy

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// FIB offsets.
const (
	fibFlags = 0x000A
	fibFcMin = 0x0018
	fibFcMac = 0x001C
	fibFcClx = 0x01A2
	fibLcClx = 0x01A6
)

const (
	pcdSize      = 8
	fcCompressed = 0x40000000
	maxPieceLen  = 1 << 20
)

func le16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off : off+2]) }
func le32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off : off+4]) }

// ReadText returns the cleaned text of a WordDocument stream. The piece
// table in the table stream is used when present; otherwise printable
// bytes of the text region are scanned.
func ReadText(wordDoc, table []byte) string {
	raw := pieceText(wordDoc, table)
	if strings.TrimSpace(raw) == "" {
		raw = directText(wordDoc)
	}
	return strings.TrimSpace(filterFieldCodeLines(clean(raw)))
}

// pieceText follows the CLX piece table. Compressed pieces hold
// Windows-1252 bytes at fc/2; the others hold UTF-16LE at fc.
func pieceText(wordDoc, table []byte) string {
	if len(wordDoc) < fibLcClx+4 || len(table) == 0 {
		return ""
	}

	fcClx := int(le32(wordDoc, fibFcClx))
	lcbClx := int(le32(wordDoc, fibLcClx))
	if lcbClx == 0 || fcClx < 0 || lcbClx < 0 || fcClx+lcbClx > len(table) {
		return ""
	}
	clx := table[fcClx : fcClx+lcbClx]

	// Skip Prc entries (0x01) until the Pcdt (0x02).
	pos := 0
	for pos < len(clx) && clx[pos] == 0x01 {
		if pos+3 > len(clx) {
			return ""
		}
		pos += 3 + int(le16(clx, pos+1))
	}
	if pos >= len(clx) || clx[pos] != 0x02 || pos+5 > len(clx) {
		return ""
	}
	lcb := int(le32(clx, pos+1))
	pos += 5
	if lcb < 4+4+pcdSize || pos+lcb > len(clx) {
		return ""
	}
	plc := clx[pos : pos+lcb]

	n := (lcb - 4) / (4 + pcdSize)
	cpBytes := (n + 1) * 4

	ansi := charmap.Windows1252.NewDecoder()
	utf16 := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

	var sb strings.Builder
	for i := 0; i < n; i++ {
		cpStart, cpEnd := le32(plc, i*4), le32(plc, (i+1)*4)
		if cpEnd <= cpStart || cpEnd-cpStart > maxPieceLen {
			continue
		}
		chars := int(cpEnd - cpStart)

		fc := le32(plc, cpBytes+i*pcdSize+2)
		if fc&fcCompressed != 0 {
			off := int(fc&^fcCompressed) / 2
			if off+chars > len(wordDoc) {
				continue
			}
			if s, err := ansi.Bytes(wordDoc[off : off+chars]); err == nil {
				sb.Write(s)
			}
			continue
		}

		off := int(fc)
		if off+chars*2 > len(wordDoc) {
			continue
		}
		if s, err := utf16.Bytes(wordDoc[off : off+chars*2]); err == nil {
			sb.Write(s)
		}
	}

	return sb.String()
}

// directText scans the document's text region, [fcMin, fcMac) from the
// FIB or the whole stream when those are unusable, for printable
// Windows-1252 bytes.
func directText(wordDoc []byte) string {
	start, end := 0, len(wordDoc)
	if len(wordDoc) >= fibFcMac+4 {
		lo, hi := int(le32(wordDoc, fibFcMin)), int(le32(wordDoc, fibFcMac))
		if lo > 0 && lo < hi && hi <= len(wordDoc) {
			start, end = lo, hi
		}
	}

	var buf []byte
	inText := false
	for _, b := range wordDoc[start:end] {
		if b >= 0x20 || b == '\t' || b == '\r' || b == 0x0B || b == 0x07 || b == 0x0C || (b >= 0x13 && b <= 0x15) {
			buf = append(buf, b)
			inText = true
			continue
		}
		if inText && len(buf) > 0 && buf[len(buf)-1] != '\r' {
			buf = append(buf, '\r')
		}
		inText = false
	}

	s, err := charmap.Windows1252.NewDecoder().Bytes(buf)
	if err != nil {
		return ""
	}
	return string(s)
}

// clean maps Word's control characters to plain text and drops field
// instructions, keeping field results.
func clean(raw string) string {
	var sb strings.Builder
	// One entry per open field; true while still in its instruction.
	var fields []bool

	for _, r := range raw {
		switch r {
		case 0x13: // field begin
			fields = append(fields, true)
			continue
		case 0x14: // field separator
			if len(fields) > 0 {
				fields[len(fields)-1] = false
			}
			continue
		case 0x15: // field end
			if len(fields) > 0 {
				fields = fields[:len(fields)-1]
			}
			continue
		}

		if inInstruction(fields) {
			continue
		}

		switch {
		case r == '\r' || r == '\n' || r == 0x0B:
			sb.WriteByte('\n')
		case r == 0x0C:
			sb.WriteString("\n\n")
		case r == 0x07 || r == '\t':
			sb.WriteByte('\t')
		case r < 0x20:
			// other control characters and object anchors
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// inInstruction reports whether any open field is still in its
// instruction part.
func inInstruction(fields []bool) bool {
	for _, f := range fields {
		if f {
			return true
		}
	}
	return false
}

// fieldCodeMarkers identify field instructions that leak through when a
// document has no field delimiters.
var fieldCodeMarkers = []string{
	"HYPERLINK",
	"PAGEREF",
	"MERGEFORMAT",
	`TOC \o`,
	`TOC \h`,
	`\l "`,
	` \h`,
}

// filterFieldCodeLines drops lines that contain field instructions.
func filterFieldCodeLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isFieldCodeLine(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isFieldCodeLine(line string) bool {
	if line == "" {
		return false
	}
	for _, m := range fieldCodeMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}
