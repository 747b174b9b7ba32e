package legacy

import "bytes"

// MinImageSize is the smallest carved picture kept; smaller hits are
// usually bullets or icons.
const MinImageSize = 1024

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	jpegEOI   = []byte{0xFF, 0xD9}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	pngIEND   = []byte{0x00, 0x00, 0x00, 0x00, 'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}
)

// CarveImages finds JPEG and PNG pictures in a Data stream by their
// signatures. A JPEG runs to the last EOI marker before the next picture
// signature; a PNG runs through its IEND chunk. Pictures are returned in
// stream order.
func CarveImages(stream []byte) [][]byte {
	var out [][]byte

	for pos := 0; pos < len(stream); {
		rest := stream[pos:]

		switch {
		case bytes.HasPrefix(rest, jpegMagic):
			boundary := nextSignature(stream, pos+len(jpegMagic))
			eoi := bytes.LastIndex(stream[pos+len(jpegMagic):boundary], jpegEOI)
			if eoi < 0 {
				pos++
				continue
			}
			end := pos + len(jpegMagic) + eoi + len(jpegEOI)
			out = appendImage(out, stream[pos:end])
			pos = end

		case bytes.HasPrefix(rest, pngMagic):
			iend := bytes.Index(rest[len(pngMagic):], pngIEND)
			if iend < 0 {
				pos++
				continue
			}
			end := pos + len(pngMagic) + iend + len(pngIEND)
			out = appendImage(out, stream[pos:end])
			pos = end

		default:
			pos++
		}
	}

	return out
}

// nextSignature returns the offset of the next JPEG or PNG signature at or
// after from, or len(stream).
func nextSignature(stream []byte, from int) int {
	for i := from; i < len(stream); i++ {
		if bytes.HasPrefix(stream[i:], jpegMagic) || bytes.HasPrefix(stream[i:], pngMagic) {
			return i
		}
	}
	return len(stream)
}

func appendImage(out [][]byte, img []byte) [][]byte {
	if len(img) < MinImageSize {
		return out
	}
	return append(out, append([]byte(nil), img...))
}
