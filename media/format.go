package media

import "bytes"

// Format is an image file format identified from its leading bytes.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
)

var signatures = []struct {
	magic  []byte
	format Format
}{
	{[]byte("\x89PNG"), PNG},
	{[]byte{0xFF, 0xD8, 0xFF}, JPEG},
	{[]byte("GIF"), GIF},
	{[]byte("BM"), BMP},
}

// Sniff identifies an image format from its signature. Unrecognized data
// is reported as PNG; the bytes themselves are never changed.
func Sniff(data []byte) Format {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.magic) {
			return sig.format
		}
	}
	return PNG
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	if f == "" {
		return ".png"
	}
	return "." + string(f)
}

// MIMEType returns the media type used in data URIs.
func (f Format) MIMEType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	case BMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}
