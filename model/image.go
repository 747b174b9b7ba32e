package model

// ExtractedImage describes one image produced by media extraction.
// Exactly one of Path (external mode) and DataURI (inline mode) is set.
type ExtractedImage struct {
	Index        int    // 1-based position in extraction order
	RelID        string // empty for legacy images
	OriginalName string
	Filename     string // image_NNN.ext
	Path         string
	DataURI      string
	Size         int    // bytes written or encoded
	Format       string // png, jpg, gif, bmp
}

// Source returns the value to place in an img src attribute, given the
// directory name relative to the HTML file.
func (e ExtractedImage) Source(relDir string) string {
	if e.DataURI != "" {
		return e.DataURI
	}
	if relDir == "" {
		return e.Filename
	}
	return relDir + "/" + e.Filename
}
