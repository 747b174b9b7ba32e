package render

import (
	"strconv"
	"strings"

	"github.com/tsawler/wordhtml/legacy"
	"github.com/tsawler/wordhtml/model"
)

var legacyCSS = []string{
	"body { font-family: Arial, sans-serif; line-height: 1.6; margin: 40px; color: #333; }",
	".header { border-bottom: 2px solid #333; margin-bottom: 20px; padding-bottom: 10px; }",
	".content { max-width: 800px; }",
	"p { margin-bottom: 15px; }",
	".image { max-width: 100%; height: auto; margin: 20px 0; border: 1px solid #ddd; padding: 5px; }",
	".note { background-color: #f0f8ff; padding: 10px; border-left: 4px solid #007acc; margin: 20px 0; font-style: italic; }",
}

// RenderLegacy returns the HTML document for text recovered from a legacy
// binary document. Heading lines render as <h2>. Extracted images follow
// the text, introduced by a note naming the image directory.
func RenderLegacy(title string, paragraphs []legacy.Paragraph, images []model.ExtractedImage, imageDir string) string {
	lines := []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<head>",
		`<meta charset="UTF-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1.0">`,
		"<title>" + Escape(title) + "</title>",
		"<style>",
	}
	lines = append(lines, legacyCSS...)
	lines = append(lines,
		"</style>",
		"</head>",
		"<body>",
		`<div class="header">`,
		"<h1>"+Escape(title)+"</h1>",
		"<p><em>Converted from .doc format</em></p>",
		"</div>",
		`<div class="content">`,
	)

	for _, p := range paragraphs {
		if p.Heading {
			lines = append(lines, "<h2>"+Escape(p.Text)+"</h2>")
		} else {
			lines = append(lines, "<p>"+Escape(p.Text)+"</p>")
		}
	}

	if len(images) > 0 {
		note := `<div class="note"><strong>Note:</strong> This document contained ` + strconv.Itoa(len(images)) + " image(s)"
		if imageDir != "" {
			note += " which have been extracted to the <code>" + Escape(imageDir) + "/</code> folder"
		}
		lines = append(lines, note+".</div>")

		for _, img := range images {
			alt := img.OriginalName
			if alt == "" {
				alt = "Image " + strconv.Itoa(img.Index)
			}
			lines = append(lines, `<img src="`+escapeAttr(img.Source(imageDir))+`" alt="`+escapeAttr(alt)+`" class="image"/>`)
		}
	}

	lines = append(lines, "</div>", "</body>", "</html>")
	return strings.Join(lines, "\n")
}
