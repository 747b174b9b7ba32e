package wordhtml

import (
	"io"
	"log/slog"

	"github.com/tsawler/wordhtml/headerfooter"
	"github.com/tsawler/wordhtml/media"
)

// Option configures a single conversion.
type Option func(*options)

// options holds the settings of one conversion. Mode sets the defaults;
// options applied by the caller override them.
type options struct {
	imageMode media.Mode
	optimize  bool
	hfPolicy  headerfooter.Policy
	headerRow bool
	title     string
	logger    *slog.Logger
}

// defaultOptions returns the settings a mode implies.
func defaultOptions() options {
	return options{
		imageMode: media.External,
		optimize:  false,
		hfPolicy:  headerfooter.Include,
		headerRow: false,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// forMode narrows the options to what mode renders. Basic never extracts
// images and no mode below Complete renders headers or footers.
func (o options) forMode(m Mode) options {
	if m == Basic {
		o.imageMode = media.Skip
	}
	if m != Complete {
		o.hfPolicy = headerfooter.Skip
	}
	return o
}

// WithImageMode selects how images are emitted in enhanced and complete
// modes. The default is media.External.
func WithImageMode(m media.Mode) Option {
	return func(o *options) {
		o.imageMode = m
	}
}

// WithOptimizeImages downscales images to fit 1200x800 and re-encodes them
// as JPEG before they are written.
func WithOptimizeImages(optimize bool) Option {
	return func(o *options) {
		o.optimize = optimize
	}
}

// WithHeaderFooterPolicy selects how headers and footers are rendered in
// complete mode. The default is headerfooter.Include.
func WithHeaderFooterPolicy(p headerfooter.Policy) Option {
	return func(o *options) {
		o.hfPolicy = p
	}
}

// WithHeaderRow renders the first row of every table, and rows marked as
// repeating header rows, with <th> cells.
func WithHeaderRow(enabled bool) Option {
	return func(o *options) {
		o.headerRow = enabled
	}
}

// WithTitle sets the HTML title. By default the title is the input file
// name without its extension.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithLogger sets the logger used for progress and warnings. A nil logger
// discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
