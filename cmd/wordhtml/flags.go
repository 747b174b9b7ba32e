package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/tsawler/wordhtml"
	"github.com/tsawler/wordhtml/batch"
	"github.com/tsawler/wordhtml/headerfooter"
	"github.com/tsawler/wordhtml/internal/config"
	"github.com/tsawler/wordhtml/media"
)

// Sentinel errors for the CLI.
var (
	ErrUsage            = errors.New("invalid usage")
	ErrNoInput          = errors.New("no .docx or .doc files found")
	ErrConversionFailed = errors.New("conversion failed")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	verbose bool
	quiet   bool
}

// renderFlags holds per-document rendering flags.
type renderFlags struct {
	images         string
	optimize       bool
	headersFooters string
	headerRow      bool
	workers        int
}

// convertFlags holds the flags of the convert command.
type convertFlags struct {
	common    commonFlags
	render    renderFlags
	mode      string
	output    string
	dest      string
	placement string
	title     string
}

// serveFlags holds the flags of the serve command.
type serveFlags struct {
	common commonFlags
	render renderFlags
	addr   string
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file (default: ./"+config.FileName+" if present)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log each conversion step")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only print errors")
}

func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.images, "images", "", "image output: external, inline, or skip")
	fs.BoolVar(&f.optimize, "optimize-images", false, "downscale images and re-encode them as JPEG")
	fs.StringVar(&f.headersFooters, "headers", "", "headers and footers in complete mode: include, skip, or print-only")
	fs.BoolVar(&f.headerRow, "header-row", false, "render the first row of every table as <th> cells")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent conversions (0 = number of CPUs)")
}

func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, *flag.FlagSet, []string, error) {
	f := &convertFlags{}
	fs := flag.NewFlagSet("wordhtml", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: wordhtml [flags] <file-or-dir>...")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	fs.StringVarP(&f.mode, "mode", "m", "", "conversion mode: basic, enhanced, or complete")
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (single input only)")
	fs.StringVarP(&f.dest, "dest", "d", "", "destination folder for mirrored or flattened output")
	fs.StringVarP(&f.placement, "placement", "p", "", "output placement: beside, mirrored, or flattened")
	fs.StringVar(&f.title, "title", "", "HTML title (single input only)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, fs, nil, err
		}
		return nil, fs, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if err := checkQuietVerbose(f.common); err != nil {
		return nil, fs, nil, err
	}
	return f, fs, fs.Args(), nil
}

func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, *flag.FlagSet, error) {
	f := &serveFlags{}
	fs := flag.NewFlagSet("wordhtml serve", flag.ContinueOnError)
	fs.SetOutput(stderr)

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, fs, err
		}
		return nil, fs, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fs, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	if err := checkQuietVerbose(f.common); err != nil {
		return nil, fs, err
	}
	return f, fs, nil
}

func checkQuietVerbose(f commonFlags) error {
	if f.quiet && f.verbose {
		return fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	return nil
}

// loadSettings reads the config file named by --config, or the one Find
// locates, or the built-in defaults.
func loadSettings(f commonFlags) (config.Settings, error) {
	path := f.config
	if path == "" {
		path = config.Find()
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Settings{}, err
		}
	}
	return cfg.Settings()
}

// applyRenderFlags overrides settings with the render flags set on the
// command line.
func applyRenderFlags(fs *flag.FlagSet, f renderFlags, s *config.Settings) error {
	var err error
	if fs.Changed("images") {
		if s.ImageMode, err = media.ParseMode(f.images); err != nil {
			return fmt.Errorf("%w: --images: %v", ErrUsage, err)
		}
	}
	if fs.Changed("optimize-images") {
		s.Optimize = f.optimize
	}
	if fs.Changed("headers") {
		if s.HeadersFooters, err = headerfooter.ParsePolicy(f.headersFooters); err != nil {
			return fmt.Errorf("%w: --headers: %v", ErrUsage, err)
		}
	}
	if fs.Changed("header-row") {
		s.HeaderRow = f.headerRow
	}
	if fs.Changed("workers") {
		if f.workers < 0 {
			return fmt.Errorf("%w: --workers must be >= 0, got %d", ErrUsage, f.workers)
		}
		s.Workers = f.workers
	}
	return nil
}

// applyConvertFlags overrides settings with the convert flags set on the
// command line.
func applyConvertFlags(fs *flag.FlagSet, f *convertFlags, s *config.Settings) error {
	if err := applyRenderFlags(fs, f.render, s); err != nil {
		return err
	}

	var err error
	if fs.Changed("mode") {
		if s.Mode, err = wordhtml.ParseMode(f.mode); err != nil {
			return fmt.Errorf("%w: --mode: %v", ErrUsage, err)
		}
	}
	if fs.Changed("placement") {
		if s.Placement, err = batch.ParsePlacement(f.placement); err != nil {
			return fmt.Errorf("%w: --placement: %v", ErrUsage, err)
		}
	}
	if fs.Changed("dest") {
		s.Destination = f.dest
		// A destination alone implies a flat output folder.
		if !fs.Changed("placement") && s.Placement == batch.Beside {
			s.Placement = batch.Flattened
		}
	}
	return nil
}

// convertOptions turns settings into per-document options.
func convertOptions(s config.Settings) []wordhtml.Option {
	return []wordhtml.Option{
		wordhtml.WithImageMode(s.ImageMode),
		wordhtml.WithOptimizeImages(s.Optimize),
		wordhtml.WithHeaderFooterPolicy(s.HeadersFooters),
		wordhtml.WithHeaderRow(s.HeaderRow),
	}
}
