package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/tsawler/wordhtml"
	"github.com/tsawler/wordhtml/batch"
)

// runConvert converts every document named by args, walking directories.
func runConvert(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, fs, paths, err := parseConvertFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(paths) == 0 {
		fs.Usage()
		return fmt.Errorf("%w: no input files", ErrUsage)
	}

	s, err := loadSettings(f.common)
	if err != nil {
		return err
	}
	if err := applyConvertFlags(fs, f, &s); err != nil {
		return err
	}

	logger := newLogger(stderr, s, slog.LevelWarn, f.common)
	setMaxProcs(logger)

	jobs, root, err := collectJobs(paths)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w in %v", ErrNoInput, paths)
	}

	opts := convertOptions(s)
	if f.output != "" || f.title != "" {
		if len(jobs) != 1 {
			return fmt.Errorf("%w: --output and --title need exactly one input, found %d", ErrUsage, len(jobs))
		}
		jobs[0].Output = f.output
		if f.title != "" {
			opts = append(opts, wordhtml.WithTitle(f.title))
		}
	}

	results := batch.Run(ctx, jobs, batch.Options{
		Workers:     s.Workers,
		Mode:        s.Mode,
		Convert:     opts,
		Placement:   s.Placement,
		SourceRoot:  root,
		Destination: s.Destination,
		Logger:      logger,
	})

	if !f.common.quiet {
		report(stdout, results)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", wordhtml.ErrCanceled, err)
	}
	return resultError(results)
}

// collectJobs expands paths into jobs and returns the root that mirrored
// output is relative to.
func collectJobs(paths []string) ([]batch.Job, string, error) {
	var inputs []string
	for _, p := range paths {
		found, err := batch.Discover(p)
		if err != nil {
			return nil, "", err
		}
		inputs = append(inputs, found...)
	}

	root := batch.CommonDir(inputs)
	if len(paths) == 1 {
		if info, err := os.Stat(paths[0]); err == nil && info.IsDir() {
			root = paths[0]
		}
	}
	return batch.Jobs(inputs), root, nil
}

func report(w io.Writer, results []batch.Result) {
	for _, r := range results {
		res := r.Result
		if !res.Success {
			fmt.Fprintf(w, "FAIL %s: %s\n", r.Job.Input, res.Message)
			continue
		}
		line := fmt.Sprintf("OK   %s -> %s", r.Job.Input, res.HTMLPath)
		if res.ImagesExtracted > 0 {
			line += fmt.Sprintf(" (%d images)", res.ImagesExtracted)
		}
		fmt.Fprintln(w, line)
		for _, warn := range res.Warnings {
			fmt.Fprintf(w, "     warning: %s\n", warn)
		}
	}

	sum := batch.Summarize(results)
	fmt.Fprintf(w, "%d converted, %d failed, %d images extracted\n", sum.Succeeded, sum.Failed, sum.Images)
}

// resultError reports failed conversions. A lone failure keeps its cause
// so the exit code reflects it.
func resultError(results []batch.Result) error {
	sum := batch.Summarize(results)
	if sum.Failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return fmt.Errorf("%w: %w", ErrConversionFailed, results[0].Result.Err)
	}
	return fmt.Errorf("%w: %d of %d files", ErrConversionFailed, sum.Failed, len(results))
}
