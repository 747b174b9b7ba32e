// Package batch converts many documents concurrently.
//
// Run dispatches jobs to a bounded pool of workers. Each job runs its own
// wordhtml.Convert call, so jobs share no state and one job's failure
// never affects another. Results come back in job order.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/tsawler/wordhtml"
)

// Job is one document to convert. An empty Output is resolved from the
// placement policy.
type Job struct {
	Input  string
	Output string
}

// Options configures a batch run.
type Options struct {
	// Workers bounds concurrent conversions. Zero or less uses GOMAXPROCS.
	Workers int
	Mode    wordhtml.Mode
	// Convert is applied to every conversion.
	Convert []wordhtml.Option

	Placement   Placement
	SourceRoot  string // base of the mirrored tree
	Destination string // target folder for Mirrored and Flattened

	// Progress, when set, is called after each job finishes. Calls are
	// serialized.
	Progress func(Progress)
	Logger   *slog.Logger
}

// Progress reports how far a run has got.
type Progress struct {
	Completed int
	Total     int
	Last      Result
}

// Result is the outcome of one job.
type Result struct {
	Job      Job
	Result   wordhtml.ConversionResult
	Duration time.Duration
}

// Run converts jobs with at most opts.Workers running at once and returns
// one result per job, in job order. When ctx is canceled, jobs not yet
// started fail with a cancellation error.
func Run(ctx context.Context, jobs []Job, opts Options) []Result {
	if len(jobs) == 0 {
		return nil
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	resolved := resolveOutputs(jobs, opts)

	concurrency := opts.Workers
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if concurrency > len(resolved) {
		concurrency = len(resolved)
	}

	results := make([]Result, len(resolved))
	queue := make(chan int, len(resolved))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		finished int
	)
	report := func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		finished++
		if opts.Progress != nil {
			opts.Progress(Progress{Completed: finished, Total: len(resolved), Last: r})
		}
	}

	convertOpts := append([]wordhtml.Option{wordhtml.WithLogger(logger)}, opts.Convert...)

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range queue {
				job := resolved[idx]
				if err := ctx.Err(); err != nil {
					results[idx] = canceled(job, err)
					report(results[idx])
					continue
				}

				start := time.Now()
				res := wordhtml.Convert(ctx, job.Input, job.Output, opts.Mode, convertOpts...)
				results[idx] = Result{Job: job, Result: res, Duration: time.Since(start)}
				report(results[idx])
			}
		}()
	}

	for i := range resolved {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

func canceled(job Job, err error) Result {
	return Result{
		Job: job,
		Result: wordhtml.ConversionResult{
			Message: fmt.Sprintf("Conversion canceled: %v", err),
			Err:     &wordhtml.Error{Kind: wordhtml.KindCanceled, Op: "dispatch", Path: job.Input, Err: err},
		},
	}
}

// resolveOutputs fills in missing output paths and makes them unique, so
// no two jobs write the same HTML file or image directory.
func resolveOutputs(jobs []Job, opts Options) []Job {
	out := make([]Job, len(jobs))
	seen := make(map[string]bool, len(jobs))

	for i, j := range jobs {
		if j.Output == "" {
			j.Output = OutputPath(j.Input, opts.Placement, opts.SourceRoot, opts.Destination)
		}
		j.Output = uniquePath(j.Output, seen)
		seen[j.Output] = true
		out[i] = j
	}
	return out
}

// Summary tallies a run.
type Summary struct {
	Status    Status
	Succeeded int
	Failed    int
	Images    int
	Errors    []string
}

// Summarize reports the overall status of a finished run.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Result.Success {
			s.Succeeded++
			s.Images += r.Result.ImagesExtracted
			continue
		}
		s.Failed++
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %s", r.Job.Input, r.Result.Message))
	}
	s.Status = statusFor(s.Succeeded, s.Failed)
	return s
}
