// Package server exposes batch conversion over HTTP.
//
// A client submits a set of source paths and polls the returned job ID
// until the job reaches a final status. Jobs run in the background on a
// bounded worker pool and are kept in memory.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tsawler/wordhtml"
	"github.com/tsawler/wordhtml/batch"
)

// maxRequestBytes bounds a job submission body.
const maxRequestBytes = 1 << 20

// Config configures a Server.
type Config struct {
	// Workers bounds concurrent conversions per job. Zero uses GOMAXPROCS.
	Workers int
	// Convert is applied to every conversion.
	Convert []wordhtml.Option
	Logger  *slog.Logger
}

// Server runs conversion jobs submitted over HTTP.
type Server struct {
	cfg    Config
	logger *slog.Logger
	jobs   *store

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu orders job starts against Close.
	mu     sync.Mutex
	closed bool
}

// New returns a Server. Call Close to cancel running jobs.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:    cfg,
		logger: logger,
		jobs:   newStore(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// RegisterHTTP registers the API routes on r.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/v1/modes", s.handleModes)
	r.Post("/api/v1/jobs", s.handleSubmit)
	r.Get("/api/v1/jobs/{id}", s.handleStatus)
}

// Handler returns a router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	s.RegisterHTTP(r)
	return r
}

// Wait blocks until every submitted job has finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

// Close cancels running jobs and waits for them to stop.
func (s *Server) Close() error {
	s.logger.Info("server closing")
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}

// submitRequest is the body of POST /api/v1/jobs.
type submitRequest struct {
	Files           []string `json:"files"`
	Mode            string   `json:"mode"`
	OutputOption    string   `json:"output_option"`
	DestinationPath string   `json:"destination_path"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type modeInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

func (s *Server) handleModes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]map[string]modeInfo{
		"modes": {
			wordhtml.Basic.String(): {
				Name:        "Basic",
				Description: "Convert text and tables only",
				Features:    []string{"Text formatting", "Tables", "Fast conversion"},
			},
			wordhtml.Enhanced.String(): {
				Name:        "Enhanced",
				Description: "Includes images",
				Features:    []string{"Text formatting", "Tables", "Images"},
			},
			wordhtml.Complete.String(): {
				Name:        "Complete",
				Description: "Full document with headers and footers",
				Features:    []string{"Text formatting", "Tables", "Images", "Headers/Footers"},
			},
		},
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	opts, err := s.batchOptions(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		writeError(w, http.StatusServiceUnavailable, errors.New("server is shutting down"))
		return
	}

	id := uuid.NewString()
	st := &JobStatus{
		ID:         id,
		Status:     batch.Pending,
		Mode:       opts.Mode.String(),
		TotalFiles: len(req.Files),
		Results:    []FileResult{},
		Errors:     []FileError{},
		StartTime:  time.Now().UTC(),
	}
	s.jobs.add(st)

	s.wg.Add(1)
	go s.run(id, batch.Jobs(req.Files), opts)

	s.logger.Info("job submitted", slog.String("id", id), slog.Int("files", len(req.Files)))
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": string(batch.Pending)})
}

// batchOptions validates a submission.
func (s *Server) batchOptions(req submitRequest) (batch.Options, error) {
	if len(req.Files) == 0 {
		return batch.Options{}, errors.New("no files given")
	}
	mode, err := wordhtml.ParseMode(req.Mode)
	if err != nil {
		return batch.Options{}, err
	}
	placement, err := batch.ParsePlacement(req.OutputOption)
	if err != nil {
		return batch.Options{}, err
	}
	if placement != batch.Beside && req.DestinationPath == "" {
		return batch.Options{}, fmt.Errorf("destination path required for %s output option", placement)
	}

	return batch.Options{
		Workers:     s.cfg.Workers,
		Mode:        mode,
		Convert:     s.cfg.Convert,
		Placement:   placement,
		SourceRoot:  batch.CommonDir(req.Files),
		Destination: req.DestinationPath,
		Logger:      s.logger,
	}, nil
}

// run executes a job and records its progress.
func (s *Server) run(id string, jobs []batch.Job, opts batch.Options) {
	defer s.wg.Done()

	s.jobs.update(id, func(st *JobStatus) {
		st.Status = batch.Processing
	})

	opts.Progress = func(p batch.Progress) {
		s.jobs.update(id, func(st *JobStatus) {
			st.CompletedFiles = p.Completed
			st.Progress = float64(p.Completed) / float64(p.Total)
			st.CurrentFile = filepath.Base(p.Last.Job.Input)
			record(st, p.Last)
		})
	}

	results := batch.Run(s.ctx, jobs, opts)
	summary := batch.Summarize(results)

	s.jobs.update(id, func(st *JobStatus) {
		end := time.Now().UTC()
		st.Status = summary.Status
		st.CurrentFile = ""
		st.EndTime = &end
	})

	s.logger.Info("job finished",
		slog.String("id", id),
		slog.String("status", string(summary.Status)),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed))
}

func record(st *JobStatus, r batch.Result) {
	res := r.Result
	if res.Success {
		st.Results = append(st.Results, FileResult{
			SourceFile:      r.Job.Input,
			OutputFile:      res.HTMLPath,
			Status:          "success",
			ImagesExtracted: res.ImagesExtracted,
			ImagesDir:       res.ImagesDir,
			Warnings:        len(res.Warnings),
		})
		return
	}
	st.Errors = append(st.Errors, FileError{
		SourceFile: r.Job.Input,
		Error:      res.Message,
		ErrorCode:  errorCode(res.Err),
	})
}

// errorCode maps a conversion error to a stable code for API clients.
func errorCode(err error) string {
	switch wordhtml.KindOf(err) {
	case wordhtml.KindUnsupportedFormat:
		return "UNSUPPORTED_FORMAT"
	case wordhtml.KindInputRead:
		return "INPUT_READ_FAILED"
	case wordhtml.KindPackageCorrupt:
		return "PACKAGE_CORRUPT"
	case wordhtml.KindIOWrite:
		return "IO_WRITE_FAILED"
	case wordhtml.KindLegacyExtraction:
		return "LEGACY_EXTRACTION_FAILED"
	case wordhtml.KindCanceled:
		return "CANCELED"
	default:
		return "CONVERSION_FAILED"
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid job id %q", id))
		return
	}

	st, ok := s.jobs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("job not found"))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
