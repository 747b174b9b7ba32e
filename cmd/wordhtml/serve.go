package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/tsawler/wordhtml/server"
)

const shutdownTimeout = 10 * time.Second

// runServe runs the job API until ctx is canceled.
func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	f, fs, err := parseServeFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	s, err := loadSettings(f.common)
	if err != nil {
		return err
	}
	if err := applyRenderFlags(fs, f.render, &s); err != nil {
		return err
	}
	if fs.Changed("addr") {
		s.Addr = f.addr
	}

	logger := newLogger(stderr, s, s.LogLevel, f.common)
	setMaxProcs(logger)

	srv := server.New(server.Config{
		Workers: s.Workers,
		Convert: convertOptions(s),
		Logger:  logger,
	})
	httpServer := &http.Server{
		Addr:              s.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", s.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		srv.Close()
		return fmt.Errorf("serving on %s: %w", s.Addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = httpServer.Shutdown(shutdownCtx)
	srv.Close()
	if err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
