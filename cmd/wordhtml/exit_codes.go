package main

import (
	"errors"
	"os"

	"github.com/tsawler/wordhtml"
	"github.com/tsawler/wordhtml/internal/config"
)

// Exit codes for the wordhtml CLI.
// 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0   // All files converted
	ExitGeneral     = 1   // Unexpected error
	ExitUsage       = 2   // Invalid flags, config, or unsupported input
	ExitIO          = 3   // File not found, permission denied, write failure
	ExitConversion  = 4   // One or more documents failed to convert
	ExitInterrupted = 130 // Canceled by a signal
)

// exitCodeFor returns the exit code for an error. Errors must be wrapped
// with %w for the checks to see through them.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, wordhtml.ErrCanceled) {
		return ExitInterrupted
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, wordhtml.ErrInputRead) ||
		errors.Is(err, wordhtml.ErrIOWrite) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, wordhtml.ErrUnsupportedFormat) {
		return ExitUsage
	}

	if errors.Is(err, ErrConversionFailed) {
		return ExitConversion
	}

	return ExitGeneral
}
