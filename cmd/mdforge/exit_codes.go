package main

import (
	"errors"
	"os"

	mdforge "github.com/mdforge/mdforge"
)

// Exit codes for the mdforge CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents converted
	ExitGeneral = 1 // General/unexpected error, or some documents failed
	ExitUsage   = 2 // Invalid flags, config, or option values
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdforge.ErrBrowserConnect) ||
		errors.Is(err, mdforge.ErrPageCreate) ||
		errors.Is(err, mdforge.ErrPageLoad) ||
		errors.Is(err, mdforge.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdforge.ErrReadInput) ||
		errors.Is(err, mdforge.ErrReadStylesheet) ||
		errors.Is(err, mdforge.ErrReadScript) ||
		errors.Is(err, ErrReadConfig) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidFlagValue) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrParseConfig) ||
		errors.Is(err, mdforge.ErrEmptyInput) ||
		errors.Is(err, mdforge.ErrIncompatibleDevtools) ||
		errors.Is(err, mdforge.ErrNoDestination) ||
		errors.Is(err, mdforge.ErrInvalidMargin) ||
		errors.Is(err, mdforge.ErrInvalidLength) ||
		errors.Is(err, mdforge.ErrUnknownFormat) ||
		errors.Is(err, mdforge.ErrUnknownHighlightStyle) ||
		errors.Is(err, mdforge.ErrUnsupportedEncoding) {
		return ExitUsage
	}

	return ExitGeneral
}
