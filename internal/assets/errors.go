package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrStylesheetRead indicates the stylesheet could not be read.
	ErrStylesheetRead = errors.New("failed to read stylesheet")

	// ErrFontRead indicates a font referenced by a stylesheet could not be read.
	ErrFontRead = errors.New("failed to read font")
)
