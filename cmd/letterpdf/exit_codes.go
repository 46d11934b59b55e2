package main

import (
	"errors"
	"os"

	letterpdf "github.com/ofuentes/go-letterpdf"
	"github.com/ofuentes/go-letterpdf/internal/config"
	"github.com/ofuentes/go-letterpdf/internal/dateutil"
	"github.com/ofuentes/go-letterpdf/internal/fileutil"
)

// Exit codes for the letterpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom < 126.
const (
	ExitSuccess = 0 // All documents exported
	ExitGeneral = 1 // General/unexpected error, or some batch items failed
	ExitUsage   = 2 // Invalid flags, config, records, or page geometry
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser, rasterization, or assembly errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must wrap with
// fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser and rendering errors (exit 4)
	if errors.Is(err, letterpdf.ErrBrowserConnect) ||
		errors.Is(err, letterpdf.ErrPageCreate) ||
		errors.Is(err, letterpdf.ErrPageLoad) ||
		errors.Is(err, letterpdf.ErrRenderNotReady) ||
		errors.Is(err, letterpdf.ErrRasterizationFailed) ||
		errors.Is(err, letterpdf.ErrAssemblyFailed) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadRecords) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrNoRecordsFile) ||
		errors.Is(err, ErrParseRecords) ||
		errors.Is(err, ErrNoRecords) ||
		errors.Is(err, ErrInvalidRecordDate) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidDuration) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, fileutil.ErrEmptyFileName) ||
		errors.Is(err, letterpdf.ErrEmptyCode) ||
		errors.Is(err, letterpdf.ErrNoDocuments) ||
		errors.Is(err, letterpdf.ErrInvalidPageGeometry) {
		return ExitUsage
	}

	return ExitGeneral
}
