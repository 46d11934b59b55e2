package letterpdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyCode           = errors.New("document code cannot be empty")
	ErrRenderNotReady      = errors.New("rendered region has zero size")
	ErrRasterizationFailed = errors.New("region rasterization failed")
	ErrInvalidPageGeometry = errors.New("header and footer exceed usable page height")
	ErrAssemblyFailed      = errors.New("page assembly failed")

	// Browser lifecycle errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load letter page")

	// Batch export errors.
	ErrNoDocuments = errors.New("no documents to export")

	// Pagination input errors.
	ErrInvalidScale        = errors.New("scale factor must be positive and finite")
	ErrNegativeContentSize = errors.New("content raster height cannot be negative")
	ErrEstimatorFontLoad   = errors.New("failed to load estimator font")
)
