package letterpdf

import (
	"fmt"
	"math"
	"time"
)

// Physical page constants in millimetres (US Letter).
// Fixed at build time; the engine supports exactly one physical format.
const (
	PageWidthMM  = 215.9
	PageHeightMM = 279.4
	PageMarginMM = 12.7
)

// Vertical gaps between composed regions, in millimetres.
const (
	GapAfterHeaderMM  = 6.0
	GapBeforeFooterMM = 6.0
)

// Nominal render width in CSS pixels. The letter template lays the
// document out at this width; it maps onto the usable page width.
const (
	DesignPixelWidth  = 780.0
	DefaultPixelWidth = DesignPixelWidth // fallback when measurement fails
)

// deviceScaleFactor is the raster oversampling applied by the rendering
// surface. Rasters carry deviceScaleFactor pixels per CSS pixel.
const deviceScaleFactor = 2.0

// RegionName identifies a named rectangular portion of the letter.
type RegionName string

// Letter regions. Every region of one document shares the document width.
// The content region wraps title, info, and body; it is the raster the
// paginator slices, so subject, recipient, and date travel with the text
// onto the composed pages.
const (
	RegionHeader  RegionName = "header"
	RegionTitle   RegionName = "title"
	RegionInfo    RegionName = "info"
	RegionBody    RegionName = "body"
	RegionContent RegionName = "content"
	RegionFooter  RegionName = "footer"
)

// DocumentContent is the immutable input record for one export.
// The engine only reads it; ownership stays with the caller.
type DocumentContent struct {
	Code      string    // unique document code, names the output file
	Subject   string    // optional; rendered as "N/A" when empty
	Sender    string    // optional; empty sender omits the footer region
	Recipient string    // optional; rendered as "N/A" when empty
	BodyText  string    // raw multi-line body, blank lines separate paragraphs
	CreatedAt time.Time // document date shown in the info region
}

// Validate checks that the record can be exported.
func (d DocumentContent) Validate() error {
	if d.Code == "" {
		return ErrEmptyCode
	}
	return nil
}

// PageGeometry holds the physical page constants for composition.
// The margin applies symmetrically on all four sides.
type PageGeometry struct {
	WidthMM  float64
	HeightMM float64
	MarginMM float64
}

// DefaultPageGeometry returns the fixed US Letter geometry.
func DefaultPageGeometry() PageGeometry {
	return PageGeometry{
		WidthMM:  PageWidthMM,
		HeightMM: PageHeightMM,
		MarginMM: PageMarginMM,
	}
}

// UsableWidthMM returns the horizontal space inside the margins.
func (g PageGeometry) UsableWidthMM() float64 {
	return g.WidthMM - 2*g.MarginMM
}

// UsableHeightMM returns the vertical space inside the margins.
func (g PageGeometry) UsableHeightMM() float64 {
	return g.HeightMM - 2*g.MarginMM
}

// Validate checks that the geometry leaves usable space.
func (g PageGeometry) Validate() error {
	if g.WidthMM <= 0 || g.HeightMM <= 0 || g.MarginMM < 0 {
		return fmt.Errorf("%w: page %.1fx%.1fmm margin %.1fmm",
			ErrInvalidPageGeometry, g.WidthMM, g.HeightMM, g.MarginMM)
	}
	if g.UsableWidthMM() <= 0 || g.UsableHeightMM() <= 0 {
		return fmt.Errorf("%w: margins consume the whole page", ErrInvalidPageGeometry)
	}
	return nil
}

// PageSlice is the vertical chunk of the content raster that belongs on
// one output page. Pixel positions are in content-raster pixel space.
type PageSlice struct {
	PageIndex      int // 1-based
	ContentStartPx int
	ContentEndPx   int
}

// HeightPx returns the slice height in raster pixels.
func (s PageSlice) HeightPx() int {
	return s.ContentEndPx - s.ContentStartPx
}

// PaginationPlan is the ordered set of content slices for one export.
// Built append-only, then treated as read-only.
type PaginationPlan struct {
	TotalPages       int
	ContentPerPageMM float64
	Slices           []PageSlice
}

// Equal reports whether two plans have identical page counts and slice
// boundaries. Used to verify export idempotence.
func (p *PaginationPlan) Equal(other *PaginationPlan) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.TotalPages != other.TotalPages || len(p.Slices) != len(other.Slices) {
		return false
	}
	for i := range p.Slices {
		if p.Slices[i] != other.Slices[i] {
			return false
		}
	}
	return true
}

// ExportResult holds the output of a single export.
type ExportResult struct {
	PDF      []byte          // the multi-page document
	Plan     *PaginationPlan // the plan the pages were assembled from
	Degraded bool            // true when measurement fell back to the default width
}

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout    time.Duration
	pacing     time.Duration
	browserBin string
	dateFormat string
	assetDir   string
}

// Defaults for exporter configuration.
const (
	defaultTimeout = 30 * time.Second

	// defaultPacing is the delay between successive batch emissions, for
	// host environments that throttle rapid file-save triggers.
	defaultPacing = 300 * time.Millisecond
)

// WithTimeout sets the per-export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("letterpdf: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithPacing sets the delay inserted between successive batch emissions.
// A zero duration disables pacing.
func WithPacing(d time.Duration) Option {
	if d < 0 {
		panic("letterpdf: WithPacing duration cannot be negative")
	}
	return func(e *Exporter) {
		e.cfg.pacing = d
	}
}

// WithBrowserBin sets an explicit Chrome/Chromium binary path, overriding
// rod's managed download and the ROD_BROWSER_BIN environment variable.
func WithBrowserBin(path string) Option {
	return func(e *Exporter) {
		e.cfg.browserBin = path
	}
}

// WithAssetDir overrides the embedded letter design with templates/ and
// styles/ loaded from the given directory. The directory must exist;
// NewExporter rejects a path that does not resolve to one.
func WithAssetDir(dir string) Option {
	return func(e *Exporter) {
		e.cfg.assetDir = dir
	}
}

// WithDateFormat sets the token format (YYYY, MM, DD, ...) or preset
// name used for the date shown in the letter's info region. Empty keeps
// the long house format. Invalid formats are rejected by NewExporter.
func WithDateFormat(format string) Option {
	return func(e *Exporter) {
		e.cfg.dateFormat = format
	}
}

// validFinite reports whether v is a positive, finite scale value.
func validFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}
