package letterpdf

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"image/png"
	"sync"
	"time"

	"github.com/ofuentes/go-letterpdf/internal/dateutil"
)

// Exporter runs the letter export pipeline. It owns a single live
// rendering surface, so exports are strictly serialized: the internal
// mutex guarantees two exports never interleave.
// Create with NewExporter, export with Export, and Close when done.
type Exporter struct {
	cfg       exporterConfig
	geo       PageGeometry
	tmpl      *template.Template
	css       string
	estimator *Estimator

	mu      sync.Mutex
	surface regionSurface
}

// NewExporter creates an Exporter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithBrowserBin).
// The browser itself is launched lazily on the first export.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{timeout: defaultTimeout, pacing: defaultPacing},
		geo: DefaultPageGeometry(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cfg.dateFormat != "" {
		if _, err := dateutil.Format(time.Now(), e.cfg.dateFormat); err != nil {
			return nil, err
		}
	}

	tmpl, css, err := loadLetterTemplate(e.cfg.assetDir)
	if err != nil {
		return nil, err
	}
	e.tmpl = tmpl
	e.css = css

	estimator, err := NewEstimator()
	if err != nil {
		return nil, err
	}
	e.estimator = estimator

	// Create the rendering surface if not injected (e.g., by tests).
	if e.surface == nil {
		e.surface = newRodSurface(e.cfg.browserBin, e.cfg.timeout)
	}

	return e, nil
}

// EstimatePages predicts the page count for body text alone, without
// rendering. Advisory only; see Estimator.
func (e *Exporter) EstimatePages(bodyText string) int {
	return e.estimator.EstimatePages(bodyText)
}

// Export runs the full pipeline for one document and returns the
// composed multi-page PDF with the plan it was assembled from.
//
// Cancellation is cooperative and coarse: the context is checked between
// stages, but a page mid-composition runs to completion; on any error or
// cancellation no partial document is ever returned.
func (e *Exporter) Export(ctx context.Context, doc DocumentContent) (*ExportResult, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.export(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.Code, err)
	}
	return result, nil
}

// export runs the pipeline stages in order. Caller holds e.mu.
func (e *Exporter) export(ctx context.Context, doc DocumentContent) (*ExportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	defer cancel()

	blocks, err := FormatBlocks(doc.Subject, doc.BodyText)
	if err != nil {
		return nil, fmt.Errorf("formatting content: %w", err)
	}

	html, err := renderLetterHTML(e.tmpl, e.css, doc, blocks, e.cfg.dateFormat)
	if err != nil {
		return nil, fmt.Errorf("rendering letter: %w", err)
	}

	// Reset and re-populate the shared surface for this export.
	if err := e.surface.Load(ctx, html); err != nil {
		return nil, fmt.Errorf("loading surface: %w", err)
	}

	if _, err := e.surface.AwaitImages(ctx); err != nil {
		return nil, fmt.Errorf("joining images: %w", err)
	}

	m, err := measureLayout(ctx, e.surface, e.geo)
	if err != nil {
		return nil, fmt.Errorf("measuring layout: %w", err)
	}

	headerMM, err := regionHeightMM(ctx, e.surface, RegionHeader, m)
	if err != nil {
		return nil, fmt.Errorf("measuring header: %w", err)
	}
	footerMM, err := regionHeightMM(ctx, e.surface, RegionFooter, m)
	if err != nil {
		return nil, fmt.Errorf("measuring footer: %w", err)
	}

	// Reject impossible geometry before any rasterization work begins.
	if _, err := contentHeightPerPage(headerMM, footerMM, e.geo); err != nil {
		return nil, err
	}

	contentPNG, contentHeightPx, err := e.rasterizeContent(ctx)
	if err != nil {
		return nil, err
	}

	var footerPNG []byte
	if footerMM > 0 {
		footerPNG, err = e.surface.Snapshot(ctx, RegionFooter)
		if err != nil {
			return nil, fmt.Errorf("rasterizing footer: %w", err)
		}
	}

	plan, err := BuildPlan(PlanInput{
		ContentRasterHeightPx: contentHeightPx,
		HeaderMM:              headerMM,
		FooterMM:              footerMM,
		RasterPxPerMM:         m.RasterPxPerMM(),
		Geometry:              e.geo,
	})
	if err != nil {
		return nil, fmt.Errorf("building pagination plan: %w", err)
	}

	assembler := pageAssembler{geo: e.geo}
	pdf, err := assembler.assemble(ctx, assembleInput{
		plan:          plan,
		surface:       e.surface,
		contentPNG:    contentPNG,
		footerPNG:     footerPNG,
		headerMM:      headerMM,
		footerMM:      footerMM,
		rasterPxPerMM: m.RasterPxPerMM(),
	})
	if err != nil {
		return nil, fmt.Errorf("assembling pages: %w", err)
	}

	return &ExportResult{PDF: pdf, Plan: plan, Degraded: m.Degraded}, nil
}

// rasterizeContent snapshots the content region once and reads the
// raster's true pixel height from the PNG header. The region wraps
// title, info, and body, so the document's subject and recipient land
// on the composed pages alongside the text. A region with zero rendered
// height is not snapshotted at all; the document still produces one page
// carrying header and footer.
func (e *Exporter) rasterizeContent(ctx context.Context) ([]byte, int, error) {
	_, cssH, err := e.surface.RegionSize(ctx, RegionContent)
	if err != nil {
		return nil, 0, fmt.Errorf("measuring content: %w", err)
	}
	if cssH <= 0 {
		return nil, 0, nil
	}

	buf, err := e.surface.Snapshot(ctx, RegionContent)
	if err != nil {
		// The content is the document's substance; unlike a decorative
		// image, its rasterization failure is fatal.
		return nil, 0, fmt.Errorf("rasterizing content: %w", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading content raster header: %v", ErrRasterizationFailed, err)
	}
	return buf, cfg.Height, nil
}

// Close releases the rendering surface and its browser.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.surface != nil {
		return e.surface.Close()
	}
	return nil
}
