package letterpdf

import (
	"fmt"
	"math"
)

// pageCountEpsilon guards the ceiling division against floating error so
// a content height that is an exact multiple of the per-page capacity
// does not round up to an extra page.
const pageCountEpsilon = 1e-9

// PlanInput carries the measured quantities the paginator works from.
type PlanInput struct {
	ContentRasterHeightPx int     // full height of the content raster, pixels
	HeaderMM              float64 // measured header height, millimetres
	FooterMM              float64 // measured footer height; 0 when no footer
	RasterPxPerMM         float64 // raster pixels per millimetre
	Geometry              PageGeometry
}

// contentHeightPerPage returns the physical content space available on
// one page after the header, footer, and their gaps are reserved.
// Returns ErrInvalidPageGeometry when the reserves consume the page; the
// exporter calls this before any rasterization work begins.
func contentHeightPerPage(headerMM, footerMM float64, geo PageGeometry) (float64, error) {
	if err := geo.Validate(); err != nil {
		return 0, err
	}
	content := geo.UsableHeightMM() -
		(headerMM + GapAfterHeaderMM) -
		(footerMM + GapBeforeFooterMM)
	if content <= 0 {
		return 0, fmt.Errorf("%w: header %.1fmm + footer %.1fmm leave %.1fmm of %.1fmm usable",
			ErrInvalidPageGeometry, headerMM, footerMM, content, geo.UsableHeightMM())
	}
	return content, nil
}

// BuildPlan computes the pagination plan for one export.
//
// The page count is ceil(contentMM / contentPerPage), never less than
// one: a document whose content renders to nothing still produces a
// single page carrying header and footer. Slice boundaries are computed
// cumulatively in content-raster pixel space, so consecutive slices are
// contiguous by construction and the last slice always ends at the
// raster's full height.
func BuildPlan(in PlanInput) (*PaginationPlan, error) {
	if in.ContentRasterHeightPx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeContentSize, in.ContentRasterHeightPx)
	}
	if !validFinite(in.RasterPxPerMM) {
		return nil, fmt.Errorf("%w: %v px/mm", ErrInvalidScale, in.RasterPxPerMM)
	}
	if in.HeaderMM < 0 || in.FooterMM < 0 {
		return nil, fmt.Errorf("%w: negative region height", ErrInvalidPageGeometry)
	}

	perPage, err := contentHeightPerPage(in.HeaderMM, in.FooterMM, in.Geometry)
	if err != nil {
		return nil, err
	}

	contentMM := float64(in.ContentRasterHeightPx) / in.RasterPxPerMM
	total := int(math.Ceil(contentMM/perPage - pageCountEpsilon))
	if total < 1 {
		total = 1
	}

	contentPx := perPage * in.RasterPxPerMM
	plan := &PaginationPlan{
		TotalPages:       total,
		ContentPerPageMM: perPage,
		Slices:           make([]PageSlice, 0, total),
	}

	for p := 1; p <= total; p++ {
		start := sliceBoundary(p-1, contentPx, in.ContentRasterHeightPx)
		end := sliceBoundary(p, contentPx, in.ContentRasterHeightPx)
		if p == total {
			end = in.ContentRasterHeightPx
		}
		plan.Slices = append(plan.Slices, PageSlice{
			PageIndex:      p,
			ContentStartPx: start,
			ContentEndPx:   end,
		})
	}

	return plan, nil
}

// sliceBoundary returns the raster pixel position of the p-th page
// boundary, clamped to the raster height.
func sliceBoundary(p int, contentPx float64, rasterHeight int) int {
	px := int(math.Round(float64(p) * contentPx))
	if px > rasterHeight {
		return rasterHeight
	}
	return px
}
