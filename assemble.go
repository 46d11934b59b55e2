package letterpdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/go-pdf/fpdf"
)

// pageAssembler composes the output pages from a pagination plan. The
// content and footer rasters are produced once and reused; only the
// header is re-rasterized per page, because its counter text changes
// every page.
type pageAssembler struct {
	geo PageGeometry
}

// assembleInput carries everything one assembly pass needs. At most one
// composed page lives in memory at a time, plus the immutable content
// raster the slices are cropped from.
type assembleInput struct {
	plan          *PaginationPlan
	surface       regionSurface
	contentPNG    []byte
	footerPNG     []byte // nil when the document has no footer
	headerMM      float64
	footerMM      float64
	rasterPxPerMM float64
}

// subImager is satisfied by every stdlib raster type png.Decode returns.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// assemble builds the multi-page PDF. Page 1 always carries the counter
// "1 of N"; exactly the last page carries the footer. On any failure the
// partially built document is discarded, never returned.
func (a pageAssembler) assemble(ctx context.Context, in assembleInput) ([]byte, error) {
	var contentImg image.Image
	if hasContent(in.plan) {
		img, err := png.Decode(bytes.NewReader(in.contentPNG))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding content raster: %v", ErrAssemblyFailed, err)
		}
		contentImg = img
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: a.geo.WidthMM, Ht: a.geo.HeightMM},
	})
	pdf.SetAutoPageBreak(false, 0)

	usableW := a.geo.UsableWidthMM()
	for _, slice := range in.plan.Slices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Re-render the header with this page's counter and rasterize it
		// fresh. Everything but the counter text stays pixel-identical.
		counter := fmt.Sprintf("%d of %d", slice.PageIndex, in.plan.TotalPages)
		if err := in.surface.SetPageCounter(ctx, counter); err != nil {
			return nil, err
		}
		headerPNG, err := in.surface.Snapshot(ctx, RegionHeader)
		if err != nil {
			return nil, err
		}

		pdf.AddPage()
		y := a.geo.MarginMM

		placePNG(pdf, fmt.Sprintf("header-%d", slice.PageIndex), headerPNG,
			a.geo.MarginMM, y, usableW, in.headerMM)
		y += in.headerMM + GapAfterHeaderMM

		if slice.HeightPx() > 0 {
			slicePNG, err := cropContentSlice(contentImg, slice)
			if err != nil {
				return nil, err
			}
			sliceMM := float64(slice.HeightPx()) / in.rasterPxPerMM
			placePNG(pdf, fmt.Sprintf("content-%d", slice.PageIndex), slicePNG,
				a.geo.MarginMM, y, usableW, sliceMM)
			y += sliceMM
		}

		// The footer is never split; it attaches only to the final page.
		if slice.PageIndex == in.plan.TotalPages && in.footerPNG != nil {
			y += GapBeforeFooterMM
			placePNG(pdf, "footer", in.footerPNG, a.geo.MarginMM, y, usableW, in.footerMM)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrAssemblyFailed, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssemblyFailed, err)
	}
	return buf.Bytes(), nil
}

// hasContent reports whether any slice carries content pixels.
func hasContent(plan *PaginationPlan) bool {
	for _, s := range plan.Slices {
		if s.HeightPx() > 0 {
			return true
		}
	}
	return false
}

// cropContentSlice cuts one page's vertical chunk out of the content
// raster and re-encodes it as PNG for embedding.
func cropContentSlice(contentImg image.Image, slice PageSlice) ([]byte, error) {
	bounds := contentImg.Bounds()
	rect := image.Rect(
		bounds.Min.X, bounds.Min.Y+slice.ContentStartPx,
		bounds.Max.X, bounds.Min.Y+slice.ContentEndPx,
	).Intersect(bounds)

	var cropped image.Image
	if si, ok := contentImg.(subImager); ok {
		cropped = si.SubImage(rect)
	} else {
		dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		draw.Draw(dst, dst.Bounds(), contentImg, rect.Min, draw.Src)
		cropped = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("%w: encoding content slice %d: %v",
			ErrAssemblyFailed, slice.PageIndex, err)
	}
	return buf.Bytes(), nil
}

// placePNG registers a PNG buffer under name and draws it at the given
// physical position and size. Errors accumulate inside fpdf and are
// checked once after composition.
func placePNG(pdf *fpdf.Fpdf, name string, data []byte, x, y, w, h float64) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}
