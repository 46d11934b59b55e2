package letterpdf

import (
	"context"
	"time"
)

// renderRetryDelay is how long the measurer waits before re-reading a
// region that reported zero size, to let a late layout pass settle.
const renderRetryDelay = 150 * time.Millisecond

// Measurement is the pixel-to-physical conversion for one export.
// Derived once per export and reused for every region of that document;
// never cached across exports, because the surface may have reflowed.
type Measurement struct {
	PixelWidth float64 // measured document width in CSS pixels
	MMPerPixel float64 // physical millimetres per CSS pixel
	Degraded   bool    // true when the fallback width was used
}

// RasterPxPerMM converts the measurement into raster pixels per
// millimetre, accounting for the surface's device scale factor.
func (m Measurement) RasterPxPerMM() float64 {
	return deviceScaleFactor / m.MMPerPixel
}

// measureLayout reads the rendered document width and derives the scale
// factor mapping it onto the usable page width.
//
// A zero measured width means the surface is not ready (not attached or
// not yet laid out). The measurer retries once after a short delay, then
// falls back to the design pixel width. The fallback is a defensive
// clamp against a division-by-zero scale, not a correctness guarantee;
// the result is marked Degraded so callers can surface it.
func measureLayout(ctx context.Context, s regionSurface, geo PageGeometry) (Measurement, error) {
	w, _, err := s.RegionSize(ctx, RegionContent)
	if err != nil {
		return Measurement{}, err
	}

	if w <= 0 {
		select {
		case <-ctx.Done():
			return Measurement{}, ctx.Err()
		case <-time.After(renderRetryDelay):
		}
		w, _, err = s.RegionSize(ctx, RegionContent)
		if err != nil {
			return Measurement{}, err
		}
	}

	degraded := false
	if w <= 0 {
		w = DefaultPixelWidth
		degraded = true
	}

	return Measurement{
		PixelWidth: w,
		MMPerPixel: geo.UsableWidthMM() / w,
		Degraded:   degraded,
	}, nil
}

// regionHeightMM measures one region and converts its height to
// millimetres with the export's shared scale factor. A missing optional
// region reports zero height.
func regionHeightMM(ctx context.Context, s regionSurface, region RegionName, m Measurement) (float64, error) {
	_, h, err := s.RegionSize(ctx, region)
	if err != nil {
		return 0, err
	}
	return h * m.MMPerPixel, nil
}
