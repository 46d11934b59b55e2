package letterpdf

// Notes:
// - assemble: per-page header counters, footer on the last page only
// - empty-content plans still produce a one page document
// - cancellation discards the partial document

import (
	"bytes"
	"context"
	"fmt"
	"testing"
)

// buildTestPlan builds a plan for a content raster of the given height with
// fixed region reserves, failing the test on error.
func buildTestPlan(t *testing.T, contentHeightPx int, headerMM, footerMM float64) *PaginationPlan {
	t.Helper()

	plan, err := BuildPlan(PlanInput{
		ContentRasterHeightPx: contentHeightPx,
		HeaderMM:              headerMM,
		FooterMM:              footerMM,
		RasterPxPerMM:         8.0,
		Geometry:              DefaultPageGeometry(),
	})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	return plan
}

// ---------------------------------------------------------------------------
// TestAssemble - Page Composition
// ---------------------------------------------------------------------------

func TestAssemble_MultiPage(t *testing.T) {
	t.Parallel()

	const contentHeight = 3000
	plan := buildTestPlan(t, contentHeight, 50, 20)
	if plan.TotalPages < 2 {
		t.Fatalf("TotalPages = %d, want a multi-page plan", plan.TotalPages)
	}

	surface := newMockSurface(t, contentHeight, 200, 100)
	assembler := pageAssembler{geo: DefaultPageGeometry()}

	pdf, err := assembler.assemble(context.Background(), assembleInput{
		plan:          plan,
		surface:       surface,
		contentPNG:    surface.contentPNG,
		footerPNG:     surface.footerPNG,
		headerMM:      50,
		footerMM:      20,
		rasterPxPerMM: 8.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output does not start with the PDF magic bytes")
	}

	// The header is re-rasterized for every page with that page's counter.
	if got := surface.snapshotCount(RegionHeader); got != plan.TotalPages {
		t.Errorf("header snapshots = %d, want %d", got, plan.TotalPages)
	}
	if len(surface.counters) != plan.TotalPages {
		t.Fatalf("counter updates = %d, want %d", len(surface.counters), plan.TotalPages)
	}
	for i, counter := range surface.counters {
		want := fmt.Sprintf("%d of %d", i+1, plan.TotalPages)
		if counter != want {
			t.Errorf("counter %d = %q, want %q", i, counter, want)
		}
	}
}

func TestAssemble_EmptyContent(t *testing.T) {
	t.Parallel()

	plan := buildTestPlan(t, 0, 50, 20)
	if plan.TotalPages != 1 {
		t.Fatalf("TotalPages = %d, want 1", plan.TotalPages)
	}

	surface := newMockSurface(t, 0, 200, 100)
	assembler := pageAssembler{geo: DefaultPageGeometry()}

	pdf, err := assembler.assemble(context.Background(), assembleInput{
		plan:          plan,
		surface:       surface,
		contentPNG:    nil,
		footerPNG:     surface.footerPNG,
		headerMM:      50,
		footerMM:      20,
		rasterPxPerMM: 8.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output does not start with the PDF magic bytes")
	}
	if got := surface.counters; len(got) != 1 || got[0] != "1 of 1" {
		t.Errorf("counters = %q, want [\"1 of 1\"]", got)
	}
}

func TestAssemble_NoFooter(t *testing.T) {
	t.Parallel()

	const contentHeight = 1000
	plan := buildTestPlan(t, contentHeight, 50, 0)

	surface := newMockSurface(t, contentHeight, 200, 0)
	assembler := pageAssembler{geo: DefaultPageGeometry()}

	pdf, err := assembler.assemble(context.Background(), assembleInput{
		plan:          plan,
		surface:       surface,
		contentPNG:    surface.contentPNG,
		footerPNG:     nil,
		headerMM:      50,
		footerMM:      0,
		rasterPxPerMM: 8.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("empty document produced")
	}
}

func TestAssemble_Canceled(t *testing.T) {
	t.Parallel()

	const contentHeight = 3000
	plan := buildTestPlan(t, contentHeight, 50, 20)
	surface := newMockSurface(t, contentHeight, 200, 100)
	assembler := pageAssembler{geo: DefaultPageGeometry()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pdf, err := assembler.assemble(ctx, assembleInput{
		plan:          plan,
		surface:       surface,
		contentPNG:    surface.contentPNG,
		footerPNG:     surface.footerPNG,
		headerMM:      50,
		footerMM:      20,
		rasterPxPerMM: 8.0,
	})
	if err == nil {
		t.Fatal("expected cancellation error, got nil")
	}
	if pdf != nil {
		t.Error("partial document returned on cancellation")
	}
}

// ---------------------------------------------------------------------------
// TestCropContentSlice - Raster Cropping
// ---------------------------------------------------------------------------

func TestCropContentSlice(t *testing.T) {
	t.Parallel()

	img := decodeTestPNG(t, testPNG(t, 8, 100))

	tests := []struct {
		name  string
		slice PageSlice
	}{
		{name: "first chunk", slice: PageSlice{PageIndex: 1, ContentStartPx: 0, ContentEndPx: 40}},
		{name: "middle chunk", slice: PageSlice{PageIndex: 2, ContentStartPx: 40, ContentEndPx: 80}},
		{name: "tail chunk", slice: PageSlice{PageIndex: 3, ContentStartPx: 80, ContentEndPx: 100}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf, err := cropContentSlice(img, tt.slice)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			cropped := decodeTestPNG(t, buf)
			if got := cropped.Bounds().Dy(); got != tt.slice.HeightPx() {
				t.Errorf("cropped height = %d, want %d", got, tt.slice.HeightPx())
			}
			if got := cropped.Bounds().Dx(); got != 8 {
				t.Errorf("cropped width = %d, want 8", got)
			}
		})
	}
}
