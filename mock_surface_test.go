package letterpdf

// mockSurface is an in-memory regionSurface for pipeline tests. Region
// geometry and raster content are fixed at construction; every call is
// recorded so tests can assert ordering and counts without a browser.

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
)

type mockSurface struct {
	// CSS pixel geometry per region; absent regions report zero size.
	sizes map[RegionName][2]float64

	contentPNG []byte
	headerPNG  []byte
	footerPNG  []byte

	loadErr     error
	snapshotErr map[RegionName]error

	// RegionSize(content) calls that report zero width before layout
	// settles, to exercise the measurer's retry path.
	contentWidthZeroReads int

	loads     []string
	snapshots []RegionName
	counters  []string
	closed    bool
}

// newMockSurface builds a surface rendering a letter whose content
// raster is contentRasterHeightPx tall. Zero heights omit the region
// entirely.
func newMockSurface(t *testing.T, contentRasterHeightPx int, headerCSSHeight, footerCSSHeight float64) *mockSurface {
	t.Helper()

	m := &mockSurface{
		sizes:       make(map[RegionName][2]float64),
		snapshotErr: make(map[RegionName]error),
		headerPNG:   testPNG(t, 8, 4),
	}

	m.sizes[RegionHeader] = [2]float64{DesignPixelWidth, headerCSSHeight}

	contentCSSHeight := float64(contentRasterHeightPx) / deviceScaleFactor
	m.sizes[RegionContent] = [2]float64{DesignPixelWidth, contentCSSHeight}
	if contentRasterHeightPx > 0 {
		m.contentPNG = testPNG(t, 8, contentRasterHeightPx)
	}

	if footerCSSHeight > 0 {
		m.sizes[RegionFooter] = [2]float64{DesignPixelWidth, footerCSSHeight}
		m.footerPNG = testPNG(t, 8, 4)
	}

	return m
}

func (m *mockSurface) Load(_ context.Context, html string) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loads = append(m.loads, html)
	return nil
}

func (m *mockSurface) AwaitImages(context.Context) (int, error) {
	return 0, nil
}

func (m *mockSurface) RegionSize(_ context.Context, region RegionName) (float64, float64, error) {
	if region == RegionContent && m.contentWidthZeroReads > 0 {
		m.contentWidthZeroReads--
		return 0, 0, nil
	}
	s, ok := m.sizes[region]
	if !ok {
		return 0, 0, nil
	}
	return s[0], s[1], nil
}

func (m *mockSurface) Snapshot(_ context.Context, region RegionName) ([]byte, error) {
	if err := m.snapshotErr[region]; err != nil {
		return nil, err
	}
	m.snapshots = append(m.snapshots, region)
	switch region {
	case RegionHeader:
		return m.headerPNG, nil
	case RegionContent:
		return m.contentPNG, nil
	case RegionFooter:
		return m.footerPNG, nil
	default:
		return nil, nil
	}
}

func (m *mockSurface) SetPageCounter(_ context.Context, text string) error {
	m.counters = append(m.counters, text)
	return nil
}

func (m *mockSurface) Close() error {
	m.closed = true
	return nil
}

// snapshotCount tallies recorded snapshots of one region.
func (m *mockSurface) snapshotCount(region RegionName) int {
	n := 0
	for _, r := range m.snapshots {
		if r == region {
			n++
		}
	}
	return n
}

// testPNG encodes a blank w-by-h PNG for use as mock raster content.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

// decodeTestPNG decodes a PNG buffer, failing the test on error.
func decodeTestPNG(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	return img
}

// newTestExporter returns an exporter whose rendering surface is the
// given mock, with pacing disabled for fast batch tests.
func newTestExporter(t *testing.T, surface regionSurface) *Exporter {
	t.Helper()

	e, err := NewExporter(WithPacing(0))
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	e.surface = surface
	return e
}
