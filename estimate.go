package letterpdf

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fixed metrics for the off-screen estimation surface. They mirror the
// real letter stylesheet closely enough for an advisory count.
const (
	estimateFontSizePx     = 15.0
	estimateLineHeightPx   = 24.0
	estimateParagraphGapPx = 12.0
)

// Fixed header/footer reserves used at estimation time, in millimetres.
// At estimation time the real header and footer have not been rendered,
// so these are assumptions, not measurements. They intentionally differ
// from the measured values the paginator uses during a real export, so
// the live estimate can disagree with the final count by one page near a
// boundary. That gap is inherited behavior; do not unify the constants
// without product sign-off.
const (
	estimateHeaderReserveMM = 58.0
	estimateFooterReserveMM = 24.0
)

// Estimator predicts page counts from body text alone, without a
// rendering surface, for live feedback while content is being composed.
// The estimate is advisory only and never gates export behavior.
type Estimator struct {
	mu   sync.Mutex
	face font.Face
	geo  PageGeometry
}

// NewEstimator builds an estimator around the embedded Go Regular face
// at the engine's fixed font metrics.
func NewEstimator() (*Estimator, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEstimatorFontLoad, err)
	}
	// DPI 72 makes the point size equal the pixel size.
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    estimateFontSizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEstimatorFontLoad, err)
	}
	return &Estimator{face: face, geo: DefaultPageGeometry()}, nil
}

// EstimatePages predicts the total page count for the given body text.
//
// The text is wrapped greedily at the nominal design width using the
// fixed font metrics, the resulting height is converted with the same
// scale math a real export uses, and the fixed header/footer reserves
// are subtracted from the usable page height. Monotonically
// non-decreasing in body text length for a fixed paragraph count.
func (e *Estimator) EstimatePages(bodyText string) int {
	e.mu.Lock()
	heightPx := e.measureBodyPx(bodyText)
	e.mu.Unlock()

	mmPerPx := e.geo.UsableWidthMM() / DesignPixelWidth
	bodyMM := heightPx * mmPerPx

	contentMM := e.geo.UsableHeightMM() - estimateHeaderReserveMM - estimateFooterReserveMM
	pages := int(math.Ceil(bodyMM/contentMM - pageCountEpsilon))
	if pages < 1 {
		return 1
	}
	return pages
}

// measureBodyPx computes the synthetic rendered height of the body text
// in CSS pixels. Caller holds e.mu (font.Face is not concurrency-safe).
func (e *Estimator) measureBodyPx(bodyText string) float64 {
	paragraphs := splitParagraphs(bodyText)
	if len(paragraphs) == 0 {
		return 0
	}

	spaceWidth := e.advancePx(" ")
	totalLines := 0
	for _, p := range paragraphs {
		totalLines += e.wrapLines(p, spaceWidth)
	}

	return float64(totalLines)*estimateLineHeightPx +
		float64(len(paragraphs)-1)*estimateParagraphGapPx
}

// wrapLines counts the lines one paragraph occupies when wrapped
// greedily at the design width.
func (e *Estimator) wrapLines(paragraph string, spaceWidth float64) int {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return 1
	}

	lines := 1
	lineWidth := 0.0
	for _, word := range words {
		w := e.advancePx(word)
		if lineWidth > 0 && lineWidth+spaceWidth+w > DesignPixelWidth {
			lines++
			lineWidth = w
			continue
		}
		if lineWidth > 0 {
			lineWidth += spaceWidth
		}
		lineWidth += w
	}
	return lines
}

// advancePx measures the horizontal advance of s in pixels.
func (e *Estimator) advancePx(s string) float64 {
	return float64(font.MeasureString(e.face, s)) / 64
}
