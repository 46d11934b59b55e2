package letterpdf

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/ofuentes/go-letterpdf/internal/fileutil"
)

// regionSurface abstracts the live rendering surface the engine draws
// regions from. There is exactly one per Exporter; it is reset and
// re-populated before each export and never shared between two exports.
type regionSurface interface {
	// Load replaces the surface content with the rendered letter HTML.
	Load(ctx context.Context, html string) error

	// AwaitImages joins on every embedded image: each image is awaited
	// with a per-image timeout, and a failed or timed-out image is
	// replaced in place with a placeholder glyph. Returns the number of
	// replaced images.
	AwaitImages(ctx context.Context) (failed int, err error)

	// RegionSize returns the current CSS pixel width and height of a
	// named region. A missing optional region reports (0, 0).
	RegionSize(ctx context.Context, region RegionName) (w, h float64, err error)

	// Snapshot rasterizes a region into a PNG buffer at the surface's
	// device scale factor.
	Snapshot(ctx context.Context, region RegionName) ([]byte, error)

	// SetPageCounter re-renders the header's page-counter field.
	SetPageCounter(ctx context.Context, text string) error

	Close() error
}

// Compile-time interface check.
var _ regionSurface = (*rodSurface)(nil)

// Surface viewport in CSS pixels. Wider than the letter so the document
// is never squeezed by scrollbars.
const (
	viewportWidth  = 840
	viewportHeight = 1200
)

// imageJoinTimeoutMS is the per-image decode timeout applied inside the
// page before a pending image is declared failed.
const imageJoinTimeoutMS = 3000

// regionSelector maps a region name to its element in the letter template.
func regionSelector(region RegionName) string {
	return "#letter-" + string(region)
}

// pageCounterSelector locates the header's "page N of M" field.
const pageCounterSelector = "#page-counter"

// rodSurface implements regionSurface on headless Chrome via go-rod.
// The browser and page are created lazily on first Load.
type rodSurface struct {
	browser *rod.Browser
	page    *rod.Page
	bin     string
	timeout time.Duration
	cleanup func()
}

// newRodSurface creates a surface with the given per-operation timeout.
func newRodSurface(bin string, timeout time.Duration) *rodSurface {
	return &rodSurface{bin: bin, timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (s *rodSurface) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}

	l := launcher.New()

	// Explicit binary wins; fall back to the env override used in
	// Docker/CI images with a pre-installed chromium.
	bin := s.bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") != "" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	s.browser = rod.New().ControlURL(u)
	if err := s.browser.Connect(); err != nil {
		s.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// ensurePage lazily creates the single live page and fixes its viewport
// and device scale factor.
func (s *rodSurface) ensurePage(ctx context.Context) (*rod.Page, error) {
	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}
	if s.page != nil {
		return s.page.Context(ctx), nil
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: deviceScaleFactor,
	})
	if err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	s.page = page
	return page.Context(ctx), nil
}

// Load writes the letter HTML to a temp file and navigates the live page
// to it, discarding the previous export's content.
func (s *rodSurface) Load(ctx context.Context, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	page, err := s.ensurePage(ctx)
	if err != nil {
		return err
	}

	// The previous export's temp file is only removed once its content
	// has been replaced on the surface.
	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := page.Navigate("file://" + path); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.Timeout(s.timeout).WaitLoad(); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if s.cleanup != nil {
		s.cleanup()
	}
	s.cleanup = cleanup
	return nil
}

// awaitImagesJS joins on every image with a per-image timeout and swaps
// failed images for a placeholder glyph, so one broken decorative image
// cannot block delivery of the whole document.
const awaitImagesJS = `(timeoutMS) => {
	const imgs = Array.from(document.images);
	const wait = (img) => Promise.race([
		img.decode().then(() => "ok").catch(() => "failed"),
		new Promise((resolve) => setTimeout(() => resolve("timeout"), timeoutMS)),
	]);
	return Promise.all(imgs.map(wait)).then((states) => {
		let failed = 0;
		states.forEach((state, i) => {
			if (state === "ok") return;
			failed++;
			const glyph = document.createElement("span");
			glyph.className = "image-placeholder";
			glyph.textContent = "□";
			imgs[i].replaceWith(glyph);
		});
		return failed;
	});
}`

// AwaitImages implements the explicit asynchronous image join.
func (s *rodSurface) AwaitImages(ctx context.Context) (int, error) {
	page, err := s.ensurePage(ctx)
	if err != nil {
		return 0, err
	}

	obj, err := page.Timeout(s.timeout).Eval(awaitImagesJS, imageJoinTimeoutMS)
	if err != nil {
		return 0, fmt.Errorf("%w: awaiting images: %v", ErrPageLoad, err)
	}
	return obj.Value.Int(), nil
}

// RegionSize reads the rendered CSS pixel geometry of a region.
func (s *rodSurface) RegionSize(ctx context.Context, region RegionName) (float64, float64, error) {
	page, err := s.ensurePage(ctx)
	if err != nil {
		return 0, 0, err
	}

	sel := regionSelector(region)
	exists, el, err := page.Timeout(s.timeout).Has(sel)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: locating %s: %v", ErrRenderNotReady, region, err)
	}
	if !exists {
		return 0, 0, nil
	}

	shape, err := el.Shape()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: measuring %s: %v", ErrRenderNotReady, region, err)
	}
	box := shape.Box()
	if box == nil {
		return 0, 0, nil
	}
	return box.Width, box.Height, nil
}

// Snapshot rasterizes one region to PNG.
func (s *rodSurface) Snapshot(ctx context.Context, region RegionName) ([]byte, error) {
	page, err := s.ensurePage(ctx)
	if err != nil {
		return nil, err
	}

	el, err := page.Timeout(s.timeout).Element(regionSelector(region))
	if err != nil {
		return nil, fmt.Errorf("%w: locating %s: %v", ErrRasterizationFailed, region, err)
	}

	buf, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRasterizationFailed, region, err)
	}
	return buf, nil
}

// SetPageCounter updates the header's counter text in place. The next
// header snapshot picks it up; nothing else in the header changes.
func (s *rodSurface) SetPageCounter(ctx context.Context, text string) error {
	page, err := s.ensurePage(ctx)
	if err != nil {
		return err
	}

	el, err := page.Timeout(s.timeout).Element(pageCounterSelector)
	if err != nil {
		return fmt.Errorf("%w: locating page counter: %v", ErrRasterizationFailed, err)
	}
	if _, err := el.Eval(`(t) => { this.textContent = t }`, text); err != nil {
		return fmt.Errorf("%w: updating page counter: %v", ErrRasterizationFailed, err)
	}
	return nil
}

// Close releases browser resources and the last temp file.
func (s *rodSurface) Close() error {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
	s.page = nil
	if s.browser != nil {
		err := s.browser.Close()
		s.browser = nil
		return err
	}
	return nil
}
