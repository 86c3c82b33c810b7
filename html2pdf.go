package mdpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/mdpage/mdpage/internal/fileutil"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing
// without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
}

// Compile-time interface checks
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// pdfOptions holds options for PDF generation.
type pdfOptions struct {
	Scale   float64
	Margins Margins
}

// A4 paper dimensions and the CSS pixel conversion. The 96/25.4 constant
// determines layout line-wrapping before pagination, so page breaks move
// if it changes.
const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
	mmPerInch  = 25.4
	cssDPI     = 96.0
)

// drainPollInterval is the sleep between pending-request checks.
const drainPollInterval = 50 * time.Millisecond

// viewportPx converts a physical size in millimeters to device pixels.
func viewportPx(mm float64) int {
	return int(math.Floor(mm * cssDPI / mmPerInch))
}

// footerTemplate renders "currentPage / totalPages" centered. The class
// names are the ones Chrome substitutes in header/footer templates.
const footerTemplate = `<div style="font-size:10px;width:100%;text-align:center;"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// imageSettleJS resolves once every <img> in the DOM reports itself
// complete. An image that errors resolves too: a missing image must not
// block PDF generation.
const imageSettleJS = `() => Promise.all(
	Array.from(document.images).map((img) => {
		if (img.complete && img.naturalWidth > 0) return true
		return new Promise((resolve) => {
			img.addEventListener('load', resolve, { once: true })
			img.addEventListener('error', resolve, { once: true })
		})
	})
)`

// brokenImageCountJS counts images that settled without pixels.
const brokenImageCountJS = `() =>
	Array.from(document.images).filter((img) => img.naturalWidth === 0).length`

// applyScaleJS scales the body from the top-left corner. A CSS transform
// is computed before pagination, so it composes with forced page breaks;
// the PrintToPDF scale option does not.
const applyScaleJS = `(scale) => {
	document.body.style.transformOrigin = 'top left'
	document.body.style.transform = 'scale(' + scale + ')'
}`

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser *rod.Browser
	timeout time.Duration
	warnf   func(format string, args ...any)
}

// newRodRenderer creates a rodRenderer with the given timeout.
func newRodRenderer(timeout time.Duration, warnf func(format string, args ...any)) *rodRenderer {
	return &rodRenderer{timeout: timeout, warnf: warnf}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it
// to a paginated A4 PDF.
//
// The load-completion protocol runs three overlapping checks in order:
// lifecycle settlement (DOMContentLoaded + load + networkIdle, all three),
// a per-image DOM await, and a drain of tracked in-flight image requests.
// The redundancy is deliberate: request lifecycle events fire
// asynchronously relative to the DOM load events, and capturing the PDF
// mid-image-decode produces blank images.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := r.preparePage(page); err != nil {
		return nil, err
	}

	// Request tracking must be wired before navigation starts so the
	// first image request is not missed.
	pending := newPendingImages()
	go page.EachEvent(
		func(e *proto.NetworkRequestWillBeSent) {
			if e.Type == proto.NetworkResourceTypeImage {
				pending.add(string(e.RequestID), e.Request.URL)
			}
		},
		func(e *proto.NetworkLoadingFinished) {
			pending.remove(string(e.RequestID))
		},
		func(e *proto.NetworkLoadingFailed) {
			pending.remove(string(e.RequestID))
		},
	)()

	if err := r.loadAndSettle(ctx, page.Timeout(timeout), filePath, pending); err != nil {
		return nil, err
	}

	if opts != nil && opts.Scale != 1.0 {
		if _, err := page.Eval(applyScaleJS, opts.Scale); err != nil {
			return nil, fmt.Errorf("%w: applying scale: %v", ErrPDFGeneration, err)
		}
	}

	reader, err := page.PDF(buildPDFRequest(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// preparePage sizes the viewport to A4 proportions and switches the page
// into print media so @media print rules take effect before layout.
func (r *rodRenderer) preparePage(page *rod.Page) error {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportPx(a4WidthMM),
		Height:            viewportPx(a4HeightMM),
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		return fmt.Errorf("%w: emulating print media: %v", ErrPageCreate, err)
	}

	if err := (proto.PageSetLifecycleEventsEnabled{Enabled: true}).Call(page); err != nil {
		return fmt.Errorf("%w: enabling lifecycle events: %v", ErrPageCreate, err)
	}

	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return fmt.Errorf("%w: enabling network events: %v", ErrPageCreate, err)
	}

	return nil
}

// loadAndSettle navigates to the document and runs the three-stage wait
// protocol. The page argument carries the navigation timeout; exceeding it
// surfaces as ErrRenderTimeout.
func (r *rodRenderer) loadAndSettle(ctx context.Context, page *rod.Page, filePath string, pending *pendingImages) error {
	// Stage 1: DOM-ready, structural load, and network idle must all
	// hold. This is a conjunction, not a race: networkIdle usually
	// implies the other two, but the protocol does not rely on Chrome's
	// event ordering.
	seen := map[proto.PageLifecycleEventName]bool{
		proto.PageLifecycleEventNameDOMContentLoaded: false,
		proto.PageLifecycleEventNameLoad:             false,
		proto.PageLifecycleEventNameNetworkIdle:      false,
	}
	waitLifecycle := page.EachEvent(func(e *proto.PageLifecycleEvent) bool {
		if _, tracked := seen[e.Name]; tracked {
			seen[e.Name] = true
		}
		return seen[proto.PageLifecycleEventNameDOMContentLoaded] &&
			seen[proto.PageLifecycleEventNameLoad] &&
			seen[proto.PageLifecycleEventNameNetworkIdle]
	})

	if err := page.Navigate("file://" + filePath); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	waitLifecycle()
	if err := page.GetContext().Err(); err != nil {
		return fmt.Errorf("%w: waiting for load events: %v", ErrRenderTimeout, err)
	}

	// Stage 2: every <img> must report itself complete. Load errors
	// resolve rather than fail; the image renders blank.
	if _, err := page.Eval(imageSettleJS); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: waiting for images: %v", ErrRenderTimeout, err)
		}
		return fmt.Errorf("%w: waiting for images: %v", ErrPageLoad, err)
	}

	if broken, err := page.Eval(brokenImageCountJS); err == nil {
		if n := broken.Value.Int(); n > 0 {
			r.warnf("%d image(s) failed to load and will render blank", n)
		}
	}

	// Stage 3: drain tracked in-flight image requests. Redundant with
	// stages 1-2 on purpose; it is the backstop for request events that
	// fire after the DOM load events.
	for pending.size() > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for image requests: %v", ErrRenderTimeout, ctx.Err())
		case <-time.After(drainPollInterval):
		}
	}

	return nil
}

// buildPDFRequest constructs the PrintToPDF call: A4 paper, per-side
// margins, background graphics, blank header, page-number footer. Chrome
// takes paper sizes and margins in inches, so millimeter values are
// converted at the boundary.
func buildPDFRequest(opts *pdfOptions) *proto.PagePrintToPDF {
	margins := DefaultMargins()
	if opts != nil {
		margins = opts.Margins
	}

	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(a4WidthMM / mmPerInch),
		PaperHeight:         floatPtr(a4HeightMM / mmPerInch),
		MarginTop:           floatPtr(margins.Top / mmPerInch),
		MarginRight:         floatPtr(margins.Right / mmPerInch),
		MarginBottom:        floatPtr(margins.Bottom / mmPerInch),
		MarginLeft:          floatPtr(margins.Left / mmPerInch),
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      "<span></span>",
		FooterTemplate:      footerTemplate,
		PreferCSSPageSize:   true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF using headless Chrome via go-rod.
type rodConverter struct {
	renderer *rodRenderer
}

// newRodConverter creates a rodConverter with production renderer.
func newRodConverter(timeout time.Duration, warnf func(format string, args ...any)) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(timeout, warnf),
	}
}

// ToPDF converts HTML content to PDF bytes using headless Chrome.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
