package resumepdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-resumepdf/internal/fileutil"
	"github.com/alnah/go-resumepdf/internal/process"
)

// Rasterizer turns a complete HTML document into PDF bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string) ([]byte, error)
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error)
}

// Compile-time interface checks
var (
	_ Rasterizer  = (*rodRasterizer)(nil)
	_ pdfRenderer = (*rodRenderer)(nil)
)

// DefaultRenderTimeout bounds one rasterization, including the wait for
// network quiescence.
const DefaultRenderTimeout = 30 * time.Second

// rodRasterizer writes the document to a temp file and renders it.
type rodRasterizer struct {
	renderer pdfRenderer
	page     *PageSettings
	timeout  time.Duration
}

// RasterizerOption configures the rasterizer returned by NewRasterizer.
type RasterizerOption func(*rasterizerConfig)

type rasterizerConfig struct {
	page      *PageSettings
	timeout   time.Duration
	bin       string
	noSandbox bool
	renderer  pdfRenderer
}

// WithPage sets page size and margins. Nil means DefaultPageSettings.
func WithPage(p *PageSettings) RasterizerOption {
	return func(c *rasterizerConfig) { c.page = p }
}

// WithRenderTimeout bounds a single rasterization.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithRenderTimeout(d time.Duration) RasterizerOption {
	if d <= 0 {
		panic("resumepdf: WithRenderTimeout duration must be positive")
	}
	return func(c *rasterizerConfig) { c.timeout = d }
}

// WithBrowserBin uses a pre-installed Chrome instead of rod's managed download.
func WithBrowserBin(path string) RasterizerOption {
	return func(c *rasterizerConfig) {
		c.bin = path
		if path != "" {
			c.noSandbox = true
		}
	}
}

// withPDFRenderer replaces the browser, for tests.
func withPDFRenderer(r pdfRenderer) RasterizerOption {
	return func(c *rasterizerConfig) { c.renderer = r }
}

// NewRasterizer returns a Rasterizer backed by headless Chrome. Every call
// launches its own browser and tears it down before returning, so
// concurrent calls share no engine state.
func NewRasterizer(opts ...RasterizerOption) Rasterizer {
	// Docker/containerized environments ship their own browser.
	cfg := rasterizerConfig{
		timeout:   DefaultRenderTimeout,
		bin:       os.Getenv("ROD_BROWSER_BIN"),
		noSandbox: sandboxDisabled(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.page == nil {
		cfg.page = DefaultPageSettings()
	}
	if cfg.renderer == nil {
		cfg.renderer = &rodRenderer{bin: cfg.bin, noSandbox: cfg.noSandbox}
	}
	return &rodRasterizer{renderer: cfg.renderer, page: cfg.page, timeout: cfg.timeout}
}

// sandboxDisabled reports whether the environment asks for Chrome's
// sandbox to be turned off.
func sandboxDisabled() bool {
	return os.Getenv("CI") == "true" ||
		os.Getenv("ROD_NO_SANDBOX") == "1" ||
		os.Getenv("ROD_BROWSER_BIN") != ""
}

// Rasterize renders html to PDF. It fails with ErrRenderTimeout when the
// page does not settle within the timeout and ErrEngine for any other
// browser failure.
func (r *rodRasterizer) Rasterize(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.page.Validate(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	defer cleanup()

	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pdf, err := r.renderer.RenderFromFile(tctx, tmpPath, buildPDFOptions(r.page))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(tctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %s", ErrRenderTimeout, r.timeout)
		}
		if errors.Is(err, ErrEngine) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: empty PDF stream", ErrEngine)
	}
	return pdf, nil
}

// buildPDFOptions maps page settings to Chrome's print parameters.
func buildPDFOptions(p *PageSettings) *proto.PagePrintToPDF {
	width, height := p.paperInches()
	return &proto.PagePrintToPDF{
		PaperWidth:        floatPtr(width),
		PaperHeight:       floatPtr(height),
		MarginTop:         floatPtr(pxToInches(p.Margins.Top)),
		MarginRight:       floatPtr(pxToInches(p.Margins.Right)),
		MarginBottom:      floatPtr(pxToInches(p.Margins.Bottom)),
		MarginLeft:        floatPtr(pxToInches(p.Margins.Left)),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	bin       string
	noSandbox bool
}

// RenderFromFile launches a browser, opens the file, waits for network
// quiescence and prints to PDF. The browser and its process group are
// released on every return path.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error) {
	l := launcher.New().Context(ctx)
	if r.bin != "" {
		l = l.Bin(r.bin)
	}
	if r.noSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		// Cleanup blocks on process exit, which may never have started.
		l.Kill()
		return nil, fmt.Errorf("%w: launching browser: %v", ErrEngine, err)
	}
	defer func() {
		process.KillProcessGroup(l.PID())
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connecting to browser: %v", ErrEngine, err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: creating page: %v", ErrEngine, err)
	}

	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := page.Navigate("file://" + filePath); err != nil {
		return nil, fmt.Errorf("%w: loading document: %v", ErrEngine, err)
	}
	wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: printing PDF: %v", ErrEngine, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrEngine, err)
	}
	return pdf, nil
}
