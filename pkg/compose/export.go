package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labelsheet/pkg/observability"
	"github.com/matzehuels/labelsheet/pkg/render/element"
	"github.com/matzehuels/labelsheet/pkg/render/sink"
)

// State is the lifecycle of a print export.
type State int

const (
	StateIdle State = iota
	StateExporting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExporting:
		return "exporting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrAlreadyStarted is returned by [Exporter.Run] on a second call.
var ErrAlreadyStarted = errors.New("export already started")

// PageError reports the page at which an export failed.
type PageError struct {
	Page  int // 1-based
	Pages int
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d of %d: %v", e.Page, e.Pages, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Progress is a snapshot of an export.
type Progress struct {
	State State
	// Page is the number of pages completed.
	Page  int
	Pages int
}

// Fraction returns completed pages over total pages in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Pages == 0 {
		return 0
	}
	return float64(p.Page) / float64(p.Pages)
}

type ExportOption func(*Exporter)

// WithRasterizer selects the rasterizer; the default is [sink.GG].
func WithRasterizer(r sink.Rasterizer) ExportOption {
	return func(e *Exporter) { e.raster = r }
}

// WithDPI sets the raster resolution; the default is [sink.DefaultDPI].
func WithDPI(dpi float64) ExportOption {
	return func(e *Exporter) {
		if dpi > 0 {
			e.dpi = dpi
		}
	}
}

// WithJPEGQuality sets the quality of embedded page images.
func WithJPEGQuality(q int) ExportOption {
	return func(e *Exporter) { e.quality = q }
}

// WithProgress registers a callback invoked after each completed page and
// on every state change. It runs on the exporting goroutine.
func WithProgress(fn func(Progress)) ExportOption {
	return func(e *Exporter) { e.onProgress = fn }
}

// WithLogger sets the logger for per-page debug output.
func WithLogger(l *log.Logger) ExportOption {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// Exporter runs one paginated print export:
// Idle -> Exporting -> Done | Failed.
//
// Pages are rasterized strictly in order, one at a time, and embedded into
// the PDF. Any failure or cancellation aborts the export and discards the
// partial document. An Exporter runs at most once.
type Exporter struct {
	c          *Composer
	raster     sink.Rasterizer
	dpi        float64
	quality    int
	onProgress func(Progress)
	logger     *log.Logger

	mu    sync.Mutex
	state State
	page  int
	err   error
	doc   []byte
}

// NewExporter prepares an export of c.
func NewExporter(c *Composer, opts ...ExportOption) *Exporter {
	e := &Exporter{
		c:       c,
		raster:  sink.GG{},
		dpi:     sink.DefaultDPI,
		quality: sink.DefaultJPEGQuality,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Progress returns the current state and page count.
func (e *Exporter) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Progress{State: e.state, Page: e.page, Pages: e.c.TotalPages()}
}

// Result returns the finished document, or the failure once the export has
// failed. Before completion it returns (nil, nil).
func (e *Exporter) Result() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc, e.err
}

// Run performs the export and returns the PDF bytes. Failures are reported
// as *[PageError] naming the failing page.
func (e *Exporter) Run(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	e.state = StateExporting
	e.mu.Unlock()

	pages := e.c.TotalPages()
	hooks := observability.Export()
	hooks.OnExportStart(ctx, pages)
	e.notify()

	start := time.Now()
	doc, err := e.run(ctx, pages)
	hooks.OnExportComplete(ctx, pages, time.Since(start), err)

	e.mu.Lock()
	if err != nil {
		e.state, e.err = StateFailed, err
	} else {
		e.state, e.doc = StateDone, doc
	}
	e.mu.Unlock()
	e.notify()
	return doc, err
}

func (e *Exporter) run(ctx context.Context, pages int) ([]byte, error) {
	paper := e.c.Paper()
	pdf := sink.NewPDF(paper.Width, paper.Height, sink.WithJPEGQuality(e.quality), sink.WithTitle("labels"))

	for p := 0; p < pages; p++ {
		if err := ctx.Err(); err != nil {
			return nil, &PageError{Page: p + 1, Pages: pages, Err: err}
		}
		t := time.Now()
		img, err := e.raster.Rasterize(ctx, e.c.Page(p, element.ModePrint), e.dpi)
		if err != nil {
			return nil, &PageError{Page: p + 1, Pages: pages, Err: err}
		}
		if err := pdf.AddPage(img); err != nil {
			return nil, &PageError{Page: p + 1, Pages: pages, Err: err}
		}
		observability.Export().OnExportPage(ctx, p+1, pages, time.Since(t))
		e.logger.Debug("exported page", "page", p+1, "of", pages, "took", time.Since(t).Round(time.Millisecond))

		e.mu.Lock()
		e.page = p + 1
		e.mu.Unlock()
		e.notify()
	}

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, &PageError{Page: pages, Pages: pages, Err: fmt.Errorf("write document: %w", err)}
	}
	return buf.Bytes(), nil
}

func (e *Exporter) notify() {
	if e.onProgress != nil {
		e.onProgress(e.Progress())
	}
}
