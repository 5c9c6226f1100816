package pipeline

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/labelsheet/pkg/compose"
	lserrors "github.com/matzehuels/labelsheet/pkg/errors"
	labelio "github.com/matzehuels/labelsheet/pkg/io"
	"github.com/matzehuels/labelsheet/pkg/observability"
	"github.com/matzehuels/labelsheet/pkg/render/element"
	"github.com/matzehuels/labelsheet/pkg/render/sink"
)

// Render produces one format from a planned composer. opts must have been
// through [Options.ValidateAndSetDefaults].
func Render(ctx context.Context, c *compose.Composer, format string, opts Options) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format, c.Values())
	start := time.Now()

	data, err := render(ctx, c, format, opts)
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}

func render(ctx context.Context, c *compose.Composer, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(c.Laser(), sink.WithCutStyles(sink.CutStyleLaser)), nil

	case FormatPageSVG:
		p, err := pageIndex(c, opts.Page)
		if err != nil {
			return nil, err
		}
		return sink.RenderSVG(c.Page(p, element.ModePrint), sink.WithCutStyles(sink.CutStylePrint)), nil

	case FormatPNG:
		p, err := pageIndex(c, opts.Page)
		if err != nil {
			return nil, err
		}
		img, err := Rasterizer(opts).Rasterize(ctx, c.Page(p, element.ModePrint), opts.DPI)
		if err != nil {
			return nil, lserrors.Wrap(lserrors.ErrCodeRenderFailed, err, "rasterize page %d", p+1)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, lserrors.Wrap(lserrors.ErrCodeRenderFailed, err, "encode png")
		}
		return buf.Bytes(), nil

	case FormatPDF:
		doc, err := NewExporter(c, opts).Run(ctx)
		if err != nil {
			return nil, ExportError(err)
		}
		return doc, nil

	case FormatJSON:
		var buf bytes.Buffer
		if err := labelio.WriteLayout(c, &buf); err != nil {
			return nil, lserrors.Wrap(lserrors.ErrCodeRenderFailed, err, "layout json")
		}
		return buf.Bytes(), nil
	}
	return nil, ValidateFormat(format)
}

// NewExporter builds the print exporter for c with the raster settings and
// progress callback in opts.
func NewExporter(c *compose.Composer, opts Options) *compose.Exporter {
	return compose.NewExporter(c,
		compose.WithRasterizer(Rasterizer(opts)),
		compose.WithDPI(opts.DPI),
		compose.WithJPEGQuality(opts.JPEGQuality),
		compose.WithProgress(opts.Progress),
		compose.WithLogger(opts.Logger),
	)
}

// ExportError converts an exporter failure into a coded error that names
// the failing page. Cancellation keeps the CANCELED code.
func ExportError(err error) error {
	if err == nil {
		return nil
	}
	var pe *compose.PageError
	if errors.As(err, &pe) {
		return lserrors.Wrap(lserrors.ErrCodeExportFailed, pe.Err, "page %d of %d", pe.Page, pe.Pages)
	}
	return lserrors.Wrap(lserrors.ErrCodeExportFailed, err, "export")
}

// Rasterizer returns the page rasterizer named in opts. rsvg falls back to
// the built-in rasterizer when rsvg-convert is not installed.
func Rasterizer(opts Options) sink.Rasterizer {
	if opts.Rasterizer == RasterizerRSVG {
		if r := (sink.RSVG{}); r.Available() {
			return r
		}
		if opts.Logger != nil {
			opts.Logger.Warn("rsvg-convert not found, using built-in rasterizer")
		}
	}
	return sink.GG{}
}

func pageIndex(c *compose.Composer, page int) (int, error) {
	if page < 1 {
		page = 1
	}
	if page > c.TotalPages() {
		return 0, lserrors.New(lserrors.ErrCodeInvalidInput, "page %d out of range (1-%d)", page, c.TotalPages())
	}
	return page - 1, nil
}
