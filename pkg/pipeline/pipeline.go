// Package pipeline runs a label job from snapshot to output bytes.
//
// This package is the one entry point the CLI and the HTTP API share, so
// both apply the same defaults, validation and caching.
//
// # Stages
//
//  1. Values: expand the batch settings into the data value list
//  2. Plan: resolve assets and lay the labels out on the paper
//  3. Render: produce every requested format
//
// # Formats
//
//   - svg: one tall laser-cutting document with every page stacked
//   - pdf: the paginated print export, one rasterized page per sheet
//   - page-svg: a single sheet as SVG, for previews
//   - png: a single sheet rasterized, for previews
//   - json: the grid plus the slot assignment of every page
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, job, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPDF},
//	})
//	if err != nil {
//	    return err
//	}
//	pdf := result.Artifacts[pipeline.FormatPDF]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/compose"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	DefaultMargin      = layout.DefaultMargin
	DefaultGap         = layout.DefaultGap
	DefaultPageGap     = layout.DefaultPageGap
	DefaultDPI         = float64(sink.DefaultDPI)
	DefaultJPEGQuality = sink.DefaultJPEGQuality
	DefaultRasterizer  = RasterizerGG

	// MaxDPI keeps a single A3 page under ~100 megapixels.
	MaxDPI = 600
)

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatPDF     = "pdf"
	FormatPageSVG = "page-svg"
	FormatPNG     = "png"
	FormatJSON    = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPDF:     true,
	FormatPageSVG: true,
	FormatPNG:     true,
	FormatJSON:    true,
}

// Rasterizer names.
const (
	RasterizerGG   = "gg"
	RasterizerRSVG = "rsvg"
)

// ValidRasterizers is the set of supported page rasterizers.
var ValidRasterizers = map[string]bool{
	RasterizerGG:   true,
	RasterizerRSVG: true,
}

// Extensions maps formats to file extensions.
var Extensions = map[string]string{
	FormatSVG:     "svg",
	FormatPDF:     "pdf",
	FormatPageSVG: "svg",
	FormatPNG:     "png",
	FormatJSON:    "json",
}

// =============================================================================
// Options - Render Configuration
// =============================================================================

// Options configures one pipeline run. Zero values take the defaults
// above; a negative spacing value means an explicit zero.
type Options struct {
	Formats     []string `json:"formats,omitempty"`
	Page        int      `json:"page,omitempty"` // 1-based sheet for page-svg and png
	Margin      float64  `json:"margin,omitempty"`
	Gap         float64  `json:"gap,omitempty"`
	PageGap     float64  `json:"page_gap,omitempty"`
	DPI         float64  `json:"dpi,omitempty"`
	JPEGQuality int      `json:"jpeg_quality,omitempty"`
	Rasterizer  string   `json:"rasterizer,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger             `json:"-"`
	Progress func(compose.Progress) `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Job is the normalized snapshot that was rendered.
	Job label.Job

	// JobHash is the content hash of Job, used in cache keys.
	JobHash string

	// Values are the generated data values, one per label.
	Values []string

	// Plan is the grid geometry.
	Plan layout.Plan

	// Pages is the number of sheets.
	Pages int

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Labels     int
	Assets     int
	PlanTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which formats came from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// RenderHit reports whether every artifact came from the cache.
func (c CacheInfo) RenderHit() bool {
	return len(c.Hits) > 0 && len(c.Misses) == 0
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, pdf, page-svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRasterizer checks that a rasterizer name is valid.
func ValidateRasterizer(name string) error {
	if !ValidRasterizers[name] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid rasterizer: %q (must be one of: gg, rsvg)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	sorted := slices.Clone(o.Formats)
	slices.Sort(sorted)
	o.Formats = slices.Compact(sorted)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Page == 0 {
		o.Page = 1
	}
	if o.Page < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "page must be positive, got %d", o.Page)
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < 0 || o.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be between 1 and %d, got %g", MaxDPI, o.DPI)
	}
	if o.JPEGQuality == 0 {
		o.JPEGQuality = DefaultJPEGQuality
	}
	if o.JPEGQuality < 1 || o.JPEGQuality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "jpeg quality must be between 1 and 100, got %d", o.JPEGQuality)
	}
	if o.Rasterizer == "" {
		o.Rasterizer = DefaultRasterizer
	}
	if err := ValidateRasterizer(o.Rasterizer); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ComposeOptions returns the spacing options for the composer.
func (o *Options) ComposeOptions() compose.Options {
	return compose.Options{Margin: o.Margin, Gap: o.Gap, PageGap: o.PageGap}
}

// ArtifactKeyOpts returns cache key options for one format. Options that do
// not change a format's bytes are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Margin: o.Margin, Gap: o.Gap}
	switch format {
	case FormatSVG:
		k.PageGap = o.PageGap
	case FormatPDF:
		k.DPI, k.JPEGQuality, k.Rasterizer = o.DPI, o.JPEGQuality, o.Rasterizer
	case FormatPNG:
		k.DPI, k.Rasterizer, k.Page = o.DPI, o.Rasterizer, o.Page
	case FormatPageSVG:
		k.Page = o.Page
	}
	return k
}

// Filename returns the conventional download name for a format. The laser
// document is named laser_layout_<prefix>.svg.
func Filename(job label.Job, format string) string {
	prefix := errors.SafeFilename(job.Batch.Prefix)
	switch format {
	case FormatSVG:
		return fmt.Sprintf("laser_layout_%s.svg", prefix)
	case FormatPDF:
		return fmt.Sprintf("print_layout_%s.pdf", prefix)
	default:
		return fmt.Sprintf("labels_%s.%s", prefix, Extensions[format])
	}
}
