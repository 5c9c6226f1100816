// Package layout plans how many labels fit on a sheet and where each one
// goes.
//
// A [Plan] is a pure function of the paper size, label size, margin and gap.
// The grid is centred on the page inside the safe margin; slots are numbered
// row-major from the top-left.
package layout

import (
	"errors"
	"math"

	"github.com/matzehuels/labelsheet/pkg/label"
)

// Defaults in millimetres.
const (
	DefaultMargin  = 6.0
	DefaultGap     = 2.0
	DefaultPageGap = 10.0
)

// ErrLabelDoesNotFit is returned by [Compute] when not even one label fits
// inside the usable area of the page.
var ErrLabelDoesNotFit = errors.New("label does not fit on the page")

// Options controls spacing. Zero values fall back to the defaults; use a
// negative value to request an explicit zero.
type Options struct {
	Margin float64
	Gap    float64
}

func (o Options) margin() float64 { return pick(o.Margin, DefaultMargin) }
func (o Options) gap() float64    { return pick(o.Gap, DefaultGap) }

func pick(v, def float64) float64 {
	switch {
	case v < 0:
		return 0
	case v == 0:
		return def
	default:
		return v
	}
}

// Plan is the grid geometry for one paper/label combination.
type Plan struct {
	Paper   label.Size
	Label   label.Size
	Cols    int
	Rows    int
	OffsetX float64
	OffsetY float64
	Gap     float64
	Margin  float64
}

// New builds the plan. It never fails; check [Plan.Fits] or use
// [Compute] for the error form.
func New(paper, lbl label.Size, opts Options) Plan {
	margin, gap := opts.margin(), opts.gap()
	p := Plan{Paper: paper, Label: lbl, Gap: gap, Margin: margin}
	if lbl.Width <= 0 || lbl.Height <= 0 {
		return p
	}
	usableW := paper.Width - 2*margin
	usableH := paper.Height - 2*margin
	p.Cols = count(usableW, lbl.Width, gap)
	p.Rows = count(usableH, lbl.Height, gap)
	if p.Cols == 0 || p.Rows == 0 {
		return p
	}
	gridW := float64(p.Cols)*lbl.Width + float64(p.Cols-1)*gap
	gridH := float64(p.Rows)*lbl.Height + float64(p.Rows-1)*gap
	p.OffsetX = (paper.Width - gridW) / 2
	p.OffsetY = (paper.Height - gridH) / 2
	return p
}

// Compute is like [New] but returns [ErrLabelDoesNotFit] for an empty grid.
func Compute(paper, lbl label.Size, opts Options) (Plan, error) {
	p := New(paper, lbl, opts)
	if !p.Fits() {
		return p, ErrLabelDoesNotFit
	}
	return p, nil
}

// count is floor(usable/(size+gap)) clamped at zero. Each slot reserves a
// trailing gap, so the last column keeps at least one gap of slack.
func count(usable, size, gap float64) int {
	if usable <= 0 {
		return 0
	}
	// Epsilon absorbs float noise for exact multiples.
	n := int(math.Floor(usable/(size+gap) + 1e-9))
	if n < 0 {
		return 0
	}
	return n
}

// Fits reports whether at least one label fits.
func (p Plan) Fits() bool { return p.Cols > 0 && p.Rows > 0 }

// ItemsPerPage is Cols×Rows.
func (p Plan) ItemsPerPage() int { return p.Cols * p.Rows }

// TotalPages returns ceil(n/ItemsPerPage), at least 1. A plan where nothing
// fits still reports one page.
func (p Plan) TotalPages(n int) int {
	per := p.ItemsPerPage()
	if per == 0 || n <= 0 {
		return 1
	}
	return (n + per - 1) / per
}

// Slot returns the top-left corner of slot i (0-based, row-major) on a page.
func (p Plan) Slot(i int) (x, y float64) {
	if p.Cols == 0 {
		return p.OffsetX, p.OffsetY
	}
	col, row := i%p.Cols, i/p.Cols
	x = p.OffsetX + float64(col)*(p.Label.Width+p.Gap)
	y = p.OffsetY + float64(row)*(p.Label.Height+p.Gap)
	return x, y
}

// PageRange returns the half-open index range [lo, hi) of the data values
// that land on page (0-based), clamped to n.
func (p Plan) PageRange(page, n int) (lo, hi int) {
	per := p.ItemsPerPage()
	lo = page * per
	hi = lo + per
	if lo > n {
		lo = n
	}
	if hi > n {
		hi = n
	}
	return lo, hi
}
