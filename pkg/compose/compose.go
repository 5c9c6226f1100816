// Package compose places rendered labels onto pages.
//
// A [Composer] is built from one job snapshot and the generated data values.
// It can produce per-page drawings for preview and print, a single tall
// drawing for laser cutting, and drives the paginated print export through
// [Exporter].
package compose

import (
	"github.com/matzehuels/labelsheet/pkg/assets"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/render/canvas"
	"github.com/matzehuels/labelsheet/pkg/render/element"
)

const pageBackground = "#FFFFFF"

// Options tune spacing and supply pre-resolved assets.
type Options struct {
	Margin  float64
	Gap     float64
	PageGap float64
	Assets  assets.Set
}

// Composer lays out one job. It is read-only after construction and safe
// for concurrent use.
type Composer struct {
	design  label.Design
	paper   label.PaperSize
	plan    layout.Plan
	values  []string
	cut     bool
	pageGap float64
	assets  assets.Set
}

// New plans the job. It returns [layout.ErrLabelDoesNotFit] when no label
// fits on the paper; the composer is unusable in that case.
func New(job label.Job, values []string, opts Options) (*Composer, error) {
	paper, err := job.PaperSize()
	if err != nil {
		return nil, err
	}
	plan, err := layout.Compute(paper.Size(), job.Design.Label, layout.Options{Margin: opts.Margin, Gap: opts.Gap})
	if err != nil {
		return nil, err
	}
	pageGap := opts.PageGap
	if pageGap == 0 {
		pageGap = layout.DefaultPageGap
	} else if pageGap < 0 {
		pageGap = 0
	}
	return &Composer{
		design:  job.Design.Clone(),
		paper:   paper,
		plan:    plan,
		values:  append([]string(nil), values...),
		cut:     job.ShowCutLines,
		pageGap: pageGap,
		assets:  opts.Assets,
	}, nil
}

// Plan returns the grid geometry.
func (c *Composer) Plan() layout.Plan { return c.plan }

// Paper returns the resolved paper size.
func (c *Composer) Paper() label.PaperSize { return c.paper }

// Values returns the number of data values.
func (c *Composer) Values() int { return len(c.values) }

// TotalPages returns the page count, at least 1.
func (c *Composer) TotalPages() int { return c.plan.TotalPages(len(c.values)) }

// Slot is one occupied position on a page.
type Slot struct {
	Index int     `json:"index"`
	Value string  `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Slots lists the occupied slots of page p (0-based). Slots past the end of
// the data are omitted, so the last page may hold fewer labels.
func (c *Composer) Slots(p int) []Slot {
	lo, hi := c.plan.PageRange(p, len(c.values))
	slots := make([]Slot, 0, hi-lo)
	for i, v := range c.values[lo:hi] {
		x, y := c.plan.Slot(i)
		slots = append(slots, Slot{Index: i, Value: v, X: x, Y: y})
	}
	return slots
}

// Page draws page p at paper size on a white background.
func (c *Composer) Page(p int, mode element.Mode) *canvas.Drawing {
	d := canvas.New(c.paper.Width, c.paper.Height)
	d.Background = pageBackground
	d.Root = c.pageGroup(p, mode)
	return d
}

// Pages draws every page in order.
func (c *Composer) Pages(mode element.Mode) []*canvas.Drawing {
	n := c.TotalPages()
	pages := make([]*canvas.Drawing, n)
	for p := 0; p < n; p++ {
		pages[p] = c.Page(p, mode)
	}
	return pages
}

// Laser stacks every page vertically into one drawing, separated by the
// page gap, in laser mode.
func (c *Composer) Laser() *canvas.Drawing {
	n := c.TotalPages()
	height := float64(n)*c.paper.Height + float64(n-1)*c.pageGap
	d := canvas.New(c.paper.Width, height)
	for p := 0; p < n; p++ {
		g := c.pageGroup(p, element.ModeLaser)
		g.Y = float64(p) * (c.paper.Height + c.pageGap)
		d.Add(g)
	}
	return d
}

func (c *Composer) pageGroup(p int, mode element.Mode) *canvas.Group {
	opts := element.Options{ShowCutLines: c.cut, Mode: mode, Assets: c.assets}
	page := &canvas.Group{}
	for _, s := range c.Slots(p) {
		g := element.Render(c.design.Elements, s.Value, opts)
		g.X, g.Y = s.X, s.Y
		page.Add(g)
	}
	return page
}
