// Package element renders one label instance into a vector drawing.
//
// [Render] walks the design's elements in stored order, so list order is
// z-order, and emits canvas nodes relative to the label's top-left corner.
// The caller positions the returned group on the page.
package element

import (
	"github.com/matzehuels/labelsheet/pkg/assets"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/qr"
	"github.com/matzehuels/labelsheet/pkg/render/canvas"
)

// Mode selects the export target.
type Mode int

const (
	// ModePrint renders for on-screen preview and paginated raster output.
	ModePrint Mode = iota
	// ModeLaser renders for laser cutting and engraving.
	ModeLaser
)

func (m Mode) String() string {
	if m == ModeLaser {
		return "laser"
	}
	return "print"
}

// Cut line presentation.
const (
	CutLineColor      = "#FF0000"
	CutLineWidthLaser = 0.1
	CutLineWidthPrint = 0.5
)

// PointsToMM converts a font size in points to millimetres.
const PointsToMM = 25.4 / 72

const (
	defaultInk    = "#000000"
	qrBackingRX   = 2.0
	logoScale     = 0.22
	safeZoneScale = 0.13
	dotRadiusDiv  = 2.2
	finderOverlap = 0.1
)

// Options control a single render.
type Options struct {
	ShowCutLines bool
	Mode         Mode
	// Assets holds decoded images keyed by reference. References missing
	// from the set are not drawn.
	Assets assets.Set
}

// Render draws elements for one data value. It never fails: missing assets
// are omitted and unencodable QR payloads fall back to a placeholder
// pattern.
func Render(elements []label.Element, value string, opts Options) *canvas.Group {
	g := &canvas.Group{}
	for _, el := range elements {
		if n := renderOne(el, value, opts); n != nil {
			g.Add(n)
		}
	}
	return g
}

func renderOne(el label.Element, value string, opts Options) canvas.Node {
	switch el.Kind {
	case label.KindRect:
		return rect(el, opts)
	case label.KindText:
		return text(el, el.Text, opts)
	case label.KindVariable:
		return text(el, value, opts)
	case label.KindQR:
		return qrCode(el, label.ResolveQRText(el.Text, value), opts)
	case label.KindImage:
		img := opts.Assets.Lookup(el.Src)
		if img == nil {
			return nil
		}
		return &canvas.Image{
			X: el.X, Y: el.Y, Width: el.Width, Height: el.Height,
			Href: el.Src, Data: img, Fit: canvas.FitStretch,
		}
	}
	return nil
}

func rect(el label.Element, opts Options) canvas.Node {
	r := &canvas.Rect{
		X: el.X, Y: el.Y, Width: el.Width, Height: el.Height,
		RX:     el.CornerRadius,
		Fill:   el.Fill,
		Stroke: el.Stroke, StrokeWidth: el.StrokeWidth,
	}
	if el.IsBackground && opts.ShowCutLines {
		r.Fill = ""
		r.Stroke = CutLineColor
		r.StrokeWidth = CutLineWidthPrint
		if opts.Mode == ModeLaser {
			r.StrokeWidth = CutLineWidthLaser
		}
		r.Class = canvas.ClassCutLine
	}
	return r
}

func text(el label.Element, content string, opts Options) canvas.Node {
	t := &canvas.Text{
		X: el.X, Y: el.Y,
		Content:   content,
		Size:      el.FontSize * PointsToMM,
		Family:    el.FontFamily,
		Bold:      el.Bold(),
		Italic:    el.Italic,
		Underline: el.Underline,
		Fill:      orDefault(el.Fill, defaultInk),
	}
	if opts.Mode == ModeLaser {
		t.Class = canvas.ClassEngrave
	}
	return t
}

func qrCode(el label.Element, payload string, opts Options) canvas.Node {
	m := qr.Generate(payload)
	size := m.Size()
	cell := el.Width / float64(size)

	ink, class := orDefault(el.Fill, defaultInk), ""
	if opts.Mode == ModeLaser {
		ink, class = defaultInk, canvas.ClassEngrave
	}

	g := &canvas.Group{X: el.X, Y: el.Y}
	g.Add(&canvas.Rect{Width: el.Width, Height: el.Height, RX: qrBackingRX, Fill: "#FFFFFF"})

	logo := opts.Assets.Lookup(el.Logo)
	lo, hi := SafeZone(size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if !m.At(r, c) {
				continue
			}
			if logo != nil && r >= lo && r <= hi && c >= lo && c <= hi {
				continue
			}
			x, y := float64(c)*cell, float64(r)*cell
			if m.IsFinder(r, c) {
				g.Add(&canvas.Rect{
					X: x, Y: y,
					Width: cell + finderOverlap, Height: cell + finderOverlap,
					Fill: ink, Class: class,
				})
				continue
			}
			g.Add(&canvas.Circle{CX: x + cell/2, CY: y + cell/2, R: cell / dotRadiusDiv, Fill: ink, Class: class})
		}
	}

	if logo != nil {
		side := el.Width * logoScale
		start := (el.Width - side) / 2
		g.Add(
			&canvas.Rect{X: start, Y: start, Width: side, Height: side, Fill: "#FFFFFF"},
			&canvas.Image{X: start, Y: start, Width: side, Height: side, Href: el.Logo, Data: logo, Fit: canvas.FitContain},
		)
	}
	return g
}

// SafeZone returns the inclusive module index range [lo, hi] cleared on
// both axes behind a logo for a matrix of the given size.
func SafeZone(size int) (lo, hi int) {
	center := size / 2
	rad := int(float64(size) * safeZoneScale)
	return center - rad, center + rad
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
