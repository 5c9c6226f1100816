package sink

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/labelsheet/pkg/fonts"
	"github.com/matzehuels/labelsheet/pkg/render/canvas"
)

// DefaultDPI is the print raster resolution.
const DefaultDPI = 150

// Rasterizer converts a drawing into a fixed-resolution image.
type Rasterizer interface {
	Rasterize(ctx context.Context, d *canvas.Drawing, dpi float64) (image.Image, error)
}

// PixelSize returns the pixel dimensions of a millimetre extent at dpi.
func PixelSize(widthMM, heightMM, dpi float64) (int, int) {
	return mmToPx(widthMM, dpi), mmToPx(heightMM, dpi)
}

func mmToPx(mm, dpi float64) int {
	return int(math.Round(mm / 25.4 * dpi))
}

// GG rasterizes drawings natively with fogleman/gg. Text uses the Go fonts.
// The page is composited onto an opaque white background.
type GG struct{}

// Rasterize implements [Rasterizer].
func (GG) Rasterize(ctx context.Context, d *canvas.Drawing, dpi float64) (image.Image, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	w, h := PixelSize(d.Width, d.Height, dpi)
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.SetColor(color.White)
	dc.Clear()
	if c, ok := parseColor(d.Background); ok {
		dc.SetColor(c)
		dc.Clear()
	}

	p := painter{dc: dc, scale: dpi / 25.4, faces: map[faceKey]font.Face{}}
	defer p.close()

	if d.Root == nil {
		return dc.Image(), nil
	}
	var err error
	canvas.Walk(d.Root, func(n canvas.Node, dx, dy float64) {
		if err != nil {
			return
		}
		if err = ctx.Err(); err != nil {
			return
		}
		err = p.draw(n, dx, dy)
	})
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

type faceKey struct {
	family       string
	bold, italic bool
	px           float64
}

type painter struct {
	dc    *gg.Context
	scale float64
	faces map[faceKey]font.Face
}

func (p *painter) close() {
	for _, f := range p.faces {
		f.Close()
	}
}

func (p *painter) px(mm float64) float64 { return mm * p.scale }

func (p *painter) draw(n canvas.Node, dx, dy float64) error {
	switch n := n.(type) {
	case *canvas.Rect:
		x, y := p.px(dx+n.X), p.px(dy+n.Y)
		w, h := p.px(n.Width), p.px(n.Height)
		path := func() {
			if n.RX > 0 {
				p.dc.DrawRoundedRectangle(x, y, w, h, p.px(min(n.RX, n.Width/2, n.Height/2)))
			} else {
				p.dc.DrawRectangle(x, y, w, h)
			}
		}
		if c, ok := parseColor(n.Fill); ok {
			path()
			p.dc.SetColor(c)
			p.dc.Fill()
		}
		if c, ok := parseColor(n.Stroke); ok && n.StrokeWidth > 0 {
			path()
			p.dc.SetColor(c)
			p.dc.SetLineWidth(p.px(n.StrokeWidth))
			p.dc.Stroke()
		}

	case *canvas.Circle:
		if c, ok := parseColor(n.Fill); ok {
			p.dc.DrawCircle(p.px(dx+n.CX), p.px(dy+n.CY), p.px(n.R))
			p.dc.SetColor(c)
			p.dc.Fill()
		}

	case *canvas.Text:
		return p.text(n, dx, dy)

	case *canvas.Image:
		p.image(n, dx, dy)
	}
	return nil
}

func (p *painter) text(n *canvas.Text, dx, dy float64) error {
	c, ok := parseColor(n.Fill)
	if !ok || n.Content == "" || n.Size <= 0 {
		return nil
	}
	size := p.px(n.Size)
	key := faceKey{family: n.Family, bold: n.Bold, italic: n.Italic, px: size}
	face, cached := p.faces[key]
	if !cached {
		var err error
		face, err = fonts.Face(n.Family, n.Bold, n.Italic, size)
		if err != nil {
			return err
		}
		p.faces[key] = face
	}
	p.dc.SetFontFace(face)
	p.dc.SetColor(c)

	x := p.px(dx + n.X)
	baseline := p.px(dy+n.Y) + size
	p.dc.DrawString(n.Content, x, baseline)
	if n.Underline {
		w, _ := p.dc.MeasureString(n.Content)
		y := baseline + size*0.1
		p.dc.SetLineWidth(math.Max(1, size*0.06))
		p.dc.DrawLine(x, y, x+w, y)
		p.dc.Stroke()
	}
	return nil
}

func (p *painter) image(n *canvas.Image, dx, dy float64) {
	if n.Data == nil || n.Width <= 0 || n.Height <= 0 {
		return
	}
	boxW, boxH := p.px(n.Width), p.px(n.Height)
	x, y := p.px(dx+n.X), p.px(dy+n.Y)

	w, h := boxW, boxH
	if n.Fit == canvas.FitContain {
		b := n.Data.Bounds()
		s := math.Min(boxW/float64(b.Dx()), boxH/float64(b.Dy()))
		w, h = float64(b.Dx())*s, float64(b.Dy())*s
		x += (boxW - w) / 2
		y += (boxH - h) / 2
	}
	iw, ih := int(math.Round(w)), int(math.Round(h))
	if iw < 1 || ih < 1 {
		return
	}
	scaled := imaging.Resize(n.Data, iw, ih, imaging.Lanczos)
	p.dc.DrawImage(scaled, int(math.Round(x)), int(math.Round(y)))
}
