package element

import (
	"image"
	"math"
	"testing"

	"github.com/matzehuels/labelsheet/pkg/assets"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/qr"
	"github.com/matzehuels/labelsheet/pkg/render/canvas"
)

func background() label.Element {
	return label.Element{
		ID: "bg", Kind: label.KindRect, Width: 60, Height: 40,
		Fill: "#ffffff", Stroke: "#dddddd", StrokeWidth: 0.3, IsBackground: true,
	}
}

func TestRenderCutLineOverride(t *testing.T) {
	els := []label.Element{background()}
	tests := []struct {
		name      string
		opts      Options
		wantColor string
		wantWidth float64
		wantFill  string
	}{
		{"print without cut lines", Options{}, "#dddddd", 0.3, "#ffffff"},
		{"print with cut lines", Options{ShowCutLines: true}, CutLineColor, CutLineWidthPrint, ""},
		{"laser with cut lines", Options{ShowCutLines: true, Mode: ModeLaser}, CutLineColor, CutLineWidthLaser, ""},
		{"laser without cut lines", Options{Mode: ModeLaser}, "#dddddd", 0.3, "#ffffff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Render(els, "X", tt.opts)
			r := g.Children[0].(*canvas.Rect)
			if r.Stroke != tt.wantColor || r.StrokeWidth != tt.wantWidth || r.Fill != tt.wantFill {
				t.Errorf("rect = stroke %q/%v fill %q, want %q/%v fill %q",
					r.Stroke, r.StrokeWidth, r.Fill, tt.wantColor, tt.wantWidth, tt.wantFill)
			}
		})
	}
	if els[0].Stroke != "#dddddd" {
		t.Error("Render mutated the stored element")
	}
}

func TestRenderNonBackgroundIgnoresCutLines(t *testing.T) {
	el := label.Element{Kind: label.KindRect, Width: 5, Height: 5, Fill: "#00ff00", Stroke: "#000000", StrokeWidth: 1}
	r := Render([]label.Element{el}, "X", Options{ShowCutLines: true}).Children[0].(*canvas.Rect)
	if r.Stroke != "#000000" || r.Fill != "#00ff00" || r.Class != "" {
		t.Errorf("ordinary rect changed under cut lines: %+v", r)
	}
}

func TestRenderText(t *testing.T) {
	els := []label.Element{
		{Kind: label.KindText, X: 1, Y: 2, Text: "Hello", FontSize: 72, FontWeight: "bold"},
		{Kind: label.KindVariable, Text: "stored template", FontSize: 10, Italic: true},
	}
	g := Render(els, "ABC-20010", Options{})
	lit := g.Children[0].(*canvas.Text)
	if lit.Content != "Hello" || !lit.Bold || math.Abs(lit.Size-25.4) > 1e-9 {
		t.Errorf("text = %+v, want Hello bold at 25.4mm", lit)
	}
	if lit.Fill != "#000000" {
		t.Errorf("default fill = %q, want black", lit.Fill)
	}
	v := g.Children[1].(*canvas.Text)
	if v.Content != "ABC-20010" || !v.Italic {
		t.Errorf("variable = %+v, want data value", v)
	}
}

func TestRenderQRSubstitution(t *testing.T) {
	el := label.Element{Kind: label.KindQR, Width: 20, Height: 20, Text: "{code}"}
	g := Render([]label.Element{el}, "X9", Options{}).Children[0].(*canvas.Group)

	m := qr.Generate("X9")
	dark := 0
	for r := 0; r < m.Size(); r++ {
		for c := 0; c < m.Size(); c++ {
			if m.At(r, c) {
				dark++
			}
		}
	}
	if got := len(g.Children) - 1; got != dark {
		t.Errorf("module nodes = %d, want %d dark modules", got, dark)
	}
	backing := g.Children[0].(*canvas.Rect)
	if backing.Width != 20 || backing.RX != 2 {
		t.Errorf("backing = %+v", backing)
	}

	cell := 20 / float64(m.Size())
	for _, n := range g.Children[1:] {
		switch n := n.(type) {
		case *canvas.Circle:
			if math.Abs(n.R-cell/2.2) > 1e-9 {
				t.Fatalf("dot radius = %v, want %v", n.R, cell/2.2)
			}
		case *canvas.Rect:
			r, c := int(math.Round(n.Y/cell)), int(math.Round(n.X/cell))
			if !m.IsFinder(r, c) {
				t.Fatalf("square module at (%d, %d) outside finder", r, c)
			}
		}
	}
}

func TestRenderQRLogo(t *testing.T) {
	logo := image.NewRGBA(image.Rect(0, 0, 4, 4))
	el := label.Element{Kind: label.KindQR, Width: 20, Height: 20, Text: "{code}", Logo: "logo.png"}

	without := Render([]label.Element{el}, "X9", Options{}).Children[0].(*canvas.Group)
	with := Render([]label.Element{el}, "X9", Options{Assets: assets.Set{"logo.png": logo}}).Children[0].(*canvas.Group)

	n := len(with.Children)
	img, ok := with.Children[n-1].(*canvas.Image)
	if !ok || img.Fit != canvas.FitContain {
		t.Fatalf("last node = %T, want contained logo image", with.Children[n-1])
	}
	if math.Abs(img.Width-4.4) > 1e-9 || math.Abs(img.X-7.8) > 1e-9 {
		t.Errorf("logo box = %v@%v, want 4.4@7.8", img.Width, img.X)
	}
	if _, ok := with.Children[n-2].(*canvas.Rect); !ok {
		t.Error("logo has no white backing square")
	}

	m := qr.Generate("X9")
	lo, hi := SafeZone(m.Size())
	cleared := 0
	for r := lo; r <= hi; r++ {
		for c := lo; c <= hi; c++ {
			if m.At(r, c) {
				cleared++
			}
		}
	}
	if got, want := len(with.Children)-2, len(without.Children)-cleared; got != want {
		t.Errorf("module nodes with logo = %d, want %d", got, want)
	}
}

func TestRenderMissingAssetsOmitted(t *testing.T) {
	els := []label.Element{
		{Kind: label.KindImage, Src: "missing.png", Width: 10, Height: 10},
		{Kind: label.KindQR, Width: 20, Height: 20, Text: "A", Logo: "missing.png"},
	}
	g := Render(els, "X", Options{Assets: assets.Set{}})
	if len(g.Children) != 1 {
		t.Fatalf("children = %d, want only the QR group", len(g.Children))
	}
	if canvas.Count(g)["image"] != 0 {
		t.Error("missing assets were drawn")
	}
}

func TestRenderImageStretch(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	el := label.Element{Kind: label.KindImage, Src: "a.png", Width: 60, Height: 40}
	img := Render([]label.Element{el}, "X", Options{Assets: assets.Set{"a.png": src}}).Children[0].(*canvas.Image)
	if img.Fit != canvas.FitStretch || img.Width != 60 || img.Height != 40 {
		t.Errorf("image = %+v, want stretched 60x40", img)
	}
}

func TestRenderLaserQRUsesEngraveInk(t *testing.T) {
	el := label.Element{Kind: label.KindQR, Width: 20, Height: 20, Text: "A", Fill: "#336699"}
	g := Render([]label.Element{el}, "X", Options{Mode: ModeLaser}).Children[0].(*canvas.Group)
	for _, n := range g.Children[1:] {
		if c, ok := n.(*canvas.Circle); ok {
			if c.Fill != "#000000" || c.Class != canvas.ClassEngrave {
				t.Fatalf("laser dot = %+v, want black engrave", c)
			}
			return
		}
	}
}

func TestRenderZOrder(t *testing.T) {
	els := []label.Element{
		{Kind: label.KindText, Text: "under"},
		background(),
		{Kind: label.KindText, Text: "over"},
	}
	g := Render(els, "X", Options{})
	if g.Children[0].(*canvas.Text).Content != "under" || g.Children[2].(*canvas.Text).Content != "over" {
		t.Error("render order does not follow list order")
	}
}

func TestSafeZone(t *testing.T) {
	lo, hi := SafeZone(25)
	if lo != 9 || hi != 15 {
		t.Errorf("SafeZone(25) = [%d, %d], want [9, 15]", lo, hi)
	}
}
