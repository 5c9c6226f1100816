package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/labelsheet/pkg/assets"
	"github.com/matzehuels/labelsheet/pkg/fonts"
	"github.com/matzehuels/labelsheet/pkg/render/canvas"
	"github.com/matzehuels/labelsheet/pkg/render/element"
)

// CutStyle selects the stylesheet emitted for cut and engrave classes.
type CutStyle int

const (
	CutStyleNone CutStyle = iota
	CutStyleLaser
	CutStylePrint
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cut       CutStyle
	embedData bool
}

// WithCutStyles adds a stylesheet for the cut-line and engrave classes.
func WithCutStyles(s CutStyle) SVGOption { return func(r *svgRenderer) { r.cut = s } }

// WithEmbeddedImages inlines decoded image data as PNG data URIs when an
// image reference is not already a data URI or remote URL.
func WithEmbeddedImages() SVGOption { return func(r *svgRenderer) { r.embedData = true } }

// RenderSVG writes the drawing as a standalone SVG document.
func RenderSVG(d *canvas.Drawing, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%smm" height="%smm" viewBox="0 0 %s %s">`+"\n",
		num(d.Width), num(d.Height), num(d.Width), num(d.Height))
	r.renderStyles(&buf)
	if _, ok := parseColor(d.Background); ok {
		fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="%s"/>`+"\n", num(d.Width), num(d.Height), attr(d.Background))
	}
	if d.Root != nil {
		r.renderNode(&buf, d.Root, 1)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderStyles(buf *bytes.Buffer) {
	width := element.CutLineWidthLaser
	switch r.cut {
	case CutStyleNone:
		return
	case CutStylePrint:
		width = element.CutLineWidthPrint
	}
	fmt.Fprintf(buf, "  <style>\n    .%s { fill: none; stroke: %s; stroke-width: %s; }\n    .%s { fill: black; }\n  </style>\n",
		canvas.ClassCutLine, element.CutLineColor, num(width), canvas.ClassEngrave)
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n canvas.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *canvas.Group:
		buf.WriteString(indent + "<g")
		if n.ID != "" {
			fmt.Fprintf(buf, ` id="%s"`, attr(n.ID))
		}
		if n.X != 0 || n.Y != 0 {
			fmt.Fprintf(buf, ` transform="translate(%s, %s)"`, num(n.X), num(n.Y))
		}
		writeClass(buf, n.Class)
		buf.WriteString(">\n")
		for _, c := range n.Children {
			r.renderNode(buf, c, depth+1)
		}
		buf.WriteString(indent + "</g>\n")

	case *canvas.Rect:
		fmt.Fprintf(buf, `%s<rect x="%s" y="%s" width="%s" height="%s"`, indent, num(n.X), num(n.Y), num(n.Width), num(n.Height))
		if n.RX > 0 {
			fmt.Fprintf(buf, ` rx="%s"`, num(n.RX))
		}
		writePaint(buf, n.Fill, n.Stroke, n.StrokeWidth)
		writeClass(buf, n.Class)
		buf.WriteString("/>\n")

	case *canvas.Circle:
		fmt.Fprintf(buf, `%s<circle cx="%s" cy="%s" r="%s"`, indent, num(n.CX), num(n.CY), num(n.R))
		writePaint(buf, n.Fill, "", 0)
		writeClass(buf, n.Class)
		buf.WriteString("/>\n")

	case *canvas.Text:
		weight, style, decoration := "normal", "normal", "none"
		if n.Bold {
			weight = "bold"
		}
		if n.Italic {
			style = "italic"
		}
		if n.Underline {
			decoration = "underline"
		}
		fmt.Fprintf(buf, `%s<text x="%s" y="%s" dy="1em" font-family="%s" font-size="%s" font-weight="%s" font-style="%s" text-decoration="%s" fill="%s"`,
			indent, num(n.X), num(n.Y), attr(fonts.Sanitize(n.Family)), num(n.Size), weight, style, decoration, attr(n.Fill))
		writeClass(buf, n.Class)
		fmt.Fprintf(buf, ">%s</text>\n", EscapeXML(n.Content))

	case *canvas.Image:
		href := r.imageHref(n)
		if href == "" {
			return
		}
		aspect := "none"
		if n.Fit == canvas.FitContain {
			aspect = "xMidYMid meet"
		}
		fmt.Fprintf(buf, `%s<image href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="%s"/>`+"\n",
			indent, attr(href), num(n.X), num(n.Y), num(n.Width), num(n.Height), aspect)
	}
}

func (r *svgRenderer) imageHref(n *canvas.Image) string {
	if isPortableHref(n.Href) || !r.embedData {
		return n.Href
	}
	if n.Data == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, n.Data, imaging.PNG); err != nil {
		return ""
	}
	return assets.EncodeDataURI("image/png", buf.Bytes())
}

func isPortableHref(href string) bool {
	return strings.HasPrefix(href, "data:") || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

func writePaint(buf *bytes.Buffer, fill, stroke string, width float64) {
	if _, ok := parseColor(fill); ok {
		fmt.Fprintf(buf, ` fill="%s"`, attr(fill))
	} else {
		buf.WriteString(` fill="none"`)
	}
	if _, ok := parseColor(stroke); ok && width > 0 {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s"`, attr(stroke), num(width))
	}
}

func writeClass(buf *bytes.Buffer, class string) {
	if class != "" {
		fmt.Fprintf(buf, ` class="%s"`, class)
	}
}

// num formats a millimetre value with at most four decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func attr(s string) string { return attrEscaper.Replace(s) }

// EscapeXML escapes text content.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
