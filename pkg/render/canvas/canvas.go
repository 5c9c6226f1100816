// Package canvas is the resolution-independent drawing model shared by the
// label renderer and the output sinks.
//
// All coordinates are millimetres. A [Drawing] holds a tree of [Group]s
// whose children are drawn in slice order, so later nodes paint over
// earlier ones. Groups translate their children by (X, Y).
package canvas

import "image"

// Class names attached to nodes so vector sinks can style cut and engrave
// layers separately.
const (
	ClassCutLine = "cut-line"
	ClassEngrave = "engrave"
)

// Node is one entry of the display list.
type Node interface {
	node()
}

// Group translates its children and optionally tags them with a class.
type Group struct {
	ID       string
	X, Y     float64
	Class    string
	Children []Node
}

// Rect is an axis-aligned rectangle. An empty Fill means no fill; a zero
// StrokeWidth or empty Stroke means no stroke.
type Rect struct {
	X, Y, Width, Height float64
	RX                  float64
	Fill                string
	Stroke              string
	StrokeWidth         float64
	Class               string
}

// Circle is a filled circle.
type Circle struct {
	CX, CY, R float64
	Fill      string
	Class     string
}

// Text is a single line of text. (X, Y) is the top-left anchor; the
// baseline sits one Size below Y. Size is in millimetres.
type Text struct {
	X, Y      float64
	Content   string
	Size      float64
	Family    string
	Bold      bool
	Italic    bool
	Underline bool
	Fill      string
	Class     string
}

// Fit selects how an [Image] fills its box.
type Fit int

const (
	// FitStretch scales independently on both axes.
	FitStretch Fit = iota
	// FitContain preserves aspect ratio and centres the image in the box.
	FitContain
)

// Image is a raster drawn into a box. Href is the original reference for
// vector sinks; Data is the decoded pixels for raster sinks. Either may be
// empty; sinks skip images they cannot draw.
type Image struct {
	X, Y, Width, Height float64
	Href                string
	Data                image.Image
	Fit                 Fit
}

func (*Group) node()  {}
func (*Rect) node()   {}
func (*Circle) node() {}
func (*Text) node()   {}
func (*Image) node()  {}

// Drawing is a complete page or document.
type Drawing struct {
	Width, Height float64
	Background    string
	Root          *Group
}

// New returns an empty drawing of the given size.
func New(width, height float64) *Drawing {
	return &Drawing{Width: width, Height: height, Root: &Group{}}
}

// Add appends nodes to the root group.
func (d *Drawing) Add(nodes ...Node) {
	d.Root.Children = append(d.Root.Children, nodes...)
}

// Add appends nodes to the group.
func (g *Group) Add(nodes ...Node) {
	g.Children = append(g.Children, nodes...)
}

// Walk visits every node depth-first in paint order. The callback receives
// the accumulated translation of the node's parent group.
func Walk(n Node, fn func(n Node, dx, dy float64)) {
	walk(n, 0, 0, fn)
}

func walk(n Node, dx, dy float64, fn func(Node, float64, float64)) {
	fn(n, dx, dy)
	if g, ok := n.(*Group); ok {
		for _, c := range g.Children {
			walk(c, dx+g.X, dy+g.Y, fn)
		}
	}
}

// Count returns the number of nodes of each concrete kind under n,
// keyed by "group", "rect", "circle", "text" and "image".
func Count(n Node) map[string]int {
	out := map[string]int{}
	Walk(n, func(n Node, _, _ float64) {
		switch n.(type) {
		case *Group:
			out["group"]++
		case *Rect:
			out["rect"]++
		case *Circle:
			out["circle"]++
		case *Text:
			out["text"]++
		case *Image:
			out["image"]++
		}
	})
	return out
}
