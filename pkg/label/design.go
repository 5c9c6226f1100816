package label

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Size is a width/height pair in millimetres.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Design is a label size plus its ordered element list.
type Design struct {
	Label    Size      `json:"label" yaml:"label"`
	Elements []Element `json:"elements" yaml:"elements"`
}

// DefaultDesign returns the starter label: a 60×40mm white background, a QR
// code, a caption and a variable line bound to the data value.
func DefaultDesign() Design {
	return Design{
		Label: Size{Width: 60, Height: 40},
		Elements: []Element{
			{ID: "bg", Kind: KindRect, Width: 60, Height: 40, Fill: "#ffffff", Stroke: "#dddddd", IsBackground: true},
			{ID: "qr1", Kind: KindQR, X: 5, Y: 5, Width: 20, Height: 20, Text: Placeholder},
			{ID: "txt1", Kind: KindText, X: 30, Y: 15, Text: "TEXT", FontSize: 10, FontFamily: "Arial, sans-serif", Fill: "#000000", FontWeight: WeightNormal},
			{ID: "var1", Kind: KindVariable, X: 30, Y: 25, Text: Placeholder, FontSize: 8, FontFamily: `"Courier New", monospace`, Fill: "#333333", FontWeight: WeightNormal},
		},
	}
}

// Clone returns a deep copy of the design.
func (d Design) Clone() Design {
	return Design{Label: d.Label, Elements: slices.Clone(d.Elements)}
}

// Validate checks the invariants the renderers rely on.
func (d Design) Validate() error {
	if d.Label.Width <= 0 || d.Label.Height <= 0 {
		return fmt.Errorf("label size must be positive, got %gx%g", d.Label.Width, d.Label.Height)
	}
	backgrounds := 0
	seen := make(map[string]bool, len(d.Elements))
	for i, e := range d.Elements {
		switch e.Kind {
		case KindRect, KindText, KindVariable, KindQR, KindImage:
		default:
			return fmt.Errorf("element %d: unknown type %q", i, e.Kind)
		}
		if e.IsBackground {
			if e.Kind != KindRect {
				return fmt.Errorf("element %d: only rect elements can be the background", i)
			}
			backgrounds++
		}
		if e.ID != "" {
			if seen[e.ID] {
				return fmt.Errorf("element %d: duplicate id %q", i, e.ID)
			}
			seen[e.ID] = true
		}
	}
	if backgrounds != 1 {
		return fmt.Errorf("design must have exactly one background element, found %d", backgrounds)
	}
	return nil
}

// Normalize fills in missing element IDs and keeps QR elements square.
func (d *Design) Normalize() {
	for i := range d.Elements {
		e := &d.Elements[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Kind == KindQR {
			e.Height = e.Width
		}
	}
}

// Background returns the background element, if any.
func (d Design) Background() (Element, bool) {
	for _, e := range d.Elements {
		if e.IsBackground {
			return e, true
		}
	}
	return Element{}, false
}

// Find returns the index of the element with the given ID, or -1.
func (d Design) Find(id string) int {
	return slices.IndexFunc(d.Elements, func(e Element) bool { return e.ID == id })
}

// Add appends a new element of the given kind with editor defaults and a
// fresh UUID, and returns it.
func (d *Design) Add(kind Kind) Element {
	e := defaults(kind)
	e.ID = uuid.NewString()
	if kind == KindImage {
		e.Width, e.Height = d.Label.Width, d.Label.Height
	}
	d.Elements = append(d.Elements, e)
	return e
}

// Delete removes the element with the given ID. Background elements are
// never removed. It reports whether an element was removed.
func (d *Design) Delete(id string) bool {
	i := d.Find(id)
	if i < 0 || d.Elements[i].IsBackground {
		return false
	}
	d.Elements = slices.Delete(d.Elements, i, i+1)
	return true
}

// Update applies fn to the element with the given ID. The background flag and
// the ID cannot be changed through Update, and QR elements stay square.
func (d *Design) Update(id string, fn func(*Element)) bool {
	i := d.Find(id)
	if i < 0 {
		return false
	}
	e := d.Elements[i]
	fn(&e)
	e.ID = d.Elements[i].ID
	e.IsBackground = d.Elements[i].IsBackground
	if e.Kind == KindQR {
		e.Height = e.Width
	}
	d.Elements[i] = e
	return true
}

// MoveUp swaps the element with its successor, drawing it one step higher.
func (d *Design) MoveUp(id string) bool {
	i := d.Find(id)
	if i < 0 || i == len(d.Elements)-1 {
		return false
	}
	d.Elements[i], d.Elements[i+1] = d.Elements[i+1], d.Elements[i]
	return true
}

// MoveDown swaps the element with its predecessor, drawing it one step lower.
func (d *Design) MoveDown(id string) bool {
	i := d.Find(id)
	if i <= 0 {
		return false
	}
	d.Elements[i], d.Elements[i-1] = d.Elements[i-1], d.Elements[i]
	return true
}
