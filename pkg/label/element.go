package label

import "strings"

// Kind identifies the variant of an [Element].
type Kind string

// Element kinds.
const (
	KindRect     Kind = "rect"
	KindText     Kind = "text"
	KindVariable Kind = "variable"
	KindQR       Kind = "qr"
	KindImage    Kind = "image"
)

// Placeholder is the token substituted with the current data value in QR text.
const Placeholder = "{code}"

// Font weights understood by the renderers.
const (
	WeightNormal = "normal"
	WeightBold   = "bold"
)

// Element is one drawable item on a label. Which fields are meaningful
// depends on Kind; unused fields are ignored by the renderers.
//
// All coordinates and sizes are millimetres relative to the label's top-left
// corner. FontSize is in points.
type Element struct {
	ID   string  `json:"id" yaml:"id"`
	Kind Kind    `json:"type" yaml:"type"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`

	// Rect, QR and Image
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`

	// Rect
	Fill         string  `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke       string  `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	StrokeWidth  float64 `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty"`
	CornerRadius float64 `json:"rx,omitempty" yaml:"rx,omitempty"`
	IsBackground bool    `json:"isBackground,omitempty" yaml:"isBackground,omitempty"`

	// Text, Variable and QR
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Text and Variable
	FontSize   float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	Italic     bool    `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline  bool    `json:"underline,omitempty" yaml:"underline,omitempty"`

	// QR
	Logo string `json:"logo,omitempty" yaml:"logo,omitempty"`

	// Image
	Src string `json:"src,omitempty" yaml:"src,omitempty"`
}

// IsText reports whether the element renders as a line of text.
func (e Element) IsText() bool {
	return e.Kind == KindText || e.Kind == KindVariable
}

// Bold reports whether the element uses a bold font weight.
// Numeric CSS weights of 600 and above count as bold.
func (e Element) Bold() bool {
	switch strings.ToLower(strings.TrimSpace(e.FontWeight)) {
	case WeightBold, "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

// Resizable reports whether the editor may offer a resize handle.
// Background rectangles follow the label size and are never resized directly.
func (e Element) Resizable() bool {
	if e.IsBackground {
		return false
	}
	switch e.Kind {
	case KindRect, KindQR, KindImage:
		return true
	}
	return false
}

// HasPlaceholder reports whether the element text contains [Placeholder].
func (e Element) HasPlaceholder() bool {
	return strings.Contains(e.Text, Placeholder)
}

// ResolveQRText returns the payload encoded for a QR element when rendering
// the given data value. Every occurrence of [Placeholder] is replaced by
// value; text without a placeholder is replaced wholesale by value.
func ResolveQRText(stored, value string) string {
	if strings.Contains(stored, Placeholder) {
		return strings.ReplaceAll(stored, Placeholder, value)
	}
	return value
}

// defaults returns a new element of the given kind with editor defaults.
func defaults(kind Kind) Element {
	e := Element{Kind: kind, X: 10, Y: 10}
	switch kind {
	case KindRect:
		e.Width, e.Height = 20, 20
		e.Fill, e.Stroke, e.StrokeWidth = "transparent", "#000000", 1
	case KindText:
		e.Text, e.FontSize, e.FontFamily, e.Fill = "New Text", 10, "Arial", "#000000"
	case KindVariable:
		e.Text, e.FontSize, e.FontFamily, e.Fill = Placeholder, 10, "Courier New", "#000000"
	case KindQR:
		e.Width, e.Height, e.Text = 20, 20, "QR CODE"
	case KindImage:
		e.X, e.Y = 0, 0
	}
	return e
}
