// Package fonts maps CSS font families onto the Go font family bundled in
// golang.org/x/image, so raster output needs no system fonts.
//
// Families that name a monospace font resolve to Go Mono; everything else
// resolves to Go Regular. Weight and style select the bold and italic cuts.
package fonts

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFamily is used when an element has no font family.
const DefaultFamily = "Helvetica, Arial, sans-serif"

// FallbackFontFamily is appended to families in vector output so viewers
// without the named font still pick a sans-serif face.
const FallbackFontFamily = "sans-serif"

// Style selects one cut of a family.
type Style struct {
	Mono   bool
	Bold   bool
	Italic bool
}

var ttf = map[Style][]byte{
	{}:                                     goregular.TTF,
	{Bold: true}:                           gobold.TTF,
	{Italic: true}:                         goitalic.TTF,
	{Bold: true, Italic: true}:             gobolditalic.TTF,
	{Mono: true}:                           gomono.TTF,
	{Mono: true, Bold: true}:               gomonobold.TTF,
	{Mono: true, Italic: true}:             gomonoitalic.TTF,
	{Mono: true, Bold: true, Italic: true}: gomonobolditalic.TTF,
}

var (
	mu     sync.Mutex
	parsed = map[Style]*opentype.Font{}
)

// Font returns the parsed font for a style. Parsed fonts are cached and
// safe for concurrent use.
func Font(s Style) (*opentype.Font, error) {
	mu.Lock()
	defer mu.Unlock()
	if f, ok := parsed[s]; ok {
		return f, nil
	}
	f, err := opentype.Parse(ttf[s])
	if err != nil {
		return nil, fmt.Errorf("parse font %+v: %w", s, err)
	}
	parsed[s] = f
	return f, nil
}

// Face returns a new face for family at size pixels. Faces are not safe for
// concurrent use; callers should keep one per goroutine.
func Face(family string, bold, italic bool, size float64) (font.Face, error) {
	f, err := Font(Style{Mono: IsMonospace(family), Bold: bold, Italic: italic})
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

var monoHints = []string{"mono", "courier", "consolas", "menlo", "code"}

// IsMonospace reports whether a CSS family list asks for a fixed-width font.
func IsMonospace(family string) bool {
	f := strings.ToLower(family)
	for _, h := range monoHints {
		if strings.Contains(f, h) {
			return true
		}
	}
	return false
}

// Sanitize prepares a family list for use inside a double-quoted XML
// attribute: double quotes become single quotes and an empty family becomes
// [DefaultFamily].
func Sanitize(family string) string {
	family = strings.TrimSpace(strings.ReplaceAll(family, `"`, "'"))
	if family == "" {
		return DefaultFamily
	}
	return family
}
