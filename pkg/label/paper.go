package label

import (
	"slices"
	"strings"
)

// PaperSize is an entry of the fixed paper catalogue.
type PaperSize struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size returns the paper dimensions.
func (p PaperSize) Size() Size {
	return Size{Width: p.Width, Height: p.Height}
}

// DefaultPaper is the catalogue key used when a job names no paper.
const DefaultPaper = "a4"

var papers = map[string]PaperSize{
	"a4":     {Key: "a4", Name: "A4", Width: 210, Height: 297},
	"a3":     {Key: "a3", Name: "A3", Width: 297, Height: 420},
	"letter": {Key: "letter", Name: "Letter", Width: 216, Height: 279},
}

// LookupPaper returns the catalogue entry for key (case-insensitive).
func LookupPaper(key string) (PaperSize, bool) {
	p, ok := papers[strings.ToLower(strings.TrimSpace(key))]
	return p, ok
}

// Papers returns the catalogue sorted by key.
func Papers() []PaperSize {
	out := make([]PaperSize, 0, len(papers))
	for _, p := range papers {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b PaperSize) int { return strings.Compare(a.Key, b.Key) })
	return out
}
