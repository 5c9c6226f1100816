package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/labelsheet/pkg/compose"
	"github.com/matzehuels/labelsheet/pkg/label"
)

// WriteJob encodes job to w. The output can be read back with [ReadJob].
func WriteJob(job label.Job, w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(job); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(job); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported job format %q", format)
	}
}

// ExportJob writes job to a file at path, in the encoding the extension
// names.
func ExportJob(job label.Job, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJob(job, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type layoutDoc struct {
	Paper        label.PaperSize `json:"paper"`
	Label        label.Size      `json:"label"`
	Cols         int             `json:"cols"`
	Rows         int             `json:"rows"`
	OffsetX      float64         `json:"offsetX"`
	OffsetY      float64         `json:"offsetY"`
	Gap          float64         `json:"gap"`
	Margin       float64         `json:"margin"`
	ItemsPerPage int             `json:"itemsPerPage"`
	Labels       int             `json:"labels"`
	Pages        []layoutPage    `json:"pages"`
}

type layoutPage struct {
	Page  int            `json:"page"`
	Slots []compose.Slot `json:"slots"`
}

// WriteLayout writes the grid of c and the slot assignment of every page
// as indented JSON. Page numbers in the output are 1-based.
func WriteLayout(c *compose.Composer, w io.Writer) error {
	plan := c.Plan()
	doc := layoutDoc{
		Paper:        c.Paper(),
		Label:        plan.Label,
		Cols:         plan.Cols,
		Rows:         plan.Rows,
		OffsetX:      plan.OffsetX,
		OffsetY:      plan.OffsetY,
		Gap:          plan.Gap,
		Margin:       plan.Margin,
		ItemsPerPage: plan.ItemsPerPage(),
		Labels:       c.Values(),
		Pages:        make([]layoutPage, c.TotalPages()),
	}
	for p := range doc.Pages {
		doc.Pages[p] = layoutPage{Page: p + 1, Slots: c.Slots(p)}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
