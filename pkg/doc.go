// Package pkg provides the core libraries for labelsheet batch label
// layout and rendering.
//
// # Overview
//
// Labelsheet takes one label design, expands a batch description into data
// values, places one label per value on a paper grid and renders the sheet
// for laser cutting or printing. The pkg directory is organized into four
// areas:
//
//  1. Domain model: [label], [sequence], [layout], [qr]
//  2. Rendering: [render/canvas], [render/element], [render/sink], [compose]
//  3. Orchestration: [pipeline], [io]
//  4. Infrastructure: [cache], [httputil], [assets], [fonts], [errors],
//     [observability], [buildinfo]
//
// # Architecture
//
// The data flow of a render:
//
//	Job (design + paper + batch)
//	         ↓
//	    [sequence] package (batch -> data values)
//	         ↓
//	    [layout] package (grid geometry, pagination)
//	         ↓
//	    [compose] package (labels placed on sheets)
//	         ↓
//	    [render/sink] package (SVG, PDF, PNG)
//
// [pipeline] ties the stages together and caches rendered outputs through
// [cache].
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	res, err := runner.Execute(ctx, label.DefaultJob(), pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPDF},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("laser.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
//
// [label]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/label
// [sequence]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/sequence
// [layout]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/layout
// [qr]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/qr
// [render/canvas]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/render/canvas
// [render/element]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/render/element
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/render/sink
// [compose]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/compose
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/httputil
// [assets]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/assets
// [fonts]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/fonts
// [errors]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/buildinfo
package pkg
