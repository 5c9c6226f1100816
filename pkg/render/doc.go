// Package render groups the label rendering packages.
//
// # Overview
//
// Rendering happens in three steps, one subpackage each:
//
//   - [canvas]: a resolution-independent drawing model in millimetres
//   - [element]: draws one label instance (design + data value) onto a canvas
//   - [sink]: turns a drawing into SVG text, raster pixels or a PDF page
//
// Sheets are assembled from label instances by the compose package; render
// knows nothing about grids or pagination.
//
//	d := canvas.New(60, 40)
//	d.Add(element.Render(design.Elements, "ABC-20010", element.Options{Mode: element.ModePrint}))
//	svg := sink.RenderSVG(d)
//
// [canvas]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/render/canvas
// [element]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/render/element
// [sink]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/render/sink
package render
