// Package sink turns a [canvas.Drawing] into output bytes or pixels.
//
// # Overview
//
// A "sink" is the last stage of the label pipeline. This package provides:
//
//   - SVG: vector output for laser cutting and page previews
//   - Raster: fixed-resolution images, drawn with fogleman/gg or by
//     shelling out to rsvg-convert
//   - PDF: a paginated document of JPEG page images (go-pdf/fpdf)
//
// # SVG Output
//
// [RenderSVG] writes millimetre user units, so a drawing of an A4 page
// becomes a 210mm × 297mm document:
//
//	svg := sink.RenderSVG(d, sink.WithCutStyles(sink.CutStyleLaser))
//
// # Raster Output
//
// Two [Rasterizer] implementations exist. [GG] draws natively and needs no
// external tools. [RSVG] renders the SVG form through librsvg and matches
// browser output more closely, but requires rsvg-convert on PATH:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// # PDF Output
//
// [PDF] collects page images and writes a document whose pages match the
// paper size exactly. Pages are embedded as JPEG.
//
// [canvas.Drawing]: github.com/matzehuels/labelsheet/pkg/render/canvas
package sink
