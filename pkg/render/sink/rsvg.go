package sink

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/labelsheet/pkg/render/canvas"
)

// RSVG rasterizes through the rsvg-convert command from librsvg.
// Images are embedded into the intermediate SVG so relative references
// survive the round trip.
type RSVG struct{}

// Available reports whether rsvg-convert is on PATH.
func (RSVG) Available() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// Rasterize implements [Rasterizer].
func (RSVG) Rasterize(ctx context.Context, d *canvas.Drawing, dpi float64) (image.Image, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	svg := RenderSVG(d, WithEmbeddedImages())
	w, h := PixelSize(d.Width, d.Height, dpi)
	data, err := ToPNG(ctx, svg, w, h)
	if err != nil {
		return nil, err
	}
	return imaging.Decode(bytes.NewReader(data))
}

// ToPNG converts SVG bytes to a PNG of exactly w×h pixels on a white
// background using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, w, h int) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png",
		"-w", strconv.Itoa(w), "-h", strconv.Itoa(h), "-b", "white")
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s rasterization requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
