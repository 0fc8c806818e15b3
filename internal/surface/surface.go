// Package surface is the raster bitmap strokes are painted onto. Painting is
// destructive, so the only way to remove a stroke is to clear and replay.
package surface

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"

	"LocalBoard/internal/stroke"
)

const dataURLPrefix = "data:image/png;base64,"

// Raster is a bitmap sized in device pixels and addressed in surface-local
// units; scale is the device pixel ratio between them.
type Raster struct {
	dc            *gg.Context
	width, height float64
	scale         float64
}

// New allocates a width x height surface at the given device pixel ratio.
func New(width, height, scale float64) *Raster {
	r := &Raster{}
	r.Resize(width, height, scale)
	return r
}

// Resize reallocates the bitmap. The previous pixels are discarded; callers
// replay their history afterwards.
func (r *Raster) Resize(width, height, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	r.width, r.height, r.scale = math.Max(width, 1), math.Max(height, 1), scale
	pw := int(math.Floor(r.width * scale))
	ph := int(math.Floor(r.height * scale))
	r.dc = gg.NewContext(max(pw, 1), max(ph, 1))
	r.dc.Scale(scale, scale)
}

// Size returns the surface size in surface-local units.
func (r *Raster) Size() (width, height float64) {
	return r.width, r.height
}

func (r *Raster) Scale() float64 {
	return r.scale
}

// Clear wipes every pixel to transparent.
func (r *Raster) Clear() {
	r.dc.Push()
	r.dc.SetColor(color.Transparent)
	r.dc.Clear()
	r.dc.Pop()
}

// Draw paints s on top of the current contents.
func (r *Raster) Draw(s stroke.Stroke) {
	stroke.Render(s, r.dc)
}

// DrawTail paints only the newest segment of an in-progress stroke.
func (r *Raster) DrawTail(s stroke.Stroke) {
	stroke.RenderTail(s, r.dc)
}

// Replay clears the surface and paints strokes in order.
func (r *Raster) Replay(strokes []stroke.Stroke) {
	r.Clear()
	for _, s := range strokes {
		r.Draw(s)
	}
}

// Image returns a copy of the current pixels.
func (r *Raster) Image() *image.RGBA {
	src := r.dc.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// EncodePNG writes the surface as a PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// DataURL returns the surface as a base64 PNG data URL.
func (r *Raster) DataURL() (string, error) {
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL is the inverse of DataURL.
func DecodeDataURL(u string) (image.Image, error) {
	if len(u) < len(dataURLPrefix) || u[:len(dataURLPrefix)] != dataURLPrefix {
		return nil, fmt.Errorf("not a png data url")
	}
	raw, err := base64.StdEncoding.DecodeString(u[len(dataURLPrefix):])
	if err != nil {
		return nil, fmt.Errorf("invalid data url: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid png: %w", err)
	}
	return img, nil
}
