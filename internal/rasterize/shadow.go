package rasterize

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/gogpu/jigsaw/internal/contour"
)

// Overlay parameters, in board units and straight alpha.
const (
	shadowAlpha = 0.3
	shadowBlur  = 3.0

	outlineAlpha = 0.2
	outlineWidth = 1.5

	highlightAlpha = 0.15
	highlightWidth = 1.0
)

// innerShadow darkens the piece towards its outline. The inverted coverage
// is blurred and clipped back to the coverage, so the shadow only falls
// inside the piece.
func innerShadow(dst *image.RGBA, coverage []float32, scale float64) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()

	inv := make([]float32, len(coverage))
	for i, a := range coverage {
		inv[i] = 1 - a
	}
	// A canvas shadow blur of b spreads with sigma b/2.
	soft := blur(inv, w, h, shadowBlur/2*scale, 1)

	for i, a := range coverage {
		s := soft[i] * a * shadowAlpha
		if s <= 0 {
			continue
		}
		p := dst.Pix[i*4 : i*4+4 : i*4+4]
		keep := 1 - s
		p[0] = clampUint8(float32(p[0]) * keep)
		p[1] = clampUint8(float32(p[1]) * keep)
		p[2] = clampUint8(float32(p[2]) * keep)
		p[3] = clampUint8(float32(p[3])*keep + 255*s)
	}
}

// outline strokes a dark rim and a light highlight along the contour and
// composites them onto dst, clipped to the coverage.
func outline(dst *image.RGBA, c *contour.Contour, coverage []float32, scale float64) error {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()

	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.Scale(scale, scale)

	c.Trace(dc)
	dc.SetRGBA(0, 0, 0, outlineAlpha)
	dc.SetLineWidth(outlineWidth)
	if err := dc.Stroke(); err != nil {
		return err
	}

	c.Trace(dc)
	dc.SetRGBA(1, 1, 1, highlightAlpha)
	dc.SetLineWidth(highlightWidth)
	if err := dc.Stroke(); err != nil {
		return err
	}

	layer := rgbaOf(dc.Image())
	for i, a := range coverage {
		if a <= 0 {
			continue
		}
		l := layer.Pix[i*4 : i*4+4 : i*4+4]
		la := float32(l[3]) / 255 * a
		if la <= 0 {
			continue
		}
		p := dst.Pix[i*4 : i*4+4 : i*4+4]
		keep := 1 - la
		p[0] = clampUint8(float32(l[0])*a + float32(p[0])*keep)
		p[1] = clampUint8(float32(l[1])*a + float32(p[1])*keep)
		p[2] = clampUint8(float32(l[2])*a + float32(p[2])*keep)
		p[3] = clampUint8(float32(l[3])*a + float32(p[3])*keep)
	}
	return nil
}

func clampUint8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
