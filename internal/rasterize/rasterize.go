// Package rasterize cuts piece images out of a source image.
//
// Rasterization is a pure function of the source image and a job
// description. It never touches puzzle state, so pieces can be produced
// concurrently and handed back as immutable images.
package rasterize

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/jigsaw/internal/contour"
	"github.com/gogpu/jigsaw/internal/parallel"
)

// ErrNoSurface is returned when a piece would have no pixels, either
// because the source is empty or the piece falls outside it.
var ErrNoSurface = errors.New("rasterize: no drawing surface")

// DefaultOversample is the number of image pixels per board unit.
const DefaultOversample = 2

// Job describes one piece to cut.
type Job struct {
	// Contour is the piece outline in its local allowance frame.
	Contour *contour.Contour

	// Origin is the board position of the allowance box origin, i.e. the
	// cell origin minus the contour offset.
	Origin gg.Point

	// PixelsPerUnit is the number of source pixels per board unit.
	PixelsPerUnit float64

	// Oversample is the number of output pixels per board unit.
	// Values below 1 use DefaultOversample.
	Oversample float64

	// Shadow enables the inner shadow and edge highlight.
	Shadow bool
}

// Result is a rasterized piece.
type Result struct {
	// Image holds the piece in premultiplied RGBA, transparent outside
	// the contour.
	Image *image.RGBA

	// Scale is the number of image pixels per board unit.
	Scale float64

	// Offset locates the grid cell inside the image, in board units.
	Offset contour.Offset

	// Width and Height are the allowance box size in board units.
	Width, Height float64
}

// Piece cuts a single piece out of src.
func Piece(src image.Image, job Job) (*Result, error) {
	if src == nil || src.Bounds().Empty() || job.Contour == nil || job.PixelsPerUnit <= 0 {
		return nil, ErrNoSurface
	}
	scale := job.Oversample
	if scale < 1 {
		scale = DefaultOversample
	}

	c := job.Contour
	w, h := c.Size()
	pw, ph := int(math.Ceil(w*scale)), int(math.Ceil(h*scale))
	if pw <= 0 || ph <= 0 {
		return nil, ErrNoSurface
	}

	sb := src.Bounds()
	k := job.PixelsPerUnit
	cell := c.Cell()
	region := image.Rect(
		sb.Min.X+int(math.Floor((job.Origin.X+cell.Min.X)*k)),
		sb.Min.Y+int(math.Floor((job.Origin.Y+cell.Min.Y)*k)),
		sb.Min.X+int(math.Ceil((job.Origin.X+cell.Max.X)*k)),
		sb.Min.Y+int(math.Ceil((job.Origin.Y+cell.Max.Y)*k)),
	)
	if region.Intersect(sb).Empty() {
		return nil, ErrNoSurface
	}

	// Source pixel (sx, sy) lands on canvas pixel
	// ((sx - sb.Min.X - Origin.X*k) * scale/k, ...).
	r := scale / k
	s2d := f64.Aff3{
		r, 0, -(float64(sb.Min.X) + job.Origin.X*k) * r,
		0, r, -(float64(sb.Min.Y) + job.Origin.Y*k) * r,
	}
	texture := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.CatmullRom.Transform(texture, s2d, src, sb, draw.Src, nil)

	mask, err := coverageMask(c, pw, ph, scale)
	if err != nil {
		return nil, fmt.Errorf("rasterize: mask: %w", err)
	}

	out := image.NewRGBA(texture.Rect)
	draw.DrawMask(out, out.Rect, texture, image.Point{}, mask, image.Point{}, draw.Src)

	if job.Shadow {
		coverage := alphaOf(mask)
		innerShadow(out, coverage, scale)
		if err := outline(out, c, coverage, scale); err != nil {
			return nil, fmt.Errorf("rasterize: outline: %w", err)
		}
	}

	return &Result{
		Image:  out,
		Scale:  scale,
		Offset: c.Offset(),
		Width:  w,
		Height: h,
	}, nil
}

// Pieces cuts every job out of src on a pool of workers and returns the
// results in job order. The first failure aborts the batch.
func Pieces(ctx context.Context, src image.Image, jobs []Job, workers int) ([]*Result, error) {
	pool := parallel.NewWorkerPool(workers)
	defer pool.Close()

	results := make([]*Result, len(jobs))
	work := make([]parallel.Job, len(jobs))
	for i, job := range jobs {
		work[i] = func(context.Context) error {
			res, err := Piece(src, job)
			if err != nil {
				return fmt.Errorf("piece %d: %w", i, err)
			}
			results[i] = res
			return nil
		}
	}

	if err := pool.Run(ctx, work); err != nil {
		return nil, err
	}
	return results, nil
}

// coverageMask fills the contour in white on a transparent canvas.
func coverageMask(c *contour.Contour, w, h int, scale float64) (*image.RGBA, error) {
	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.Scale(scale, scale)

	c.Trace(dc)
	dc.SetRGBA(1, 1, 1, 1)
	if err := dc.Fill(); err != nil {
		return nil, err
	}
	return rgbaOf(dc.Image()), nil
}

func rgbaOf(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

// alphaOf returns the alpha channel of img as coverage in [0, 1].
func alphaOf(img *image.RGBA) []float32 {
	n := img.Rect.Dx() * img.Rect.Dy()
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(img.Pix[i*4+3]) / 255
	}
	return out
}
