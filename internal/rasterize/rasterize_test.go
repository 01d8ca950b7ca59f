package rasterize

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/jigsaw/internal/contour"
	"github.com/gogpu/jigsaw/internal/grid"
)

const (
	cellW = 50.0
	cellH = 40.0
)

func uniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// job returns the job for the piece at (col, row) of a 3x3 grid on a
// source of 150x120 pixels, one source pixel per board unit.
func job(edges grid.Edges, col, row int, shadow bool) Job {
	c := contour.New(edges, cellW, cellH)
	off := c.Offset()
	return Job{
		Contour:       c,
		Origin:        gg.Pt(float64(col)*cellW-off.Left, float64(row)*cellH-off.Top),
		PixelsPerUnit: 1,
		Oversample:    2,
		Shadow:        shadow,
	}
}

func TestPieceBoundingBoxRoundTrip(t *testing.T) {
	src := uniform(150, 120, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	tab := cellW * contour.TabRatio

	tests := []struct {
		name     string
		edges    grid.Edges
		col, row int
		wantW    float64
		wantH    float64
	}{
		{"top-left corner", grid.Edges{grid.Right: grid.TabOut, grid.Bottom: grid.TabIn}, 0, 0, cellW + tab, cellH + tab},
		{"center", grid.Edges{grid.TabOut, grid.TabIn, grid.TabOut, grid.TabIn}, 1, 1, cellW + 2*tab, cellH + 2*tab},
		{"right edge", grid.Edges{grid.TabIn, grid.Flat, grid.TabOut, grid.TabOut}, 2, 1, cellW + tab, cellH + 2*tab},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Piece(src, job(tt.edges, tt.col, tt.row, false))
			if err != nil {
				t.Fatalf("Piece() error = %v", err)
			}
			if res.Width != tt.wantW || res.Height != tt.wantH {
				t.Errorf("box = %vx%v, want %vx%v", res.Width, res.Height, tt.wantW, tt.wantH)
			}
			b := res.Image.Bounds()
			gotW := float64(b.Dx()) / res.Scale
			gotH := float64(b.Dy()) / res.Scale
			if math.Abs(gotW-tt.wantW) >= 1/res.Scale || math.Abs(gotH-tt.wantH) >= 1/res.Scale {
				t.Errorf("image measures %vx%v units, want %vx%v", gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPieceClipsToContour(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	src := uniform(150, 120, red)

	j := job(grid.Edges{grid.TabOut, grid.TabOut, grid.TabIn, grid.TabIn}, 1, 1, false)
	res, err := Piece(src, j)
	if err != nil {
		t.Fatalf("Piece() error = %v", err)
	}
	img := res.Image
	cell := j.Contour.Cell()
	px := func(x, y float64) color.RGBA {
		return img.RGBAAt(int(x*res.Scale), int(y*res.Scale))
	}

	if got := px(1, 1); got.A != 0 {
		t.Errorf("allowance corner alpha = %d, want 0", got.A)
	}
	center := px((cell.Min.X+cell.Max.X)/2, (cell.Min.Y+cell.Max.Y)/2)
	if center.A != 255 || center.R < 250 || center.G > 5 {
		t.Errorf("cell center = %+v, want opaque red", center)
	}
	// The top knob reaches into the allowance above the cell.
	knob := px((cell.Min.X+cell.Max.X)/2, cell.Min.Y-0.5*j.Contour.TabSize())
	if knob.A != 255 {
		t.Errorf("knob alpha = %d, want 255", knob.A)
	}
	// The bottom socket is cut out of the cell.
	socket := px((cell.Min.X+cell.Max.X)/2, cell.Max.Y-0.5*j.Contour.TabSize())
	if socket.A != 0 {
		t.Errorf("socket alpha = %d, want 0", socket.A)
	}
}

func TestPieceSamplesItsOwnCell(t *testing.T) {
	// Left half blue, right half green; the source is twice the board size.
	src := image.NewRGBA(image.Rect(0, 0, 300, 240))
	for y := range 240 {
		for x := range 300 {
			c := color.RGBA{B: 255, A: 255}
			if x >= 150 {
				c = color.RGBA{G: 255, A: 255}
			}
			src.SetRGBA(x, y, c)
		}
	}

	for _, tt := range []struct {
		col  int
		want color.RGBA
	}{
		{0, color.RGBA{B: 255, A: 255}},
		{2, color.RGBA{G: 255, A: 255}},
	} {
		j := job(grid.Edges{}, tt.col, 1, false)
		j.PixelsPerUnit = 2
		res, err := Piece(src, j)
		if err != nil {
			t.Fatalf("col %d: Piece() error = %v", tt.col, err)
		}
		got := res.Image.RGBAAt(res.Image.Rect.Dx()/2, res.Image.Rect.Dy()/2)
		if got != tt.want {
			t.Errorf("col %d: center = %+v, want %+v", tt.col, got, tt.want)
		}
	}
}

func TestPieceShadowDarkensRim(t *testing.T) {
	src := uniform(150, 120, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	edges := grid.Edges{}

	plain, err := Piece(src, job(edges, 1, 1, false))
	if err != nil {
		t.Fatalf("Piece() error = %v", err)
	}
	shaded, err := Piece(src, job(edges, 1, 1, true))
	if err != nil {
		t.Fatalf("Piece() error = %v", err)
	}

	midY := plain.Image.Rect.Dy() / 2
	rimPlain := plain.Image.RGBAAt(1, midY)
	rimShaded := shaded.Image.RGBAAt(1, midY)
	if rimShaded.R >= rimPlain.R {
		t.Errorf("rim with shadow R = %d, without = %d, want darker", rimShaded.R, rimPlain.R)
	}

	midX := plain.Image.Rect.Dx() / 2
	if a, b := plain.Image.RGBAAt(midX, midY), shaded.Image.RGBAAt(midX, midY); a != b {
		t.Errorf("center changed by shadow: %+v -> %+v", a, b)
	}
}

func TestPieceNoSurface(t *testing.T) {
	edges := grid.Edges{}
	tests := []struct {
		name string
		src  image.Image
		job  Job
	}{
		{"nil source", nil, job(edges, 0, 0, false)},
		{"empty source", image.NewRGBA(image.Rect(0, 0, 0, 0)), job(edges, 0, 0, false)},
		{"outside source", uniform(10, 10, color.RGBA{A: 255}), job(edges, 2, 2, false)},
		{"no contour", uniform(10, 10, color.RGBA{A: 255}), Job{PixelsPerUnit: 1}},
		{"zero scale", uniform(10, 10, color.RGBA{A: 255}), Job{Contour: contour.New(edges, 1, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Piece(tt.src, tt.job); !errors.Is(err, ErrNoSurface) {
				t.Errorf("Piece() error = %v, want ErrNoSurface", err)
			}
		})
	}
}

func TestPiecesKeepsJobOrder(t *testing.T) {
	src := uniform(150, 120, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	p := grid.NewPattern(3, 3, fixedRand(1))

	var jobs []Job
	for row := range 3 {
		for col := range 3 {
			jobs = append(jobs, job(p.Edges(row, col), col, row, true))
		}
	}

	results, err := Pieces(context.Background(), src, jobs, 3)
	if err != nil {
		t.Fatalf("Pieces() error = %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, res := range results {
		w, h := jobs[i].Contour.Size()
		if res.Width != w || res.Height != h || res.Offset != jobs[i].Contour.Offset() {
			t.Errorf("result %d does not belong to job %d", i, i)
		}
	}
}

func TestPiecesFirstError(t *testing.T) {
	src := uniform(150, 120, color.RGBA{A: 255})
	jobs := []Job{
		job(grid.Edges{}, 0, 0, false),
		{PixelsPerUnit: 1},
	}
	if _, err := Pieces(context.Background(), src, jobs, 2); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Pieces() error = %v, want ErrNoSurface", err)
	}
}

func TestGaussianKernel(t *testing.T) {
	for _, sigma := range []float64{0, 0.5, 1.5, 3, 6} {
		k := gaussianKernel(sigma)
		if len(k)%2 != 1 {
			t.Errorf("sigma %v: even kernel length %d", sigma, len(k))
		}
		var sum float32
		for i, v := range k {
			sum += v
			if v != k[len(k)-1-i] {
				t.Errorf("sigma %v: kernel not symmetric at %d", sigma, i)
			}
		}
		if math.Abs(float64(sum)-1) > 1e-5 {
			t.Errorf("sigma %v: kernel sums to %v", sigma, sum)
		}
	}
}

func TestBlurOutsideValue(t *testing.T) {
	const w, h = 20, 20
	zeros := make([]float32, w*h)

	got := blur(zeros, w, h, 2, 1)
	if got[0] <= got[w/2*w+w/2] {
		t.Errorf("corner %v not brighter than center %v", got[0], got[w/2*w+w/2])
	}
	if got[w/2*w+w/2] > 1e-6 {
		t.Errorf("center = %v, want ~0", got[w/2*w+w/2])
	}

	flat := blur(zeros, w, h, 2, 0)
	for i, v := range flat {
		if v != 0 {
			t.Fatalf("blur of zeros with zero outside: got[%d] = %v", i, v)
		}
	}
}

type fixedRand int

func (f fixedRand) IntN(int) int { return int(f) }
