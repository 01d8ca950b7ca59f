// Package grid plans the piece grid for a puzzle and generates the
// tab/socket pattern shared by neighboring pieces.
package grid

import "math"

// Plan is a grid layout chosen for an image.
type Plan struct {
	Cols   int
	Rows   int
	Pieces int
}

// NewPlan picks the number of columns and rows for an image with the given
// aspect ratio (width / height) so that the grid holds as close to n pieces
// as possible while keeping cells roughly square.
//
// Starting from cols = round(sqrt(n*aspect)) and rows = round(n/cols), the
// planner grows the grid while it holds fewer than n pieces and then shrinks
// it while it holds more, each step moving the dimension that keeps
// cols/rows closest to aspect. When that walk undershoots n, the fuller
// grid found by fill is used instead, so an exact grid is returned whenever
// one exists with cells no more skewed than 3:2. The result never exceeds n.
//
// A non-positive n is treated as 1 and a non-positive, NaN or infinite
// aspect is treated as 1, so NewPlan always returns at least a 1x1 grid.
func NewPlan(aspect float64, n int) Plan {
	if n < 1 {
		n = 1
	}
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		aspect = 1
	}

	cols := max(1, int(math.Round(math.Sqrt(float64(n)*aspect))))
	rows := max(1, int(math.Round(float64(n)/float64(cols))))

	for cols*rows < n {
		if ratioError(cols+1, rows, aspect) <= ratioError(cols, rows+1, aspect) {
			cols++
		} else {
			rows++
		}
	}

	for cols*rows > n {
		switch {
		case cols == 1:
			rows--
		case rows == 1:
			cols--
		case ratioError(cols-1, rows, aspect) <= ratioError(cols, rows-1, aspect):
			cols--
		default:
			rows--
		}
	}

	if cols*rows < n {
		if c, r, ok := fill(aspect, n); ok && c*r > cols*rows {
			cols, rows = c, r
		}
	}

	return Plan{Cols: cols, Rows: rows, Pieces: cols * rows}
}

// maxCellSkew bounds how far a cell may stretch from square, as the larger
// of width/height and height/width.
const maxCellSkew = 1.5

// fill finds the grid with the most pieces not exceeding n whose cells stay
// within maxCellSkew, preferring cols/rows closest to aspect on ties. An
// exact factorization of n therefore wins whenever one is in bounds.
func fill(aspect float64, n int) (cols, rows int, ok bool) {
	for c := 1; c <= n; c++ {
		r := n / c
		if cellSkew(c, r, aspect) > maxCellSkew+1e-9 {
			continue
		}
		switch {
		case !ok, c*r > cols*rows,
			c*r == cols*rows && ratioError(c, r, aspect) < ratioError(cols, rows, aspect):
			cols, rows, ok = c, r, true
		}
	}
	return cols, rows, ok
}

// cellSkew is the elongation of a cell when an image with the given aspect
// is cut into cols by rows; 1 means square.
func cellSkew(cols, rows int, aspect float64) float64 {
	k := aspect * float64(rows) / float64(cols)
	return max(k, 1/k)
}

// ratioError is the distance between cols/rows and the target aspect.
func ratioError(cols, rows int, aspect float64) float64 {
	return math.Abs(float64(cols)/float64(rows) - aspect)
}
