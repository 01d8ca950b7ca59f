package grid

// Orientation describes how a piece edge is shaped.
type Orientation uint8

const (
	// Flat is a straight edge. Edges on the outer boundary of the grid are
	// always flat.
	Flat Orientation = iota
	// TabOut is a knob protruding away from the piece.
	TabOut
	// TabIn is a socket recessed into the piece.
	TabIn
)

// Complement returns the orientation the neighboring piece sees for the
// same physical edge.
func (o Orientation) Complement() Orientation {
	switch o {
	case TabOut:
		return TabIn
	case TabIn:
		return TabOut
	default:
		return Flat
	}
}

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case TabOut:
		return "tabOut"
	case TabIn:
		return "tabIn"
	default:
		return "flat"
	}
}

// Side names one of the four sides of a piece, in clockwise order
// starting at the top.
type Side uint8

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// Sides lists every side in drawing order.
var Sides = [4]Side{Top, Right, Bottom, Left}

// String returns the side name.
func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	default:
		return "left"
	}
}

// Edges holds the orientation of each side of one piece.
type Edges [4]Orientation

// Rand is the source of randomness for pattern generation.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Pattern is the tab layout of a whole grid. Each interior edge is stored
// once, from the point of view of the piece to its left or above it, so
// both neighbors always agree.
type Pattern struct {
	rows, cols int
	// tabsRight[r][c] reports whether piece (r, c) has a knob on its right
	// side. Defined for c < cols-1.
	tabsRight [][]bool
	// tabsBottom[r][c] reports whether piece (r, c) has a knob on its bottom
	// side. Defined for r < rows-1.
	tabsBottom [][]bool
}

// NewPattern draws a random tab layout for a rows x cols grid.
func NewPattern(rows, cols int, rng Rand) *Pattern {
	rows, cols = max(1, rows), max(1, cols)
	p := &Pattern{
		rows:       rows,
		cols:       cols,
		tabsRight:  make([][]bool, rows),
		tabsBottom: make([][]bool, rows),
	}
	for r := range rows {
		p.tabsRight[r] = make([]bool, cols)
		for c := range cols - 1 {
			p.tabsRight[r][c] = rng.IntN(2) == 1
		}
	}
	for r := range rows {
		p.tabsBottom[r] = make([]bool, cols)
		if r == rows-1 {
			continue
		}
		for c := range cols {
			p.tabsBottom[r][c] = rng.IntN(2) == 1
		}
	}
	return p
}

// Rows returns the number of grid rows.
func (p *Pattern) Rows() int { return p.rows }

// Cols returns the number of grid columns.
func (p *Pattern) Cols() int { return p.cols }

// Edges derives the four edge orientations of the piece at (row, col).
func (p *Pattern) Edges(row, col int) Edges {
	var e Edges
	if row > 0 {
		e[Top] = knob(p.tabsBottom[row-1][col]).Complement()
	}
	if col < p.cols-1 {
		e[Right] = knob(p.tabsRight[row][col])
	}
	if row < p.rows-1 {
		e[Bottom] = knob(p.tabsBottom[row][col])
	}
	if col > 0 {
		e[Left] = knob(p.tabsRight[row][col-1]).Complement()
	}
	return e
}

func knob(out bool) Orientation {
	if out {
		return TabOut
	}
	return TabIn
}
