package contour

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/jigsaw/internal/grid"
)

// Fractions along a side where the knob is drawn. The layout is symmetric
// around 0.5, so a side walked in the opposite direction produces the same
// curve. That is what lets a knob and the neighbor's socket coincide.
const (
	neckStart     = 0.28
	neckEnd       = 0.72
	neckWidth     = 0.12
	shoulderStart = 0.38
	shoulderEnd   = 0.62
	crown         = 0.45

	neckDepth     = 0.4
	shoulderDepth = 0.7
)

// step is one drawing command of a side. Lines leave c1 and c2 unset.
type step struct {
	cubic  bool
	c1, c2 gg.Point
	to     gg.Point
}

// sidePath is an open sub-path from start through steps.
type sidePath struct {
	start gg.Point
	steps []step
}

func (sp sidePath) draw(p Pen) {
	for _, st := range sp.steps {
		if st.cubic {
			p.CubicTo(st.c1.X, st.c1.Y, st.c2.X, st.c2.Y, st.to.X, st.to.Y)
		} else {
			p.LineTo(st.to.X, st.to.Y)
		}
	}
}

// side draws one side from start to end. normal points out of the piece;
// a knob follows it and a socket goes against it.
func side(start, end, normal gg.Point, o grid.Orientation, depth float64) sidePath {
	sp := sidePath{start: start}
	line := func(pt gg.Point) {
		sp.steps = append(sp.steps, step{to: pt})
	}

	if o == grid.Flat {
		line(end)
		return sp
	}
	if o == grid.TabIn {
		normal = normal.Mul(-1)
	}

	dir := end.Sub(start)
	at := func(t, d float64) gg.Point {
		return start.Add(dir.Mul(t)).Add(normal.Mul(d * depth))
	}
	cubic := func(c1, c2, pt gg.Point) {
		sp.steps = append(sp.steps, step{cubic: true, c1: c1, c2: c2, to: pt})
	}

	line(at(neckStart, 0))
	cubic(at(neckStart+neckWidth, 0), at(neckStart+neckWidth, neckDepth), at(shoulderStart, shoulderDepth))
	cubic(at(crown, 1), at(1-crown, 1), at(shoulderEnd, shoulderDepth))
	cubic(at(neckEnd-neckWidth, neckDepth), at(neckEnd-neckWidth, 0), at(neckEnd, 0))
	line(end)

	return sp
}
