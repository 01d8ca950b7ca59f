// Package contour builds the closed outline of a jigsaw piece from the
// orientation of its four edges.
//
// A contour lives in a local frame whose origin is the top-left corner of
// the piece's allowance box: the grid cell grown by one tab size on every
// side that carries a knob or a socket. Boundary sides get no allowance, so
// the cell of a corner piece starts at the origin.
package contour

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/jigsaw/internal/grid"
)

// TabRatio is the tab allowance relative to the cell width.
const TabRatio = 0.2

// DepthRatio is how far a knob reaches relative to the tab allowance.
const DepthRatio = 0.95

// Offset is the distance from the allowance box origin to the grid cell
// origin.
type Offset struct {
	Left float64
	Top  float64
}

// Pen receives the drawing commands of an outline. *gg.Context satisfies
// it.
type Pen interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
}

// Contour is the outline of a single piece.
//
// Contour is immutable once built and safe to share between goroutines.
type Contour struct {
	edges   grid.Edges
	cellW   float64
	cellH   float64
	tabSize float64
	extra   [4]float64
	sides   [4]sidePath
	path    *gg.Path
}

// New builds the contour of a piece with the given edges and cell size.
func New(edges grid.Edges, cellW, cellH float64) *Contour {
	c := &Contour{
		edges:   edges,
		cellW:   cellW,
		cellH:   cellH,
		tabSize: cellW * TabRatio,
	}
	for _, s := range grid.Sides {
		if edges[s] != grid.Flat {
			c.extra[s] = c.tabSize
		}
	}

	x0, y0 := c.extra[grid.Left], c.extra[grid.Top]
	x1, y1 := x0+cellW, y0+cellH
	depth := c.tabSize * DepthRatio

	c.sides[grid.Top] = side(gg.Pt(x0, y0), gg.Pt(x1, y0), gg.Pt(0, -1), edges[grid.Top], depth)
	c.sides[grid.Right] = side(gg.Pt(x1, y0), gg.Pt(x1, y1), gg.Pt(1, 0), edges[grid.Right], depth)
	c.sides[grid.Bottom] = side(gg.Pt(x1, y1), gg.Pt(x0, y1), gg.Pt(0, 1), edges[grid.Bottom], depth)
	c.sides[grid.Left] = side(gg.Pt(x0, y1), gg.Pt(x0, y0), gg.Pt(-1, 0), edges[grid.Left], depth)

	c.path = gg.NewPath()
	c.Trace(pathPen{c.path})

	return c
}

// Edges returns the edge orientations the contour was built from.
func (c *Contour) Edges() grid.Edges { return c.edges }

// TabSize returns the tab allowance added to each non-boundary side.
func (c *Contour) TabSize() float64 { return c.tabSize }

// Offset returns the position of the grid cell inside the allowance box.
func (c *Contour) Offset() Offset {
	return Offset{Left: c.extra[grid.Left], Top: c.extra[grid.Top]}
}

// Size returns the width and height of the allowance box.
func (c *Contour) Size() (w, h float64) {
	w = c.extra[grid.Left] + c.cellW + c.extra[grid.Right]
	h = c.extra[grid.Top] + c.cellH + c.extra[grid.Bottom]
	return w, h
}

// Cell returns the grid cell in local coordinates.
func (c *Contour) Cell() gg.Rect {
	x0, y0 := c.extra[grid.Left], c.extra[grid.Top]
	return gg.Rect{
		Min: gg.Pt(x0, y0),
		Max: gg.Pt(x0+c.cellW, y0+c.cellH),
	}
}

// Trace draws the closed outline with p, clockwise from the top-left
// corner of the cell.
func (c *Contour) Trace(p Pen) {
	top := c.sides[grid.Top]
	p.MoveTo(top.start.X, top.start.Y)
	for _, s := range grid.Sides {
		c.sides[s].draw(p)
	}
	p.ClosePath()
}

// TraceSide draws the open sub-path of one side with p. Sides run
// clockwise, so the top side goes left to right and the bottom side right
// to left.
func (c *Contour) TraceSide(s grid.Side, p Pen) {
	sp := c.sides[s]
	p.MoveTo(sp.start.X, sp.start.Y)
	sp.draw(p)
}

// Bounds returns the tight bounding box of the outline. It always lies
// within the allowance box.
func (c *Contour) Bounds() gg.Rect { return c.path.BoundingBox() }

// Contains reports whether a local point lies inside the outline.
func (c *Contour) Contains(pt gg.Point) bool { return c.path.Contains(pt) }

// pathPen records drawing commands into a gg path.
type pathPen struct{ *gg.Path }

func (p pathPen) ClosePath() { p.Close() }
