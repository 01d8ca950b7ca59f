package jigsaw

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/gogpu/jigsaw/internal/contour"
	"github.com/gogpu/jigsaw/internal/grid"
)

// Orientation is the shape of one piece edge.
type Orientation = grid.Orientation

// Edge orientations.
const (
	Flat   = grid.Flat
	TabOut = grid.TabOut
	TabIn  = grid.TabIn
)

// Side names one of the four sides of a piece.
type Side = grid.Side

// Piece sides, clockwise from the top.
const (
	Top    = grid.Top
	Right  = grid.Right
	Bottom = grid.Bottom
	Left   = grid.Left
)

// Edges holds the orientation of each side of a piece, indexed by Side.
type Edges = grid.Edges

// Offset is the distance from the top-left corner of a piece image to its
// grid cell, in board units.
type Offset = contour.Offset

// Contour is the outline of a piece in its image frame, in board units.
// It hit-tests points and replays the outline through a Pen.
type Contour = contour.Contour

// Pen receives the drawing commands of a Contour. *gg.Context satisfies
// it, so an outline can be stroked or filled directly:
//
//	p.Contour().Trace(dc)
//	_ = dc.Stroke()
type Pen = contour.Pen

// Container identifies the area a piece currently lies in.
type Container int

const (
	// InTray means the piece has not been dropped on the board yet.
	InTray Container = iota
	// OnBoard means the piece lies on the board.
	OnBoard
)

// String returns the container name.
func (c Container) String() string {
	switch c {
	case InTray:
		return "tray"
	case OnBoard:
		return "board"
	default:
		return "unknown"
	}
}

// State is the interaction state of a piece.
type State int

const (
	// Idle pieces rest at their container position.
	Idle State = iota
	// Dragging pieces follow the pointer.
	Dragging
)

// String returns the state name.
func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Piece is one jigsaw piece.
//
// The exported fields are fixed when the session is created. Position,
// placement and stacking change through the session and are read through
// methods. Positions refer to the piece's grid cell origin, not to the
// corner of its image: the image is drawn at the cell origin minus Offset.
type Piece struct {
	// Index is the piece's position in Session.Pieces, row-major.
	Index int

	// Col and Row locate the piece in the solved grid.
	Col, Row int

	// CorrectX and CorrectY are the board coordinates of the cell origin
	// in the solved puzzle.
	CorrectX, CorrectY float64

	// Edges are the orientations of the four sides.
	Edges Edges

	// Offset locates the grid cell inside Image.
	Offset Offset

	// Image is the rasterized piece, transparent outside the outline.
	Image *image.RGBA

	// Scale is the number of Image pixels per board unit.
	Scale float64

	// Width and Height are the size of Image in board units.
	Width, Height float64

	outline   *contour.Contour
	x, y      float64
	dragX     float64
	dragY     float64
	container Container
	placed    bool
	z         int
	state     State
}

// Pos returns the cell origin relative to the piece's container.
func (p *Piece) Pos() (x, y float64) { return p.x, p.y }

// Container returns the area the piece lies in.
func (p *Piece) Container() Container { return p.container }

// Placed reports whether the piece is locked at its solved position.
// Once true it never becomes false again.
func (p *Piece) Placed() bool { return p.placed }

// Z returns the stacking order; higher values are drawn on top.
func (p *Piece) Z() int { return p.z }

// State returns whether the piece is being dragged.
func (p *Piece) State() State { return p.state }

// Contour returns the outline of the piece in its image frame, in board
// units.
func (p *Piece) Contour() *Contour { return p.outline }

// DragOffset returns the display-only displacement applied while the
// piece is being dragged.
func (p *Piece) DragOffset() (dx, dy float64) { return p.dragX, p.dragY }

// rest moves the piece to a container position and ends any drag.
func (p *Piece) rest(c Container, x, y float64) {
	p.container = c
	p.x, p.y = x, y
	p.dragX, p.dragY = 0, 0
	p.state = Idle
}

// shift moves the piece within its container.
func (p *Piece) shift(dx, dy float64) {
	p.x += dx
	p.y += dy
}

// box returns the image rectangle given the screen origin of the piece's
// container, including any drag offset.
func (p *Piece) box(origin gg.Point) gg.Rect {
	tl := gg.Pt(
		origin.X+p.x+p.dragX-p.Offset.Left,
		origin.Y+p.y+p.dragY-p.Offset.Top,
	)
	return gg.Rect{Min: tl, Max: gg.Pt(tl.X+p.Width, tl.Y+p.Height)}
}
