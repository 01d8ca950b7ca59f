package jigsaw

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/gogpu/gg"

	"github.com/gogpu/jigsaw/internal/contour"
	"github.com/gogpu/jigsaw/internal/grid"
	"github.com/gogpu/jigsaw/internal/group"
	"github.com/gogpu/jigsaw/internal/rasterize"
)

// Session is one puzzle in progress: the pieces cut from an image, the
// board they are assembled on and the tray they start in.
//
// The board sits at the origin of a shared screen space, the tray to its
// right. All coordinates are in board units.
//
// Session is not safe for concurrent use. It is meant to be driven from a
// single event loop, usually through a Dispatcher.
type Session struct {
	cols, rows   int
	cellW, cellH float64
	tabSize      float64

	board      gg.Rect
	tray       gg.Rect
	trayLayout trayLayout

	pieces []*Piece
	groups *group.Partition
	placed int
	zTop   int

	done   completionTracker
	closed bool
}

// New cuts img into about n pieces and lays them out shuffled in the tray.
//
// The grid is chosen so that pieces are close to square; the actual piece
// count is Session.Total and never exceeds n. Pieces are rasterized in
// parallel before New returns.
func New(img image.Image, n int, opts ...Option) (*Session, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrNoSurface
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	aspect := float64(b.Dx()) / float64(b.Dy())
	plan := grid.NewPlan(aspect, n)

	boardW := o.boardWidth
	boardH := boardW / aspect
	s := &Session{
		cols:    plan.Cols,
		rows:    plan.Rows,
		cellW:   boardW / float64(plan.Cols),
		cellH:   boardH / float64(plan.Rows),
		board:   gg.Rect{Max: gg.Pt(boardW, boardH)},
		groups:  group.New(plan.Pieces),
		done:    completionTracker{notify: o.onComplete},
		pieces:  make([]*Piece, plan.Pieces),
		tabSize: boardW / float64(plan.Cols) * contour.TabRatio,
	}
	Logger().Debug("jigsaw: grid plan",
		"requested", n, "cols", plan.Cols, "rows", plan.Rows, "pieces", plan.Pieces)

	pattern := grid.NewPattern(s.rows, s.cols, o.rng)
	jobs := make([]rasterize.Job, plan.Pieces)
	for row := range s.rows {
		for col := range s.cols {
			i := row*s.cols + col
			edges := pattern.Edges(row, col)
			c := contour.New(edges, s.cellW, s.cellH)
			off := c.Offset()
			cx, cy := float64(col)*s.cellW, float64(row)*s.cellH

			s.pieces[i] = &Piece{
				Index:    i,
				Col:      col,
				Row:      row,
				CorrectX: cx,
				CorrectY: cy,
				Edges:    edges,
				Offset:   off,
				outline:  c,
			}
			jobs[i] = rasterize.Job{
				Contour:       c,
				Origin:        gg.Pt(cx-off.Left, cy-off.Top),
				PixelsPerUnit: float64(b.Dx()) / boardW,
				Oversample:    o.oversample,
				Shadow:        o.shadow,
			}
		}
	}

	results, err := rasterize.Pieces(context.Background(), img, jobs, o.workers)
	if err != nil {
		if errors.Is(err, rasterize.ErrNoSurface) {
			return nil, fmt.Errorf("%w: %w", ErrNoSurface, err)
		}
		return nil, fmt.Errorf("jigsaw: rasterize: %w", err)
	}
	for i, res := range results {
		p := s.pieces[i]
		p.Image = res.Image
		p.Scale = res.Scale
		p.Width, p.Height = res.Width, res.Height
	}

	s.trayLayout = newTrayLayout(o.trayWidth, s.cellW, s.tabSize)
	tw, th := s.trayLayout.size(plan.Pieces)
	tw = max(tw, o.trayWidth+2*trayPadding)
	s.tray = gg.Rect{
		Min: gg.Pt(boardW+trayMargin, 0),
		Max: gg.Pt(boardW+trayMargin+tw, th),
	}

	identity := make([]int, plan.Pieces)
	for i := range identity {
		identity[i] = i
	}
	s.layoutTray(Shuffle(identity, o.rng))

	Logger().Info("jigsaw: session started", "pieces", plan.Pieces, "board", fmt.Sprintf("%.0fx%.0f", boardW, boardH))
	return s, nil
}

// Cols returns the number of grid columns.
func (s *Session) Cols() int { return s.cols }

// Rows returns the number of grid rows.
func (s *Session) Rows() int { return s.rows }

// Total returns the number of pieces.
func (s *Session) Total() int { return len(s.pieces) }

// Progress returns the number of placed pieces and the total.
func (s *Session) Progress() (placed, total int) { return s.placed, len(s.pieces) }

// Complete reports whether every piece is placed.
func (s *Session) Complete() bool { return s.placed == len(s.pieces) }

// CellSize returns the size of one grid cell.
func (s *Session) CellSize() (w, h float64) { return s.cellW, s.cellH }

// TabSize returns the tab allowance around each cell.
func (s *Session) TabSize() float64 { return s.tabSize }

// Board returns the board rectangle in screen space.
func (s *Session) Board() gg.Rect { return s.board }

// Tray returns the tray rectangle in screen space.
func (s *Session) Tray() gg.Rect { return s.tray }

// Pieces returns the pieces in row-major grid order.
func (s *Session) Pieces() []*Piece { return slices.Clone(s.pieces) }

// Piece returns the piece with the given index.
func (s *Session) Piece(i int) (*Piece, error) {
	if i < 0 || i >= len(s.pieces) {
		return nil, fmt.Errorf("%w: %d", ErrPieceIndex, i)
	}
	return s.pieces[i], nil
}

// Group returns the indices of the pieces moving together with piece i,
// in ascending order.
func (s *Session) Group(i int) ([]int, error) {
	if i < 0 || i >= len(s.pieces) {
		return nil, fmt.Errorf("%w: %d", ErrPieceIndex, i)
	}
	return s.groups.Members(s.groups.Find(i)), nil
}

// Groups returns every group as a sorted list of piece indices.
func (s *Session) Groups() [][]int { return s.groups.Groups() }

// Box returns the screen rectangle of piece i's image, including any drag
// offset.
func (s *Session) Box(i int) (gg.Rect, error) {
	p, err := s.Piece(i)
	if err != nil {
		return gg.Rect{}, err
	}
	return p.box(s.origin(p.container)), nil
}

// DrawOrder returns piece indices from bottom to top.
func (s *Session) DrawOrder() []int {
	order := make([]int, len(s.pieces))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return s.pieces[a].z - s.pieces[b].z
	})
	return order
}

// PieceAt returns the topmost piece whose outline contains the screen
// point pt.
func (s *Session) PieceAt(pt gg.Point) (int, bool) {
	order := s.DrawOrder()
	for k := len(order) - 1; k >= 0; k-- {
		p := s.pieces[order[k]]
		box := p.box(s.origin(p.container))
		if pt.X < box.Min.X || pt.X > box.Max.X || pt.Y < box.Min.Y || pt.Y > box.Max.Y {
			continue
		}
		if p.outline.Contains(pt.Sub(box.Min)) {
			return p.Index, true
		}
	}
	return 0, false
}

// Close releases the piece images. Further drops fail with ErrNoSession.
// Close is safe to call multiple times.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, p := range s.pieces {
		p.Image = nil
	}
	Logger().Info("jigsaw: session closed", "placed", s.placed, "pieces", len(s.pieces))
	return nil
}

// origin returns the screen position of a container's coordinate origin.
func (s *Session) origin(c Container) gg.Point {
	if c == InTray {
		return s.tray.Min
	}
	return s.board.Min
}

// members returns the pieces in the group of piece i.
func (s *Session) members(i int) []*Piece {
	idx := s.groups.Members(s.groups.Find(i))
	out := make([]*Piece, len(idx))
	for k, j := range idx {
		out[k] = s.pieces[j]
	}
	return out
}

// raise puts the group of piece i on top of every other piece.
func (s *Session) raise(i int) {
	s.zTop++
	for _, p := range s.members(i) {
		p.z = s.zTop
	}
}

// onBoard reports whether a screen point lies on the board, edges included.
func (s *Session) onBoard(pt gg.Point) bool {
	b := s.board
	return pt.X >= b.Min.X && pt.X <= b.Max.X && pt.Y >= b.Min.Y && pt.Y <= b.Max.Y
}

func nearly(a, b, tol float64) bool { return math.Abs(a-b) < tol }
