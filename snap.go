package jigsaw

import (
	"fmt"
	"math"
)

// Snap tolerances relative to the cell width. Every comparison is strict.
const (
	neighborTolerance  = 0.25
	edgeTolerance      = 0.3
	placementTolerance = 0.15
)

// Outcome describes what a drop did.
type Outcome struct {
	// Leader is the piece that was dragged.
	Leader int

	// Reverted is set when the drop was outside the board and nothing
	// moved.
	Reverted bool

	// Merged lists pieces that joined the leader's group, in the order
	// their groups were absorbed.
	Merged []int

	// Snapped lists the board edges the group was aligned to.
	Snapped []Side

	// Placed lists pieces that reached their solved position.
	Placed []int

	// Completed is set when this drop placed the last piece.
	Completed bool
}

// Drop puts the group of piece leader on the board with the leader's cell
// origin near (x, y), in board coordinates, and resolves snapping:
//
//  1. the leader is rounded to the grid and the group is clamped onto the
//     board;
//  2. adjacent board pieces whose offset to the leader is within a quarter
//     cell of the solved offset join the group and are aligned exactly;
//  3. a leader on an outer row or column is pulled onto a board edge
//     within 0.3 cells;
//  4. pieces within 0.15 cells of their solved position are locked there.
//
// Placed pieces never move. A group that contains a placed piece does not
// move either; if the leader's group is already placed Drop does nothing.
func (s *Session) Drop(leader int, x, y float64) (Outcome, error) {
	if s.closed {
		return Outcome{}, ErrNoSession
	}
	if leader < 0 || leader >= len(s.pieces) {
		return Outcome{}, fmt.Errorf("%w: %d", ErrPieceIndex, leader)
	}

	out := Outcome{Leader: leader}
	if s.pinned(leader) {
		return out, nil
	}

	s.gridSnap(leader, x, y)
	out.Merged = s.neighborSnap(leader)
	if !s.pinned(leader) {
		out.Snapped = s.edgeSnap(leader)
	}
	out.Placed = s.placeGroup(leader)
	out.Completed = s.done.observe(s.placed, len(s.pieces))

	return out, nil
}

// gridSnap rounds the leader to the grid, clamps the group to the board
// and moves every member there.
func (s *Session) gridSnap(leader int, x, y float64) {
	lp := s.pieces[leader]
	members := s.members(leader)

	minCol, maxCol, minRow, maxRow := lp.Col, lp.Col, lp.Row, lp.Row
	for _, p := range members {
		minCol, maxCol = min(minCol, p.Col), max(maxCol, p.Col)
		minRow, maxRow = min(minRow, p.Row), max(maxRow, p.Row)
	}

	gx := math.Round(x/s.cellW) * s.cellW
	gy := math.Round(y/s.cellH) * s.cellH
	gx = clamp(gx, float64(lp.Col-minCol)*s.cellW, float64(s.cols-1-maxCol+lp.Col)*s.cellW)
	gy = clamp(gy, float64(lp.Row-minRow)*s.cellH, float64(s.rows-1-maxRow+lp.Row)*s.cellH)

	for _, p := range members {
		p.rest(OnBoard,
			gx+float64(p.Col-lp.Col)*s.cellW,
			gy+float64(p.Row-lp.Row)*s.cellH)
	}
}

// neighborSnap merges grid neighbors of the leader that lie close to
// their solved offset. It returns the absorbed pieces.
func (s *Session) neighborSnap(leader int) []int {
	lp := s.pieces[leader]
	tol := neighborTolerance * s.cellW

	var merged []int
	for _, o := range s.pieces {
		if o.container != OnBoard || s.groups.Same(leader, o.Index) {
			continue
		}
		dc, dr := o.Col-lp.Col, o.Row-lp.Row
		if abs(dc)+abs(dr) != 1 {
			continue
		}

		ex := lp.x + float64(dc)*s.cellW
		ey := lp.y + float64(dr)*s.cellH
		if !nearly(o.x, ex, tol) || !nearly(o.y, ey, tol) {
			continue
		}

		absorbed := s.groups.Members(s.groups.Find(o.Index))
		switch {
		case !s.pinned(o.Index):
			s.shiftGroup(o.Index, ex-o.x, ey-o.y)
		case !s.pinned(leader):
			s.shiftGroup(leader, o.x-ex, o.y-ey)
		}
		s.groups.Merge(leader, o.Index)
		merged = append(merged, absorbed...)

		Logger().Debug("jigsaw: groups merged",
			"leader", leader, "neighbor", o.Index, "size", s.groups.Size(s.groups.Find(leader)))
	}
	return merged
}

// edgeSnap aligns a leader on the outer ring of the grid with the board
// edges it is close to. It returns the sides it snapped to.
func (s *Session) edgeSnap(leader int) []Side {
	lp := s.pieces[leader]
	tol := edgeTolerance * s.cellW
	right := s.board.Width() - s.cellW
	bottom := s.board.Height() - s.cellH

	var (
		sides  []Side
		dx, dy float64
	)
	if lp.Col == 0 && nearly(lp.x, 0, tol) {
		dx = -lp.x
		sides = append(sides, Left)
	}
	if lp.Row == 0 && nearly(lp.y, 0, tol) {
		dy = -lp.y
		sides = append(sides, Top)
	}
	if lp.Col == s.cols-1 && nearly(lp.x, right, tol) {
		dx = right - lp.x
		sides = append(sides, Right)
	}
	if lp.Row == s.rows-1 && nearly(lp.y, bottom, tol) {
		dy = bottom - lp.y
		sides = append(sides, Bottom)
	}

	if dx != 0 || dy != 0 {
		s.shiftGroup(leader, dx, dy)
	}
	if len(sides) > 0 {
		Logger().Debug("jigsaw: edge snap", "leader", leader, "sides", sides)
	}
	return sides
}

// placeGroup locks every member of the leader's group that lies close to
// its solved position. It returns the newly placed pieces.
func (s *Session) placeGroup(leader int) []int {
	tol := placementTolerance * s.cellW

	var placed []int
	for _, p := range s.members(leader) {
		if p.placed || p.container != OnBoard {
			continue
		}
		if !nearly(p.x, p.CorrectX, tol) || !nearly(p.y, p.CorrectY, tol) {
			continue
		}
		p.x, p.y = p.CorrectX, p.CorrectY
		p.placed = true
		s.placed++
		placed = append(placed, p.Index)
	}
	if len(placed) > 0 {
		Logger().Debug("jigsaw: pieces placed", "count", len(placed), "placed", s.placed, "total", len(s.pieces))
	}
	return placed
}

// shiftGroup moves every member of piece i's group by (dx, dy).
func (s *Session) shiftGroup(i int, dx, dy float64) {
	for _, p := range s.members(i) {
		p.shift(dx, dy)
	}
}

// pinned reports whether piece i's group holds a placed piece.
func (s *Session) pinned(i int) bool {
	for _, p := range s.members(i) {
		if p.placed {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
