package jigsaw

import "github.com/gogpu/gg"

// Dispatcher routes pointer events to pieces. It owns the single active
// drag: while one is in progress further presses are ignored, matching an
// input device that reports one drag stream at a time.
//
// A typical event loop forwards press, move and release events in screen
// coordinates:
//
//	d := jigsaw.NewDispatcher(s)
//	if d.Press(pt) { ... }
//	d.Move(pt)
//	if out, ok := d.Release(pt); ok && out.Completed { ... }
//
// Dispatcher is not safe for concurrent use.
type Dispatcher struct {
	s       *Session
	active  bool
	leader  int
	members []*Piece
	start   gg.Point
}

// NewDispatcher returns a dispatcher for s.
func NewDispatcher(s *Session) *Dispatcher {
	return &Dispatcher{s: s}
}

// Press starts dragging the topmost piece under pt together with its
// group. It returns false when a drag is already active, nothing is hit,
// the hit piece is placed, or the session is closed.
func (d *Dispatcher) Press(pt gg.Point) bool {
	if d.active || d.s.closed {
		return false
	}
	i, ok := d.s.PieceAt(pt)
	if !ok || d.s.pinned(i) {
		return false
	}

	d.active = true
	d.leader = i
	d.members = d.s.members(i)
	d.start = pt

	d.s.raise(i)
	for _, p := range d.members {
		p.state = Dragging
		p.dragX, p.dragY = 0, 0
	}
	return true
}

// Move drags the active group so that it keeps its grab offset to pt.
// It does nothing when no drag is active.
func (d *Dispatcher) Move(pt gg.Point) {
	if !d.active {
		return
	}
	delta := pt.Sub(d.start)
	for _, p := range d.members {
		p.dragX, p.dragY = delta.X, delta.Y
	}
}

// Release ends the active drag at pt. A release outside the board puts the
// group back where it was and reports a reverted outcome. A release on the
// board drops the group there. The second result is false when no drag
// was active.
func (d *Dispatcher) Release(pt gg.Point) (Outcome, bool) {
	if !d.active {
		return Outcome{}, false
	}
	d.Move(pt)
	leader := d.s.pieces[d.leader]

	if !d.s.onBoard(pt) {
		d.Cancel()
		return Outcome{Leader: leader.Index, Reverted: true}, true
	}

	// The leader's dragged cell origin, relative to the board.
	origin := d.s.origin(leader.container)
	x := origin.X + leader.x + leader.dragX - d.s.board.Min.X
	y := origin.Y + leader.y + leader.dragY - d.s.board.Min.Y
	members := d.members
	d.end()

	out, err := d.s.Drop(leader.Index, x, y)
	if err != nil {
		Logger().Warn("jigsaw: drop failed", "piece", leader.Index, "err", err)
		for _, p := range members {
			p.dragX, p.dragY = 0, 0
		}
		return Outcome{Leader: leader.Index, Reverted: true}, true
	}
	return out, true
}

// Cancel abandons the active drag and returns the group to its position.
func (d *Dispatcher) Cancel() {
	if !d.active {
		return
	}
	for _, p := range d.members {
		p.dragX, p.dragY = 0, 0
	}
	d.end()
}

// Active returns the piece being dragged, if any.
func (d *Dispatcher) Active() (int, bool) {
	if !d.active {
		return 0, false
	}
	return d.leader, true
}

func (d *Dispatcher) end() {
	for _, p := range d.members {
		p.state = Idle
	}
	d.active = false
	d.members = nil
}
