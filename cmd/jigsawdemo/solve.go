package main

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/jigsaw"
)

// solve assembles the puzzle by dragging each unplaced piece from the
// point under its cell centre to its solved position, as a player would.
// step is called after every drop.
func solve(s *jigsaw.Session, step func(jigsaw.Outcome)) error {
	d := jigsaw.NewDispatcher(s)
	cw, ch := s.CellSize()
	board := s.Board()

	for i := range s.Total() {
		p, err := s.Piece(i)
		if err != nil {
			return err
		}
		if p.Placed() {
			continue
		}

		box, err := s.Box(i)
		if err != nil {
			return err
		}
		grab := box.Min.Add(gg.Pt(p.Offset.Left+cw/2, p.Offset.Top+ch/2))
		if !d.Press(grab) {
			return fmt.Errorf("solve: piece %d not grabbable at (%.1f,%.1f)", i, grab.X, grab.Y)
		}
		if hit, _ := d.Active(); hit != i {
			d.Cancel()
			return fmt.Errorf("solve: grabbed piece %d instead of %d", hit, i)
		}

		target := board.Min.Add(gg.Pt(p.CorrectX+cw/2, p.CorrectY+ch/2))
		d.Move(grab.Add(target.Sub(grab).Mul(0.5)))
		out, _ := d.Release(target)
		if out.Reverted {
			return fmt.Errorf("solve: drop of piece %d reverted", i)
		}
		if step != nil {
			step(out)
		}
	}

	if !s.Complete() {
		placed, total := s.Progress()
		return fmt.Errorf("solve: %d of %d pieces placed", placed, total)
	}
	return nil
}
