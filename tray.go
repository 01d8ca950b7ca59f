package jigsaw

import (
	"math"
	"slices"
)

// Tray layout constants, in board units.
const (
	trayPadding = 15
	trayGap     = 8
	trayMargin  = 20
)

// Shuffle returns a uniformly shuffled copy of order using Fisher-Yates.
// The input is not modified.
func Shuffle(order []int, rng Rand) []int {
	out := slices.Clone(order)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// trayLayout places pieces in rows of equal square slots large enough for
// a piece with tabs on every side.
type trayLayout struct {
	slot   float64
	perRow int
}

func newTrayLayout(width, cellW, tabSize float64) trayLayout {
	slot := cellW + 2*tabSize
	perRow := int(math.Floor((width + trayGap) / (slot + trayGap)))
	return trayLayout{slot: slot, perRow: max(1, perRow)}
}

// cell returns the tray position of the image corner for the i-th slot.
func (l trayLayout) cell(i int) (x, y float64) {
	col, row := i%l.perRow, i/l.perRow
	return trayPadding + float64(col)*(l.slot+trayGap),
		trayPadding + float64(row)*(l.slot+trayGap)
}

// size returns the tray size needed for n pieces.
func (l trayLayout) size(n int) (w, h float64) {
	rows := max(1, (n+l.perRow-1)/l.perRow)
	cols := min(max(n, 1), l.perRow)
	w = 2*trayPadding + float64(cols)*l.slot + float64(cols-1)*trayGap
	h = 2*trayPadding + float64(rows)*l.slot + float64(rows-1)*trayGap
	return w, h
}

// layoutTray moves the pieces into the tray in the given order.
func (s *Session) layoutTray(order []int) {
	for slot, idx := range order {
		p := s.pieces[idx]
		x, y := s.trayLayout.cell(slot)
		p.rest(InTray, x+p.Offset.Left, y+p.Offset.Top)
	}
}
