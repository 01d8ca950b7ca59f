package jigsaw

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// In a 2x2 puzzle on a 200 unit board the pieces are
//
//	0 (0,0)  1 (1,0)
//	2 (0,1)  3 (1,1)
//
// with 100 unit cells.

func TestDropMergesNeighbors(t *testing.T) {
	s := newSession(t, 200, 200, 4)

	out := mustDrop(t, s, 0, 100, 0)
	want := Outcome{Leader: 0, Snapped: []Side{Top}}
	if diff := cmp.Diff(want, out, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("first drop (-want +got):\n%s", diff)
	}

	// Piece 2 belongs right below piece 0, which now sits in column 1.
	out = mustDrop(t, s, 2, 100, 100)
	want = Outcome{Leader: 2, Merged: []int{0}, Snapped: []Side{Bottom}}
	if diff := cmp.Diff(want, out, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("second drop (-want +got):\n%s", diff)
	}

	g, _ := s.Group(0)
	if diff := cmp.Diff([]int{0, 2}, g); diff != "" {
		t.Errorf("Group(0) (-want +got):\n%s", diff)
	}
	if placed, _ := s.Progress(); placed != 0 {
		t.Errorf("placed = %d, want 0", placed)
	}
	for _, i := range []int{0, 2} {
		p, _ := s.Piece(i)
		if p.Placed() {
			t.Errorf("piece %d placed away from its solved position", i)
		}
	}
}

func TestDropMovesGroupRigidly(t *testing.T) {
	s := newSession(t, 200, 200, 4)
	mustDrop(t, s, 0, 100, 0)
	mustDrop(t, s, 2, 100, 100)

	// Dragging piece 2 to its own cell carries piece 0 along.
	out := mustDrop(t, s, 2, 4, 97)
	if diff := cmp.Diff([]int{0, 2}, out.Placed); diff != "" {
		t.Errorf("Placed (-want +got):\n%s", diff)
	}
	for _, i := range []int{0, 2} {
		p, _ := s.Piece(i)
		x, y := p.Pos()
		if x != p.CorrectX || y != p.CorrectY || !p.Placed() {
			t.Errorf("piece %d at (%v,%v) placed=%v, want solved", i, x, y, p.Placed())
		}
	}
}

func TestDropClampsGroupToBoard(t *testing.T) {
	s := newSession(t, 200, 200, 4)
	mustDrop(t, s, 0, 0, 100)
	out := mustDrop(t, s, 1, 100, 100)
	if diff := cmp.Diff([]int{0}, out.Merged); diff != "" {
		t.Fatalf("Merged (-want +got):\n%s", diff)
	}

	// The group is two cells wide, so the leader cannot leave column 0.
	mustDrop(t, s, 0, 160, 130)
	for _, tc := range []struct {
		i    int
		x, y float64
	}{
		{0, 0, 100},
		{1, 100, 100},
	} {
		p, _ := s.Piece(tc.i)
		if x, y := p.Pos(); x != tc.x || y != tc.y {
			t.Errorf("piece %d at (%v,%v), want (%v,%v)", tc.i, x, y, tc.x, tc.y)
		}
		if p.Container() != OnBoard {
			t.Errorf("piece %d in %v", tc.i, p.Container())
		}
	}
}

func TestDropCompletesOnce(t *testing.T) {
	var got []Completion
	s := newSession(t, 200, 200, 4, WithOnComplete(func(c Completion) {
		got = append(got, c)
	}))

	steps := []struct {
		piece int
		want  Outcome
	}{
		{0, Outcome{Leader: 0, Snapped: []Side{Left, Top}, Placed: []int{0}}},
		{1, Outcome{Leader: 1, Merged: []int{0}, Placed: []int{1}}},
		{2, Outcome{Leader: 2, Merged: []int{0, 1}, Placed: []int{2}}},
		{3, Outcome{Leader: 3, Merged: []int{0, 1, 2}, Placed: []int{3}, Completed: true}},
	}
	for _, step := range steps {
		p, _ := s.Piece(step.piece)
		out := mustDrop(t, s, step.piece, p.CorrectX, p.CorrectY)
		if diff := cmp.Diff(step.want, out, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("drop %d (-want +got):\n%s", step.piece, diff)
		}
	}

	if placed, total := s.Progress(); placed != 4 || total != 4 || !s.Complete() {
		t.Errorf("Progress() = %d/%d, want 4/4", placed, total)
	}

	// Placed pieces are pinned; dropping them again changes nothing.
	out := mustDrop(t, s, 3, 0, 0)
	if out.Completed || len(out.Placed) != 0 {
		t.Errorf("drop on solved puzzle = %+v", out)
	}

	want := []Completion{{Placed: 4, Total: 4, Delay: CompletionDelay}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("completions (-want +got):\n%s", diff)
	}
}

func TestPlacedIsMonotone(t *testing.T) {
	s := newSession(t, 300, 300, 9, WithBoardWidth(300))
	mustDrop(t, s, 4, 100, 100)

	p, _ := s.Piece(4)
	if !p.Placed() {
		t.Fatal("center piece not placed at its solved position")
	}

	// Drop every other piece everywhere; piece 4 must stay locked.
	for i := range s.Total() {
		for _, pos := range [][2]float64{{0, 0}, {100, 100}, {200, 200}, {37, 161}} {
			mustDrop(t, s, i, pos[0], pos[1])
			if !p.Placed() {
				t.Fatalf("piece 4 lost its placement after dropping %d", i)
			}
			if x, y := p.Pos(); x != 100 || y != 100 {
				t.Fatalf("placed piece 4 moved to (%v,%v)", x, y)
			}
		}
	}

	placed, _ := s.Progress()
	n := 0
	for _, q := range s.Pieces() {
		if q.Placed() {
			n++
		}
	}
	if placed != n {
		t.Errorf("counter %d, but %d pieces placed", placed, n)
	}
}

func TestDropRejoinsPlacedGroup(t *testing.T) {
	s := newSession(t, 200, 200, 4)
	mustDrop(t, s, 0, 0, 0)

	// Piece 1 lands in the wrong row next to nothing, then in its own cell
	// where it meets the placed piece 0.
	mustDrop(t, s, 1, 100, 100)
	out := mustDrop(t, s, 1, 100, 0)
	if diff := cmp.Diff([]int{0}, out.Merged); diff != "" {
		t.Errorf("Merged (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, out.Placed); diff != "" {
		t.Errorf("Placed (-want +got):\n%s", diff)
	}
	p0, _ := s.Piece(0)
	if x, y := p0.Pos(); x != 0 || y != 0 {
		t.Errorf("placed piece 0 moved to (%v,%v)", x, y)
	}
}

func TestEdgeSnapPullsGroupOntoEdge(t *testing.T) {
	s := newSession(t, 300, 300, 9, WithBoardWidth(300))
	mustDrop(t, s, 3, 100, 0) // column 0, row 1, dropped at the wrong cell
	mustDrop(t, s, 4, 200, 0)

	// Push the group off the grid by hand.
	s.shiftGroup(3, -88, 9)
	p3, _ := s.Piece(3)
	p4, _ := s.Piece(4)

	sides := s.edgeSnap(3)
	if diff := cmp.Diff([]Side{Left}, sides); diff != "" {
		t.Errorf("edgeSnap() (-want +got):\n%s", diff)
	}
	if x, _ := p3.Pos(); x != 0 {
		t.Errorf("leader x = %v, want 0", x)
	}
	x3, y3 := p3.Pos()
	x4, y4 := p4.Pos()
	if x4-x3 != 100 || y4 != y3 {
		t.Errorf("group lost its shape: (%v,%v) and (%v,%v)", x3, y3, x4, y4)
	}
}
