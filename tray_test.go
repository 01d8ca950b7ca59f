package jigsaw

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestShuffle(t *testing.T) {
	in := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	orig := slices.Clone(in)

	out := Shuffle(in, rand.New(rand.NewPCG(1, 2)))
	if diff := cmp.Diff(orig, in); diff != "" {
		t.Errorf("Shuffle modified its input (-want +got):\n%s", diff)
	}
	sorted := slices.Clone(out)
	slices.Sort(sorted)
	if diff := cmp.Diff(orig, sorted); diff != "" {
		t.Errorf("Shuffle is not a permutation (-want +got):\n%s", diff)
	}

	again := Shuffle(in, rand.New(rand.NewPCG(1, 2)))
	if diff := cmp.Diff(out, again); diff != "" {
		t.Errorf("same seed, different order (-first +second):\n%s", diff)
	}
}

func TestShuffleEdgeCases(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	if got := Shuffle(nil, rng); len(got) != 0 {
		t.Errorf("Shuffle(nil) = %v", got)
	}
	if got := Shuffle([]int{7}, rng); !slices.Equal(got, []int{7}) {
		t.Errorf("Shuffle([7]) = %v", got)
	}
}

// TestShuffleCoversAllPositions checks that every element can land in every
// slot, which a biased swap range would prevent.
func TestShuffleCoversAllPositions(t *testing.T) {
	const n = 5
	rng := rand.New(rand.NewPCG(5, 6))
	var seen [n][n]bool
	for range 2000 {
		out := Shuffle([]int{0, 1, 2, 3, 4}, rng)
		for pos, v := range out {
			seen[v][pos] = true
		}
	}
	for v := range n {
		for pos := range n {
			if !seen[v][pos] {
				t.Errorf("element %d never reached slot %d", v, pos)
			}
		}
	}
}

func TestTrayLayout(t *testing.T) {
	tests := []struct {
		name       string
		width      float64
		cellW, tab float64
		wantPerRow int
	}{
		{"two per row", 320, 100, 20, 2},
		{"exact fit", 3*140 + 2*8, 100, 20, 3},
		{"narrower than a slot", 50, 100, 20, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTrayLayout(tt.width, tt.cellW, tt.tab)
			if l.perRow != tt.wantPerRow {
				t.Fatalf("perRow = %d, want %d", l.perRow, tt.wantPerRow)
			}
			x0, y0 := l.cell(0)
			x1, _ := l.cell(1)
			_, yRow := l.cell(l.perRow)
			if x0 != trayPadding || y0 != trayPadding {
				t.Errorf("first slot at (%v,%v)", x0, y0)
			}
			if l.perRow > 1 && x1-x0 != l.slot+trayGap {
				t.Errorf("slot stride %v, want %v", x1-x0, l.slot+trayGap)
			}
			if yRow-y0 != l.slot+trayGap {
				t.Errorf("row stride %v, want %v", yRow-y0, l.slot+trayGap)
			}
		})
	}
}
