// Package group tracks which pieces move together.
//
// A Partition splits piece indices 0..n-1 into disjoint groups. Every piece
// starts alone; groups only ever merge. Relative positions inside a group
// are not stored here, callers derive them from grid coordinates.
package group

import "slices"

// ID identifies a group. It is the index of the group's representative
// piece and stays valid until the group is merged into another one.
type ID int

// Partition is a union-find structure over piece indices with union by size
// and path compression. Member lists are kept per representative so that
// Members does not scan every piece.
//
// Partition is not safe for concurrent use.
type Partition struct {
	parent  []int
	members map[int][]int
}

// New returns a partition of n singleton groups.
func New(n int) *Partition {
	p := &Partition{
		parent:  make([]int, n),
		members: make(map[int][]int, n),
	}
	for i := range n {
		p.parent[i] = i
		p.members[i] = []int{i}
	}
	return p
}

// Pieces returns the number of pieces in the partition.
func (p *Partition) Pieces() int { return len(p.parent) }

// Len returns the current number of groups.
func (p *Partition) Len() int { return len(p.members) }

// Find returns the group of piece i.
func (p *Partition) Find(i int) ID {
	root := i
	for p.parent[root] != root {
		root = p.parent[root]
	}
	for p.parent[i] != root {
		p.parent[i], i = root, p.parent[i]
	}
	return ID(root)
}

// Same reports whether pieces a and b are in the same group.
func (p *Partition) Same(a, b int) bool { return p.Find(a) == p.Find(b) }

// Members returns the pieces of group id in ascending order. The returned
// slice is a copy.
func (p *Partition) Members(id ID) []int {
	return slices.Clone(p.members[int(id)])
}

// Size returns the number of pieces in group id.
func (p *Partition) Size(id ID) int { return len(p.members[int(id)]) }

// Merge joins the groups of pieces a and b and returns the surviving group.
// The second result is false when both pieces were already together, in
// which case nothing changes. The final partition does not depend on the
// order in which merges happen.
func (p *Partition) Merge(a, b int) (ID, bool) {
	ra, rb := int(p.Find(a)), int(p.Find(b))
	if ra == rb {
		return ID(ra), false
	}
	if len(p.members[ra]) < len(p.members[rb]) {
		ra, rb = rb, ra
	}
	p.parent[rb] = ra
	merged := append(p.members[ra], p.members[rb]...)
	slices.Sort(merged)
	p.members[ra] = merged
	delete(p.members, rb)
	return ID(ra), true
}

// Groups returns every group as a sorted member list, ordered by smallest
// member. Two partitions with the same grouping return equal results.
func (p *Partition) Groups() [][]int {
	out := make([][]int, 0, len(p.members))
	for _, m := range p.members {
		out = append(out, slices.Clone(m))
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}
