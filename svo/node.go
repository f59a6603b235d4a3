package svo

import (
	"math"
	"math/bits"
)

// Ref is the index of a node (or leaf word) in the level directly below.
type Ref uint32

// NoChild marks an empty child slot.
const NoChild Ref = math.MaxUint32

// Node is an 8-ary branch node. Children are ordered by octant.
type Node struct {
	Children [8]Ref
}

// EmptyNode returns a node with no children.
func EmptyNode() Node {
	var n Node
	for i := range n.Children {
		n.Children[i] = NoChild
	}
	return n
}

// Mask returns the presence mask: bit i is set when octant i has a child.
func (n Node) Mask() uint8 {
	var m uint8
	for i, c := range n.Children {
		if c != NoChild {
			m |= 1 << uint(i)
		}
	}
	return m
}

// Has reports whether octant i has a child.
func (n Node) Has(i int) bool {
	return n.Children[i] != NoChild
}

// NumChildren returns the population count of the presence mask.
func (n Node) NumChildren() int {
	return bits.OnesCount8(n.Mask())
}

// Equal is structural equality: same presence mask and the same child reference
// in every present octant.
func (n Node) Equal(o Node) bool {
	return CompareNodes(n, o) == 0
}

// CompareNodes is the total order used to canonicalize branch levels: first by
// presence mask, then lexicographically by the child references of the present
// octants in ascending octant order. Equal masks imply the same absent octants,
// so comparing the raw child arrays slot by slot is enough.
func CompareNodes(a, b Node) int {
	am, bm := a.Mask(), b.Mask()
	switch {
	case am < bm:
		return -1
	case am > bm:
		return 1
	}
	for i := range a.Children {
		switch {
		case a.Children[i] < b.Children[i]:
			return -1
		case a.Children[i] > b.Children[i]:
			return 1
		}
	}
	return 0
}
