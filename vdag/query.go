package vdag

import (
	"math/bits"

	"github.com/voxelsplace/voxeldag/svo"
)

// IsSet reports whether voxel (x, y, z) is occupied. Coordinates outside
// [0, Dimension()) are never set. The walk costs one step per branch level.
func (d *DAG) IsSet(x, y, z uint32) bool {
	dim := d.Dimension()
	if x >= dim || y >= dim || z >= dim {
		return false
	}
	m := svo.Morton3D(x, y, z)
	node := d.Root()
	for k := 0; k < d.LeafLevel(); k++ {
		oct := uint(svo.Octant(m, k, d.numLevels))
		if d.levels[k][node]&(1<<oct) == 0 {
			return false
		}
		node = d.ChildPointer(k, node, oct)
	}
	return d.levels[d.LeafLevel()][node]>>(m&63)&1 == 1
}

// Mask returns the presence mask of the node at offset node of branch level k.
func (d *DAG) Mask(k int, node uint64) uint8 {
	return uint8(d.levels[k][node])
}

// ChildPointer returns the offset, in level k+1, of the child in octant oct of
// the node at offset node of level k. The octant must be present in the node's
// mask; asking for an absent octant returns a neighbour's reference or garbage.
func (d *DAG) ChildPointer(k int, node uint64, oct uint) uint64 {
	mask := d.levels[k][node]
	rank := bits.OnesCount8(uint8(mask) & (1<<oct - 1))
	return d.levels[k][node+1+uint64(rank)]
}

// Walk calls fn for every occupied voxel in Morton order. It stops early when fn
// returns false. Shared subtrees are visited once per path that reaches them.
func (d *DAG) Walk(fn func(x, y, z uint32) bool) {
	d.walk(0, d.Root(), 0, fn)
}

func (d *DAG) walk(k int, node, prefix uint64, fn func(x, y, z uint32) bool) bool {
	if k == d.LeafLevel() {
		word := d.levels[k][node]
		for word != 0 {
			bit := uint64(bits.TrailingZeros64(word))
			word &= word - 1
			x, y, z := svo.MortonDecode3D(prefix<<6 | bit)
			if !fn(x, y, z) {
				return false
			}
		}
		return true
	}
	mask := d.Mask(k, node)
	for oct := uint(0); oct < 8; oct++ {
		if mask&(1<<oct) == 0 {
			continue
		}
		if !d.walk(k+1, d.ChildPointer(k, node, oct), prefix<<3|uint64(oct), fn) {
			return false
		}
	}
	return true
}
