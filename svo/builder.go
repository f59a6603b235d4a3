package svo

import (
	"math/bits"

	"github.com/voxelsplace/voxeldag/mesh"
)

// Builder accumulates voxel occupancy into the dense leaf word array.
type Builder struct {
	numLevels int
	dim       uint32
	leaves    []uint64
}

// NewBuilder allocates an empty tree of the given depth.
func NewBuilder(numLevels int) (*Builder, error) {
	if err := CheckLevels(numLevels); err != nil {
		return nil, err
	}
	return &Builder{
		numLevels: numLevels,
		dim:       1 << uint(numLevels),
		leaves:    make([]uint64, 1<<(3*uint(numLevels-2))),
	}, nil
}

// NumLevels returns the depth the builder was created with.
func (b *Builder) NumLevels() int { return b.numLevels }

// Dimension returns the number of voxels along one side.
func (b *Builder) Dimension() uint32 { return b.dim }

// Set marks a voxel as occupied. Coordinates outside the cube are ignored.
func (b *Builder) Set(x, y, z uint32) {
	if x >= b.dim || y >= b.dim || z >= b.dim {
		return
	}
	m := Morton3D(x, y, z)
	b.leaves[m>>6] |= 1 << (m & 63)
}

// IsSet reads a voxel straight from the leaf words.
func (b *Builder) IsSet(x, y, z uint32) bool {
	if x >= b.dim || y >= b.dim || z >= b.dim {
		return false
	}
	m := Morton3D(x, y, z)
	return b.leaves[m>>6]>>(m&63)&1 == 1
}

// Count returns the number of set voxels.
func (b *Builder) Count() uint64 {
	var n uint64
	for _, w := range b.leaves {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}

// Build derives the branch levels bottom-up. A child slot is present when the
// child's subtree holds at least one set voxel. The leaf words are copied so the
// builder can keep being used.
func (b *Builder) Build(bounds mesh.BoundingBox) *Octree {
	n := b.numLevels
	o := &Octree{
		NumLevels: n,
		Bounds:    bounds,
		Branches:  make([][]Node, n-2),
		Leaves:    append([]uint64(nil), b.leaves...),
	}

	bottom := make([]Node, len(o.Leaves)/8)
	for i := range bottom {
		bottom[i] = EmptyNode()
		for c := 0; c < 8; c++ {
			if child := 8*i + c; o.Leaves[child] != 0 {
				bottom[i].Children[c] = Ref(child)
			}
		}
	}
	o.Branches[n-3] = bottom

	for k := n - 4; k >= 0; k-- {
		below := o.Branches[k+1]
		level := make([]Node, len(below)/8)
		for i := range level {
			level[i] = EmptyNode()
			for c := 0; c < 8; c++ {
				if child := 8*i + c; below[child].Mask() != 0 {
					level[i].Children[c] = Ref(child)
				}
			}
		}
		o.Branches[k] = level
	}
	return o
}
