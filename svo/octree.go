// Package svo builds the dense array-of-levels sparse voxel octree that the DAG
// compactor consumes.
//
// A tree with numLevels levels covers a cube of 2^numLevels voxels per side. The
// top numLevels-2 levels are arrays of 8-ary Nodes; level k holds 8^k nodes and
// node i owns children 8i..8i+7 of level k+1. The bottom two levels are merged
// into one array of 64-bit leaf words, each word covering a 4x4x4 block in Morton
// order. All arrays are Morton ordered, so the path to a voxel is read straight
// off its Morton index.
package svo

import (
	"github.com/pkg/errors"

	"github.com/voxelsplace/voxeldag/mesh"
)

const (
	// MinLevels is the smallest tree that still has one branch level above the leaf words.
	MinLevels = 3
	// MaxLevels bounds the dense leaf array to 8^8 words (128 MiB).
	MaxLevels = 10
)

// ErrLevels is returned for a level count outside [MinLevels, MaxLevels].
var ErrLevels = errors.Errorf("level count must be in [%d, %d]", MinLevels, MaxLevels)

// CheckLevels validates a level count.
func CheckLevels(numLevels int) error {
	if numLevels < MinLevels || numLevels > MaxLevels {
		return errors.Wrapf(ErrLevels, "got %d", numLevels)
	}
	return nil
}

// Octree is the pre-compaction tree. Branches[k] is level k for k in
// 0..NumLevels-3; Leaves is level NumLevels-2.
type Octree struct {
	NumLevels int
	Bounds    mesh.BoundingBox
	Branches  [][]Node
	Leaves    []uint64
}

// LeafLevel returns the index of the leaf word level.
func (o *Octree) LeafLevel() int {
	return o.NumLevels - 2
}

// Dimension returns the number of voxels along one side.
func (o *Octree) Dimension() uint32 {
	return 1 << uint(o.NumLevels)
}

// LevelSize returns the number of nodes (or leaf words) at level k.
func (o *Octree) LevelSize(k int) int {
	if k == o.LeafLevel() {
		return len(o.Leaves)
	}
	return len(o.Branches[k])
}

// IsSet walks the child references from the root. It reads the tree as built;
// once the compactor has rewritten the branch levels the answer is meaningless.
func (o *Octree) IsSet(x, y, z uint32) bool {
	dim := o.Dimension()
	if x >= dim || y >= dim || z >= dim {
		return false
	}
	m := Morton3D(x, y, z)
	idx := Ref(0)
	for k := 0; k < o.LeafLevel(); k++ {
		idx = o.Branches[k][idx].Children[Octant(m, k, o.NumLevels)]
		if idx == NoChild {
			return false
		}
	}
	return o.Leaves[idx]>>(m&63)&1 == 1
}

// CheckShape verifies the full branching factor: one root and 8x growth per level.
func (o *Octree) CheckShape() error {
	if err := CheckLevels(o.NumLevels); err != nil {
		return err
	}
	if len(o.Branches) != o.NumLevels-2 {
		return errors.Errorf("expected %d branch levels, found %d", o.NumLevels-2, len(o.Branches))
	}
	want := 1
	for k, level := range o.Branches {
		if len(level) != want {
			return errors.Errorf("level %d: expected %d nodes, found %d", k, want, len(level))
		}
		want *= 8
	}
	if len(o.Leaves) != want {
		return errors.Errorf("leaf level: expected %d words, found %d", want, len(o.Leaves))
	}
	return nil
}
