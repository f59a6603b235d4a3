// Package vdag compacts a dense sparse voxel octree into a voxel DAG, a graph in
// which structurally identical subtrees are stored once, and answers point
// occupancy queries against it.
//
// The DAG keeps numLevels-1 packed levels. Branch levels store, per node, a mask
// word whose low 8 bits flag the occupied octants, followed by one word per
// occupied octant (ascending octant order) holding the child's offset in the next
// level. The last level is the deduplicated array of 64-bit leaf words, each one
// a 4x4x4 block of voxels in Morton order. The root is the node at offset 0 of
// level 0.
//
// A DAG never changes after construction and is safe for concurrent readers.
package vdag

import (
	"time"

	"github.com/pkg/errors"

	"github.com/voxelsplace/voxeldag/mesh"
	"github.com/voxelsplace/voxeldag/svo"
)

const (
	// MinLevels is the smallest supported tree depth.
	MinLevels = svo.MinLevels
	// MaxLevels is the largest supported tree depth.
	MaxLevels = svo.MaxLevels
)

// DAG is the compacted, read-only voxel structure.
type DAG struct {
	numLevels  int
	bounds     mesh.BoundingBox
	voxelWidth float64
	levels     [][]uint64
	nodes      []int // canonical node count per level
}

type options struct {
	observer Observer
}

// Option configures a build.
type Option func(*options)

// WithObserver reports build checkpoints to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

func checkLevels(numLevels int) error {
	if err := svo.CheckLevels(numLevels); err != nil {
		return errors.Wrap(ErrConfig, err.Error())
	}
	return nil
}

// New voxelizes triangles into an octree spanning the squared bounding box and
// compacts it. No partial DAG is ever returned.
func New(numLevels int, bounds mesh.BoundingBox, triangles []mesh.Triangle, opts ...Option) (*DAG, error) {
	if err := checkLevels(numLevels); err != nil {
		return nil, err
	}
	if bounds.IsEmpty() {
		return nil, errors.Wrap(ErrConfig, "empty bounding box")
	}
	oct, err := svo.FromTriangles(numLevels, bounds.Square(), triangles)
	if err != nil {
		return nil, errors.Wrap(ErrConfig, err.Error())
	}
	return FromOctree(oct, opts...)
}

// FromOctree compacts a pre-built octree. The octree is consumed: its branch
// levels are rewritten in place during compaction.
func FromOctree(oct *svo.Octree, opts ...Option) (*DAG, error) {
	o := options{observer: NopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	if oct == nil {
		return nil, errors.Wrap(ErrConfig, "nil octree")
	}
	if err := checkLevels(oct.NumLevels); err != nil {
		return nil, err
	}

	start := time.Now()
	canon, err := compact(oct, o.observer)
	if err != nil {
		return nil, err
	}
	levels, err := encode(canon, o.observer)
	if err != nil {
		return nil, err
	}

	nodes := make([]int, oct.NumLevels-1)
	for k, level := range canon.branches {
		nodes[k] = len(level)
	}
	nodes[oct.NumLevels-2] = len(canon.leaves)

	d := newDAG(oct.NumLevels, oct.Bounds, levels, nodes)
	o.observer.BuildDone(time.Since(start))
	return d, nil
}

func newDAG(numLevels int, bounds mesh.BoundingBox, levels [][]uint64, nodes []int) *DAG {
	return &DAG{
		numLevels:  numLevels,
		bounds:     bounds,
		voxelWidth: bounds.Extent() / float64(uint64(1)<<uint(numLevels)),
		levels:     levels,
		nodes:      nodes,
	}
}

// NumLevels returns the tree depth the DAG was built with.
func (d *DAG) NumLevels() int { return d.numLevels }

// Dimension returns the number of voxels along one side of the cube.
func (d *DAG) Dimension() uint32 { return 1 << uint(d.numLevels) }

// Bounds returns the squared world space box covered by the voxels.
func (d *DAG) Bounds() mesh.BoundingBox { return d.bounds }

// VoxelWidth returns the world space side length of one voxel.
func (d *DAG) VoxelWidth() float64 { return d.voxelWidth }

// NumPackedLevels returns numLevels-1.
func (d *DAG) NumPackedLevels() int { return len(d.levels) }

// Level returns the packed buffer of level k. The leaf level is numLevels-2.
// The slice is shared with the DAG and must not be modified.
func (d *DAG) Level(k int) []uint64 { return d.levels[k] }

// LeafLevel returns the index of the leaf word level.
func (d *DAG) LeafLevel() int { return d.numLevels - 2 }

// Root returns the offset of the root node in level 0.
func (d *DAG) Root() uint64 { return 0 }
