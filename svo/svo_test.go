package svo

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxeldag/mesh"
)

func TestMortonRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		x, y, z := uint32(r.Intn(1<<21)), uint32(r.Intn(1<<21)), uint32(r.Intn(1<<21))
		gx, gy, gz := MortonDecode3D(Morton3D(x, y, z))
		require.Equal(t, [3]uint32{x, y, z}, [3]uint32{gx, gy, gz})
	}
	require.Equal(t, uint64(1), Morton3D(1, 0, 0))
	require.Equal(t, uint64(2), Morton3D(0, 1, 0))
	require.Equal(t, uint64(4), Morton3D(0, 0, 1))
	require.Equal(t, uint64(7<<3), Morton3D(2, 2, 2))
}

func TestOctant(t *testing.T) {
	// 3 levels: bits 8..6 are the root octant, 5..0 address the leaf word.
	m := Morton3D(7, 0, 4)
	require.Equal(t, 0b101, Octant(m, 0, 3))
}

func TestCompareNodes(t *testing.T) {
	a := EmptyNode()
	b := EmptyNode()
	require.True(t, a.Equal(b))
	require.Equal(t, uint8(0), a.Mask())

	a.Children[1] = 4
	require.Equal(t, 1, CompareNodes(a, b))
	require.Equal(t, -1, CompareNodes(b, a))
	require.Equal(t, uint8(0b10), a.Mask())

	b.Children[1] = 5
	require.Equal(t, -1, CompareNodes(a, b))

	// the mask decides before the references do
	c := EmptyNode()
	c.Children[0] = 100
	require.Equal(t, -1, CompareNodes(c, a))
	require.Equal(t, 1, c.NumChildren())
	require.True(t, c.Has(0))
	require.False(t, c.Has(1))
}

func TestBuilderLevels(t *testing.T) {
	_, err := NewBuilder(2)
	require.True(t, errors.Is(err, ErrLevels))
	_, err = NewBuilder(MaxLevels + 1)
	require.True(t, errors.Is(err, ErrLevels))

	b, err := NewBuilder(4)
	require.NoError(t, err)
	require.Equal(t, uint32(16), b.Dimension())
	b.Set(15, 15, 15)
	b.Set(0, 0, 0)
	b.Set(99, 0, 0)
	require.Equal(t, uint64(2), b.Count())

	o := b.Build(mesh.BoundingBox{})
	require.NoError(t, o.CheckShape())
	require.Len(t, o.Branches, 2)
	require.Len(t, o.Branches[0], 1)
	require.Len(t, o.Branches[1], 8)
	require.Len(t, o.Leaves, 64)
	for k, want := range []int{1, 8, 64} {
		require.Equal(t, want, o.LevelSize(k), "level %d", k)
	}
	require.Equal(t, uint8(0b10000001), o.Branches[0][0].Mask())
	require.Equal(t, uint8(0b00000001), o.Branches[1][0].Mask())
	require.Equal(t, uint8(0b10000000), o.Branches[1][7].Mask())
	require.Equal(t, uint8(0), o.Branches[1][3].Mask())

	for x := uint32(0); x < 16; x++ {
		for y := uint32(0); y < 16; y++ {
			for z := uint32(0); z < 16; z++ {
				require.Equal(t, b.IsSet(x, y, z), o.IsSet(x, y, z))
			}
		}
	}
	require.False(t, o.IsSet(16, 0, 0))
}

func TestCheckShape(t *testing.T) {
	b, err := NewBuilder(3)
	require.NoError(t, err)
	o := b.Build(mesh.BoundingBox{})
	require.NoError(t, o.CheckShape())
	o.Leaves = o.Leaves[:4]
	require.Error(t, o.CheckShape())
}

func TestTriangleBoxOverlap(t *testing.T) {
	tri := mesh.Triangle{
		V0: r3.Vector{X: -1, Y: -1, Z: 0},
		V1: r3.Vector{X: 1, Y: -1, Z: 0},
		V2: r3.Vector{X: 0, Y: 1, Z: 0},
	}
	require.True(t, TriangleBoxOverlap(r3.Vector{}, 0.5, tri))
	require.False(t, TriangleBoxOverlap(r3.Vector{Z: 2}, 0.5, tri))
	// beyond the hypotenuse but inside the triangle's bbox
	require.False(t, TriangleBoxOverlap(r3.Vector{X: 0.9, Y: 0.9}, 0.1, tri))
	// touching the plane counts
	require.True(t, TriangleBoxOverlap(r3.Vector{Z: 0.5}, 0.5, tri))
}

func TestVoxelizeSingleTriangle(t *testing.T) {
	bounds := mesh.BoundingBox{Max: r3.Vector{X: 16, Y: 16, Z: 16}}
	tri := mesh.Triangle{
		V0: r3.Vector{X: 0.2, Y: 0.2, Z: 0.5},
		V1: r3.Vector{X: 3.5, Y: 0.3, Z: 0.5},
		V2: r3.Vector{X: 0.3, Y: 3.6, Z: 0.5},
	}
	o, err := FromTriangles(4, bounds, []mesh.Triangle{tri})
	require.NoError(t, err)
	require.True(t, o.IsSet(0, 0, 0))
	require.True(t, o.IsSet(3, 0, 0))
	require.True(t, o.IsSet(0, 3, 0))
	require.False(t, o.IsSet(3, 3, 0))
	require.False(t, o.IsSet(0, 0, 1))

	nonZero := 0
	for _, w := range o.Leaves {
		if w != 0 {
			nonZero++
		}
	}
	require.Equal(t, 1, nonZero)
	require.NotZero(t, o.Leaves[0])
}
