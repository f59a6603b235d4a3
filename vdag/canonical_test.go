package vdag

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxeldag/mesh"
	"github.com/voxelsplace/voxeldag/svo"
)

var unitCube = mesh.BoundingBox{Max: r3.Vector{X: 1, Y: 1, Z: 1}}

func TestCanonicalizeLeaves(t *testing.T) {
	words := []uint64{5, 0, 5, 3, 0, 0, 3, 5}
	unique, remap, err := canonicalizeLeaves(words)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 3, 5}, unique)
	require.Equal(t, []svo.Ref{2, 0, 2, 1, 0, 0, 1, 2}, remap)
	for i, w := range words {
		require.Equal(t, w, unique[remap[i]])
	}
	// the input is left alone
	require.Equal(t, []uint64{5, 0, 5, 3, 0, 0, 3, 5}, words)
}

func TestCanonicalizeAllEqual(t *testing.T) {
	unique, remap, err := canonicalizeLeaves([]uint64{7, 7, 7, 7})
	require.NoError(t, err)
	require.Equal(t, []uint64{7}, unique)
	require.Equal(t, []svo.Ref{0, 0, 0, 0}, remap)
}

func TestCanonicalizeEmptyLevel(t *testing.T) {
	_, _, err := canonicalizeLeaves(nil)
	require.True(t, errors.Is(err, ErrConfig))
	_, _, err = canonicalizeNodes([]svo.Node{})
	require.True(t, errors.Is(err, ErrConfig))
}

func TestCanonicalizeNodesIgnoresOrder(t *testing.T) {
	a := svo.EmptyNode()
	a.Children[0] = 4
	b := svo.EmptyNode()
	b.Children[3] = 1
	b.Children[7] = 2
	c := svo.EmptyNode()

	level := []svo.Node{a, b, c, a, b}
	u1, remap, err := canonicalizeNodes(level)
	require.NoError(t, err)
	for i, nd := range level {
		require.True(t, u1[remap[i]].Equal(nd), "node %d", i)
	}
	u2, _, err := canonicalizeNodes([]svo.Node{c, b, a, c})
	require.NoError(t, err)
	require.Equal(t, u1, u2)
	require.Len(t, u1, 3)
	require.Equal(t, c, u1[0])
}

func TestCanonicalizeMapsToEqualNodes(t *testing.T) {
	_, oct := randomOctree(t, 6, 5, 200)
	for k := 1; k < len(oct.Branches); k++ {
		level := oct.Branches[k]
		unique, remap, err := canonicalizeNodes(level)
		require.NoError(t, err)
		require.Len(t, remap, len(level))
		for i, nd := range level {
			require.True(t, unique[remap[i]].Equal(nd), "level %d node %d", k, i)
		}
	}
}

func TestRewriteParents(t *testing.T) {
	p := svo.EmptyNode()
	p.Children[1] = 0
	p.Children[6] = 2
	parents := []svo.Node{p, svo.EmptyNode()}

	refs, err := rewriteParents(parents, []svo.Ref{1, 1, 0})
	require.NoError(t, err)
	require.Equal(t, 2, refs)
	require.Equal(t, svo.Ref(1), parents[0].Children[1])
	require.Equal(t, svo.Ref(0), parents[0].Children[6])
	require.Equal(t, svo.NoChild, parents[0].Children[0])

	bad := svo.EmptyNode()
	bad.Children[2] = 9
	_, err = rewriteParents([]svo.Node{bad}, []svo.Ref{0, 0})
	require.True(t, errors.Is(err, ErrInconsistent))
}

func randomOctree(t *testing.T, numLevels int, seed int64, n int) (*svo.Builder, *svo.Octree) {
	t.Helper()
	b, err := svo.NewBuilder(numLevels)
	require.NoError(t, err)
	r := rand.New(rand.NewSource(seed))
	dim := int(b.Dimension())
	for i := 0; i < n; i++ {
		// mirror every point so that identical subtrees actually occur
		x, y, z := uint32(r.Intn(dim/2)), uint32(r.Intn(dim)), uint32(r.Intn(dim))
		b.Set(x, y, z)
		b.Set(x+uint32(dim/2), y, z)
	}
	return b, b.Build(unitCube)
}

func TestCompactLevelsAreDistinct(t *testing.T) {
	_, oct := randomOctree(t, 6, 11, 300)
	canon, err := compact(oct, NopObserver{})
	require.NoError(t, err)

	for i := 1; i < len(canon.leaves); i++ {
		require.Less(t, canon.leaves[i-1], canon.leaves[i])
	}
	for k := 1; k < len(canon.branches); k++ {
		level := canon.branches[k]
		for i := 1; i < len(level); i++ {
			require.Negative(t, svo.CompareNodes(level[i-1], level[i]), "level %d", k)
		}
	}
	require.Len(t, canon.branches[0], 1)
}

func TestPackedChildOffsets(t *testing.T) {
	b, oct := randomOctree(t, 6, 23, 500)
	d, err := FromOctree(oct)
	require.NoError(t, err)

	for k := 0; k < d.LeafLevel(); k++ {
		buf := d.Level(k)
		for pos := 0; pos < len(buf); {
			mask := d.Mask(k, uint64(pos))
			rank := 0
			for oct := uint(0); oct < 8; oct++ {
				if mask&(1<<oct) == 0 {
					continue
				}
				require.Equal(t, buf[pos+1+rank], d.ChildPointer(k, uint64(pos), oct))
				rank++
			}
			require.Equal(t, bits.OnesCount8(mask), rank)
			pos += 1 + rank
		}
	}
	require.Equal(t, b.Count(), d.Stats().SetVoxels)
}

// compactTopDown runs the same primitives as compact but from the root down:
// each level is canonicalized before its children have been, so the canonical
// copy keeps references into the uncompacted level below.
func compactTopDown(oct *svo.Octree) (*canonicalLevels, error) {
	n := oct.NumLevels
	out := &canonicalLevels{numLevels: n, branches: make([][]svo.Node, n-2)}
	out.branches[0] = []svo.Node{oct.Branches[0][0]}
	for k := 1; k <= n-3; k++ {
		unique, remap, err := canonicalizeNodes(oct.Branches[k])
		if err != nil {
			return nil, err
		}
		out.branches[k] = unique
		if _, err := rewriteParents(oct.Branches[k-1], remap); err != nil {
			return nil, err
		}
	}
	leaves, remap, err := canonicalizeLeaves(oct.Leaves)
	if err != nil {
		return nil, err
	}
	out.leaves = leaves
	if _, err := rewriteParents(oct.Branches[n-3], remap); err != nil {
		return nil, err
	}
	return out, nil
}

func TestTopDownOrderIsUnsound(t *testing.T) {
	build := func() (*svo.Builder, *svo.Octree) {
		b, err := svo.NewBuilder(4)
		require.NoError(t, err)
		b.Set(0, 0, 0)
		b.Set(15, 15, 15)
		return b, b.Build(unitCube)
	}

	b, oct := build()
	good, err := FromOctree(oct)
	require.NoError(t, err)
	for _, p := range [][3]uint32{{0, 0, 0}, {15, 15, 15}, {1, 0, 0}, {15, 15, 14}} {
		require.Equal(t, b.IsSet(p[0], p[1], p[2]), good.IsSet(p[0], p[1], p[2]))
	}

	b, oct = build()
	canon, err := compactTopDown(oct)
	require.NoError(t, err)

	broken := false
	levels, err := encode(canon, NopObserver{})
	if err != nil {
		require.True(t, errors.Is(err, ErrInconsistent))
		broken = true
	} else {
		d := newDAG(4, unitCube, levels, make([]int, len(levels)))
		for x := uint32(0); x < 16 && !broken; x++ {
			for y := uint32(0); y < 16 && !broken; y++ {
				for z := uint32(0); z < 16; z++ {
					if b.IsSet(x, y, z) != d.IsSet(x, y, z) {
						broken = true
						break
					}
				}
			}
		}
	}
	require.True(t, broken, "top-down compaction produced a sound DAG")
}
