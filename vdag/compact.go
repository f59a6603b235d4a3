package vdag

import (
	"github.com/pkg/errors"

	"github.com/voxelsplace/voxeldag/svo"
)

// canonicalLevels is the compactor's output: every level deduplicated, child
// references pointing at canonical indices of the level below.
type canonicalLevels struct {
	numLevels int
	branches  [][]svo.Node // levels 0..numLevels-3; branches[0] is the root alone
	leaves    []uint64     // level numLevels-2
}

// compact collapses oct level by level, strictly bottom-up: a branch level can
// only be compared once its children already point at canonical instances. The
// octree's branch levels are rewritten in place, so oct is consumed.
func compact(oct *svo.Octree, obs Observer) (*canonicalLevels, error) {
	if err := oct.CheckShape(); err != nil {
		return nil, errors.Wrap(ErrConfig, err.Error())
	}
	n := oct.NumLevels
	out := &canonicalLevels{
		numLevels: n,
		branches:  make([][]svo.Node, n-2),
	}

	leafLevel := oct.LeafLevel()
	obs.LevelStarted(leafLevel, oct.LevelSize(leafLevel))
	leaves, remap, err := canonicalizeLeaves(oct.Leaves)
	if err != nil {
		return nil, errors.Wrapf(err, "level %d", leafLevel)
	}
	out.leaves = leaves
	obs.LevelCanonicalized(leafLevel, oct.LevelSize(leafLevel), len(leaves))
	obs.StageEntered(StageLeafCanonicalized, leafLevel)

	for k := n - 3; k >= 0; k-- {
		level := oct.Branches[k]
		refs, err := rewriteParents(level, remap)
		if err != nil {
			return nil, errors.Wrapf(err, "level %d", k)
		}
		// remap belonged to level k+1 and has now been consumed
		remap = nil
		obs.ParentRewritten(k, refs)

		if k == 0 {
			out.branches[0] = []svo.Node{level[0]}
			obs.StageEntered(StageRootInstalled, 0)
			break
		}

		obs.LevelStarted(k, oct.LevelSize(k))
		unique, next, err := canonicalizeNodes(level)
		if err != nil {
			return nil, errors.Wrapf(err, "level %d", k)
		}
		out.branches[k] = unique
		remap = next
		obs.LevelCanonicalized(k, len(level), len(unique))
		obs.StageEntered(StageLevelRewritten, k)
	}
	return out, nil
}
