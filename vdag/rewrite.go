package vdag

import (
	"github.com/pkg/errors"

	"github.com/voxelsplace/voxeldag/svo"
)

// rewriteParents points every present child slot of parents at the canonical
// replacement recorded in remap, the result of canonicalizing the level below.
// Parents are rewritten in place. It returns the number of references changed.
func rewriteParents(parents []svo.Node, remap []svo.Ref) (int, error) {
	refs := 0
	for i := range parents {
		for c, child := range parents[i].Children {
			if child == svo.NoChild {
				continue
			}
			if int(child) >= len(remap) || remap[child] == svo.NoChild {
				return refs, errors.Wrapf(ErrInconsistent,
					"node %d octant %d: child %d has no canonical replacement", i, c, child)
			}
			parents[i].Children[c] = remap[child]
			refs++
		}
	}
	return refs, nil
}
