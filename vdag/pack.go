package vdag

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/voxelsplace/voxeldag/svo"
)

// encode converts the canonical levels into packed buffers, bottom-up. A packed
// node is its presence mask in one word followed by one word per present child,
// in ascending octant order, holding the child's word offset in the level below.
// The bottom branch level references leaf words by index, and the canonical leaf
// array becomes the packed leaf level as is.
func encode(c *canonicalLevels, obs Observer) ([][]uint64, error) {
	n := c.numLevels
	levels := make([][]uint64, n-1)
	levels[n-2] = c.leaves

	// offsets of the level below, by canonical index; nil means identity (leaves)
	var below []uint64
	belowLen := len(c.leaves)

	for k := n - 3; k >= 0; k-- {
		nodes := c.branches[k]
		words := 0
		for _, nd := range nodes {
			words += 1 + bits.OnesCount8(nd.Mask())
		}

		buf := make([]uint64, 0, words)
		offsets := make([]uint64, len(nodes))
		for i, nd := range nodes {
			offsets[i] = uint64(len(buf))
			buf = append(buf, uint64(nd.Mask()))
			for oct, child := range nd.Children {
				if child == svo.NoChild {
					continue
				}
				if int(child) >= belowLen {
					return nil, errors.Wrapf(ErrInconsistent,
						"level %d node %d octant %d: child %d beyond %d nodes", k, i, oct, child, belowLen)
				}
				if below == nil {
					buf = append(buf, uint64(child))
				} else {
					buf = append(buf, below[child])
				}
			}
		}
		levels[k] = buf
		obs.LevelEncoded(k, len(nodes), len(buf))

		below = offsets
		belowLen = len(nodes)
	}
	obs.LevelEncoded(n-2, len(c.leaves), len(c.leaves))
	obs.StageEntered(StageEncoded, 0)
	return levels, nil
}
