package vdag

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"

	"github.com/voxelsplace/voxeldag/svo"
)

// canonicalize deduplicates one level. It returns the distinct values in
// ascending order under compare, and remap, which sends every original index to
// the index of its canonical representative. Sorting an index permutation keeps
// the original level untouched until the caller is done with it; the stable sort
// makes the representative of every run the lowest original index, so the
// result depends on the level's content only.
func canonicalize[T any](level []T, compare func(a, b T) int) ([]T, []svo.Ref, error) {
	if len(level) == 0 {
		return nil, nil, errors.Wrap(ErrConfig, "empty level")
	}
	order := make([]int, len(level))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compare(level[a], level[b])
	})

	unique := make([]T, 0, 1)
	remap := make([]svo.Ref, len(level))
	for i, orig := range order {
		if i == 0 || compare(level[order[i-1]], level[orig]) != 0 {
			unique = append(unique, level[orig])
		}
		remap[orig] = svo.Ref(len(unique) - 1)
	}
	return slices.Clip(unique), remap, nil
}

func canonicalizeLeaves(words []uint64) ([]uint64, []svo.Ref, error) {
	return canonicalize(words, cmp.Compare[uint64])
}

func canonicalizeNodes(nodes []svo.Node) ([]svo.Node, []svo.Ref, error) {
	return canonicalize(nodes, svo.CompareNodes)
}
