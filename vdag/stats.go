package vdag

import (
	"encoding/binary"
	"math/bits"

	xxhash "github.com/cespare/xxhash/v2"
)

// LevelStats describes one packed level.
type LevelStats struct {
	Level      int
	DenseNodes uint64 // nodes at this level in the uncompacted tree
	Nodes      int    // canonical nodes
	Words      int    // packed 64-bit words
}

// Stats summarizes a DAG.
type Stats struct {
	Levels    []LevelStats
	Words     int
	SetVoxels uint64
}

// Stats reports per-level sizes and the number of occupied voxels. The voxel
// count is memoized per shared node, so it costs one visit per canonical node.
func (d *DAG) Stats() Stats {
	s := Stats{Levels: make([]LevelStats, len(d.levels))}
	for k, level := range d.levels {
		s.Levels[k] = LevelStats{
			Level:      k,
			DenseNodes: uint64(1) << (3 * uint(k)),
			Nodes:      d.nodes[k],
			Words:      len(level),
		}
		s.Words += len(level)
	}

	memo := make([]map[uint64]uint64, len(d.levels))
	for k := range memo {
		memo[k] = make(map[uint64]uint64)
	}
	var count func(k int, node uint64) uint64
	count = func(k int, node uint64) uint64 {
		if k == d.LeafLevel() {
			return uint64(bits.OnesCount64(d.levels[k][node]))
		}
		if c, ok := memo[k][node]; ok {
			return c
		}
		var c uint64
		mask := d.Mask(k, node)
		for oct := uint(0); oct < 8; oct++ {
			if mask&(1<<oct) != 0 {
				c += count(k+1, d.ChildPointer(k, node, oct))
			}
		}
		memo[k][node] = c
		return c
	}
	s.SetVoxels = count(0, d.Root())
	return s
}

// Fingerprint hashes the level count and every packed buffer. Two builds from
// the same input produce the same fingerprint.
func (d *DAG) Fingerprint() uint64 {
	h := xxhash.New()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(d.numLevels))
	_, _ = h.Write(b[:])
	for _, level := range d.levels {
		binary.LittleEndian.PutUint64(b[:], uint64(len(level)))
		_, _ = h.Write(b[:])
		for _, w := range level {
			binary.LittleEndian.PutUint64(b[:], w)
			_, _ = h.Write(b[:])
		}
	}
	return h.Sum64()
}
