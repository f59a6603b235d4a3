package svo

// Morton3D interleaves the low 21 bits of x, y and z into a Z-order index. Bit 0
// comes from x, bit 1 from y and bit 2 from z, so every 3-bit group selects an
// octant: (x&1) | (y&1)<<1 | (z&1)<<2.
func Morton3D(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) |
		(part1By2(uint64(y)) << 1) |
		(part1By2(uint64(z)) << 2)
}

// MortonDecode3D is the inverse of Morton3D.
func MortonDecode3D(index uint64) (x, y, z uint32) {
	x = uint32(compact1By2(index))
	y = uint32(compact1By2(index >> 1))
	z = uint32(compact1By2(index >> 2))
	return
}

// Octant returns the 3-bit child index that index selects at the given tree level.
// Level 0 is the root; a tree with numLevels levels spends 3*numLevels bits.
func Octant(index uint64, level, numLevels int) int {
	return int(index>>(3*uint(numLevels-1-level))) & 7
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}
