package vdag

import "github.com/voxelsplace/voxeldag/mesh"

// FileHeader holds the fixed fields of a .vdag container. Version and
// Compression sit in the clear after the magic; the rest opens the (possibly
// compressed) content section.
type FileHeader struct {
	Version     uint8
	Compression Compression
	NumLevels   uint8
	Bounds      mesh.BoundingBox
	LevelCount  uint32 // NumLevels-1
}
