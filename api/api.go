// Package api wraps the library in byte-in, byte-out calls for embedders that
// have no file system, such as the wasm build.
package api

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/voxelsplace/voxeldag/export"
	"github.com/voxelsplace/voxeldag/mesh"
	"github.com/voxelsplace/voxeldag/vdag"
)

// OBJToDAGBytes parses Wavefront OBJ text, centers the mesh on the origin,
// voxelizes it at numLevels and returns the .vdag container.
func OBJToDAGBytes(obj []byte, numLevels int, comp vdag.Compression) ([]byte, error) {
	m, err := mesh.ParseOBJ(bytes.NewReader(obj))
	if err != nil {
		return nil, err
	}
	m.Center()
	d, err := vdag.New(numLevels, m.Bounds(), m.Triangles)
	if err != nil {
		return nil, errors.Wrap(err, "build dag")
	}
	return vdag.Marshal(d, comp)
}

// DAGToGLB decodes a .vdag container and returns its surface as a binary glTF
// model in world space.
func DAGToGLB(dagBytes []byte) ([]byte, error) {
	d, err := vdag.Unmarshal(dagBytes)
	if err != nil {
		return nil, err
	}
	return export.EncodeGLB(d, export.DefaultGLBOptions)
}

// QueryDAGBytes decodes a .vdag container and reports whether voxel (x, y, z)
// is occupied.
func QueryDAGBytes(dagBytes []byte, x, y, z uint32) (bool, error) {
	d, err := vdag.Unmarshal(dagBytes)
	if err != nil {
		return false, err
	}
	return d.IsSet(x, y, z), nil
}

// DAGStats decodes a .vdag container and summarizes it.
func DAGStats(dagBytes []byte) (vdag.Stats, error) {
	d, err := vdag.Unmarshal(dagBytes)
	if err != nil {
		return vdag.Stats{}, err
	}
	return d.Stats(), nil
}
