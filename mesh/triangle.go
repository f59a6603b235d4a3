// Package mesh holds the triangle geometry that gets voxelized: triangles, their
// axis-aligned bounds and a Wavefront OBJ reader.
package mesh

import "github.com/golang/geo/r3"

// Triangle is a single face in world space.
type Triangle struct {
	V0, V1, V2 r3.Vector
}

// Mins returns the component-wise minimum of the three vertices.
func (t Triangle) Mins() r3.Vector {
	return r3.Vector{
		X: min(t.V0.X, t.V1.X, t.V2.X),
		Y: min(t.V0.Y, t.V1.Y, t.V2.Y),
		Z: min(t.V0.Z, t.V1.Z, t.V2.Z),
	}
}

// Maxs returns the component-wise maximum of the three vertices.
func (t Triangle) Maxs() r3.Vector {
	return r3.Vector{
		X: max(t.V0.X, t.V1.X, t.V2.X),
		Y: max(t.V0.Y, t.V1.Y, t.V2.Y),
		Z: max(t.V0.Z, t.V1.Z, t.V2.Z),
	}
}

// Translate returns the triangle moved by d.
func (t Triangle) Translate(d r3.Vector) Triangle {
	return Triangle{V0: t.V0.Add(d), V1: t.V1.Add(d), V2: t.V2.Add(d)}
}
