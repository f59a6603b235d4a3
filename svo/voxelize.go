package svo

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/voxelsplace/voxeldag/mesh"
)

// Voxelize sets every voxel whose cell overlaps one of the triangles. bounds is
// the cube the builder spans in world space; it should already be squared.
func Voxelize(b *Builder, bounds mesh.BoundingBox, tris []mesh.Triangle) {
	width := bounds.Extent() / float64(b.dim)
	if width <= 0 {
		return
	}
	half := width / 2
	last := float64(b.dim - 1)
	cell := func(v, origin float64) uint32 {
		c := math.Floor((v - origin) / width)
		return uint32(math.Max(0, math.Min(c, last)))
	}

	for _, t := range tris {
		lo, hi := t.Mins(), t.Maxs()
		if hi.X < bounds.Min.X || hi.Y < bounds.Min.Y || hi.Z < bounds.Min.Z ||
			lo.X > bounds.Max.X || lo.Y > bounds.Max.Y || lo.Z > bounds.Max.Z {
			continue
		}
		x0, x1 := cell(lo.X, bounds.Min.X), cell(hi.X, bounds.Min.X)
		y0, y1 := cell(lo.Y, bounds.Min.Y), cell(hi.Y, bounds.Min.Y)
		z0, z1 := cell(lo.Z, bounds.Min.Z), cell(hi.Z, bounds.Min.Z)
		for z := z0; z <= z1; z++ {
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					center := r3.Vector{
						X: bounds.Min.X + (float64(x)+0.5)*width,
						Y: bounds.Min.Y + (float64(y)+0.5)*width,
						Z: bounds.Min.Z + (float64(z)+0.5)*width,
					}
					if TriangleBoxOverlap(center, half, t) {
						b.Set(x, y, z)
					}
				}
			}
		}
	}
}

// FromTriangles voxelizes tris into a fresh tree spanning bounds.
func FromTriangles(numLevels int, bounds mesh.BoundingBox, tris []mesh.Triangle) (*Octree, error) {
	b, err := NewBuilder(numLevels)
	if err != nil {
		return nil, err
	}
	Voxelize(b, bounds, tris)
	return b.Build(bounds), nil
}

var unitAxes = [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}

// TriangleBoxOverlap is the separating axis test between a triangle and the cube
// centered at c with half side h. Touching counts as overlapping.
func TriangleBoxOverlap(c r3.Vector, h float64, t mesh.Triangle) bool {
	v0, v1, v2 := t.V0.Sub(c), t.V1.Sub(c), t.V2.Sub(c)

	// box face normals
	if min(v0.X, v1.X, v2.X) > h || max(v0.X, v1.X, v2.X) < -h ||
		min(v0.Y, v1.Y, v2.Y) > h || max(v0.Y, v1.Y, v2.Y) < -h ||
		min(v0.Z, v1.Z, v2.Z) > h || max(v0.Z, v1.Z, v2.Z) < -h {
		return false
	}

	e0, e1, e2 := v1.Sub(v0), v2.Sub(v1), v0.Sub(v2)

	// triangle plane
	n := e0.Cross(e1)
	if math.Abs(n.Dot(v0)) > h*(math.Abs(n.X)+math.Abs(n.Y)+math.Abs(n.Z)) {
		return false
	}

	// edge cross products
	for _, e := range [3]r3.Vector{e0, e1, e2} {
		for _, a := range unitAxes {
			axis := a.Cross(e)
			p0, p1, p2 := axis.Dot(v0), axis.Dot(v1), axis.Dot(v2)
			r := h * (math.Abs(axis.X) + math.Abs(axis.Y) + math.Abs(axis.Z))
			if min(p0, p1, p2) > r || max(p0, p1, p2) < -r {
				return false
			}
		}
	}
	return true
}
