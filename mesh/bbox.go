package mesh

import (
	"math"

	"github.com/golang/geo/r3"
)

// BoundingBox is an axis-aligned box given by its min and max corners.
type BoundingBox struct {
	Min r3.Vector
	Max r3.Vector
}

// EmptyBox returns an inverted box that any Extend call will replace.
func EmptyBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: r3.Vector{X: inf, Y: inf, Z: inf},
		Max: r3.Vector{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box has not been extended by any point.
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to include p.
func (b BoundingBox) Extend(p r3.Vector) BoundingBox {
	return BoundingBox{
		Min: r3.Vector{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)},
		Max: r3.Vector{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)},
	}
}

// Size returns the per-axis extent.
func (b BoundingBox) Size() r3.Vector {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extent returns the largest per-axis size. For a squared box all axes share it.
func (b BoundingBox) Extent() float64 {
	s := b.Size()
	return max(s.X, s.Y, s.Z)
}

// IsSquare reports whether all three axes have the same extent.
func (b BoundingBox) IsSquare() bool {
	s := b.Size()
	return s.X == s.Y && s.Y == s.Z
}

// Square grows the box around its center so that every axis spans the largest
// extent. A flat or point-like box becomes a cube of side 1 so that the voxel
// width stays positive.
func (b BoundingBox) Square() BoundingBox {
	c := b.Center()
	half := b.Extent() / 2
	if half <= 0 {
		half = 0.5
	}
	d := r3.Vector{X: half, Y: half, Z: half}
	return BoundingBox{Min: c.Sub(d), Max: c.Add(d)}
}
