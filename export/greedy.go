// Package export turns a voxel volume into things people can look at: a
// greedy-meshed GLB model, per-layer PNG slices and a shaded preview.
package export

import (
	"github.com/pkg/errors"

	"github.com/voxelsplace/voxeldag/mesh"
)

// ErrEmptyVolume is returned when there is nothing to export.
var ErrEmptyVolume = errors.New("volume has no occupied voxels")

// Volume is a read-only cubic voxel grid. *vdag.DAG implements it.
type Volume interface {
	Dimension() uint32
	IsSet(x, y, z uint32) bool
	Walk(fn func(x, y, z uint32) bool)
	Bounds() mesh.BoundingBox
	VoxelWidth() float64
}

// Vertex is a quad corner in voxel units.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

type dirSpec struct {
	normal [3]float32
	u, v   int
	du, dv [3]int
}

var directions = []dirSpec{
	{[3]float32{1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{-1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, -1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 0, 1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
	{[3]float32{0, 0, -1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
}

func (d dirSpec) perp() int { return 3 - d.u - d.v }

func addQuad(m *Mesh, dir dirSpec, start [3]int, w, h int) {
	perp := dir.perp()
	base := [3]float32{}
	base[perp] = float32(start[0])
	if dir.normal[perp] > 0 {
		base[perp]++
	}
	base[dir.u] = float32(start[1])
	base[dir.v] = float32(start[2])

	corner := func(a, b int) Vertex {
		var p [3]float32
		for i := range p {
			p[i] = base[i] + float32(dir.du[i]*a+dir.dv[i]*b)
		}
		return Vertex{Position: p, Normal: dir.normal}
	}
	verts := [4]Vertex{corner(0, 0), corner(h, 0), corner(h, w), corner(0, w)}

	// keep the winding counter-clockwise when seen from the normal side
	if (dir.normal[perp] < 0) != (perp == 1) {
		verts[1], verts[3] = verts[3], verts[1]
	}

	baseIdx := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, verts[:]...)
	m.Indices = append(m.Indices, baseIdx, baseIdx+1, baseIdx+2, baseIdx, baseIdx+2, baseIdx+3)
}

// GreedyMesh emits one quad per maximal rectangle of exposed voxel faces. Only
// layers that actually hold a visible face are swept, so the cost follows the
// surface of the volume rather than its full grid.
func GreedyMesh(v Volume) *Mesh {
	dim := int(v.Dimension())
	type layerKey struct{ dir, p int }
	layers := make(map[layerKey][]bool)

	v.Walk(func(x, y, z uint32) bool {
		pos := [3]int{int(x), int(y), int(z)}
		for di, dir := range directions {
			perp := dir.perp()
			adj := pos
			if dir.normal[perp] < 0 {
				adj[perp]--
			} else {
				adj[perp]++
			}
			if adj[perp] >= 0 && adj[perp] < dim && v.IsSet(uint32(adj[0]), uint32(adj[1]), uint32(adj[2])) {
				continue
			}
			key := layerKey{di, pos[perp]}
			mask := layers[key]
			if mask == nil {
				mask = make([]bool, dim*dim)
				layers[key] = mask
			}
			mask[pos[dir.u]*dim+pos[dir.v]] = true
		}
		return true
	})

	m := &Mesh{}
	for di, dir := range directions {
		for p := 0; p < dim; p++ {
			mask := layers[layerKey{di, p}]
			if mask == nil {
				continue
			}
			mergeLayer(m, dir, p, mask, dim)
		}
	}
	return m
}

// mergeLayer greedily covers the true cells of mask, widest run along v first,
// then growing along u while whole rows match.
func mergeLayer(m *Mesh, dir dirSpec, p int, mask []bool, dim int) {
	visited := make([]bool, len(mask))
	open := func(u, v int) bool { return mask[u*dim+v] && !visited[u*dim+v] }

	for u := 0; u < dim; u++ {
		for v := 0; v < dim; {
			if !open(u, v) {
				v++
				continue
			}
			width := 1
			for v+width < dim && open(u, v+width) {
				width++
			}
			height := 1
		grow:
			for u+height < dim {
				for w := v; w < v+width; w++ {
					if !open(u+height, w) {
						break grow
					}
				}
				height++
			}
			for hu := u; hu < u+height; hu++ {
				for hv := v; hv < v+width; hv++ {
					visited[hu*dim+hv] = true
				}
			}
			addQuad(m, dir, [3]int{p, u, v}, width, height)
			v += width
		}
	}
}
