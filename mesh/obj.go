package mesh

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrNoTriangles is returned when a mesh source holds no faces.
var ErrNoTriangles = errors.New("mesh has no triangles")

// Mesh is a triangle soup.
type Mesh struct {
	Triangles []Triangle
}

// LoadOBJ reads a Wavefront OBJ file from disk.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ParseOBJ(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return m, nil
}

// ParseOBJ reads vertices ("v x y z") and faces ("f a b c ...") from r. Faces with
// more than three corners are fan triangulated. Face indices may use the a/b/c form
// and may be negative (relative to the last vertex read). Everything else is ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var (
		vertices []r3.Vector
		m        = &Mesh{}
		lineNo   int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: vertex needs 3 coordinates, found %d", lineNo, len(fields)-1)
			}
			var c [3]float64
			for i := range c {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNo)
				}
				c[i] = f
			}
			vertices = append(vertices, r3.Vector{X: c[0], Y: c[1], Z: c[2]})
		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: face needs at least 3 vertices, found %d", lineNo, len(fields)-1)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, fv := range fields[1:] {
				i, err := faceIndex(fv, len(vertices))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNo)
				}
				idx = append(idx, i)
			}
			for j := 1; j+1 < len(idx); j++ {
				m.Triangles = append(m.Triangles, Triangle{
					V0: vertices[idx[0]],
					V1: vertices[idx[j]],
					V2: vertices[idx[j+1]],
				})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(m.Triangles) == 0 {
		return nil, ErrNoTriangles
	}
	return m, nil
}

// faceIndex resolves one "f" corner to a zero based vertex index.
func faceIndex(corner string, numVertices int) (int, error) {
	if slash := strings.IndexByte(corner, '/'); slash >= 0 {
		corner = corner[:slash]
	}
	i, err := strconv.Atoi(corner)
	if err != nil {
		return 0, errors.Wrapf(err, "bad face index %q", corner)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += numVertices
	default:
		return 0, errors.New("face index 0 is not valid")
	}
	if i < 0 || i >= numVertices {
		return 0, errors.Errorf("face index %s out of range (%d vertices)", corner, numVertices)
	}
	return i, nil
}

// Bounds returns the bounding box of all triangle vertices. It is not squared.
func (m *Mesh) Bounds() BoundingBox {
	b := EmptyBox()
	for _, t := range m.Triangles {
		b = b.Extend(t.V0).Extend(t.V1).Extend(t.V2)
	}
	return b
}

// Center moves the mesh so that its bounding box is centered on the origin and
// returns the translation that was applied.
func (m *Mesh) Center() r3.Vector {
	if len(m.Triangles) == 0 {
		return r3.Vector{}
	}
	d := m.Bounds().Center().Mul(-1)
	for i := range m.Triangles {
		m.Triangles[i] = m.Triangles[i].Translate(d)
	}
	return d
}
