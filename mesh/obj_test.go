package mesh

import (
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJFanTriangulates(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	require.Len(t, m.Triangles, 2)
	require.Equal(t, r3.Vector{X: 0, Y: 0, Z: 0}, m.Triangles[0].V0)
	require.Equal(t, r3.Vector{X: 1, Y: 1, Z: 0}, m.Triangles[0].V2)
	require.Equal(t, r3.Vector{X: 1, Y: 1, Z: 0}, m.Triangles[1].V1)
	require.Equal(t, r3.Vector{X: 0, Y: 1, Z: 0}, m.Triangles[1].V2)
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 2 0 0\nv 0 2 0\nf -3 -2 -1\n"
	m, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Triangles, 1)
	require.Equal(t, r3.Vector{X: 2}, m.Triangles[0].V1)
}

func TestParseOBJErrors(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("v 0 0 0\n"))
	require.True(t, errors.Is(err, ErrNoTriangles))

	_, err = ParseOBJ(strings.NewReader("v 0 0\n"))
	require.ErrorContains(t, err, "line 1")

	_, err = ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 7\n"))
	require.ErrorContains(t, err, "out of range")

	_, err = ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"))
	require.Error(t, err)
}

func TestMeshCenter(t *testing.T) {
	m := &Mesh{Triangles: []Triangle{{
		V0: r3.Vector{X: 2, Y: 2, Z: 2},
		V1: r3.Vector{X: 4, Y: 2, Z: 2},
		V2: r3.Vector{X: 2, Y: 6, Z: 3},
	}}}
	d := m.Center()
	require.Equal(t, r3.Vector{X: -3, Y: -4, Z: -2.5}, d)
	c := m.Bounds().Center()
	require.InDelta(t, 0, c.X, 1e-12)
	require.InDelta(t, 0, c.Y, 1e-12)
	require.InDelta(t, 0, c.Z, 1e-12)
}

func TestBoundingBoxSquare(t *testing.T) {
	b := BoundingBox{Min: r3.Vector{X: 0, Y: 0, Z: 0}, Max: r3.Vector{X: 4, Y: 2, Z: 1}}
	require.False(t, b.IsSquare())
	sq := b.Square()
	require.True(t, sq.IsSquare())
	require.Equal(t, 4.0, sq.Extent())
	require.Equal(t, b.Center(), sq.Center())

	flat := BoundingBox{Min: r3.Vector{X: 1, Y: 1, Z: 1}, Max: r3.Vector{X: 1, Y: 1, Z: 1}}
	require.Equal(t, 1.0, flat.Square().Extent())
	require.True(t, EmptyBox().IsEmpty())
}
