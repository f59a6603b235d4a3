package api

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxeldag/mesh"
	"github.com/voxelsplace/voxeldag/vdag"
)

// a unit quad in the z=0 plane, split in two triangles
const quadOBJ = `# quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func TestOBJToDAGBytes(t *testing.T) {
	data, err := OBJToDAGBytes([]byte(quadOBJ), 4, vdag.CompZstd)
	require.NoError(t, err)

	st, err := DAGStats(data)
	require.NoError(t, err)
	require.NotZero(t, st.SetVoxels)

	// the quad is centered and fills the squared box, so it cuts the middle
	// layers of the grid
	set, err := QueryDAGBytes(data, 8, 8, 8)
	require.NoError(t, err)
	require.True(t, set)
	set, err = QueryDAGBytes(data, 8, 8, 0)
	require.NoError(t, err)
	require.False(t, set)

	glb, err := DAGToGLB(data)
	require.NoError(t, err)
	require.Equal(t, []byte("glTF"), glb[:4])
}

func TestOBJToDAGBytesErrors(t *testing.T) {
	_, err := OBJToDAGBytes([]byte("v 0 0 0\n"), 4, vdag.CompNone)
	require.True(t, errors.Is(err, mesh.ErrNoTriangles))

	_, err = OBJToDAGBytes([]byte(quadOBJ), 2, vdag.CompNone)
	require.True(t, errors.Is(err, vdag.ErrConfig))

	_, err = QueryDAGBytes([]byte("nope"), 0, 0, 0)
	require.True(t, errors.Is(err, vdag.ErrCorrupt))

	_, err = DAGToGLB(nil)
	require.True(t, errors.Is(err, vdag.ErrCorrupt))
}
