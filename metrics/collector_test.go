package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxeldag/mesh"
	"github.com/voxelsplace/voxeldag/svo"
	"github.com/voxelsplace/voxeldag/vdag"
)

func buildWith(t *testing.T, obs vdag.Observer) *vdag.DAG {
	t.Helper()
	b, err := svo.NewBuilder(4)
	require.NoError(t, err)
	b.Set(0, 0, 0)
	b.Set(4, 0, 0)
	b.Set(15, 15, 15)
	d, err := vdag.FromOctree(b.Build(mesh.BoundingBox{Max: r3.Vector{X: 1, Y: 1, Z: 1}}), vdag.WithObserver(obs))
	require.NoError(t, err)
	return d
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	d := buildWith(t, c)
	st := d.Stats()

	require.Equal(t, 1.0, testutil.ToFloat64(c.builds))
	require.Equal(t, 1.0, testutil.ToFloat64(c.stages.With(prometheus.Labels{stageLabel: "root-installed"})))
	require.Equal(t, 1.0, testutil.ToFloat64(c.stages.With(prometheus.Labels{stageLabel: "level-rewritten"})))
	require.Equal(t, 64.0, testutil.ToFloat64(c.levelNodes.With(level(2))))
	require.Equal(t, float64(st.Levels[2].Nodes), testutil.ToFloat64(c.levelUnique.With(level(2))))
	for k, ls := range st.Levels {
		require.Equal(t, float64(ls.Words), testutil.ToFloat64(c.levelWords.With(level(k))), "level %d", k)
	}
	// three occupied leaves hang off level 1, two occupied level-1 nodes off the root
	require.Equal(t, 3.0, testutil.ToFloat64(c.refsRewritten.With(level(1))))
	require.Equal(t, 2.0, testutil.ToFloat64(c.refsRewritten.With(level(0))))
	require.Equal(t, 1, testutil.CollectAndCount(c.buildDuration))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	buildWith(t, NewCollector(reg))

	path := filepath.Join(t.TempDir(), "vdag.prom")
	require.NoError(t, WriteTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "vdag_builds_total 1"))
	require.True(t, strings.Contains(string(data), `vdag_level_words{level="0"}`))
}
