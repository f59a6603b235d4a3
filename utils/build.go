package utils

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/voxelsplace/voxeldag/mesh"
	"github.com/voxelsplace/voxeldag/metrics"
	"github.com/voxelsplace/voxeldag/vdag"
)

// BuildConfig controls RunBuild.
type BuildConfig struct {
	Levels      int
	Compression vdag.Compression
	// MetricsFile, when set, receives the build metrics in Prometheus text format.
	MetricsFile string
}

// RunBuild voxelizes the OBJ mesh at inPath and writes the compacted DAG to
// outPath.
func RunBuild(inPath, outPath string, cfg BuildConfig, logger *zap.SugaredLogger) error {
	m, err := mesh.LoadOBJ(inPath)
	if err != nil {
		return err
	}
	shift := m.Center()
	bounds := m.Bounds()
	logger.Infow("mesh loaded",
		"path", inPath,
		"triangles", len(m.Triangles),
		"shift", shift,
		"extent", bounds.Extent(),
	)

	observers := vdag.MultiObserver{vdag.LogObserver{Logger: logger}}
	var reg *prometheus.Registry
	if cfg.MetricsFile != "" {
		reg = prometheus.NewRegistry()
		observers = append(observers, metrics.NewCollector(reg))
	}

	d, err := vdag.New(cfg.Levels, bounds, m.Triangles, vdag.WithObserver(observers))
	if err != nil {
		return errors.Wrapf(err, "build %s", inPath)
	}
	if err := vdag.SaveFile(outPath, d, cfg.Compression); err != nil {
		return errors.Wrapf(err, "save %s", outPath)
	}

	st := d.Stats()
	logger.Infow("dag written",
		"path", outPath,
		"levels", d.NumLevels(),
		"voxel_width", d.VoxelWidth(),
		"set_voxels", st.SetVoxels,
		"words", st.Words,
		"compression", cfg.Compression.String(),
	)

	if reg != nil {
		if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			return err
		}
		logger.Debugw("metrics written", "path", cfg.MetricsFile)
	}
	return nil
}
