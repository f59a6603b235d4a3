package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/voxelsplace/voxeldag/mesh"
	"github.com/voxelsplace/voxeldag/svo"
	"github.com/voxelsplace/voxeldag/vdag"
)

// NoiseConfig controls RunGenerateNoiseDAG.
type NoiseConfig struct {
	Levels        int
	PercentageMin float64
	PercentageMax float64
	Amount        int
	Compression   vdag.Compression
	// Seed fixes the random stream; zero seeds from the clock.
	Seed int64
}

// noiseBuilder fills percentage% of the grid with randomly placed voxels.
func noiseBuilder(numLevels int, percentage float64, r *rand.Rand) (*svo.Builder, error) {
	b, err := svo.NewBuilder(numLevels)
	if err != nil {
		return nil, err
	}
	percentage = max(0, min(100, percentage))
	dim := int(b.Dimension())
	total := dim * dim * dim
	want := int(float64(total)*(percentage/100.0) + 0.5)

	if want*2 > total {
		// dense fill: a partial Fisher-Yates over all positions
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		for i := 0; i < want; i++ {
			j := i + r.Intn(total-i)
			idx[i], idx[j] = idx[j], idx[i]
			p := idx[i]
			b.Set(uint32(p%dim), uint32(p/dim%dim), uint32(p/(dim*dim)))
		}
		return b, nil
	}
	for n := 0; n < want; {
		x, y, z := uint32(r.Intn(dim)), uint32(r.Intn(dim)), uint32(r.Intn(dim))
		if !b.IsSet(x, y, z) {
			b.Set(x, y, z)
			n++
		}
	}
	return b, nil
}

// RunGenerateNoiseDAG writes cfg.Amount random DAGs named 0.vdag..(n-1).vdag
// into outDir, each with a fill percentage drawn from [PercentageMin,
// PercentageMax].
func RunGenerateNoiseDAG(cfg NoiseConfig, outDir string, logger *zap.SugaredLogger) error {
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	lo, hi := max(0, cfg.PercentageMin), min(100, cfg.PercentageMax)
	if hi < lo {
		lo, hi = hi, lo
	}

	baseSeed := uint64(cfg.Seed)
	if baseSeed == 0 {
		baseSeed = uint64(time.Now().UnixNano())
	}
	unit := mesh.BoundingBox{Max: r3.Vector{X: 1, Y: 1, Z: 1}}
	for i := 0; i < cfg.Amount; i++ {
		// per-file seeds follow a Weyl sequence
		const weyl = uint64(0x9e3779b97f4a7c15)
		seed := baseSeed ^ (uint64(i)+1)*weyl
		r := rand.New(rand.NewSource(int64(seed & 0x7fffffffffffffff)))

		perc := lo
		if hi > lo {
			perc = lo + r.Float64()*(hi-lo)
		}
		b, err := noiseBuilder(cfg.Levels, perc, r)
		if err != nil {
			return errors.Wrap(vdag.ErrConfig, err.Error())
		}
		d, err := vdag.FromOctree(b.Build(unit))
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, fmt.Sprintf("%d.vdag", i))
		if err := vdag.SaveFile(path, d, cfg.Compression); err != nil {
			return errors.Wrapf(err, "save %s", path)
		}
		logger.Debugw("noise dag written", "path", path, "percentage", perc, "set_voxels", b.Count())
	}
	logger.Infow("noise generated", "dir", outDir, "amount", cfg.Amount)
	return nil
}
