//go:build !(js && wasm)

// Command voxeldag voxelizes triangle meshes into compact voxel DAGs and
// inspects or exports the result.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/voxelsplace/voxeldag/export"
	"github.com/voxelsplace/voxeldag/utils"
	"github.com/voxelsplace/voxeldag/vdag"
)

const (
	flagLevels      = "levels"
	flagCompression = "compression"
	flagDebug       = "debug"
	flagLogJSON     = "log-json"
	flagMetricsFile = "metrics-file"
	flagAxis        = "axis"
	flagSize        = "size"
	flagMin         = "min"
	flagMax         = "max"
	flagAmount      = "amount"
	flagSeed        = "seed"
)

func newLogger(debug, json bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	if json {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return errors.Errorf("%s expects %d arguments, got %d (usage: %s %s)",
			c.Command.Name, n, c.NArg(), c.Command.Name, c.Command.ArgsUsage)
	}
	return nil
}

func compression(c *cli.Context) (vdag.Compression, error) {
	return vdag.ParseCompression(c.String(flagCompression))
}

func parseCoord(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "bad coordinate %q", s)
	}
	return uint32(v), nil
}

func main() {
	logger := zap.NewNop().Sugar()

	app := &cli.App{
		Name:  "voxeldag",
		Usage: "voxelize meshes into compact voxel DAGs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    flagLevels,
				Aliases: []string{"n"},
				Value:   7,
				Usage:   fmt.Sprintf("octree depth, %d..%d (grid side is 2^levels)", vdag.MinLevels, vdag.MaxLevels),
				EnvVars: []string{"VDAG_LEVELS"},
			},
			&cli.StringFlag{
				Name:    flagCompression,
				Value:   "zstd",
				Usage:   "container compression: none, zlib or zstd",
				EnvVars: []string{"VDAG_COMPRESSION"},
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
				EnvVars: []string{"VDAG_DEBUG"},
			},
			&cli.BoolFlag{
				Name:    flagLogJSON,
				Usage:   "log JSON lines instead of console text",
				EnvVars: []string{"VDAG_LOG_JSON"},
			},
			&cli.StringFlag{
				Name:    flagMetricsFile,
				Usage:   "write build metrics to `FILE` in Prometheus text format",
				EnvVars: []string{"VDAG_METRICS_FILE"},
			},
		},
		Before: func(c *cli.Context) error {
			l, err := newLogger(c.Bool(flagDebug), c.Bool(flagLogJSON))
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		After: func(c *cli.Context) error {
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "voxelize an OBJ mesh into a .vdag file",
				ArgsUsage: "<input.obj> <output.vdag>",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2); err != nil {
						return err
					}
					comp, err := compression(c)
					if err != nil {
						return err
					}
					return utils.RunBuild(c.Args().Get(0), c.Args().Get(1), utils.BuildConfig{
						Levels:      c.Int(flagLevels),
						Compression: comp,
						MetricsFile: c.String(flagMetricsFile),
					}, logger)
				},
			},
			{
				Name:      "query",
				Usage:     "print whether a voxel is occupied",
				ArgsUsage: "<input.vdag> <x> <y> <z>",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 4); err != nil {
						return err
					}
					var xyz [3]uint32
					for i := range xyz {
						v, err := parseCoord(c.Args().Get(i + 1))
						if err != nil {
							return err
						}
						xyz[i] = v
					}
					set, err := utils.RunQuery(c.Args().Get(0), xyz[0], xyz[1], xyz[2])
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, set)
					return nil
				},
			},
			{
				Name:      "stats",
				Usage:     "print per-level sizes of a .vdag file",
				ArgsUsage: "<input.vdag>",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1); err != nil {
						return err
					}
					return utils.RunStats(c.Args().Get(0), c.App.Writer)
				},
			},
			{
				Name:      "slices",
				Usage:     "write one PNG per z layer",
				ArgsUsage: "<input.vdag> <output_dir>",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2); err != nil {
						return err
					}
					return utils.RunSlices(c.Args().Get(0), c.Args().Get(1), logger)
				},
			},
			{
				Name:      "glb",
				Usage:     "greedy-mesh the surface into a GLB model",
				ArgsUsage: "<input.vdag> <output.glb>",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2); err != nil {
						return err
					}
					return utils.RunDAG2GLB(c.Args().Get(0), c.Args().Get(1), logger)
				},
			},
			{
				Name:      "render",
				Usage:     "save an orthographic depth-shaded preview",
				ArgsUsage: "<input.vdag> <output.png>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagAxis, Value: "z", Usage: "view axis: x, y or z"},
					&cli.IntFlag{Name: flagSize, Value: 512, Usage: "image side in pixels"},
				},
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2); err != nil {
						return err
					}
					axis, err := export.ParseAxis(c.String(flagAxis))
					if err != nil {
						return err
					}
					return utils.RunRender(c.Args().Get(0), c.Args().Get(1), axis, c.Int(flagSize), logger)
				},
			},
			{
				Name:      "noise",
				Usage:     "generate random .vdag files",
				ArgsUsage: "<output_dir>",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: flagMin, Value: 10, Usage: "minimum fill percentage"},
					&cli.Float64Flag{Name: flagMax, Value: 10, Usage: "maximum fill percentage"},
					&cli.IntFlag{Name: flagAmount, Value: 1, Usage: "number of files"},
					&cli.Int64Flag{Name: flagSeed, Usage: "random seed, 0 seeds from the clock"},
				},
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1); err != nil {
						return err
					}
					comp, err := compression(c)
					if err != nil {
						return err
					}
					return utils.RunGenerateNoiseDAG(utils.NoiseConfig{
						Levels:        c.Int(flagLevels),
						PercentageMin: c.Float64(flagMin),
						PercentageMax: c.Float64(flagMax),
						Amount:        c.Int(flagAmount),
						Compression:   comp,
						Seed:          c.Int64(flagSeed),
					}, c.Args().Get(0), logger)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
