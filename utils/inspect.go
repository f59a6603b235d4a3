package utils

import (
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/voxelsplace/voxeldag/export"
	"github.com/voxelsplace/voxeldag/vdag"
)

// RunQuery reports whether voxel (x, y, z) of the DAG at path is occupied.
func RunQuery(path string, x, y, z uint32) (bool, error) {
	d, err := vdag.LoadFile(path)
	if err != nil {
		return false, err
	}
	return d.IsSet(x, y, z), nil
}

// RunStats prints a per-level summary of the DAG at path to w.
func RunStats(path string, w io.Writer) error {
	d, err := vdag.LoadFile(path)
	if err != nil {
		return err
	}
	st := d.Stats()

	fmt.Fprintf(w, "levels: %d (%d^3 voxels, width %g)\n", d.NumLevels(), d.Dimension(), d.VoxelWidth())
	fmt.Fprintf(w, "set voxels: %d\n", st.SetVoxels)
	fmt.Fprintf(w, "fingerprint: %016x\n", d.Fingerprint())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "level\tdense\tnodes\twords\t")
	for _, ls := range st.Levels {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t\n", ls.Level, ls.DenseNodes, ls.Nodes, ls.Words)
	}
	fmt.Fprintf(tw, "total\t\t\t%d\t\n", st.Words)
	return tw.Flush()
}

// RunSlices writes one PNG per z layer of the DAG at inPath into outDir.
func RunSlices(inPath, outDir string, logger *zap.SugaredLogger) error {
	d, err := vdag.LoadFile(inPath)
	if err != nil {
		return err
	}
	n, err := export.WriteSlices(outDir, d)
	if err != nil {
		return err
	}
	logger.Infow("slices written", "dir", outDir, "count", n)
	return nil
}

// RunDAG2GLB greedy-meshes the DAG at inPath into a GLB model at outPath.
func RunDAG2GLB(inPath, outPath string, logger *zap.SugaredLogger) error {
	d, err := vdag.LoadFile(inPath)
	if err != nil {
		return err
	}
	if err := export.WriteGLB(outPath, d, export.DefaultGLBOptions); err != nil {
		return err
	}
	logger.Infow("glb written", "path", outPath)
	return nil
}

// RunRender saves an orthographic preview of the DAG at inPath to outPath.
func RunRender(inPath, outPath string, axis export.Axis, size int, logger *zap.SugaredLogger) error {
	d, err := vdag.LoadFile(inPath)
	if err != nil {
		return err
	}
	if err := export.WriteRender(outPath, d, axis, size); err != nil {
		return err
	}
	logger.Infow("preview written", "path", outPath, "size", size)
	return nil
}
