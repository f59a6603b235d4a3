package export

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLBOptions tunes the exported model.
type GLBOptions struct {
	// Color is the linear RGBA base color of the material.
	Color [4]float32
	// VoxelUnits keeps positions in voxel units instead of world space.
	VoxelUnits bool
}

// DefaultGLBOptions is a light grey, world space model.
var DefaultGLBOptions = GLBOptions{Color: [4]float32{0.8, 0.8, 0.8, 1}}

// BuildDocument greedy-meshes v into a single-mesh glTF document. Positions are
// placed in world space using the volume's bounds and voxel width.
func BuildDocument(v Volume, opts GLBOptions) (*gltf.Document, error) {
	m := GreedyMesh(v)
	if len(m.Indices) == 0 {
		return nil, ErrEmptyVolume
	}

	scale, origin := float32(1), [3]float32{}
	if !opts.VoxelUnits {
		b := v.Bounds()
		scale = float32(v.VoxelWidth())
		origin = [3]float32{float32(b.Min.X), float32(b.Min.Y), float32(b.Min.Z)}
	}

	positions := make([][3]float32, len(m.Vertices))
	normals := make([][3]float32, len(m.Vertices))
	for i, vert := range m.Vertices {
		for c := 0; c < 3; c++ {
			positions[i][c] = origin[c] + vert.Position[c]*scale
		}
		normals[i] = vert.Normal
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "voxeldag"

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, positions),
			gltf.NORMAL:   modeler.WriteNormal(doc, normals),
		},
		Indices:  gltf.Index(modeler.WriteIndices(doc, m.Indices)),
		Material: gltf.Index(0),
	}

	c := opts.Color
	color := [4]float64{float64(c[0]), float64(c[1]), float64(c[2]), float64(c[3])}
	material := &gltf.Material{
		Name: "voxel",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}
	if color[3] < 1 {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = []*gltf.Material{material}
	doc.Meshes = []*gltf.Mesh{{Name: "VoxelMesh", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "Voxels", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// EncodeGLB returns v as binary glTF bytes.
func EncodeGLB(v Volume, opts GLBOptions) ([]byte, error) {
	doc, err := BuildDocument(v, opts)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "encode glb")
	}
	return out.Bytes(), nil
}

// WriteGLB writes v to path as binary glTF.
func WriteGLB(path string, v Volume, opts GLBOptions) error {
	doc, err := BuildDocument(v, opts)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
