package vdag

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"math"
	"math/bits"
	"os"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/golang/geo/r3"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/voxelsplace/voxeldag/mesh"
)

// Compression selects how the content section of a .vdag container is stored.
type Compression uint8

const (
	CompNone Compression = 0
	CompZlib Compression = 1
	CompZstd Compression = 2
)

const (
	fileMagic   = "VDAG"
	fileVersion = 1
)

// maxContentSize caps the decompressed content section. A MaxLevels tree
// needs at most 128 MiB of leaf words plus about 220 MiB of varint branch words.
var maxContentSize = 512 << 20

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompZlib:
		return "zlib"
	case CompZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompression accepts "none", "zlib" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CompNone, nil
	case "zlib":
		return CompZlib, nil
	case "zstd":
		return CompZstd, nil
	default:
		return 0, errors.Errorf("unknown compression %q", s)
	}
}

// Marshal encodes the DAG as a .vdag container:
//
//	"VDAG" | version u8 | compression u8 | content
//	content: numLevels u8 | bbox min, max (6 x f64) | level count u32
//	         branch levels: word count u32, words as uvarint
//	         leaf level: word count u32, words as u64
//	         xxhash64 of everything above u64
//
// All fixed-width fields are little endian.
func Marshal(d *DAG, comp Compression) ([]byte, error) {
	var content bytes.Buffer
	_ = binary.Write(&content, binary.LittleEndian, uint8(d.numLevels))
	for _, v := range []float64{
		d.bounds.Min.X, d.bounds.Min.Y, d.bounds.Min.Z,
		d.bounds.Max.X, d.bounds.Max.Y, d.bounds.Max.Z,
	} {
		_ = binary.Write(&content, binary.LittleEndian, v)
	}
	_ = binary.Write(&content, binary.LittleEndian, uint32(len(d.levels)))

	var scratch []byte
	for k, level := range d.levels {
		_ = binary.Write(&content, binary.LittleEndian, uint32(len(level)))
		if k == d.LeafLevel() {
			_ = binary.Write(&content, binary.LittleEndian, level)
			continue
		}
		scratch = scratch[:0]
		for _, w := range level {
			scratch = writeUVarint(scratch, w)
		}
		_, _ = content.Write(scratch)
	}
	_ = binary.Write(&content, binary.LittleEndian, xxhash.Sum64(content.Bytes()))

	var payload []byte
	switch comp {
	case CompNone:
		payload = content.Bytes()
	case CompZlib:
		var buf bytes.Buffer
		zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if _, err := zw.Write(content.Bytes()); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		payload = buf.Bytes()
	case CompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		payload = enc.EncodeAll(content.Bytes(), nil)
		_ = enc.Close()
	default:
		return nil, errors.Errorf("unsupported compression %d", comp)
	}

	var out bytes.Buffer
	out.WriteString(fileMagic)
	_ = binary.Write(&out, binary.LittleEndian, uint8(fileVersion))
	_ = binary.Write(&out, binary.LittleEndian, uint8(comp))
	_, _ = out.Write(payload)
	return out.Bytes(), nil
}

// ReadHeader decodes the container header without validating the levels.
func ReadHeader(data []byte) (FileHeader, error) {
	h, _, err := parseHeader(data)
	return h, err
}

func parseHeader(data []byte) (FileHeader, []byte, error) {
	var h FileHeader
	if len(data) < len(fileMagic)+2 || string(data[:len(fileMagic)]) != fileMagic {
		return h, nil, errors.Wrap(ErrCorrupt, "not a .vdag container")
	}
	h.Version = data[4]
	h.Compression = Compression(data[5])
	if h.Version != fileVersion {
		return h, nil, errors.Wrapf(ErrCorrupt, "unsupported version %d", h.Version)
	}

	content := data[6:]
	switch h.Compression {
	case CompNone:
	case CompZlib:
		zr, err := zlib.NewReader(bytes.NewReader(content))
		if err != nil {
			return h, nil, errors.Wrap(ErrCorrupt, err.Error())
		}
		defer zr.Close()
		b, err := io.ReadAll(io.LimitReader(zr, int64(maxContentSize)+1))
		if err != nil {
			return h, nil, errors.Wrap(ErrCorrupt, err.Error())
		}
		content = b
	case CompZstd:
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(maxContentSize)))
		if err != nil {
			return h, nil, err
		}
		defer dec.Close()
		b, err := dec.DecodeAll(content, nil)
		if err != nil {
			return h, nil, errors.Wrap(ErrCorrupt, err.Error())
		}
		content = b
	default:
		return h, nil, errors.Wrapf(ErrCorrupt, "unsupported compression %d", h.Compression)
	}

	if len(content) > maxContentSize {
		return h, nil, errors.Wrapf(ErrCorrupt, "content exceeds %d bytes", maxContentSize)
	}

	const fixed = 1 + 6*8 + 4
	if len(content) < fixed+8 {
		return h, nil, errors.Wrap(ErrCorrupt, "content too short")
	}
	body, trailer := content[:len(content)-8], content[len(content)-8:]
	if sum := binary.LittleEndian.Uint64(trailer); sum != xxhash.Sum64(body) {
		return h, nil, errors.Wrap(ErrCorrupt, "checksum mismatch")
	}

	h.NumLevels = body[0]
	var f [6]float64
	for i := range f {
		f[i] = math.Float64frombits(binary.LittleEndian.Uint64(body[1+8*i:]))
	}
	h.Bounds = mesh.BoundingBox{
		Min: r3.Vector{X: f[0], Y: f[1], Z: f[2]},
		Max: r3.Vector{X: f[3], Y: f[4], Z: f[5]},
	}
	h.LevelCount = binary.LittleEndian.Uint32(body[1+6*8:])
	return h, body[fixed:], nil
}

// Unmarshal decodes and validates a .vdag container.
func Unmarshal(data []byte) (*DAG, error) {
	h, body, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	n := int(h.NumLevels)
	if err := checkLevels(n); err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	if int(h.LevelCount) != n-1 {
		return nil, errors.Wrapf(ErrCorrupt, "expected %d levels, found %d", n-1, h.LevelCount)
	}

	levels := make([][]uint64, n-1)
	pos := 0
	for k := range levels {
		if pos+4 > len(body) {
			return nil, errors.Wrapf(ErrCorrupt, "level %d: truncated", k)
		}
		count := int(binary.LittleEndian.Uint32(body[pos:]))
		pos += 4
		if k == n-2 {
			if count > (len(body)-pos)/8 {
				return nil, errors.Wrap(ErrCorrupt, "leaf level: truncated")
			}
			leaves := make([]uint64, count)
			for i := range leaves {
				leaves[i] = binary.LittleEndian.Uint64(body[pos:])
				pos += 8
			}
			levels[k] = leaves
			continue
		}
		if count > len(body)-pos {
			return nil, errors.Wrapf(ErrCorrupt, "level %d: truncated", k)
		}
		words := make([]uint64, count)
		for i := range words {
			w, err := readUVarint(body, &pos)
			if err != nil {
				return nil, errors.Wrapf(ErrCorrupt, "level %d: %v", k, err)
			}
			words[i] = w
		}
		levels[k] = words
	}
	if pos != len(body) {
		return nil, errors.Wrapf(ErrCorrupt, "%d trailing bytes", len(body)-pos)
	}

	nodes, err := validateLevels(levels)
	if err != nil {
		return nil, err
	}
	return newDAG(n, h.Bounds, levels, nodes), nil
}

// validateLevels checks that every level parses into whole nodes, that the root
// level holds exactly one node and that every reference lands on a node start of
// the next level (or on a leaf word). It returns the node count per level.
func validateLevels(levels [][]uint64) ([]int, error) {
	leafLevel := len(levels) - 1
	nodes := make([]int, len(levels))
	if len(levels[leafLevel]) == 0 {
		return nil, errors.Wrap(ErrCorrupt, "empty leaf level")
	}
	nodes[leafLevel] = len(levels[leafLevel])

	var belowStarts []bool
	belowLen := len(levels[leafLevel])
	for k := leafLevel - 1; k >= 0; k-- {
		buf := levels[k]
		starts := make([]bool, len(buf))
		for pos := 0; pos < len(buf); {
			mask := buf[pos]
			if mask > 0xFF {
				return nil, errors.Wrapf(ErrCorrupt, "level %d offset %d: mask %#x", k, pos, mask)
			}
			end := pos + 1 + bits.OnesCount64(mask)
			if end > len(buf) {
				return nil, errors.Wrapf(ErrCorrupt, "level %d offset %d: truncated node", k, pos)
			}
			for _, ref := range buf[pos+1 : end] {
				if ref >= uint64(belowLen) || (belowStarts != nil && !belowStarts[ref]) {
					return nil, errors.Wrapf(ErrCorrupt, "level %d offset %d: dangling reference %d", k, pos, ref)
				}
			}
			starts[pos] = true
			nodes[k]++
			pos = end
		}
		if nodes[k] == 0 {
			return nil, errors.Wrapf(ErrCorrupt, "level %d is empty", k)
		}
		belowStarts = starts
		belowLen = len(buf)
	}
	if nodes[0] != 1 {
		return nil, errors.Wrapf(ErrCorrupt, "root level holds %d nodes", nodes[0])
	}
	return nodes, nil
}

// Save writes the container to w.
func Save(w io.Writer, d *DAG, comp Compression) error {
	data, err := Marshal(d, comp)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Load reads a whole container from r.
func Load(r io.Reader) (*DAG, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// SaveFile writes the container to path.
func SaveFile(path string, d *DAG, comp Compression) error {
	data, err := Marshal(d, comp)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFile reads a container from path.
func LoadFile(path string) (*DAG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return d, nil
}
