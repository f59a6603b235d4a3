//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/voxelsplace/voxeldag/api"
	"github.com/voxelsplace/voxeldag/vdag"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// objToDag(objText, levels[, compression]) -> Uint8Array | error string
func objToDag(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("missing obj text or levels")
	}
	comp := vdag.CompZstd
	if len(args) > 2 {
		c, err := vdag.ParseCompression(args[2].String())
		if err != nil {
			return js.ValueOf(err.Error())
		}
		comp = c
	}
	out, err := api.OBJToDAGBytes([]byte(args[0].String()), args[1].Int(), comp)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

// dagToGlb(dagBytes) -> Uint8Array | error string
func dagToGlb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing dag bytes")
	}
	out, err := api.DAGToGLB(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

// dagIsSet(dagBytes, x, y, z) -> bool | error string
func dagIsSet(this js.Value, args []js.Value) any {
	if len(args) < 4 {
		return js.ValueOf("missing dag bytes or coordinates")
	}
	set, err := api.QueryDAGBytes(bytesFromJS(args[0]),
		uint32(args[1].Int()), uint32(args[2].Int()), uint32(args[3].Int()))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return js.ValueOf(set)
}

// dagStats(dagBytes) -> {setVoxels, words, levels: [{nodes, words}]} | error string
func dagStats(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing dag bytes")
	}
	st, err := api.DAGStats(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	levels := make([]any, len(st.Levels))
	for i, ls := range st.Levels {
		levels[i] = map[string]any{"nodes": ls.Nodes, "words": ls.Words}
	}
	return js.ValueOf(map[string]any{
		"setVoxels": float64(st.SetVoxels),
		"words":     st.Words,
		"levels":    levels,
	})
}

func main() {
	js.Global().Set("objToDag", js.FuncOf(objToDag))
	js.Global().Set("dagToGlb", js.FuncOf(dagToGlb))
	js.Global().Set("dagIsSet", js.FuncOf(dagIsSet))
	js.Global().Set("dagStats", js.FuncOf(dagStats))
	select {}
}
