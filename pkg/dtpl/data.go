package dtpl

import "maps"

// Data is the render context handed to template engines.
type Data = map[string]any

// Merge overlays layers left to right; later layers win on key conflicts.
func Merge(layers ...Data) Data {
	out := make(Data)
	for _, l := range layers {
		maps.Copy(out, l)
	}
	return out
}

// WithRef returns a copy of data whose "ref" key points at the originating file's data.
func WithRef(data, ref Data) Data {
	out := maps.Clone(data)
	if out == nil {
		out = make(Data)
	}
	out["ref"] = ref
	return out
}
