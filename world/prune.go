package world

import (
	"github.com/voxelfs/regiontext/jsondoc"
)

// pruneSections removes all-air sections from a chunk document's sections
// array in place.
func pruneSections(chunk jsondoc.Object) {
	sections, ok := chunk["sections"].(jsondoc.Array)
	if !ok {
		return
	}

	kept := make(jsondoc.Array, 0, len(sections))
	for _, s := range sections {
		if !isEmptySection(s) {
			kept = append(kept, s)
		}
	}
	chunk["sections"] = kept
}

// isEmptySection reports whether a section holds nothing but air: no packed
// block data and a single-entry palette naming air.
func isEmptySection(v jsondoc.Value) bool {
	section, ok := v.(jsondoc.Object)
	if !ok {
		return false
	}
	states, ok := section["block_states"].(jsondoc.Object)
	if !ok {
		return false
	}
	if _, hasData := states["data"]; hasData {
		return false
	}

	palette, ok := states["palette"].(jsondoc.Array)
	if !ok || len(palette) != 1 {
		return false
	}
	entry, ok := palette[0].(jsondoc.Object)
	if !ok {
		return false
	}
	name, _ := entry["Name"].(jsondoc.String)

	return name == "air" || name == "minecraft:air"
}

// pruneEmpty strips empty values from the tree in place. Object members that
// are empty after recursion are deleted; array elements are recursed into but
// never removed, so positional data keeps its shape.
func pruneEmpty(v jsondoc.Value) {
	switch node := v.(type) {
	case jsondoc.Object:
		for k, e := range node {
			pruneEmpty(e)
			if isEmptyValue(e) {
				delete(node, k)
			}
		}
	case jsondoc.Array:
		for _, e := range node {
			pruneEmpty(e)
		}
	}
}

// isEmptyValue reports whether a node carries no data: an empty object or
// array, or the empty-list sentinel object.
func isEmptyValue(v jsondoc.Value) bool {
	switch node := v.(type) {
	case jsondoc.Object:
		if len(node) == 1 {
			if _, ok := node["[]"]; ok {
				return true
			}
		}

		return len(node) == 0
	case jsondoc.Array:
		return len(node) == 0
	default:
		return false
	}
}

// hasChunkData reports whether a pruned chunk document still carries any
// sections or block entities worth keeping.
func hasChunkData(chunk jsondoc.Object) bool {
	if sections, ok := chunk["sections"].(jsondoc.Array); ok && len(sections) > 0 {
		return true
	}
	if entities, ok := chunk["block_entities"].(jsondoc.Array); ok && len(entities) > 0 {
		return true
	}

	return false
}
