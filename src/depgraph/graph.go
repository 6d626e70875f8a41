// Package depgraph builds the base image → derived image graph from build
// records and trims redundant version tags out of it.
//
// Attribution is first-seen: records are replayed most recent first and a
// reference already attributed to a base is never attributed again, so the
// derived sets of all bases stay pairwise disjoint.
package depgraph

import (
	"sort"

	"github.com/sofmeright/buildlens/src/imageref"
)

// Set is a set of image references.
type Set map[string]struct{}

// Graph maps a base image reference to the references built from it.
type Graph map[string]Set

// Edge is one base → derived pair.
type Edge struct {
	Base    string
	Derived string
}

// Derived returns the references built from base, sorted.
func (g Graph) Derived(base string) []string {
	refs := make([]string, 0, len(g[base]))
	for r := range g[base] {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool { return imageref.Less(refs[i], refs[j]) })
	return refs
}

// Bases returns every base in the graph, including those whose derived set
// is empty, sorted lexically.
func (g Graph) Bases() []string {
	bases := make([]string, 0, len(g))
	for b := range g {
		bases = append(bases, b)
	}
	sort.Strings(bases)
	return bases
}

// Edges returns all edges in a stable order: bases lexically, derived
// references by image name then tag version.
func (g Graph) Edges() []Edge {
	var edges []Edge
	for _, base := range g.Bases() {
		for _, d := range g.Derived(base) {
			edges = append(edges, Edge{Base: base, Derived: d})
		}
	}
	return edges
}

// EdgeCount returns the total number of base → derived edges.
func (g Graph) EdgeCount() int {
	n := 0
	for _, s := range g {
		n += len(s)
	}
	return n
}

// Trim removes excess tags until a fixed point is reached and returns the
// number of edges removed.
//
// A derived tag is excess when it is not "latest" and nothing in the graph
// was built from it. Removing a tag can leave its own base without
// dependents, so passes repeat until one removes nothing.
func (g Graph) Trim() int {
	removed := 0
	for {
		pass := 0
		for _, base := range g.Bases() {
			if len(g[base]) == 0 {
				continue
			}
			pass += g.trimLayers(base)
		}
		if pass == 0 {
			return removed
		}
		removed += pass
	}
}

// trimLayers drops the excess tags directly under base.
func (g Graph) trimLayers(base string) int {
	var excess []string
	for layer := range g[base] {
		if imageref.IsLatest(layer) {
			continue
		}
		if len(g[layer]) == 0 {
			excess = append(excess, layer)
		}
	}
	for _, layer := range excess {
		delete(g[base], layer)
	}
	return len(excess)
}
