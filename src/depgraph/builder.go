package depgraph

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sofmeright/buildlens/src/record"
)

// Builder accumulates the dependency graph one build at a time.
type Builder struct {
	graph   Graph
	seen    Set
	when    map[string]string
	skipped int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		graph: Graph{},
		seen:  Set{},
		when:  map[string]string{},
	}
}

// Add attributes the build's produced references to its base image.
// References already attributed by an earlier Add are dropped. Builds
// missing a start time, base image or repositories annotation are skipped
// and Add reports false.
func (b *Builder) Add(build *record.Build) bool {
	if _, ok := build.Started(); !ok {
		b.skipped++
		return false
	}
	base, ok := build.BaseImage()
	if !ok {
		b.skipped++
		return false
	}
	repos, err := build.PrimaryRepositories()
	if err != nil {
		b.skipped++
		return false
	}

	derived, ok := b.graph[base]
	if !ok {
		derived = Set{}
		b.graph[base] = derived
	}

	when := build.StartTimestamp()
	for _, r := range repos {
		if _, dup := b.seen[r]; dup {
			continue
		}
		b.seen[r] = struct{}{}
		derived[r] = struct{}{}
		b.when[r] = when
	}
	return true
}

// Graph returns the graph built so far. It is shared with the builder.
func (b *Builder) Graph() Graph { return b.graph }

// When returns the start timestamp of the build that produced ref.
func (b *Builder) When(ref string) (string, bool) {
	w, ok := b.when[ref]
	return w, ok
}

// Skipped returns how many builds were ignored for missing data.
func (b *Builder) Skipped() int { return b.skipped }

// Build replays builds most recent first and returns the populated builder.
// Builds without a start time are dropped before sorting.
func Build(ctx context.Context, builds []record.Build) *Builder {
	logger := log.FromContext(ctx)

	type started struct {
		build *record.Build
		at    time.Time
	}
	ordered := make([]started, 0, len(builds))
	for i := range builds {
		at, ok := builds[i].Started()
		if !ok {
			continue
		}
		ordered = append(ordered, started{build: &builds[i], at: at})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].at.After(ordered[j].at)
	})

	b := NewBuilder()
	for _, s := range ordered {
		if !b.Add(s.build) {
			logger.Debug("skipping build without image annotations", "build", s.build.Name())
		}
	}

	logger.Debug("dependency graph built",
		"builds", len(builds),
		"used", len(ordered)-b.skipped,
		"bases", len(b.graph),
		"edges", b.graph.EdgeCount())
	return b
}
