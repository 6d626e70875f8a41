package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/sofmeright/buildlens/src/depgraph"
)

// Graph formats.
const (
	FormatGraphEasy = "graph-easy"
	FormatDOT       = "dot"
)

// WhenFunc looks up the recorded build timestamp of a reference.
type WhenFunc func(ref string) (string, bool)

// GraphOptions controls graph rendering.
type GraphOptions struct {
	Format     string
	Datestamps bool
	When       WhenFunc
}

// WriteGraph renders every edge of g, one per line.
func WriteGraph(w io.Writer, g depgraph.Graph, opts GraphOptions) error {
	bw := bufio.NewWriter(w)

	switch opts.Format {
	case "", FormatGraphEasy:
		for _, e := range g.Edges() {
			fmt.Fprintf(bw, "[ %s%s ] --> [ %s%s ]\n",
				e.Base, opts.datestamp(e.Base),
				e.Derived, opts.datestamp(e.Derived))
		}
	case FormatDOT:
		fmt.Fprintln(bw, "digraph buildlens {")
		for _, e := range g.Edges() {
			fmt.Fprintf(bw, "  %s -> %s;\n", strconv.Quote(e.Base), strconv.Quote(e.Derived))
		}
		fmt.Fprintln(bw, "}")
	default:
		return fmt.Errorf("unknown graph format %q", opts.Format)
	}

	return bw.Flush()
}

// datestamp returns a graph-easy line break followed by the date part of the
// reference's timestamp, or nothing.
func (o GraphOptions) datestamp(ref string) string {
	if !o.Datestamps || o.When == nil {
		return ""
	}
	when, ok := o.When(ref)
	if !ok {
		return ""
	}
	if len(when) > 10 {
		when = when[:10]
	}
	return `\n` + when
}
