package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sofmeright/buildlens/src/depgraph"
	"github.com/sofmeright/buildlens/src/output"
)

var (
	graphNoTrim  bool
	graphNoDates bool
	graphFormat  string
	graphOutput  string
)

var graphCmd = &cobra.Command{
	Use:   "graph [records]",
	Short: "Print the image dependency graph",
	Long: `Print which images were built on top of which base images.

Only the most recent build of each image reference counts. Version tags
that nothing else was built from are trimmed unless --no-trim is given;
"latest" tags are always kept.

Records are read from the given file, records.path, or stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().BoolVar(&graphNoTrim, "no-trim", false, "keep every version tag")
	graphCmd.Flags().BoolVar(&graphNoDates, "no-dates", false, "omit build dates from nodes")
	graphCmd.Flags().StringVar(&graphFormat, "format", "", "output format: graph-easy or dot (default: from config)")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "write the graph to a file instead of stdout")

	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	// CLI flag > config
	gc := cfg.Graph
	if graphNoTrim {
		gc.Trim = false
	}
	if graphNoDates {
		gc.Datestamps = false
	}
	if graphFormat != "" {
		gc.Format = graphFormat
	}
	if graphOutput != "" {
		gc.Output = graphOutput
	}

	builds, err := loadRecords(ctx, args)
	if err != nil {
		return err
	}

	b := depgraph.Build(ctx, builds)
	g := b.Graph()
	trimmed := 0
	if gc.Trim {
		trimmed = g.Trim()
	}

	var w io.Writer = cmd.OutOrStdout()
	if gc.Output != "" {
		f, err := os.Create(gc.Output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", gc.Output, err)
		}
		defer f.Close()
		w = f
	}

	err = output.WriteGraph(w, g, output.GraphOptions{
		Format:     gc.Format,
		Datestamps: gc.Datestamps,
		When:       b.When,
	})
	if err != nil {
		return err
	}

	logger.Debug("graph written", "bases", len(g), "edges", g.EdgeCount(), "trimmed", trimmed)

	// Keep stdout clean when it carries the graph itself.
	if gc.Output != "" {
		output.GraphSummary(cmd.OutOrStdout(), len(g), g.EdgeCount(), trimmed, b.Skipped(), output.UseColor())
	}
	return nil
}
