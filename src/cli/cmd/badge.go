package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sofmeright/buildlens/src/badge"
	"github.com/sofmeright/buildlens/src/config"
	"github.com/sofmeright/buildlens/src/metrics"
	"github.com/sofmeright/buildlens/src/output"
)

var (
	badgeOutputDir string
	badgeFontFile  string
)

var badgeCmd = &cobra.Command{
	Use:   "badge [records]",
	Short: "Generate SVG badges for throughput, concurrency and success rate",
	Long: `Generate throughput.svg, concurrency.svg and success.svg.

Badges are computed from build records alone; no logs are fetched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBadge,
}

func init() {
	badgeCmd.Flags().StringVar(&badgeOutputDir, "output-dir", "", "badge directory (default: from config)")
	badgeCmd.Flags().StringVar(&badgeFontFile, "font-file", "", "TTF/OTF font to embed (default: built-in Go Regular)")

	rootCmd.AddCommand(badgeCmd)
}

func runBadge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	bc := cfg.Badges
	if badgeOutputDir != "" {
		bc.OutputDir = badgeOutputDir
	}
	if badgeFontFile != "" {
		bc.FontFile = badgeFontFile
	}

	eng, err := buildBadgeEngine(bc)
	if err != nil {
		return err
	}

	window, err := cfg.Metrics.Window()
	if err != nil {
		return err
	}
	builds, err := loadRecords(ctx, args)
	if err != nil {
		return err
	}
	rep, err := metrics.NewAnalyzer(window, nil).Run(ctx, builds)
	if err != nil {
		return err
	}

	badges := []struct {
		file  string
		badge badge.Badge
	}{
		{badge.ThroughputFile, badge.Throughput(rep.PeakThroughput(), window)},
		{badge.ConcurrencyFile, badge.Concurrency(rep.PeakConcurrency())},
		{badge.SuccessFile, badge.Success(rep.SuccessRate())},
	}

	color := output.UseColor()
	for _, b := range badges {
		path := filepath.Join(bc.OutputDir, b.file)
		if err := eng.WriteFile(path, b.badge); err != nil {
			return err
		}
		log.FromContext(ctx).Debug("badge written", "path", path, "value", b.badge.Value)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s  %s\n", output.StatusIcon("success", color), path, output.Dimmed(b.badge.Value, color))
	}
	return nil
}

func buildBadgeEngine(bc config.BadgesConfig) (*badge.Engine, error) {
	size := bc.FontSize
	if size == 0 {
		size = 11
	}

	var (
		fm  *badge.FontMetrics
		err error
	)
	if bc.FontFile != "" {
		fm, err = badge.LoadFontFile(bc.FontFile, size)
	} else {
		fm, err = badge.LoadBuiltinFont(size)
	}
	if err != nil {
		return nil, fmt.Errorf("loading badge font: %w", err)
	}
	return badge.New(fm), nil
}
