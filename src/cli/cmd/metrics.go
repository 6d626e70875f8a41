package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/buildlens/src/metrics"
	"github.com/sofmeright/buildlens/src/output"
)

var (
	metricsOutputDir string
	metricsWindow    string
	metricsNoLogs    bool
	metricsLogDir    string
	metricsParallel  int
	metricsJSON      bool
)

var metricsCmd = &cobra.Command{
	Use:   "metrics [records]",
	Short: "Write build timing, throughput and concurrency tables",
	Long: `Write metrics-current.csv, metrics-archived.csv and metrics-concurrent.csv.

Build logs are fetched with logs.command (default: osbs build-logs <build>)
for every current build and parsed for plugin timings and failures. Parsed
logs are cached next to the raw log. Use --no-logs, or METRICS_REQUIRE_LOGS=0,
to skip fetching entirely.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().StringVar(&metricsOutputDir, "output-dir", "", "directory for the CSV tables (default: from config)")
	metricsCmd.Flags().StringVar(&metricsWindow, "window", "", "throughput window, e.g. 1h or 30m (default: from config)")
	metricsCmd.Flags().BoolVar(&metricsNoLogs, "no-logs", false, "do not fetch build logs")
	metricsCmd.Flags().StringVar(&metricsLogDir, "log-dir", "", "directory holding <build>.log files (default: from config)")
	metricsCmd.Flags().IntVar(&metricsParallel, "parallel", 0, "concurrent log fetches (default: from config)")
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "print the summary as JSON")

	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// CLI flag > config
	if metricsOutputDir != "" {
		cfg.Metrics.OutputDir = metricsOutputDir
	}
	if metricsWindow != "" {
		cfg.Metrics.ThroughputWindow = metricsWindow
	}
	if metricsNoLogs {
		off := false
		cfg.Logs.Required = &off
	}
	if metricsLogDir != "" {
		cfg.Logs.Dir = metricsLogDir
	}
	if metricsParallel > 0 {
		cfg.Logs.Parallel = metricsParallel
	}

	window, err := cfg.Metrics.Window()
	if err != nil {
		return err
	}

	builds, err := loadRecords(ctx, args)
	if err != nil {
		return err
	}

	collector, err := newCollector(true)
	if err != nil {
		return err
	}

	start := time.Now()
	rep, err := metrics.NewAnalyzer(window, collector).Run(ctx, builds)
	if err != nil {
		return fmt.Errorf("analyzing builds: %w", err)
	}

	files, err := output.WriteReport(cfg.Metrics.OutputDir, rep)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if metricsJSON {
		return output.WriteJSON(w, rep.Summary)
	}
	output.CIHeader(w)
	output.MetricsSummary(w, rep, files, time.Since(start), output.UseColor())
	return nil
}
