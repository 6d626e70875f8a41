package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sofmeright/buildlens/src/config"
	"github.com/sofmeright/buildlens/src/logging"
	"github.com/sofmeright/buildlens/src/record"
)

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "buildlens",
	Short: "Container build analytics",
	Long: `buildlens reads build records from a container build service and reports
on them: which images were built from which, how many builds finished per
window, how many ran at once, and where each build spent its time.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it.
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if logFormat != "" {
			cfg.Log.Format = logFormat
		}

		warnings, err := config.Validate(cfg)
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err := logging.New(os.Stderr, logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return err
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

		for _, w := range warnings {
			logger.Warn(w)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .buildlens.yml, then .buildlens.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json, logfmt")
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// loadRecords reads build records from the first argument, falling back to
// records.path and then stdin.
func loadRecords(ctx context.Context, args []string) ([]record.Build, error) {
	path := cfg.Records.Path
	if len(args) > 0 {
		path = args[0]
	}

	builds, err := record.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	src := path
	if src == "" || src == "-" {
		src = "stdin"
	}
	log.FromContext(ctx).Debug("loaded build records", "source", src, "count", len(builds))
	return builds, nil
}
