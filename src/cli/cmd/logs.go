package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sofmeright/buildlens/src/buildlog"
	"github.com/sofmeright/buildlens/src/output"
)

var logsNoCache bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect and manage build logs",
}

var logsShowCmd = &cobra.Command{
	Use:   "show <build...>",
	Short: "Fetch, parse and print build logs as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLogsShow,
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove parsed-log cache files",
	Args:  cobra.NoArgs,
	RunE:  runLogsClear,
}

func init() {
	logsShowCmd.Flags().BoolVar(&logsNoCache, "no-cache", false, "ignore and do not write parsed-log caches")

	logsCmd.AddCommand(logsShowCmd)
	logsCmd.AddCommand(logsClearCmd)
	rootCmd.AddCommand(logsCmd)
}

// newCollector builds a log collector from the logs config.
func newCollector(useCache bool) (*buildlog.Collector, error) {
	lc := cfg.Logs
	fetcher := &buildlog.Fetcher{
		Dir:      lc.Dir,
		Command:  lc.Command,
		Required: lc.LogsRequired(),
	}
	cache := &buildlog.Cache{Enabled: lc.Cache && useCache}

	c, err := buildlog.NewCollector(fetcher, cache, lc.MemoryCacheSize, lc.Parallel)
	if err != nil {
		return nil, err
	}
	if lc.RedactSecrets {
		r, err := buildlog.NewRedactor()
		if err != nil {
			return nil, fmt.Errorf("loading secret rules: %w", err)
		}
		c.Redactor = r
	}
	return c, nil
}

func runLogsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	c, err := newCollector(!logsNoCache)
	if err != nil {
		return err
	}
	if !c.Fetcher.Required {
		logger.Warn("log fetching is disabled; every build will be reported missing")
	}

	errs := c.Prefetch(ctx, args)
	results := make(map[string]*buildlog.Data, len(args))
	for _, name := range args {
		if err, failed := errs[name]; failed {
			if errors.Is(err, buildlog.ErrMissingLog) {
				logger.Warn("no log", "build", name)
			} else {
				logger.Error("log fetch failed", "build", name, "err", err)
			}
			continue
		}
		d, err := c.Get(ctx, name)
		if err != nil {
			return err
		}
		results[name] = d
	}

	if err := output.WriteJSON(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d build log(s) unavailable", len(errs), len(args))
	}
	return nil
}

func runLogsClear(cmd *cobra.Command, args []string) error {
	cache := &buildlog.Cache{Enabled: true}
	n, err := cache.Clear(cfg.Logs.Dir)
	if err != nil {
		return fmt.Errorf("clearing caches in %s: %w", cfg.Logs.Dir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d cache file(s) from %s\n", n, cfg.Logs.Dir)
	return nil
}
