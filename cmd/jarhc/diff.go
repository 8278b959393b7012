package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/jarhc"
	"github.com/viant/jarhc/report"
	"github.com/viant/jarhc/report/store"
)

var diffLatest string

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two reports",
	Long: `Compare two serialized reports, or stored reports by ID when --store is set.

Examples:
  # Compare two report files
  jarhc diff old.yaml new.yaml

  # Compare a report file with the latest stored report labeled main
  jarhc diff --store .jarhc/history.db --latest main new.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffLatest, "latest", "", "Use the latest stored report with this label as the old report")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	ctx := commandContext(cmd)
	service := jarhc.New(cfg, logger)

	var db *store.Store
	if cfg.Store.Path != "" {
		if db, err = store.Open(cfg.Store.Path, logger); err != nil {
			return err
		}
		defer db.Close()
	}
	load := func(reference string) (*report.Report, error) {
		if db != nil {
			stored, err := db.Load(ctx, reference)
			if err != nil {
				return nil, err
			}
			if stored != nil {
				return stored, nil
			}
		}
		return service.LoadReport(ctx, reference)
	}

	var old, updated *report.Report
	switch {
	case diffLatest != "" && len(args) == 1:
		if db == nil {
			return fmt.Errorf("--latest requires --store")
		}
		if old, err = db.Latest(ctx, diffLatest); err != nil {
			return err
		}
		if old == nil {
			return fmt.Errorf("no stored report labeled %v", diffLatest)
		}
		if updated, err = load(args[0]); err != nil {
			return err
		}
	case len(args) == 2:
		if old, err = load(args[0]); err != nil {
			return err
		}
		if updated, err = load(args[1]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("expected <old> <new> or --latest <label> <new>")
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	outputs, release, err := sinks(cfg, logger)
	if err != nil {
		return err
	}
	defer release()
	diff := service.Diff(old, updated)
	for _, sink := range outputs {
		if err := sink.WriteDiff(ctx, diff); err != nil {
			return err
		}
	}
	counts := diff.Counts()
	logger.Info("diff completed", "format", format, "added", counts[report.Added], "removed", counts[report.Removed], "changed", counts[report.Changed])
	return nil
}
