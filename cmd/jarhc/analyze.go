package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/jarhc"
	"github.com/viant/jarhc/depgraph"
	"github.com/viant/jarhc/report"
)

var (
	analyzeRelease  int
	analyzeLabel    string
	analyzeSeverity string
	analyzeEnable   []string
	analyzeDisable  []string
	analyzeFailOn   string
	analyzeGraph    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [jar|dir|class...]",
	Short: "Analyze a classpath and write the report",
	Long: `Analyze JAR files, exploded directories and class files in classpath order.

Examples:
  # Analyze two JAR files for Java 11 and print YAML
  jarhc analyze --release 11 lib/a.jar lib/b.jar

  # Analyze every JAR of a directory, write JSON and keep history
  jarhc analyze -o report.json --store .jarhc/history.db --label main lib/`,
	RunE: runAnalyze,
}

func init() {
	flags := analyzeCmd.Flags()
	flags.IntVarP(&analyzeRelease, "release", "r", 0, "Target Java release (default: from config)")
	flags.StringVar(&analyzeLabel, "label", "", "Report label, e.g. a branch name")
	flags.StringVar(&analyzeSeverity, "severity", "", "Minimal severity of reported findings: info, warning or error")
	flags.StringSliceVar(&analyzeEnable, "enable", nil, "Analyzers to run (default: all)")
	flags.StringSliceVar(&analyzeDisable, "disable", nil, "Analyzers to skip")
	flags.StringVar(&analyzeFailOn, "fail-on", "", "Exit with an error when findings of this severity exist")
	flags.StringVar(&analyzeGraph, "graph", "", "Write the JAR dependency graph (YAML) to this file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Classpath = args
	}
	if analyzeRelease != 0 {
		cfg.Release = analyzeRelease
	}
	if analyzeLabel != "" {
		cfg.Label = analyzeLabel
	}
	if analyzeSeverity != "" {
		cfg.Severity = analyzeSeverity
	}
	if len(analyzeEnable) > 0 {
		cfg.Analyzers.Enable = analyzeEnable
	}
	if len(analyzeDisable) > 0 {
		cfg.Analyzers.Disable = analyzeDisable
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)
	ctx := commandContext(cmd)

	service := jarhc.New(cfg, logger)
	if analyzeGraph != "" {
		file, err := os.Create(analyzeGraph)
		if err != nil {
			return err
		}
		defer file.Close()
		service.SetExporter(depgraph.NewWriterExporter(file))
	}
	result, err := service.AnalyzeClasspath(ctx)
	if err != nil {
		return err
	}
	outputs, release, err := sinks(cfg, logger)
	if err != nil {
		return err
	}
	defer release()
	for _, sink := range outputs {
		if err := sink.Write(ctx, result); err != nil {
			return err
		}
	}
	if analyzeFailOn != "" {
		threshold := report.ParseSeverity(analyzeFailOn)
		if count := result.Count(threshold); count > 0 {
			return &findingsError{count: count, severity: threshold}
		}
	}
	return nil
}

// findingsError fails a run with findings at or above a severity
type findingsError struct {
	count    int
	severity report.Severity
}

func (e *findingsError) Error() string {
	return fmt.Sprintf("%d finding(s) at or above %v", e.count, e.severity)
}
