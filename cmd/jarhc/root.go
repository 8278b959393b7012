package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/jarhc/config"
	"github.com/viant/jarhc/logging"
	"github.com/viant/jarhc/report"
	"github.com/viant/jarhc/report/store"
)

// Version is set at build time
var Version = "dev"

var (
	configPath string
	outputPath string
	outputFmt  string
	storePath  string
	verbosity  int
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "jarhc",
	Short: "jarhc - JAR health check",
	Long: `jarhc analyzes a Java classpath without loading or running any class. It reports
duplicate and shadowed classes, unresolved dependencies, missing members, incompatible
class versions, split packages, module problems and multi-release JAR inconsistencies.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("jarhc version {{.Version}}\n")
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default: ./jarhc.yaml, .toml or .json when present)")
	flags.StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	flags.StringVarP(&outputFmt, "format", "f", "", "Output format: yaml or json (default: from output extension)")
	flags.StringVar(&storePath, "store", "", "SQLite report history database")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress logs")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
		if outputFmt == "" {
			cfg.Output.Format = string(report.FormatOf(outputPath))
		}
	}
	if outputFmt != "" {
		cfg.Output.Format = outputFmt
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := logging.LevelFromString(cfg.Log.Level)
	if verbosity > 0 || quiet {
		level = logging.LevelFromVerbosity(verbosity, quiet)
	}
	return logging.New(os.Stderr, level, logging.Format(cfg.Log.Format))
}

// sinks returns the configured report sinks and a function releasing them
func sinks(cfg *config.Config, logger *slog.Logger) ([]report.Sink, func(), error) {
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, nil, err
	}
	var closers []io.Closer
	release := func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}
	var w io.Writer = os.Stdout
	if cfg.Output.Path != "" {
		file, err := os.Create(cfg.Output.Path)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, file)
		w = file
	}
	result := []report.Sink{report.NewWriterSink(w, format)}
	if cfg.Store.Path != "" {
		db, err := store.Open(cfg.Store.Path, logger)
		if err != nil {
			release()
			return nil, nil, err
		}
		closers = append(closers, db)
		result = append(result, db)
	}
	return result, release, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
