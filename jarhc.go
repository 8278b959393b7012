// Package jarhc analyzes a Java classpath: it loads JAR files, models the classpath for a
// target release, resolves class references and runs the analyzers producing a report.
package jarhc

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/viant/afs"

	"github.com/viant/jarhc/analyzer"
	"github.com/viant/jarhc/classpath"
	"github.com/viant/jarhc/config"
	"github.com/viant/jarhc/depgraph"
	"github.com/viant/jarhc/inspector"
	"github.com/viant/jarhc/inspector/jar"
	"github.com/viant/jarhc/inspector/repository"
	"github.com/viant/jarhc/logging"
	"github.com/viant/jarhc/platform"
	"github.com/viant/jarhc/report"
)

// Service runs classpath analyses for one configuration
type Service struct {
	config   *config.Config
	fs       afs.Service
	logger   *slog.Logger
	exporter depgraph.Exporter
}

// New creates a service
func New(cfg *config.Config, logger *slog.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{config: cfg, fs: afs.New(), logger: logging.OrDiscard(logger)}
}

// SetExporter sets the exporter receiving the JAR dependency graph of every analysis
func (s *Service) SetExporter(exporter depgraph.Exporter) {
	s.exporter = exporter
}

// Source returns the artifact source of the configured classpath
func (s *Service) Source() (repository.Source, error) {
	coordinates, err := s.config.CoordinateMap()
	if err != nil {
		return nil, err
	}
	return repository.NewFileSource(s.config.Classpath, repository.WithCoordinates(coordinates), repository.WithFS(s.fs)), nil
}

// Boundary returns the platform list matching the target release
func (s *Service) Boundary(ctx context.Context) (platform.Boundary, error) {
	lists := []*platform.List{platform.Default()}
	for _, location := range s.config.Platform {
		list, err := platform.Load(ctx, location)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return platform.Select(lists, s.config.Release), nil
}

// Analyze loads source and runs the enabled analyzers
func (s *Service) Analyze(ctx context.Context, source repository.Source) (*report.Report, error) {
	started := time.Now()
	factory := inspector.NewFactory(s.config.InspectorConfig(), jar.WithLogger(s.logger))
	jars, err := inspector.NewLoader(factory, s.logger).LoadSource(ctx, source)
	if err != nil {
		return nil, err
	}
	cp := classpath.New(jars, s.config.Release)
	boundary, err := s.Boundary(ctx)
	if err != nil {
		return nil, err
	}
	g, err := depgraph.Build(ctx, cp, boundary, depgraph.WithWorkers(s.config.Workers))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("classpath resolved", "jars", len(jars), "classes", cp.ClassCount(),
		"unresolved", len(g.Unresolved()), "ambiguous", len(g.Ambiguous()))
	if s.exporter != nil {
		if err := s.exporter.Export(ctx, g.Snapshot()); err != nil {
			return nil, fmt.Errorf("failed to export dependency graph: %w", err)
		}
	}

	pipeline := analyzer.NewPipeline(analyzer.NewContext(g, s.config.AnalyzerConfig()),
		analyzer.WithTitle(s.config.Title),
		analyzer.WithLabel(s.config.Label),
		analyzer.WithLogger(s.logger))
	result, err := pipeline.Run(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("analysis completed", "id", result.ID, "jars", result.Summary.Jars,
		"errors", result.Count(report.Error), "elapsed", time.Since(started))
	return result, nil
}

// AnalyzeClasspath analyzes the configured classpath
func (s *Service) AnalyzeClasspath(ctx context.Context) (*report.Report, error) {
	source, err := s.Source()
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, source)
}

// LoadReport reads a serialized report; the format follows the extension
func (s *Service) LoadReport(ctx context.Context, URL string) (*report.Report, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load report %v: %w", URL, err)
	}
	return report.Decode(bytes.NewReader(data), report.FormatOf(URL))
}

// Diff compares two reports
func (s *Service) Diff(old, new *report.Report) *report.DiffReport {
	return report.Diff(old, new, report.WithDiffLogger(s.logger))
}
