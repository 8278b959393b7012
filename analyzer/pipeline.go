package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/logging"
	"github.com/viant/jarhc/report"
)

// Analyzer produces one report section from a classpath snapshot
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, c *Context) (*report.Section, error)
}

// Registry returns every built-in analyzer in report order
func Registry() []Analyzer {
	return []Analyzer{
		&JarFiles{},
		&Anomalies{},
		&ClassVersions{},
		&DuplicateClasses{},
		&DuplicateResources{},
		&PlatformShadowed{},
		&UnresolvedDependencies{},
		&AmbiguousDependencies{},
		&MissingMembers{},
		&ClassHierarchy{},
		&SplitPackages{},
		&Packages{},
		&MultiRelease{},
		&Modules{},
		&JarDependencies{},
		&ArtifactVersions{},
		&JarManifests{},
	}
}

// Names returns the names of the built-in analyzers in report order
func Names() []string {
	var result []string
	for _, analyzer := range Registry() {
		result = append(result, analyzer.Name())
	}
	return result
}

// Pipeline runs analyzers over one context and assembles the report
type Pipeline struct {
	context   *Context
	analyzers []Analyzer
	title     string
	label     string
	logger    *slog.Logger
	now       func() time.Time
}

// NewPipeline creates a pipeline running the built-in analyzers
func NewPipeline(c *Context, options ...Option) *Pipeline {
	ret := &Pipeline{context: c, analyzers: Registry(), title: "JAR Health Check", now: time.Now}
	for _, option := range options {
		option(ret)
	}
	ret.logger = logging.OrDiscard(ret.logger)
	return ret
}

// Enabled returns the analyzers selected by the configuration, in registry order
func (p *Pipeline) Enabled() ([]Analyzer, error) {
	config := p.context.Config
	if config == nil {
		return p.analyzers, nil
	}
	known := map[string]bool{}
	for _, analyzer := range p.analyzers {
		known[analyzer.Name()] = true
	}
	selected := map[string]bool{}
	for _, name := range config.Enable {
		if !known[name] {
			return nil, jerrors.New(jerrors.InvalidConfig, "unknown analyzer: %v", name)
		}
		selected[name] = true
	}
	disabled := map[string]bool{}
	for _, name := range config.Disable {
		if !known[name] {
			return nil, jerrors.New(jerrors.InvalidConfig, "unknown analyzer: %v", name)
		}
		disabled[name] = true
	}
	var result []Analyzer
	for _, analyzer := range p.analyzers {
		name := analyzer.Name()
		if len(selected) > 0 && !selected[name] {
			continue
		}
		if disabled[name] {
			continue
		}
		result = append(result, analyzer)
	}
	return result, nil
}

// Run executes the enabled analyzers concurrently. Sections keep registry order;
// any analyzer error or cancellation fails the whole run.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	analyzers, err := p.Enabled()
	if err != nil {
		return nil, err
	}
	workers := len(analyzers)
	if p.context.Config != nil && p.context.Config.Workers > 0 {
		workers = p.context.Config.Workers
	}
	sections := make([]*report.Section, len(analyzers))
	group, groupCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		group.SetLimit(workers)
	}
	for i, analyzer := range analyzers {
		i, analyzer := i, analyzer
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			started := time.Now()
			section, err := analyzer.Analyze(groupCtx, p.context)
			if err != nil {
				return fmt.Errorf("analyzer %v failed: %w", analyzer.Name(), err)
			}
			p.logger.Debug("analyzer completed", "analyzer", analyzer.Name(), "rows", len(section.Rows), "elapsed", time.Since(started))
			sections[i] = section
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cp := p.context.Classpath
	result := report.New(p.title, report.Summary{
		Jars:        len(cp.Jars()),
		Classes:     cp.ClassCount(),
		Release:     p.context.Release(),
		GeneratedAt: p.now(),
	})
	result.Label = p.label
	var threshold report.Severity
	if p.context.Config != nil {
		threshold = p.context.Config.Severity
	}
	for _, section := range sections {
		section.Filter(threshold)
		result.Sections = append(result.Sections, section)
	}
	return result, nil
}
