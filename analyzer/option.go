package analyzer

import (
	"log/slog"
	"time"
)

type Option func(*Pipeline)

// WithAnalyzers replaces the built-in analyzers; order defines section order
func WithAnalyzers(analyzers ...Analyzer) Option {
	return func(p *Pipeline) {
		p.analyzers = analyzers
	}
}

// WithTitle sets the report title
func WithTitle(title string) Option {
	return func(p *Pipeline) {
		p.title = title
	}
}

// WithLabel tags the report, e.g. with a branch or build name used to look up history
func WithLabel(label string) Option {
	return func(p *Pipeline) {
		p.label = label
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClock sets the function stamping the report
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}
