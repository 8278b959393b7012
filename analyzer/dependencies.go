package analyzer

import (
	"context"
	"sort"

	"github.com/viant/jarhc/depgraph"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

// UnresolvedDependencies reports references nothing on the classpath or platform provides
type UnresolvedDependencies struct{}

func (a *UnresolvedDependencies) Name() string { return "unresolved_dependencies" }

func (a *UnresolvedDependencies) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Unresolved Dependencies", "Classes referenced but not found.",
		column("JAR file", report.StringKind),
		column("Class name", report.StringKind),
		column("Missing class", report.StringKind))
	for _, edge := range c.Graph.Unresolved() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		jarName := edge.FromJar.DisplayName()
		section.Add(report.Error, key(jarName, edge.From.Name, edge.To),
			report.String(jarName),
			report.String(edge.From.Name),
			report.String(edge.To))
	}
	return section, nil
}

// AmbiguousDependencies reports referenced classes provided by several JARs
type AmbiguousDependencies struct{}

func (a *AmbiguousDependencies) Name() string { return "ambiguous_dependencies" }

func (a *AmbiguousDependencies) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Ambiguous Dependencies", "Referenced classes found in more than one JAR file.",
		column("Class name", report.StringKind),
		column("Provider", report.StringKind),
		column("Shadowed", report.ListKind),
		column("Referenced by", report.ListKind))
	type usage struct {
		edge    *depgraph.Edge
		seen    map[*graph.Jar]bool
		sources []*graph.Jar
	}
	usages := map[string]*usage{}
	for _, edge := range c.Graph.Ambiguous() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, ok := usages[edge.To]
		if !ok {
			item = &usage{edge: edge, seen: map[*graph.Jar]bool{}}
			usages[edge.To] = item
		}
		if !item.seen[edge.FromJar] {
			item.seen[edge.FromJar] = true
			item.sources = append(item.sources, edge.FromJar)
		}
	}
	names := make([]string, 0, len(usages))
	for name := range usages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		item := usages[name]
		section.Add(report.Warning, name,
			report.String(name),
			report.String(item.edge.Provider.DisplayName()),
			report.List(jarNames(item.edge.Shadowing)...),
			report.List(jarNames(item.sources)...))
	}
	return section, nil
}

// JarDependencies lists which JARs each JAR uses and is used by
type JarDependencies struct{}

func (a *JarDependencies) Name() string { return "jar_dependencies" }

func (a *JarDependencies) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "JAR Dependencies", "Dependencies between JAR files based on class references.",
		column("JAR file", report.StringKind),
		column("Uses", report.ListKind),
		column("Used by", report.ListKind))
	for _, jar := range c.Classpath.Jars() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if jar.Unreadable {
			continue
		}
		section.Add(report.Info, jar.DisplayName(),
			report.String(jar.DisplayName()),
			report.List(jarNames(c.Graph.JarDependencies(jar))...),
			report.List(jarNames(c.Graph.JarDependents(jar))...))
	}
	return section, nil
}
