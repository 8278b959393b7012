package analyzer

import (
	"context"
	"sort"

	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

// Module issues
const (
	MissingModule = "required module not found"
	NotExported   = "package not exported"
)

// moduleBoundary is implemented by boundaries that know their module names
type moduleBoundary interface {
	HasModule(name string) bool
}

// Modules checks explicit modules: every required module must be resolvable and every package
// used from another explicit module must be exported to it
type Modules struct{}

func (a *Modules) Name() string { return "modules" }

func (a *Modules) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Modules", "Module descriptor checks for modular JAR files.",
		column("JAR file", report.StringKind),
		column("Module", report.StringKind),
		column("Issue", report.StringKind),
		column("Detail", report.StringKind))
	modules, _ := c.Boundary.(moduleBoundary)
	for _, jar := range c.Classpath.Jars() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !jar.IsNamedModule() {
			continue
		}
		add := func(severity report.Severity, issue, detail string) {
			section.Add(severity, key(jar.DisplayName(), issue, detail),
				report.String(jar.DisplayName()),
				report.String(jar.ModuleName()),
				report.String(issue),
				report.String(detail))
		}
		for _, require := range jar.Module.Requires {
			if c.Classpath.ModuleOf(require.Name) != nil || require.Name == "java.base" {
				continue
			}
			if modules != nil && modules.HasModule(require.Name) {
				continue
			}
			severity := report.Error
			if require.Static {
				severity = report.Warning
			}
			add(severity, MissingModule, require.Name)
		}
		for _, detail := range a.unexported(c, jar) {
			add(report.Error, NotExported, detail)
		}
	}
	return section, nil
}

func (a *Modules) unexported(c *Context, jar *graph.Jar) []string {
	seen := map[string]bool{}
	var result []string
	for _, class := range c.Classpath.ClassesOf(jar) {
		for _, edge := range c.Graph.EdgesFrom(class) {
			provider := edge.Provider
			if provider == nil || provider == jar || !provider.IsNamedModule() {
				continue
			}
			pkg := graph.PackageOf(edge.To)
			if provider.Module.IsExported(pkg, jar.ModuleName()) {
				continue
			}
			detail := graph.DisplayPackage(pkg) + " (" + provider.ModuleName() + ")"
			if !seen[detail] {
				seen[detail] = true
				result = append(result, detail)
			}
		}
	}
	sort.Strings(result)
	return result
}
