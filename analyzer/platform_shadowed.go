package analyzer

import (
	"context"
	"strings"

	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

// PlatformShadowed reports classpath classes that the runtime already provides
type PlatformShadowed struct{}

func (a *PlatformShadowed) Name() string { return "platform_shadowed" }

func (a *PlatformShadowed) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Platform Classes", "Classes also provided by the Java runtime.",
		column("Class name", report.StringKind),
		column("JAR files", report.ListKind),
		column("Platform module", report.StringKind))
	if c.Boundary == nil {
		return section, nil
	}
	for _, name := range c.Classpath.ClassNames() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !c.Boundary.ContainsClass(name) {
			continue
		}
		severity := report.Warning
		if strings.HasPrefix(name, "java.") {
			severity = report.Error
		}
		section.Add(severity, name,
			report.String(name),
			report.List(jarNames(c.Classpath.ClassesNamed(name))...),
			report.String(c.Boundary.ModuleOf(graph.PackageOf(name))))
	}
	return section, nil
}
