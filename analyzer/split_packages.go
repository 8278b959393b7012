package analyzer

import (
	"context"
	"strings"

	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

// SplitPackages reports packages whose classes are spread over several JARs
type SplitPackages struct{}

func (a *SplitPackages) Name() string { return "split_packages" }

func (a *SplitPackages) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Split Packages", "Packages found in more than one JAR file.",
		column("Package", report.StringKind),
		column("JAR files", report.ListKind))
	for _, pkg := range c.Classpath.Packages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		jars := c.Classpath.PackagesNamed(pkg)
		if len(jars) < 2 {
			continue
		}
		names := jarNames(jars)
		section.Add(report.Warning, key(pkg, strings.Join(names, ",")),
			report.String(graph.DisplayPackage(pkg)),
			report.List(names...))
	}
	return section, nil
}
