package analyzer

import (
	"context"
	"sort"
	"strings"

	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

// Issues reported by Packages
const (
	SplitPackageIssue = "Split Package: "
	FatJarIssue       = "Fat JAR: "
)

// Packages lists the packages of every JAR, flagging split packages and JARs bundling unrelated roots
type Packages struct{}

func (a *Packages) Name() string { return "packages" }

func (a *Packages) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Packages", "List of packages per JAR file.",
		column("JAR file", report.StringKind),
		column("Count", report.IntKind),
		column("Packages", report.ListKind),
		column("Issues", report.ListKind))
	for _, jar := range c.Classpath.Jars() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		packages := jarPackages(c, jar)
		if len(packages) == 0 {
			continue
		}
		var issues []string
		for _, pkg := range packages {
			if len(c.Classpath.PackagesNamed(pkg)) > 1 {
				issues = append(issues, SplitPackageIssue+graph.DisplayPackage(pkg))
			}
		}
		if roots := rootPackages(packages); len(roots) > 1 {
			issues = append(issues, FatJarIssue+strings.Join(roots, ", "))
		}
		display := make([]string, len(packages))
		for i, pkg := range packages {
			display[i] = graph.DisplayPackage(pkg)
		}
		severity := report.Info
		if len(issues) > 0 {
			severity = report.Warning
		}
		section.Add(severity, jar.DisplayName(),
			report.String(jar.DisplayName()),
			report.Int(int64(len(packages))),
			report.List(display...),
			report.List(issues...))
	}
	return section, nil
}

func jarPackages(c *Context, jar *graph.Jar) []string {
	seen := map[string]bool{}
	var result []string
	for _, class := range c.Classpath.ClassesOf(jar) {
		if pkg := class.Package(); !seen[pkg] {
			seen[pkg] = true
			result = append(result, pkg)
		}
	}
	sort.Strings(result)
	return result
}

// rootPackages returns the distinct package roots: two segments under org, com and net, one otherwise.
// A root that is not itself one of the packages is displayed with a .* suffix.
func rootPackages(packages []string) []string {
	own := map[string]bool{}
	for _, pkg := range packages {
		own[pkg] = true
	}
	seen := map[string]bool{}
	var result []string
	for _, pkg := range packages {
		depth := 1
		if strings.HasPrefix(pkg, "org.") || strings.HasPrefix(pkg, "com.") || strings.HasPrefix(pkg, "net.") {
			depth = 2
		}
		root := parentPackage(pkg, depth)
		display := graph.DisplayPackage(root)
		if root != "" && !own[root] {
			display = root + ".*"
		}
		if !seen[display] {
			seen[display] = true
			result = append(result, display)
		}
	}
	sort.Strings(result)
	return result
}

func parentPackage(pkg string, depth int) string {
	segments := strings.Split(pkg, ".")
	if len(segments) <= depth {
		return pkg
	}
	return strings.Join(segments[:depth], ".")
}
