package analyzer

import (
	"context"
	"sort"
	"strings"

	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

// DuplicateClasses reports classes provided by several JARs; the first JAR on the classpath wins
type DuplicateClasses struct{}

func (a *DuplicateClasses) Name() string { return "duplicate_classes" }

func (a *DuplicateClasses) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Duplicate Classes", "Classes found in more than one JAR file.",
		column("Class name", report.StringKind),
		column("Winner", report.StringKind),
		column("Shadowed", report.ListKind),
		column("Identical", report.BoolKind))
	for _, duplicate := range c.Classpath.Duplicates() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		severity := report.Error
		if duplicate.Identical {
			severity = report.Warning
		}
		section.Add(severity, duplicate.Class,
			report.String(duplicate.Class),
			report.String(duplicate.Winner.DisplayName()),
			report.List(jarNames(duplicate.Shadowed)...),
			report.Bool(duplicate.Identical))
	}
	return section, nil
}

const (
	metaInf         = "META-INF/"
	metaInfServices = "META-INF/services/"
)

// DuplicateResources reports resources provided by several JARs. Archive metadata under META-INF
// is skipped, service registrations are kept.
type DuplicateResources struct{}

func (a *DuplicateResources) Name() string { return "duplicate_resources" }

func (a *DuplicateResources) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Duplicate Resources", "Resources found in more than one JAR file.",
		column("Resource", report.StringKind),
		column("JAR files", report.ListKind),
		column("Identical", report.BoolKind))
	providers := map[string][]*graph.Jar{}
	hashes := map[string][]uint64{}
	for _, jar := range c.Classpath.Jars() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, resource := range jar.Resources {
			if strings.HasPrefix(resource.Path, metaInf) && !strings.HasPrefix(resource.Path, metaInfServices) {
				continue
			}
			if strings.HasSuffix(resource.Path, "/") {
				continue
			}
			providers[resource.Path] = append(providers[resource.Path], jar)
			hashes[resource.Path] = append(hashes[resource.Path], resource.Hash)
		}
	}
	var paths []string
	for resourcePath, jars := range providers {
		if len(jars) > 1 {
			paths = append(paths, resourcePath)
		}
	}
	sort.Strings(paths)
	for _, resourcePath := range paths {
		identical := true
		for _, hash := range hashes[resourcePath][1:] {
			if hash != hashes[resourcePath][0] {
				identical = false
				break
			}
		}
		severity := report.Warning
		if identical {
			severity = report.Info
		}
		section.Add(severity, resourcePath,
			report.String(resourcePath),
			report.List(jarNames(providers[resourcePath])...),
			report.Bool(identical))
	}
	return section, nil
}
