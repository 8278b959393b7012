package analyzer

import (
	"context"
	"sort"
	"strings"

	"github.com/viant/jarhc/report"
)

var (
	runtimeAttributes = []string{"Main-Class", "Class-Path"}

	implementationAttributes = []string{
		"Implementation-Title",
		"Implementation-Version",
		"Implementation-Build",
		"Implementation-Build-Id",
		"Implementation-Vendor",
		"Implementation-Vendor-Id",
		"Implementation-URL",
	}

	specificationAttributes = []string{
		"Specification-Title",
		"Specification-Version",
		"Specification-Vendor",
	}
)

// JarManifests lists the main attributes found in META-INF/MANIFEST.MF, grouped by purpose.
// OSGi Bundle-* headers are left out.
type JarManifests struct{}

func (a *JarManifests) Name() string { return "jar_manifests" }

func (a *JarManifests) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "JAR Manifests", "Information found in META-INF/MANIFEST.MF.",
		column("JAR file", report.StringKind),
		column("General", report.ListKind),
		column("Runtime", report.ListKind),
		column("Implementation", report.ListKind),
		column("Specification", report.ListKind))
	grouped := map[string]bool{}
	for _, group := range [][]string{runtimeAttributes, implementationAttributes, specificationAttributes} {
		for _, name := range group {
			grouped[name] = true
		}
	}
	for _, jar := range c.Classpath.Jars() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(jar.Manifest) == 0 {
			continue
		}
		var general []string
		for name, value := range jar.Manifest {
			if grouped[name] || strings.HasPrefix(name, "Bundle-") {
				continue
			}
			general = append(general, name+": "+value)
		}
		sort.Strings(general)
		section.Add(report.Info, jar.DisplayName(),
			report.String(jar.DisplayName()),
			report.List(general...),
			report.List(attributes(jar.Manifest, runtimeAttributes)...),
			report.List(attributes(jar.Manifest, implementationAttributes)...),
			report.List(attributes(jar.Manifest, specificationAttributes)...))
	}
	return section, nil
}

// attributes returns "Name: value" for every present attribute, in the order given
func attributes(manifest map[string]string, names []string) []string {
	var result []string
	for _, name := range names {
		if value, ok := manifest[name]; ok {
			result = append(result, name+": "+value)
		}
	}
	return result
}
