package analyzer

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

var (
	versionPrefix  = regexp.MustCompile(`^v?([0-9]+)(?:\.([0-9]+))?(?:\.([0-9]+))?(?:\.[0-9]+)*(.*)$`)
	invalidVersion = regexp.MustCompile(`[^0-9A-Za-z.-]+`)
)

// ArtifactVersions reports artifacts present on the classpath in several versions
type ArtifactVersions struct{}

func (a *ArtifactVersions) Name() string { return "artifact_versions" }

func (a *ArtifactVersions) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Artifact Versions", "Artifacts found in more than one version.",
		column("Artifact", report.StringKind),
		column("Versions", report.ListKind),
		column("JAR files", report.ListKind),
		column("Highest version", report.StringKind))
	type artifact struct {
		versions []string
		jars     []*graph.Jar
	}
	artifacts := map[string]*artifact{}
	for _, jar := range c.Classpath.Jars() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, version := jar.ArtifactName(), jar.Version()
		if name == "" || version == "" {
			continue
		}
		item, ok := artifacts[name]
		if !ok {
			item = &artifact{}
			artifacts[name] = item
		}
		item.jars = append(item.jars, jar)
		if !contains(item.versions, version) {
			item.versions = append(item.versions, version)
		}
	}
	names := make([]string, 0, len(artifacts))
	for name, item := range artifacts {
		if len(item.versions) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		item := artifacts[name]
		section.Add(report.Warning, name,
			report.String(name),
			report.List(item.versions...),
			report.List(jarNames(item.jars)...),
			report.String(HighestVersion(item.versions)))
	}
	return section, nil
}

// HighestVersion returns the highest of versions after semver normalization;
// versions that cannot be normalized rank lowest
func HighestVersion(versions []string) string {
	result := ""
	best := ""
	for _, version := range versions {
		normalized := NormalizeVersion(version)
		if result == "" || semver.Compare(normalized, best) > 0 {
			result, best = version, normalized
		}
	}
	return result
}

// NormalizeVersion converts a Maven style version to a canonical semantic version,
// e.g. 31.1-jre becomes v31.1.0-jre; it returns "" when the version has no numeric prefix
func NormalizeVersion(version string) string {
	match := versionPrefix.FindStringSubmatch(strings.TrimSpace(version))
	if match == nil {
		return ""
	}
	parts := []string{match[1], match[2], match[3]}
	for i, part := range parts {
		if part == "" {
			parts[i] = "0"
		}
	}
	result := "v" + strings.Join(parts, ".")
	if rest := strings.Trim(invalidVersion.ReplaceAllString(match[4], "-"), ".-"); rest != "" {
		result += "-" + rest
	}
	return semver.Canonical(result)
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
