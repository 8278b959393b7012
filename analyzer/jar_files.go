package analyzer

import (
	"context"
	"strconv"

	"github.com/viant/jarhc/report"
)

// JarFiles lists the loaded archives
type JarFiles struct{}

func (a *JarFiles) Name() string { return "jar_files" }

func (a *JarFiles) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "JAR Files", "List of JAR files found in the classpath.",
		column("JAR file", report.StringKind),
		column("Artifact", report.StringKind),
		column("Version", report.StringKind),
		column("Coordinate", report.StringKind),
		column("Size", report.IntKind),
		column("Classes", report.IntKind),
		column("Checksum (SHA-1)", report.StringKind),
		column("Multi-release", report.ListKind),
		column("Module", report.StringKind),
		column("Anomalies", report.IntKind))
	for _, jar := range c.Classpath.Jars() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var releases []string
		if jar.IsMultiRelease() {
			for _, release := range jar.Releases() {
				releases = append(releases, "Java "+strconv.Itoa(release))
			}
		}
		module := jar.ModuleName()
		if module != "" && !jar.IsNamedModule() {
			module += " (automatic)"
		}
		severity := report.Info
		if jar.Unreadable {
			severity = report.Error
		}
		section.Add(severity, jar.DisplayName(),
			report.String(jar.DisplayName()),
			report.String(jar.ArtifactName()),
			report.String(jar.Version()),
			report.String(jar.Coordinate.String()),
			report.Int(jar.Size),
			report.Int(int64(len(c.Classpath.ClassesOf(jar)))),
			report.String(jar.Checksum),
			report.List(releases...),
			report.String(module),
			report.Int(int64(len(jar.Anomalies))))
	}
	return section, nil
}
