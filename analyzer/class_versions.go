package analyzer

import (
	"context"
	"fmt"
	"sort"

	"github.com/viant/jarhc/inspector/classfile"
	"github.com/viant/jarhc/report"
)

// ClassVersions reports class file versions per JAR and flags classes the target release cannot load
type ClassVersions struct{}

func (a *ClassVersions) Name() string { return "class_versions" }

func (a *ClassVersions) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	release := c.Release()
	section := report.NewSection(a.Name(), "Class Versions",
		fmt.Sprintf("Java class file format information, target release: Java %d.", release),
		column("JAR file", report.StringKind),
		column("Max major", report.IntKind),
		column("Java version", report.StringKind),
		column("Classes per version", report.ListKind))
	for _, jar := range c.Classpath.Jars() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		classes := c.Classpath.ClassesOf(jar)
		if len(classes) == 0 {
			continue
		}
		histogram := map[int]int{}
		maxMajor := 0
		for _, class := range classes {
			histogram[class.Major]++
			if class.Major > maxMajor {
				maxMajor = class.Major
			}
		}
		majors := make([]int, 0, len(histogram))
		for major := range histogram {
			majors = append(majors, major)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(majors)))
		var counts []string
		for _, major := range majors {
			counts = append(counts, fmt.Sprintf("%v (%d)", classfile.JavaVersion(major), histogram[major]))
		}
		severity := report.Info
		if classfile.ReleaseOf(maxMajor) > release {
			severity = report.Error
		}
		section.Add(severity, jar.DisplayName(),
			report.String(jar.DisplayName()),
			report.Int(int64(maxMajor)),
			report.String(classfile.JavaVersion(maxMajor)),
			report.List(counts...))
	}
	return section, nil
}
