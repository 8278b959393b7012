package analyzer

import (
	"context"
	"strconv"

	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

// Multi-release change kinds
const (
	ClassAdded    = "class added"
	MethodChanged = "method changed"
	MethodRemoved = "method removed"
	FieldChanged  = "field changed"
	FieldRemoved  = "field removed"
)

// MultiRelease compares the release layers of multi-release JARs. A versioned class should
// only change implementation: classes missing from the base layer and public or protected
// members that change or disappear are reported.
type MultiRelease struct{}

func (a *MultiRelease) Name() string { return "multi_release" }

func (a *MultiRelease) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Multi-release JARs", "Differences between release layers of multi-release JAR files.",
		column("JAR file", report.StringKind),
		column("Release", report.IntKind),
		column("Class name", report.StringKind),
		column("Change", report.StringKind),
		column("Detail", report.StringKind))
	for _, jar := range c.Classpath.Jars() {
		if !jar.IsMultiRelease() {
			continue
		}
		for _, layer := range jar.Layers {
			if layer.Release == graph.BaseRelease {
				continue
			}
			for _, name := range layer.Names() {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				versioned := layer.Get(name)
				if versioned.IsModuleInfo() {
					continue
				}
				add := func(severity report.Severity, change, detail string) {
					section.Add(severity, key(jar.DisplayName(), strconv.Itoa(layer.Release), name, change, detail),
						report.String(jar.DisplayName()),
						report.Int(int64(layer.Release)),
						report.String(name),
						report.String(change),
						report.String(detail))
				}
				previous := jar.EffectiveClass(name, layer.Release-1)
				if previous == nil {
					if jar.Base().Get(name) == nil {
						add(report.Warning, ClassAdded, "Java "+strconv.Itoa(layer.Release))
					}
					continue
				}
				compareMembers(previous.Methods, versioned.Methods, MethodChanged, MethodRemoved, add)
				compareMembers(previous.Fields, versioned.Fields, FieldChanged, FieldRemoved, add)
			}
		}
	}
	return section, nil
}

func compareMembers(previous, current []*graph.Member, changed, removed string, add func(report.Severity, string, string)) {
	exact := map[string]bool{}
	byName := map[string][]*graph.Member{}
	for _, member := range current {
		if !member.Access.IsVisible() {
			continue
		}
		exact[member.Signature()] = true
		byName[member.Name] = append(byName[member.Name], member)
	}
	overloads := map[string]int{}
	for _, member := range previous {
		if member.Access.IsVisible() {
			overloads[member.Name]++
		}
	}
	for _, member := range previous {
		if !member.Access.IsVisible() || exact[member.Signature()] {
			continue
		}
		candidates := byName[member.Name]
		if len(candidates) == 1 && overloads[member.Name] == 1 {
			add(report.Error, changed, member.Signature()+" -> "+candidates[0].Signature())
			continue
		}
		add(report.Error, removed, member.Signature())
	}
}
