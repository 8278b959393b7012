package analyzer

import (
	"context"
	"sort"
	"strings"

	"github.com/viant/jarhc/depgraph"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

// ClassHierarchy reports superclasses and interfaces a class cannot extend or implement:
// final, interface or enum superclasses, classes used as interfaces, inaccessible supertypes.
// Supertypes provided by the platform are not inspected.
type ClassHierarchy struct{}

func (a *ClassHierarchy) Name() string { return "class_hierarchy" }

func (a *ClassHierarchy) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Class Hierarchy", "Problems with class hierarchy.",
		column("JAR file", report.StringKind),
		column("Class name", report.StringKind),
		column("Issues", report.ListKind))
	for _, jar := range c.Classpath.Jars() {
		for _, class := range c.Classpath.ClassesOf(jar) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if class.Degraded {
				continue
			}
			issues := superclassIssues(c.Graph, jar, class)
			for _, name := range class.Interfaces {
				issues = append(issues, interfaceIssues(c.Graph, jar, class, name)...)
			}
			if len(issues) == 0 {
				continue
			}
			sort.Strings(issues)
			section.Add(report.Error, key(jar.DisplayName(), class.Name),
				report.String(jar.DisplayName()),
				report.String(class.Name),
				report.List(issues...))
		}
	}
	return section, nil
}

func superclassIssues(g *depgraph.Graph, jar *graph.Jar, class *graph.Class) []string {
	if class.Super == "" {
		return nil
	}
	super, outcome := g.ClassOf(jar, class.Super)
	if outcome == depgraph.Unresolved {
		return []string{"Superclass not found: " + class.Super}
	}
	if super == nil {
		return nil
	}
	var result []string
	if super.Access.Has(graph.AccFinal) {
		result = append(result, "Superclass is final: "+super.Name)
	}
	switch {
	case super.Access.Has(graph.AccAnnotation):
		result = append(result, "Superclass is an annotation: "+super.Name)
	case super.IsInterface():
		result = append(result, "Superclass is an interface: "+super.Name)
	case super.Access.Has(graph.AccEnum):
		// constant bodies of an enum extend the enum itself
		if !class.Access.Has(graph.AccEnum) || !strings.HasPrefix(class.Name, super.Name+"$") {
			result = append(result, "Superclass is an enum: "+super.Name)
		}
	}
	if !depgraph.CanAccessClass(class, super) {
		result = append(result, "Superclass is not accessible: "+super.Name)
	}
	return result
}

func interfaceIssues(g *depgraph.Graph, jar *graph.Jar, class *graph.Class, name string) []string {
	iface, outcome := g.ClassOf(jar, name)
	if outcome == depgraph.Unresolved {
		return []string{"Interface not found: " + name}
	}
	if iface == nil {
		return nil
	}
	var result []string
	switch {
	case iface.Access.Has(graph.AccAnnotation):
		result = append(result, "Interface is an annotation: "+iface.Name)
	case iface.IsInterface():
	case iface.Access.Has(graph.AccEnum):
		result = append(result, "Interface is an enum: "+iface.Name)
	case iface.Access.Has(graph.AccAbstract):
		result = append(result, "Interface is an abstract class: "+iface.Name)
	default:
		result = append(result, "Interface is a class: "+iface.Name)
	}
	if !depgraph.CanAccessClass(class, iface) {
		result = append(result, "Interface is not accessible: "+iface.Name)
	}
	return result
}
