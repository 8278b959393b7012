package depgraph

import "github.com/viant/jarhc/inspector/graph"

// ClassOf returns the class a reference from jar resolves to on the classpath.
// It returns nil for platform and unresolved names.
func (g *Graph) ClassOf(from *graph.Jar, name string) (*graph.Class, Outcome) {
	outcome, provider, _ := g.Resolve(from, name)
	if provider == nil {
		return nil, outcome
	}
	return g.cp.EffectiveClassOf(provider, name, g.cp.Release()), outcome
}

// CanAccessClass reports whether from may use target: public classes, or package-private ones of the same package
func CanAccessClass(from, target *graph.Class) bool {
	if target.Access.Has(graph.AccPublic) || from.Name == target.Name {
		return true
	}
	return graph.PackageOf(from.Name) == graph.PackageOf(target.Name)
}

// CanAccessMember reports whether from, loaded from jar, may use member declared by owner.
// Nested classes of one top-level class share access to each other's members.
func (g *Graph) CanAccessMember(jar *graph.Jar, from, owner *graph.Class, member *graph.Member) bool {
	if member.Access.Has(graph.AccPublic) {
		return true
	}
	if graph.TopLevelName(from.Name) == graph.TopLevelName(owner.Name) {
		return true
	}
	if member.Access.Has(graph.AccPrivate) {
		return false
	}
	if graph.PackageOf(from.Name) == graph.PackageOf(owner.Name) {
		return true
	}
	if !member.Access.Has(graph.AccProtected) {
		return false
	}
	return g.isSubclass(jar, from, owner.Name, map[string]bool{})
}

func (g *Graph) isSubclass(jar *graph.Jar, class *graph.Class, target string, visited map[string]bool) bool {
	if visited[class.Name] {
		return false
	}
	visited[class.Name] = true
	parents := class.Interfaces
	if class.Super != "" {
		parents = append([]string{class.Super}, class.Interfaces...)
	}
	for _, parent := range parents {
		if parent == target {
			return true
		}
	}
	for _, parent := range parents {
		if parentClass, _ := g.ClassOf(jar, parent); parentClass != nil && g.isSubclass(jar, parentClass, target, visited) {
			return true
		}
	}
	return false
}
