package depgraph

import "github.com/viant/jarhc/inspector/graph"

// MemberStatus tells whether a referenced member could be located
type MemberStatus int

const (
	// MemberFound means a class in the hierarchy declares the member
	MemberFound MemberStatus = iota
	// MemberUnknown means part of the hierarchy is outside the classpath (platform, unresolved or degraded)
	MemberUnknown
	// MemberMissing means the whole hierarchy is known and none declares the member
	MemberMissing
	// MemberInaccessible means the member is declared but the referencing class may not use it
	MemberInaccessible
)

const objectClass = "java.lang.Object"

// objectMethods are the members every class inherits from java.lang.Object
var objectMethods = map[string]bool{
	"<init>()V":                    true,
	"hashCode()I":                  true,
	"equals(Ljava/lang/Object;)Z":  true,
	"toString()Ljava/lang/String;": true,
	"getClass()Ljava/lang/Class;":  true,
	"clone()Ljava/lang/Object;":    true,
	"finalize()V":                  true,
	"notify()V":                    true,
	"notifyAll()V":                 true,
	"wait()V":                      true,
	"wait(J)V":                     true,
	"wait(JI)V":                    true,
}

// LookupMember searches ref in its owner, as resolved from jar, and the owner's superclasses and interfaces.
// When from is given, the declaration found must also be accessible to it.
func (g *Graph) LookupMember(jar *graph.Jar, from *graph.Class, ref *graph.MemberRef) MemberStatus {
	visited := map[string]bool{}
	owner, member, status := g.lookupMember(jar, ref.Owner, ref, visited)
	if status == MemberFound && from != nil && owner != nil && !g.CanAccessMember(jar, from, owner, member) {
		return MemberInaccessible
	}
	return status
}

func (g *Graph) lookupMember(from *graph.Jar, owner string, ref *graph.MemberRef, visited map[string]bool) (*graph.Class, *graph.Member, MemberStatus) {
	if visited[owner] {
		return nil, nil, MemberMissing
	}
	visited[owner] = true
	if owner == objectClass {
		if ref.Kind != graph.FieldRef && objectMethods[ref.Name+ref.Descriptor] {
			return nil, nil, MemberFound
		}
		return nil, nil, MemberMissing
	}
	outcome, provider, _ := g.Resolve(from, owner)
	if outcome == Platform || outcome == Unresolved {
		return nil, nil, MemberUnknown
	}
	class := g.cp.EffectiveClassOf(provider, owner, g.cp.Release())
	if class == nil || class.Degraded {
		return nil, nil, MemberUnknown
	}
	var member *graph.Member
	if ref.Kind == graph.FieldRef {
		member = class.GetField(ref.Name, ref.Descriptor)
	} else {
		member = class.GetMethod(ref.Name, ref.Descriptor)
	}
	if member != nil {
		return class, member, MemberFound
	}
	result := MemberMissing
	parents := class.Interfaces
	if class.Super != "" {
		parents = append([]string{class.Super}, class.Interfaces...)
	}
	for _, parent := range parents {
		declaring, declared, status := g.lookupMember(provider, parent, ref, visited)
		switch status {
		case MemberFound:
			return declaring, declared, MemberFound
		case MemberUnknown:
			result = MemberUnknown
		}
	}
	return nil, nil, result
}
