package depgraph

import "github.com/viant/jarhc/inspector/graph"

// Outcome classifies how a class reference resolved
type Outcome string

const (
	// Resolved means exactly one candidate, or the referencing JAR itself, provides the class
	Resolved Outcome = "resolved"
	// Platform means the runtime provides the class
	Platform Outcome = "platform"
	// Unresolved means nothing provides the class
	Unresolved Outcome = "unresolved"
	// AmbiguousButResolved means several JARs provide the class; the first in classpath order wins
	AmbiguousButResolved Outcome = "ambiguous"
)

// Edge represents one class-to-class reference and its resolution
type Edge struct {
	From      *graph.Class // referencing class
	FromJar   *graph.Jar   // JAR providing From
	To        string       // referenced class name
	Outcome   Outcome
	Provider  *graph.Jar   // chosen provider; nil for Platform and Unresolved
	Shadowing []*graph.Jar // other providers, AmbiguousButResolved only
}

// IsCrossJar reports whether the edge links two different JARs
func (e *Edge) IsCrossJar() bool {
	return e.Provider != nil && e.Provider != e.FromJar
}
