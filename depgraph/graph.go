// Package depgraph resolves class references against a classpath.
package depgraph

import (
	"context"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/viant/jarhc/classpath"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/platform"
	"golang.org/x/sync/errgroup"
)

// Graph holds every resolution edge of a classpath. It is read-only once built.
type Graph struct {
	cp         *classpath.Classpath
	boundary   platform.Boundary
	edges      []*Edge
	from       map[*graph.Class][]*Edge
	unresolved []*Edge
	ambiguous  []*Edge
	uses       []*roaring.Bitmap
	usedBy     []*roaring.Bitmap
}

// Option configures Build
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers limits parallel per-JAR resolution
func WithWorkers(workers int) Option {
	return func(o *options) {
		if workers > 0 {
			o.workers = workers
		}
	}
}

// Build resolves the references of every class visible at the classpath release.
// JARs are processed concurrently; edges are merged in classpath order.
func Build(ctx context.Context, cp *classpath.Classpath, boundary platform.Boundary, opts ...Option) (*Graph, error) {
	settings := &options{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(settings)
	}
	jars := cp.Jars()
	perJar := make([][]*Edge, len(jars))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(settings.workers)
	g := &Graph{cp: cp, boundary: boundary}
	for i, jar := range jars {
		i, jar := i, jar
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			perJar[i] = g.resolveJar(jar)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	g.from = map[*graph.Class][]*Edge{}
	g.uses = make([]*roaring.Bitmap, len(jars))
	g.usedBy = make([]*roaring.Bitmap, len(jars))
	for i := range jars {
		g.uses[i] = roaring.New()
		g.usedBy[i] = roaring.New()
	}
	for i, edges := range perJar {
		for _, edge := range edges {
			g.edges = append(g.edges, edge)
			g.from[edge.From] = append(g.from[edge.From], edge)
			switch edge.Outcome {
			case Unresolved:
				g.unresolved = append(g.unresolved, edge)
			case AmbiguousButResolved:
				g.ambiguous = append(g.ambiguous, edge)
			}
			if edge.IsCrossJar() {
				provider := cp.IndexOf(edge.Provider)
				g.uses[i].Add(uint32(provider))
				g.usedBy[provider].Add(uint32(i))
			}
		}
	}
	return g, ctx.Err()
}

func (g *Graph) resolveJar(jar *graph.Jar) []*Edge {
	var result []*Edge
	for _, class := range g.cp.ClassesOf(jar) {
		for _, reference := range class.References {
			outcome, provider, shadowing := g.Resolve(jar, reference)
			result = append(result, &Edge{From: class, FromJar: jar, To: reference, Outcome: outcome, Provider: provider, Shadowing: shadowing})
		}
	}
	return result
}

// Resolve applies the resolution policy to a reference made from jar:
// the platform first, then the referencing JAR itself, then the classpath providers.
func (g *Graph) Resolve(from *graph.Jar, name string) (Outcome, *graph.Jar, []*graph.Jar) {
	if g.boundary != nil && g.boundary.ContainsClass(name) {
		return Platform, nil, nil
	}
	if from != nil && g.cp.EffectiveClassOf(from, name, g.cp.Release()) != nil {
		return Resolved, from, nil
	}
	providers := g.cp.ClassesNamed(name)
	switch len(providers) {
	case 0:
		return Unresolved, nil, nil
	case 1:
		return Resolved, providers[0], nil
	}
	return AmbiguousButResolved, providers[0], providers[1:]
}

// Classpath returns the classpath the graph was built for
func (g *Graph) Classpath() *classpath.Classpath {
	return g.cp
}

// Boundary returns the platform boundary, may be nil
func (g *Graph) Boundary() platform.Boundary {
	return g.boundary
}

// Edges returns every edge: JARs in classpath order, classes by name, references sorted
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// EdgesFrom returns the edges of class
func (g *Graph) EdgesFrom(class *graph.Class) []*Edge {
	return g.from[class]
}

// Unresolved returns edges nothing provides
func (g *Graph) Unresolved() []*Edge {
	return g.unresolved
}

// Ambiguous returns edges with several providers
func (g *Graph) Ambiguous() []*Edge {
	return g.ambiguous
}

// JarDependencies returns the JARs jar uses, in classpath order
func (g *Graph) JarDependencies(jar *graph.Jar) []*graph.Jar {
	return g.jarsOf(g.uses, jar)
}

// JarDependents returns the JARs using jar, in classpath order
func (g *Graph) JarDependents(jar *graph.Jar) []*graph.Jar {
	return g.jarsOf(g.usedBy, jar)
}

func (g *Graph) jarsOf(bitmaps []*roaring.Bitmap, jar *graph.Jar) []*graph.Jar {
	idx := g.cp.IndexOf(jar)
	if idx == -1 {
		return nil
	}
	jars := g.cp.Jars()
	var result []*graph.Jar
	for _, i := range bitmaps[idx].ToArray() {
		result = append(result, jars[i])
	}
	return result
}
