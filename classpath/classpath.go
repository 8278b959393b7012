// Package classpath models an ordered set of loaded JARs for one target release.
package classpath

import (
	"sort"

	"github.com/viant/jarhc/inspector/graph"
)

// Duplicate represents a class provided by more than one JAR
type Duplicate struct {
	Class     string       // class name
	Winner    *graph.Jar   // first provider in classpath order
	Shadowed  []*graph.Jar // remaining providers in classpath order
	Identical bool         // every provider carries the same bytecode
}

// Providers returns the winner followed by the shadowed JARs
func (d *Duplicate) Providers() []*graph.Jar {
	return append([]*graph.Jar{d.Winner}, d.Shadowed...)
}

// Classpath is an immutable view over ordered JARs. All indices are built in New,
// after every JAR has been loaded, so lookups never depend on load order.
type Classpath struct {
	jars      []*graph.Jar
	release   int
	index     map[*graph.Jar]int
	effective []map[string]*graph.Class
	classes   map[string][]*graph.Jar
	packages  map[string][]*graph.Jar
	modules   map[string]*graph.Jar
	names     []string
}

// New builds a classpath for the target release; jars keep the given order
func New(jars []*graph.Jar, release int) *Classpath {
	if release < graph.BaseRelease {
		release = graph.BaseRelease
	}
	ret := &Classpath{
		jars:      jars,
		release:   release,
		index:     make(map[*graph.Jar]int, len(jars)),
		effective: make([]map[string]*graph.Class, len(jars)),
		classes:   map[string][]*graph.Jar{},
		packages:  map[string][]*graph.Jar{},
		modules:   map[string]*graph.Jar{},
	}
	ret.build()
	return ret
}

func (c *Classpath) build() {
	for i, jar := range c.jars {
		c.index[jar] = i
		classes := jar.Effective(c.release)
		byName := make(map[string]*graph.Class, len(classes))
		seenPackage := map[string]bool{}
		for _, class := range classes {
			byName[class.Name] = class
			c.classes[class.Name] = append(c.classes[class.Name], jar)
			if pkg := class.Package(); !seenPackage[pkg] {
				seenPackage[pkg] = true
				c.packages[pkg] = append(c.packages[pkg], jar)
			}
		}
		c.effective[i] = byName
		if name := jar.ModuleName(); name != "" {
			if _, ok := c.modules[name]; !ok {
				c.modules[name] = jar
			}
		}
	}
	c.names = make([]string, 0, len(c.classes))
	for name := range c.classes {
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
}

// WithRelease returns the same JARs modeled for another target release
func (c *Classpath) WithRelease(release int) *Classpath {
	return New(c.jars, release)
}

// Jars returns JARs in classpath order
func (c *Classpath) Jars() []*graph.Jar {
	return c.jars
}

// Release returns the target release
func (c *Classpath) Release() int {
	return c.release
}

// IndexOf returns the classpath position of jar, or -1
func (c *Classpath) IndexOf(jar *graph.Jar) int {
	if idx, ok := c.index[jar]; ok {
		return idx
	}
	return -1
}

// ClassesNamed returns the providers of a class in classpath order
func (c *Classpath) ClassesNamed(name string) []*graph.Jar {
	return c.classes[name]
}

// Class returns the winning class and its provider, or nils
func (c *Classpath) Class(name string) (*graph.Class, *graph.Jar) {
	providers := c.classes[name]
	if len(providers) == 0 {
		return nil, nil
	}
	return c.EffectiveClassOf(providers[0], name, c.release), providers[0]
}

// ClassNames returns every provided class name, sorted
func (c *Classpath) ClassNames() []string {
	return c.names
}

// ClassCount returns the number of distinct class names
func (c *Classpath) ClassCount() int {
	return len(c.names)
}

// ClassesOf returns the classes jar provides at the target release, sorted by name
func (c *Classpath) ClassesOf(jar *graph.Jar) []*graph.Class {
	idx := c.IndexOf(jar)
	if idx == -1 {
		return jar.Effective(c.release)
	}
	result := make([]*graph.Class, 0, len(c.effective[idx]))
	for _, class := range c.effective[idx] {
		result = append(result, class)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result
}

// EffectiveClassOf returns the class jar provides under name at release
func (c *Classpath) EffectiveClassOf(jar *graph.Jar, name string, release int) *graph.Class {
	if idx := c.IndexOf(jar); idx != -1 && release == c.release {
		return c.effective[idx][name]
	}
	return jar.EffectiveClass(name, release)
}

// PackagesNamed returns the JARs holding classes of pkg in classpath order
func (c *Classpath) PackagesNamed(pkg string) []*graph.Jar {
	return c.packages[pkg]
}

// Packages returns every package, sorted
func (c *Classpath) Packages() []string {
	result := make([]string, 0, len(c.packages))
	for pkg := range c.packages {
		result = append(result, pkg)
	}
	sort.Strings(result)
	return result
}

// ModuleOf returns the first JAR declaring the named module (explicit or automatic)
func (c *Classpath) ModuleOf(name string) *graph.Jar {
	return c.modules[name]
}

// Duplicates returns classes provided by several JARs, sorted by class name.
// The first provider in classpath order wins.
func (c *Classpath) Duplicates() []*Duplicate {
	var result []*Duplicate
	for _, name := range c.names {
		providers := c.classes[name]
		if len(providers) < 2 {
			continue
		}
		duplicate := &Duplicate{Class: name, Winner: providers[0], Shadowed: providers[1:], Identical: true}
		hash := c.EffectiveClassOf(providers[0], name, c.release).Hash
		for _, jar := range providers[1:] {
			if c.EffectiveClassOf(jar, name, c.release).Hash != hash {
				duplicate.Identical = false
				break
			}
		}
		result = append(result, duplicate)
	}
	return result
}
