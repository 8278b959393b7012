package analyzer

import (
	"github.com/viant/jarhc/classpath"
	"github.com/viant/jarhc/depgraph"
	"github.com/viant/jarhc/platform"
	"github.com/viant/jarhc/report"
)

// Config holds the settings analyzers may read
type Config struct {
	Severity report.Severity // findings below are dropped from the report
	Enable   []string        // analyzers to run, empty means all
	Disable  []string        // analyzers to skip
	Workers  int             // concurrently running analyzers
}

// Context is the read-only input shared by all analyzers of a run
type Context struct {
	Classpath *classpath.Classpath
	Graph     *depgraph.Graph
	Boundary  platform.Boundary
	Config    *Config
}

// NewContext creates a context; boundary defaults to the graph boundary
func NewContext(g *depgraph.Graph, config *Config) *Context {
	if config == nil {
		config = &Config{}
	}
	return &Context{Classpath: g.Classpath(), Graph: g, Boundary: g.Boundary(), Config: config}
}

// Release returns the target release the classpath was built for
func (c *Context) Release() int {
	return c.Classpath.Release()
}
