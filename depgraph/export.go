package depgraph

import (
	"context"
	"io"

	"gopkg.in/yaml.v3"
)

// Node and link types of an exported graph
const (
	NodeJar     = "jar"
	NodeMissing = "missing"
	LinkUses    = "uses"
	LinkMissing = "unresolved"
)

// Node represents a JAR, or a missing class, of an exported graph
type Node struct {
	ID         string                 `yaml:"id" json:"id"`
	Type       string                 `yaml:"type" json:"type"`
	Properties map[string]interface{} `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// Link represents aggregated references between two nodes
type Link struct {
	Source     string                 `yaml:"source" json:"source"`
	Target     string                 `yaml:"target" json:"target"`
	Type       string                 `yaml:"type" json:"type"`
	Properties map[string]interface{} `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// Snapshot is the JAR level view of a graph, suitable for external graph tools
type Snapshot struct {
	Nodes []*Node `yaml:"nodes" json:"nodes"`
	Links []*Link `yaml:"links" json:"links"`
}

// Exporter sends a snapshot to a storage backend
type Exporter interface {
	Export(ctx context.Context, snapshot *Snapshot) error
}

// Snapshot aggregates class edges into JAR nodes and links. Links keep classpath order
// of their source; reference counts are properties.
func (g *Graph) Snapshot() *Snapshot {
	result := &Snapshot{}
	jars := g.cp.Jars()
	for _, jar := range jars {
		properties := map[string]interface{}{
			"origin":  jar.Origin,
			"classes": len(g.cp.ClassesOf(jar)),
		}
		if module := jar.ModuleName(); module != "" {
			properties["module"] = module
		}
		if jar.Unreadable {
			properties["unreadable"] = true
		}
		result.Nodes = append(result.Nodes, &Node{ID: jar.DisplayName(), Type: NodeJar, Properties: properties})
	}

	missing := map[string]bool{}
	links := map[string]*Link{}
	var order []string
	link := func(source, target, kind string) {
		id := kind + "|" + source + "|" + target
		item, ok := links[id]
		if !ok {
			item = &Link{Source: source, Target: target, Type: kind, Properties: map[string]interface{}{"references": 0}}
			links[id] = item
			order = append(order, id)
		}
		item.Properties["references"] = item.Properties["references"].(int) + 1
	}
	for _, edge := range g.edges {
		switch {
		case edge.Outcome == Unresolved:
			if !missing[edge.To] {
				missing[edge.To] = true
				result.Nodes = append(result.Nodes, &Node{ID: edge.To, Type: NodeMissing})
			}
			link(edge.FromJar.DisplayName(), edge.To, LinkMissing)
		case edge.IsCrossJar():
			link(edge.FromJar.DisplayName(), edge.Provider.DisplayName(), LinkUses)
		}
	}
	for _, id := range order {
		result.Links = append(result.Links, links[id])
	}
	return result
}

// WriterExporter writes snapshots as YAML
type WriterExporter struct {
	w io.Writer
}

// NewWriterExporter creates an exporter writing to w
func NewWriterExporter(w io.Writer) *WriterExporter {
	return &WriterExporter{w: w}
}

// Export implements Exporter
func (e *WriterExporter) Export(ctx context.Context, snapshot *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoder := yaml.NewEncoder(e.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(snapshot); err != nil {
		return err
	}
	return encoder.Close()
}
