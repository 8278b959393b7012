package repository

import (
	"context"

	"github.com/viant/jarhc/inspector/graph"
)

// Kind identifies how an artifact is loaded
type Kind string

const (
	// KindArchive is a JAR, WAR or ZIP file
	KindArchive Kind = "archive"
	// KindClass is a single class file
	KindClass Kind = "class"
	// KindDirectory is an exploded archive
	KindDirectory Kind = "directory"
)

// Artifact represents one classpath element supplied by a Source
type Artifact struct {
	Origin     string            // URL or logical name
	Kind       Kind              // loading strategy
	Coordinate *graph.Coordinate // declared coordinate, optional
	open       func(ctx context.Context) ([]byte, error)
}

// NewArtifact creates an artifact whose content is produced by open
func NewArtifact(origin string, kind Kind, open func(ctx context.Context) ([]byte, error)) *Artifact {
	return &Artifact{Origin: origin, Kind: kind, open: open}
}

// Open returns the artifact content; directories have none
func (a *Artifact) Open(ctx context.Context) ([]byte, error) {
	if a.open == nil {
		return nil, nil
	}
	return a.open(ctx)
}

// Source provides the ordered classpath
type Source interface {
	// Artifacts returns artifacts in classpath order
	Artifacts(ctx context.Context) ([]*Artifact, error)
}
