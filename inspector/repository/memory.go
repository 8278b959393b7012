package repository

import (
	"context"

	"github.com/viant/jarhc/inspector/graph"
)

// MemorySource serves in-memory archives in insertion order
type MemorySource struct {
	artifacts []*Artifact
}

// NewMemorySource creates an empty in-memory source
func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// Add appends an archive
func (s *MemorySource) Add(origin string, data []byte) *MemorySource {
	return s.AddArtifact(origin, KindArchive, nil, data)
}

// AddArtifact appends an artifact of any kind
func (s *MemorySource) AddArtifact(origin string, kind Kind, coordinate *graph.Coordinate, data []byte) *MemorySource {
	artifact := NewArtifact(origin, kind, func(ctx context.Context) ([]byte, error) { return data, nil })
	artifact.Coordinate = coordinate
	s.artifacts = append(s.artifacts, artifact)
	return s
}

// Artifacts implements Source
func (s *MemorySource) Artifacts(ctx context.Context) ([]*Artifact, error) {
	return s.artifacts, ctx.Err()
}
