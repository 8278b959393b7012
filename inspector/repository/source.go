package repository

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/jarhc/inspector/graph"
)

// FileSource resolves local or remote (any afs scheme) locations into artifacts.
// Directories holding archives are expanded to their archives in name order;
// any other directory is an exploded archive.
type FileSource struct {
	fs          afs.Service
	locations   []string
	coordinates map[string]*graph.Coordinate
}

// SourceOption configures a FileSource
type SourceOption func(*FileSource)

// WithCoordinates declares coordinates by file name or location
func WithCoordinates(coordinates map[string]*graph.Coordinate) SourceOption {
	return func(s *FileSource) {
		s.coordinates = coordinates
	}
}

// WithFS sets the storage service
func WithFS(fs afs.Service) SourceOption {
	return func(s *FileSource) {
		s.fs = fs
	}
}

// NewFileSource creates a source for locations in classpath order
func NewFileSource(locations []string, options ...SourceOption) *FileSource {
	ret := &FileSource{locations: locations}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

// Artifacts implements Source
func (s *FileSource) Artifacts(ctx context.Context) ([]*Artifact, error) {
	var result []*Artifact
	for _, location := range s.locations {
		object, err := s.fs.Object(ctx, location)
		if err != nil {
			// a missing file still takes its classpath position and is reported as unreadable
			result = append(result, s.artifact(location, KindArchive))
			continue
		}
		if !object.IsDir() {
			kind, ok := DetectKind(location, false)
			if !ok {
				kind = KindArchive
			}
			result = append(result, s.artifact(location, kind))
			continue
		}
		archives, err := s.archives(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to list %v: %w", location, err)
		}
		if len(archives) == 0 {
			result = append(result, s.artifact(location, KindDirectory))
			continue
		}
		for _, archive := range archives {
			result = append(result, s.artifact(archive, KindArchive))
		}
	}
	return result, nil
}

func (s *FileSource) archives(ctx context.Context, dir storage.Object) ([]string, error) {
	objects, err := s.fs.List(ctx, dir.URL())
	if err != nil {
		return nil, err
	}
	var result []string
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		if kind, ok := DetectKind(object.Name(), false); ok && kind == KindArchive {
			result = append(result, object.URL())
		}
	}
	sort.Strings(result)
	return result, nil
}

func (s *FileSource) artifact(location string, kind Kind) *Artifact {
	ret := &Artifact{Origin: location, Kind: kind, Coordinate: s.coordinate(location)}
	if kind != KindDirectory {
		ret.open = func(ctx context.Context) ([]byte, error) {
			return s.fs.DownloadWithURL(ctx, location)
		}
	}
	return ret
}

func (s *FileSource) coordinate(location string) *graph.Coordinate {
	if coordinate, ok := s.coordinates[location]; ok {
		return coordinate
	}
	return s.coordinates[path.Base(location)]
}
