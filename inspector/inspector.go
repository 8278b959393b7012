package inspector

import (
	"context"
	"fmt"

	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/inspector/jar"
	"github.com/viant/jarhc/inspector/repository"
)

// Inspector loads one classpath artifact
type Inspector interface {
	// Inspect loads the artifact into a classpath record
	Inspect(ctx context.Context, artifact *repository.Artifact) (*graph.Jar, error)
}

// Factory creates appropriate inspectors based on artifact kind
type Factory struct {
	config *graph.Config
	jar    *jar.Inspector
}

// NewFactory creates a new inspector factory with the given config
func NewFactory(config *graph.Config, options ...jar.Option) *Factory {
	if config == nil {
		config = graph.DefaultConfig()
	}
	return &Factory{
		config: config,
		jar:    jar.NewInspector(config, options...),
	}
}

// Config returns loader settings
func (f *Factory) Config() *graph.Config {
	return f.config
}

// GetInspector returns an inspector for the artifact kind
func (f *Factory) GetInspector(kind repository.Kind) (Inspector, error) {
	switch kind {
	case repository.KindArchive:
		return &archiveInspector{jar: f.jar}, nil
	case repository.KindClass:
		return &classInspector{jar: f.jar}, nil
	case repository.KindDirectory:
		return &dirInspector{jar: f.jar}, nil
	default:
		return nil, fmt.Errorf("unsupported artifact kind: %q", kind)
	}
}

// Inspect is a convenience method that gets the appropriate inspector and inspects the artifact
func (f *Factory) Inspect(ctx context.Context, artifact *repository.Artifact) (*graph.Jar, error) {
	kind := artifact.Kind
	if kind == "" {
		kind, _ = repository.DetectKind(artifact.Origin, false)
	}
	inspector, err := f.GetInspector(kind)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.UnreadableArchive, err, "failed to inspect %v", artifact.Origin)
	}
	return inspector.Inspect(ctx, artifact)
}

type archiveInspector struct {
	jar *jar.Inspector
}

func (i *archiveInspector) Inspect(ctx context.Context, artifact *repository.Artifact) (*graph.Jar, error) {
	data, err := artifact.Open(ctx)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.UnreadableArchive, err, "failed to read %v", artifact.Origin)
	}
	return i.jar.Inspect(ctx, artifact.Origin, data, artifact.Coordinate)
}

type classInspector struct {
	jar *jar.Inspector
}

func (i *classInspector) Inspect(ctx context.Context, artifact *repository.Artifact) (*graph.Jar, error) {
	data, err := artifact.Open(ctx)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.UnreadableArchive, err, "failed to read %v", artifact.Origin)
	}
	ret, err := i.jar.InspectClass(ctx, artifact.Origin, data)
	if err != nil {
		return nil, err
	}
	ret.Coordinate = artifact.Coordinate
	ret.Init()
	return ret, nil
}

type dirInspector struct {
	jar *jar.Inspector
}

func (i *dirInspector) Inspect(ctx context.Context, artifact *repository.Artifact) (*graph.Jar, error) {
	return i.jar.InspectDir(ctx, artifact.Origin, artifact.Coordinate)
}
