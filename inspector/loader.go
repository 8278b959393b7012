package inspector

import (
	"context"
	"log/slog"
	"time"

	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/inspector/repository"
	"github.com/viant/jarhc/logging"
	"golang.org/x/sync/errgroup"
)

// Loader loads artifacts in parallel into classpath-ordered records
type Loader struct {
	factory *Factory
	workers int
	logger  *slog.Logger
}

// NewLoader creates a loader; workers defaults to the factory config
func NewLoader(factory *Factory, logger *slog.Logger) *Loader {
	workers := factory.Config().Workers
	if workers <= 0 {
		workers = 1
	}
	return &Loader{factory: factory, workers: workers, logger: logging.OrDiscard(logger)}
}

// LoadSource loads every artifact of source
func (l *Loader) LoadSource(ctx context.Context, source repository.Source) ([]*graph.Jar, error) {
	artifacts, err := source.Artifacts(ctx)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, artifacts)
}

// Load inspects artifacts concurrently. The result keeps input order, nested archives follow
// their container. An unreadable artifact yields a record flagged Unreadable carrying an anomaly.
// Cancellation aborts the whole load; no readable record at all is EMPTY_CLASSPATH.
func (l *Loader) Load(ctx context.Context, artifacts []*repository.Artifact) ([]*graph.Jar, error) {
	started := time.Now()
	results := make([]*graph.Jar, len(artifacts))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(l.workers)
	for i, artifact := range artifacts {
		i, artifact := i, artifact
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			record, err := l.factory.Inspect(groupCtx, artifact)
			if err != nil {
				if ctxErr := groupCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				record = l.failed(artifact, err)
			}
			results[i] = record
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var jars []*graph.Jar
	readable := 0
	for _, record := range results {
		flattened := flatten(record)
		for _, item := range flattened {
			if !item.Unreadable {
				readable++
			}
		}
		jars = append(jars, flattened...)
	}
	if readable == 0 {
		return nil, jerrors.New(jerrors.EmptyClasspath, "no readable artifact among %d", len(artifacts))
	}
	l.logger.Debug("classpath loaded", "artifacts", len(artifacts), "jars", len(jars), "elapsed", time.Since(started))
	return jars, nil
}

func (l *Loader) failed(artifact *repository.Artifact, err error) *graph.Jar {
	code := jerrors.CodeOf(err)
	if code == "" {
		code = jerrors.UnreadableArchive
	}
	l.logger.Warn("artifact unreadable", "origin", artifact.Origin, "error", err)
	ret := &graph.Jar{
		Origin:     artifact.Origin,
		Coordinate: artifact.Coordinate,
		Unreadable: true,
		Anomalies:  []*graph.Anomaly{{Code: code, Message: err.Error()}},
	}
	ret.Init()
	return ret
}

func flatten(record *graph.Jar) []*graph.Jar {
	result := []*graph.Jar{record}
	for _, nested := range record.Nested {
		result = append(result, flatten(nested)...)
	}
	return result
}
