package jar

import (
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/inspector/graph"
)

// InspectDir loads a directory laid out as an exploded archive (classes and META-INF at its root)
func (i *Inspector) InspectDir(ctx context.Context, URL string, coordinate *graph.Coordinate) (*graph.Jar, error) {
	fs := afs.New()
	var entries []*entry
	var size int64
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		name := strings.TrimPrefix(path.Join(parent, info.Name()), "/")
		location := url.Join(baseURL, name)
		var data []byte
		var err error
		if reader != nil {
			data, err = io.ReadAll(reader)
		}
		size += info.Size()
		entries = append(entries, &entry{name: name, open: func() ([]byte, error) {
			if err != nil || data == nil {
				return fs.DownloadWithURL(ctx, location)
			}
			return data, nil
		}})
		return true, nil
	}
	if err := fs.Walk(ctx, URL, visitor); err != nil {
		return nil, jerrors.Wrap(jerrors.UnreadableArchive, err, "failed to walk %v", URL)
	}
	jar := &graph.Jar{Origin: URL, Coordinate: coordinate, Size: size}
	if err := i.build(ctx, jar, entries); err != nil {
		return nil, err
	}
	return jar, nil
}
