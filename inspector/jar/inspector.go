// Package jar loads JAR archives into classpath records.
package jar

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zip"
	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/inspector/classfile"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/inspector/repository"
	"github.com/viant/jarhc/logging"
)

// Inspector loads archives; it is safe for concurrent use
type Inspector struct {
	config *graph.Config
	cache  *lru.Cache[uint64, *graph.Class]
	logger *slog.Logger
}

// Option configures an Inspector
type Option func(*Inspector)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// WithCache shares a parsed class cache between inspectors
func WithCache(cache *lru.Cache[uint64, *graph.Class]) Option {
	return func(i *Inspector) {
		i.cache = cache
	}
}

// NewInspector creates a JAR inspector
func NewInspector(config *graph.Config, options ...Option) *Inspector {
	if config == nil {
		config = graph.DefaultConfig()
	}
	config.Init()
	ret := &Inspector{config: config}
	for _, option := range options {
		option(ret)
	}
	ret.logger = logging.OrDiscard(ret.logger)
	if ret.cache == nil && config.CacheSize > 0 {
		ret.cache, _ = lru.New[uint64, *graph.Class](config.CacheSize)
	}
	return ret
}

// Inspect loads an archive. An archive that cannot be opened yields an UNREADABLE_ARCHIVE error;
// broken entries become anomalies of the returned record.
func (i *Inspector) Inspect(ctx context.Context, origin string, data []byte, coordinate *graph.Coordinate) (*graph.Jar, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, jerrors.Wrap(jerrors.UnreadableArchive, err, "failed to open %v", origin)
	}
	entries := make([]*entry, 0, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		file := file
		entries = append(entries, &entry{name: file.Name, open: func() ([]byte, error) {
			rc, err := file.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}})
	}
	jar := &graph.Jar{Origin: origin, Coordinate: coordinate, Size: int64(len(data)), Checksum: checksum(data)}
	if err = i.build(ctx, jar, entries); err != nil {
		return nil, err
	}
	return jar, nil
}

// InspectClass wraps a single class file into a one-class record
func (i *Inspector) InspectClass(ctx context.Context, origin string, data []byte) (*graph.Jar, error) {
	jar := &graph.Jar{Origin: origin, Size: int64(len(data)), Checksum: checksum(data)}
	name := origin[strings.LastIndex(origin, "/")+1:]
	entries := []*entry{{name: name, open: func() ([]byte, error) { return data, nil }}}
	if err := i.build(ctx, jar, entries); err != nil {
		return nil, err
	}
	if len(jar.Base().Classes) == 0 && len(jar.Anomalies) > 0 {
		return nil, jerrors.New(jar.Anomalies[0].Code, "%v: %v", origin, jar.Anomalies[0].Message)
	}
	return jar, nil
}

func (i *Inspector) build(ctx context.Context, jar *graph.Jar, entries []*entry) error {
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].name < entries[b].name })
	for _, item := range entries {
		if item.name == ManifestPath {
			data, err := item.open()
			if err != nil {
				jar.Anomalies = append(jar.Anomalies, i.anomaly(jar, item.name, jerrors.UnreadableArchive, err))
				break
			}
			jar.Manifest = parseManifest(data)
			break
		}
	}
	if jar.Manifest == nil {
		jar.Manifest = map[string]string{}
	}
	if jar.Coordinate == nil {
		jar.Coordinate = i.embeddedCoordinate(entries)
	}
	state := &loadState{jar: jar, multiRelease: jar.IsMultiRelease(), resources: map[string]*graph.Resource{}}
	for _, item := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := i.loadEntry(ctx, state, item); err != nil {
			return err
		}
	}
	if state.module == nil {
		if name := strings.TrimSpace(jar.Manifest[graph.ManifestAutomaticModuleName]); name != "" {
			state.module = &graph.Module{Name: name, Automatic: true}
		}
	}
	jar.Module = state.module
	for _, resource := range state.resources {
		jar.Resources = append(jar.Resources, resource)
	}
	jar.Init()
	i.logger.Debug("loaded archive", "origin", jar.Origin, "classes", len(jar.Base().Classes),
		"releases", jar.Releases(), "module", jar.ModuleName(), "anomalies", len(jar.Anomalies))
	return nil
}

type loadState struct {
	jar          *graph.Jar
	multiRelease bool
	module       *graph.Module
	resources    map[string]*graph.Resource
}

func (i *Inspector) loadEntry(ctx context.Context, state *loadState, item *entry) error {
	name := item.name
	if name == ManifestPath || isSignature(name) {
		return nil
	}
	release, entryPath, versioned := splitVersioned(name)
	if versioned && !state.multiRelease {
		release, entryPath, versioned = graph.BaseRelease, name, false
	}
	if versioned && release > i.config.MaxRelease {
		i.logger.Debug("skipping release entry", "origin", state.jar.Origin, "entry", name, "release", release)
		return nil
	}
	isClass := isClassEntry(entryPath) && release != 0 && (versioned || !strings.HasPrefix(entryPath, "META-INF/"))
	switch {
	case isClass:
		data, err := item.open()
		if err != nil {
			state.jar.Anomalies = append(state.jar.Anomalies, i.anomaly(state.jar, name, jerrors.UnreadableArchive, err))
			return nil
		}
		if path := strings.TrimSuffix(entryPath, ".class"); path == graph.ModuleInfoName || strings.HasSuffix(path, "/"+graph.ModuleInfoName) {
			if path == graph.ModuleInfoName {
				i.loadModule(state, name, release, data)
			}
			return nil
		}
		class, err := i.parse(data)
		if err != nil {
			state.jar.Anomalies = append(state.jar.Anomalies, i.anomaly(state.jar, name, jerrors.CodeOf(err), err))
			if class == nil {
				return nil
			}
			if class.Name == "" {
				class.Name = classNameOf(entryPath)
			}
		}
		state.jar.LayerFor(release).Add(class)
	case isArchiveEntry(name) && i.config.NestedJars:
		data, err := item.open()
		if err == nil {
			var nested *graph.Jar
			if nested, err = i.Inspect(ctx, state.jar.Origin+"!/"+name, data, nil); err == nil {
				state.jar.Nested = append(state.jar.Nested, nested)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		state.jar.Anomalies = append(state.jar.Anomalies, i.anomaly(state.jar, name, jerrors.UnreadableArchive, err))
	case i.config.Resources:
		if release == 0 {
			release = graph.BaseRelease
		}
		if prev, ok := state.resources[entryPath]; ok && prev.Release > release {
			return nil
		}
		data, err := item.open()
		if err != nil {
			state.jar.Anomalies = append(state.jar.Anomalies, i.anomaly(state.jar, name, jerrors.UnreadableArchive, err))
			return nil
		}
		state.resources[entryPath] = &graph.Resource{Path: entryPath, Hash: graph.Hash(data), Size: len(data), Release: release}
	}
	return nil
}

// embeddedCoordinate reads Maven pom.properties, or pom.xml, when the archive holds exactly one
func (i *Inspector) embeddedCoordinate(entries []*entry) *graph.Coordinate {
	if coordinate, ok := i.pomCoordinate(entries, repository.IsPomProperties, repository.ParsePomProperties); ok {
		return coordinate
	}
	coordinate, _ := i.pomCoordinate(entries, repository.IsPomXML, repository.ParsePomXML)
	return coordinate
}

func (i *Inspector) pomCoordinate(entries []*entry, match func(string) bool, parse func(string, []byte) *graph.Coordinate) (*graph.Coordinate, bool) {
	var candidate *entry
	for _, item := range entries {
		if match(item.name) {
			if candidate != nil {
				return nil, true
			}
			candidate = item
		}
	}
	if candidate == nil {
		return nil, false
	}
	data, err := candidate.open()
	if err != nil {
		return nil, true
	}
	coordinate := parse(candidate.name, data)
	return coordinate, coordinate != nil
}

// loadModule keeps the descriptor of the highest applicable release
func (i *Inspector) loadModule(state *loadState, name string, release int, data []byte) {
	if state.module != nil && state.module.Release > release {
		return
	}
	module, err := classfile.ParseModule(data)
	if err != nil {
		state.jar.Anomalies = append(state.jar.Anomalies, i.anomaly(state.jar, name, jerrors.CodeOf(err), err))
		return
	}
	module.Release = release
	state.module = module
}

// parse decodes a class, sharing parse results of identical bytes
func (i *Inspector) parse(data []byte) (*graph.Class, error) {
	if i.cache == nil {
		return classfile.Parse(data)
	}
	key := graph.Hash(data)
	if cached, ok := i.cache.Get(key); ok && cached.Size == len(data) {
		return cached.Clone(), nil
	}
	class, err := classfile.Parse(data)
	if err != nil {
		return class, err
	}
	i.cache.Add(key, class)
	return class.Clone(), nil
}

func (i *Inspector) anomaly(jar *graph.Jar, entryName string, code jerrors.Code, err error) *graph.Anomaly {
	if code == "" {
		code = jerrors.MalformedClassFile
	}
	message := fmt.Sprint(err)
	i.logger.Warn("entry skipped", "origin", jar.Origin, "entry", entryName, "code", code, "error", message)
	return &graph.Anomaly{Entry: entryName, Code: code, Message: message}
}

func checksum(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
