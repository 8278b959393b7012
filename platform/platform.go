// Package platform describes the classes a Java runtime provides itself.
package platform

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/viant/afs"
	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/inspector/graph"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultList []byte

// Boundary answers whether a name belongs to the runtime platform
type Boundary interface {
	// ContainsClass reports whether the platform provides the class
	ContainsClass(name string) bool
	// ContainsPackage reports whether the platform provides the package
	ContainsPackage(pkg string) bool
	// ModuleOf returns the platform module of a package, or ""
	ModuleOf(pkg string) string
	// Release returns the runtime release the boundary describes
	Release() int
}

// Module represents the exported packages (and optionally explicit classes) of a platform module
type Module struct {
	Name     string   `yaml:"name" toml:"name"`
	Packages []string `yaml:"packages" toml:"packages"`
	Classes  []string `yaml:"classes,omitempty" toml:"classes"`
}

// List is a Boundary loaded from a YAML or TOML list.
// Packages under java. always belong to the platform since no class path may define them.
type List struct {
	Version int       `yaml:"release" toml:"release"`
	Modules []*Module `yaml:"modules" toml:"modules"`

	packages map[string]string
	classes  map[string]bool
}

// Init builds lookup indices
func (l *List) Init() {
	l.packages = map[string]string{}
	l.classes = map[string]bool{}
	for _, module := range l.Modules {
		for _, pkg := range module.Packages {
			if _, ok := l.packages[pkg]; !ok {
				l.packages[pkg] = module.Name
			}
		}
		for _, class := range module.Classes {
			l.classes[class] = true
		}
	}
}

// ContainsClass implements Boundary
func (l *List) ContainsClass(name string) bool {
	if l.classes[name] {
		return true
	}
	return l.ContainsPackage(graph.PackageOf(name))
}

// ContainsPackage implements Boundary
func (l *List) ContainsPackage(pkg string) bool {
	if pkg == "java" || strings.HasPrefix(pkg, "java.") {
		return true
	}
	_, ok := l.packages[pkg]
	return ok
}

// ModuleOf implements Boundary
func (l *List) ModuleOf(pkg string) string {
	if module, ok := l.packages[pkg]; ok {
		return module
	}
	if strings.HasPrefix(pkg, "java.") {
		return "java.base"
	}
	return ""
}

// Release implements Boundary
func (l *List) Release() int {
	return l.Version
}

// ModuleNames returns the platform module names, sorted
func (l *List) ModuleNames() []string {
	result := make([]string, 0, len(l.Modules))
	for _, module := range l.Modules {
		result = append(result, module.Name)
	}
	sort.Strings(result)
	return result
}

// HasModule reports whether name is a platform module
func (l *List) HasModule(name string) bool {
	for _, module := range l.Modules {
		if module.Name == name {
			return true
		}
	}
	return false
}

// Format identifies a list encoding
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Parse decodes a list
func Parse(data []byte, format Format) (*List, error) {
	ret := &List{}
	var err error
	switch format {
	case TOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(ret)
	case YAML, "":
		err = yaml.Unmarshal(data, ret)
	default:
		err = fmt.Errorf("unsupported format: %v", format)
	}
	if err != nil {
		return nil, jerrors.Wrap(jerrors.InvalidConfig, err, "invalid platform list")
	}
	if ret.Version < graph.BaseRelease {
		return nil, jerrors.New(jerrors.InvalidConfig, "invalid platform list release: %d", ret.Version)
	}
	ret.Init()
	return ret, nil
}

// Load downloads and decodes a list; the format follows the extension (.toml, otherwise YAML)
func Load(ctx context.Context, URL string) (*List, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.InvalidConfig, err, "failed to load platform list %v", URL)
	}
	format := YAML
	if strings.EqualFold(path.Ext(URL), ".toml") {
		format = TOML
	}
	return Parse(data, format)
}

var (
	defaultOnce sync.Once
	defaultErr  error
	defaultInst *List
)

// Default returns the built-in list of common JDK modules
func Default() *List {
	defaultOnce.Do(func() {
		defaultInst, defaultErr = Parse(defaultList, YAML)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultInst
}

// Select returns the list with the highest release not above release, or the oldest list
func Select(lists []*List, release int) *List {
	var best, oldest *List
	for _, list := range lists {
		if oldest == nil || list.Version < oldest.Version {
			oldest = list
		}
		if list.Version <= release && (best == nil || list.Version > best.Version) {
			best = list
		}
	}
	if best != nil {
		return best
	}
	return oldest
}
