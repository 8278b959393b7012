package graph

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	jerrors "github.com/viant/jarhc/errors"
)

var versionPattern = regexp.MustCompile(`-([0-9]+(\.[0-9]+){0,10}(-SNAPSHOT)?)`)

// Manifest attribute names used by the loader
const (
	ManifestMultiRelease        = "Multi-Release"
	ManifestAutomaticModuleName = "Automatic-Module-Name"
)

// Coordinate represents declared group:artifact:version coordinates of a JAR
type Coordinate struct {
	Group    string `yaml:"group"`
	Artifact string `yaml:"artifact"`
	Version  string `yaml:"version"`
}

// ParseCoordinate parses group:artifact:version (a fourth classifier/type segment is tolerated)
func ParseCoordinate(value string) (*Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 3 || len(parts) > 5 {
		return nil, fmt.Errorf("invalid coordinate %q: expected group:artifact:version", value)
	}
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid coordinate %q: empty segment", value)
		}
	}
	return &Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[len(parts)-1]}, nil
}

func (c *Coordinate) String() string {
	if c == nil {
		return ""
	}
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// Layer holds the classes of one release of a JAR; names are unique within a layer
type Layer struct {
	Release int
	Classes map[string]*Class
}

// NewLayer creates an empty layer
func NewLayer(release int) *Layer {
	return &Layer{Release: release, Classes: map[string]*Class{}}
}

// Add puts class into the layer, replacing a class with the same name
func (l *Layer) Add(class *Class) {
	l.Classes[class.Name] = class
}

// Get returns the class with the given name, or nil
func (l *Layer) Get(name string) *Class {
	return l.Classes[name]
}

// Names returns the class names of the layer, sorted
func (l *Layer) Names() []string {
	result := make([]string, 0, len(l.Classes))
	for name := range l.Classes {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Resource represents a non-class archive entry
type Resource struct {
	Path    string `yaml:"path"`
	Hash    uint64 `yaml:"hash"`
	Size    int    `yaml:"size"`
	Release int    `yaml:"release"`
}

// Anomaly records an entry (or the whole archive) that could not be analyzed
type Anomaly struct {
	Entry   string       `yaml:"entry"`
	Code    jerrors.Code `yaml:"code"`
	Message string       `yaml:"message"`
}

// Jar represents a loaded archive. It is built once by the loader; call Init before use.
type Jar struct {
	Origin     string            // file name or logical path; nested archives use outer!/inner
	Coordinate *Coordinate       // declared coordinate, optional
	Manifest   map[string]string // main manifest attributes
	Layers     []*Layer          // release layers, ascending, Layers[0] is the base layer
	Module     *Module           // module descriptor, nil for unnamed modules
	Resources  []*Resource       // non-class entries, sorted by path
	Anomalies  []*Anomaly        // entries that failed to load
	Checksum   string            // SHA-1 of the archive bytes
	Size       int64             // archive size in bytes
	Unreadable bool              // the archive could not be opened
	Nested     []*Jar            // archives embedded as entries, loaded as separate records

	artifact    string
	version     string
	resourceMap map[string]int
}

// Init sorts layers, guarantees a base layer and derives artifact name and version
func (j *Jar) Init() {
	if j.Manifest == nil {
		j.Manifest = map[string]string{}
	}
	j.LayerFor(BaseRelease)
	sort.SliceStable(j.Layers, func(a, b int) bool { return j.Layers[a].Release < j.Layers[b].Release })
	sort.SliceStable(j.Resources, func(a, b int) bool { return j.Resources[a].Path < j.Resources[b].Path })
	j.resourceMap = make(map[string]int, len(j.Resources))
	for i, resource := range j.Resources {
		j.resourceMap[resource.Path] = i
	}
	j.artifact, j.version = j.deriveArtifact()
}

// LayerFor returns the layer for release, creating it when missing
func (j *Jar) LayerFor(release int) *Layer {
	if release < BaseRelease {
		release = BaseRelease
	}
	for _, layer := range j.Layers {
		if layer.Release == release {
			return layer
		}
	}
	layer := NewLayer(release)
	j.Layers = append(j.Layers, layer)
	return layer
}

// Base returns the base layer
func (j *Jar) Base() *Layer {
	for _, layer := range j.Layers {
		if layer.Release == BaseRelease {
			return layer
		}
	}
	return NewLayer(BaseRelease)
}

// Releases returns the versioned releases above the base layer
func (j *Jar) Releases() []int {
	var result []int
	for _, layer := range j.Layers {
		if layer.Release > BaseRelease {
			result = append(result, layer.Release)
		}
	}
	return result
}

// IsMultiRelease reports whether the manifest declares Multi-Release: true
func (j *Jar) IsMultiRelease() bool {
	return strings.EqualFold(strings.TrimSpace(j.Manifest[ManifestMultiRelease]), "true")
}

// EffectiveClass returns the class visible at the target release: base first,
// then every layer up to target in ascending order, later layers override earlier ones.
func (j *Jar) EffectiveClass(name string, target int) *Class {
	var result *Class
	for _, layer := range j.Layers {
		if layer.Release > target && layer.Release != BaseRelease {
			break
		}
		if class := layer.Get(name); class != nil {
			result = class
		}
	}
	return result
}

// Effective returns all classes visible at the target release, sorted by name
func (j *Jar) Effective(target int) []*Class {
	merged := map[string]*Class{}
	for _, layer := range j.Layers {
		if layer.Release > target && layer.Release != BaseRelease {
			break
		}
		for name, class := range layer.Classes {
			merged[name] = class
		}
	}
	result := make([]*Class, 0, len(merged))
	for _, class := range merged {
		result = append(result, class)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result
}

// Packages returns the packages of the classes visible at target, sorted
func (j *Jar) Packages(target int) []string {
	seen := map[string]bool{}
	var result []string
	for _, class := range j.Effective(target) {
		pkg := class.Package()
		if !seen[pkg] {
			seen[pkg] = true
			result = append(result, pkg)
		}
	}
	sort.Strings(result)
	return result
}

// Resource returns a resource by path, or nil
func (j *Jar) Resource(resourcePath string) *Resource {
	if idx, ok := j.resourceMap[resourcePath]; ok && idx < len(j.Resources) {
		return j.Resources[idx]
	}
	return nil
}

// FileName returns the last path segment of the origin
func (j *Jar) FileName() string {
	return path.Base(strings.ReplaceAll(j.Origin, "\\", "/"))
}

// DisplayName returns the file name, nested archives keep the outer!/inner form
func (j *Jar) DisplayName() string {
	origin := strings.ReplaceAll(j.Origin, "\\", "/")
	if idx := strings.Index(origin, "!/"); idx != -1 {
		return path.Base(origin[:idx]) + "!/" + path.Base(origin[idx+2:])
	}
	return path.Base(origin)
}

// ClassCount returns the number of classes visible at target
func (j *Jar) ClassCount(target int) int {
	return len(j.Effective(target))
}

// ArtifactName returns the declared artifact id, or the name derived from the file name
func (j *Jar) ArtifactName() string {
	return j.artifact
}

// Version returns the declared version, or the version derived from the file name
func (j *Jar) Version() string {
	return j.version
}

// ModuleName returns the module name, or "" for JARs in the unnamed module
func (j *Jar) ModuleName() string {
	if j.Module == nil {
		return ""
	}
	return j.Module.Name
}

// IsNamedModule reports whether the JAR carries an explicit module-info.class
func (j *Jar) IsNamedModule() bool {
	return j.Module != nil && !j.Module.Automatic
}

func (j *Jar) String() string {
	return fmt.Sprintf("Jar[%s,%d]", j.Origin, len(j.Base().Classes))
}

func (j *Jar) deriveArtifact() (string, string) {
	if j.Coordinate != nil {
		return j.Coordinate.Artifact, j.Coordinate.Version
	}
	name := j.FileName()
	for _, ext := range []string{".jar", ".war", ".zip", ".jmod", ".class"} {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}
	if match := versionPattern.FindStringSubmatchIndex(name); match != nil {
		version := name[match[2]:match[3]]
		return name[:match[0]] + name[match[1]:], version
	}
	return name, ""
}
