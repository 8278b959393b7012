package jar

import (
	"path"
	"strconv"
	"strings"

	"github.com/viant/jarhc/inspector/graph"
)

const versionsPrefix = "META-INF/versions/"

// entry is an archive member with lazily read content
type entry struct {
	name string
	open func() ([]byte, error)
}

// splitVersioned returns the release and the path below META-INF/versions/N, or the base release and name
func splitVersioned(name string) (int, string, bool) {
	if !strings.HasPrefix(name, versionsPrefix) {
		return graph.BaseRelease, name, false
	}
	rest := name[len(versionsPrefix):]
	idx := strings.IndexByte(rest, '/')
	if idx <= 0 {
		return 0, name, false
	}
	release, err := strconv.Atoi(rest[:idx])
	if err != nil || release <= graph.BaseRelease {
		return 0, name, false
	}
	return release, rest[idx+1:], true
}

func isClassEntry(name string) bool {
	return strings.HasSuffix(name, ".class")
}

func isArchiveEntry(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jar", ".war":
		return true
	}
	return false
}

// isSignature matches JAR signing artifacts, which never travel with classes
func isSignature(name string) bool {
	if !strings.HasPrefix(name, "META-INF/") || strings.Count(name, "/") != 1 {
		return false
	}
	switch strings.ToUpper(path.Ext(name)) {
	case ".SF", ".RSA", ".DSA", ".EC":
		return true
	}
	return false
}

// classNameOf derives the class name of an entry path, used when the class itself is unreadable
func classNameOf(entryPath string) string {
	return graph.ToExternal(strings.TrimSuffix(entryPath, ".class"))
}
