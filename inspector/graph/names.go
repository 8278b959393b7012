package graph

import "strings"

const (
	// BaseRelease is the release of unversioned multi-release JAR entries
	BaseRelease = 8
	// ModuleInfoName is the class name of a module descriptor
	ModuleInfoName = "module-info"
	// DefaultPackage is how the unnamed package is displayed
	DefaultPackage = "(default)"
)

// ToExternal converts an internal binary name (java/lang/String) to an external one (java.lang.String)
func ToExternal(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// ToInternal converts an external class name to its internal binary form
func ToInternal(external string) string {
	return strings.ReplaceAll(external, ".", "/")
}

// PackageOf returns the package of an external class name, or "" for the unnamed package
func PackageOf(className string) string {
	if idx := strings.LastIndexByte(className, '.'); idx != -1 {
		return className[:idx]
	}
	return ""
}

// SimpleName returns the class name without package
func SimpleName(className string) string {
	if idx := strings.LastIndexByte(className, '.'); idx != -1 {
		return className[idx+1:]
	}
	return className
}

// DisplayPackage returns the package name, or DefaultPackage for the unnamed package
func DisplayPackage(pkg string) string {
	if pkg == "" {
		return DefaultPackage
	}
	return pkg
}

// TopLevelName returns the outermost class of a nested class name, e.g. a.Outer for a.Outer$Inner$1
func TopLevelName(className string) string {
	simple := strings.LastIndexByte(className, '.') + 1
	if idx := strings.IndexByte(className[simple:], '$'); idx > 0 {
		return className[:simple+idx]
	}
	return className
}
