package classfile

import "fmt"

const (
	// MinSupportedMajor is the class file version of Java 1.1
	MinSupportedMajor = 45
	// MaxSupportedMajor is the class file version of Java 25
	MaxSupportedMajor = 69
)

// JavaVersion returns the Java release name of a class file major version, e.g. "Java 8" or "Java 1.4"
func JavaVersion(major int) string {
	release := ReleaseOf(major)
	switch {
	case release <= 0:
		return fmt.Sprintf("Java ? (%d)", major)
	case release < 5:
		return fmt.Sprintf("Java 1.%d", release)
	}
	return fmt.Sprintf("Java %d", release)
}

// ReleaseOf returns the Java release number of a class file major version; 1.1..1.4 map to 1..4
func ReleaseOf(major int) int {
	return major - 44
}

// MajorForRelease returns the class file major version of a Java release
func MajorForRelease(release int) int {
	return release + 44
}
