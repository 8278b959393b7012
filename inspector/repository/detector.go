package repository

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"path"
	"regexp"
	"strings"

	"github.com/viant/jarhc/inspector/graph"
)

var (
	pomPropertiesPattern = regexp.MustCompile(`^META-INF/maven/([^/]+)/([^/]+)/pom\.properties$`)
	pomXMLPattern        = regexp.MustCompile(`^META-INF/maven/([^/]+)/([^/]+)/pom\.xml$`)
)

// pomInfo represents the coordinate part of a Maven POM file
type pomInfo struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Parent     struct {
		GroupID string `xml:"groupId"`
		Version string `xml:"version"`
	} `xml:"parent"`
}

// DetectKind returns the artifact kind of a location by its extension
func DetectKind(location string, isDir bool) (Kind, bool) {
	if isDir {
		return KindDirectory, true
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".jar", ".war", ".zip", ".ear":
		return KindArchive, true
	case ".class":
		return KindClass, true
	}
	return "", false
}

// IsPomProperties reports whether an archive entry is Maven build metadata
func IsPomProperties(entryPath string) bool {
	return pomPropertiesPattern.MatchString(entryPath)
}

// ParsePomProperties extracts group, artifact and version from META-INF/maven/g/a/pom.properties
func ParsePomProperties(entryPath string, data []byte) *graph.Coordinate {
	matches := pomPropertiesPattern.FindStringSubmatch(entryPath)
	if len(matches) < 3 {
		return nil
	}
	coordinate := &graph.Coordinate{Group: matches[1], Artifact: matches[2]}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		idx := strings.IndexAny(line, "=:")
		if idx == -1 {
			continue
		}
		key, value := strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:])
		switch key {
		case "groupId":
			coordinate.Group = value
		case "artifactId":
			coordinate.Artifact = value
		case "version":
			coordinate.Version = value
		}
	}
	if coordinate.Version == "" {
		return nil
	}
	return coordinate
}

// IsPomXML reports whether an archive entry is an embedded Maven POM
func IsPomXML(entryPath string) bool {
	return pomXMLPattern.MatchString(entryPath)
}

// ParsePomXML extracts the coordinate of META-INF/maven/g/a/pom.xml; group and version
// are inherited from the parent when the project omits them
func ParsePomXML(entryPath string, data []byte) *graph.Coordinate {
	matches := pomXMLPattern.FindStringSubmatch(entryPath)
	if len(matches) < 3 {
		return nil
	}
	pom := &pomInfo{}
	if err := xml.Unmarshal(data, pom); err != nil {
		return nil
	}
	coordinate := &graph.Coordinate{Group: matches[1], Artifact: matches[2]}
	if group := firstNonEmpty(pom.GroupID, pom.Parent.GroupID); group != "" {
		coordinate.Group = group
	}
	if pom.ArtifactID != "" {
		coordinate.Artifact = pom.ArtifactID
	}
	coordinate.Version = firstNonEmpty(pom.Version, pom.Parent.Version)
	if coordinate.Version == "" || strings.Contains(coordinate.Version, "${") {
		return nil
	}
	return coordinate
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
