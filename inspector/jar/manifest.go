package jar

import (
	"bufio"
	"bytes"
	"strings"
)

// ManifestPath is the archive path of the JAR manifest
const ManifestPath = "META-INF/MANIFEST.MF"

// parseManifest reads the main section attributes; continuation lines start with a single space
func parseManifest(data []byte) map[string]string {
	result := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), len(data)+1)
	lastKey := ""
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break
		}
		if line[0] == ' ' {
			if lastKey != "" {
				result[lastKey] += line[1:]
			}
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			lastKey = ""
			continue
		}
		lastKey = strings.TrimSpace(line[:idx])
		result[lastKey] = strings.TrimSpace(line[idx+1:])
	}
	return result
}
