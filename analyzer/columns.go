package analyzer

import (
	"strings"

	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

func column(name string, kind report.Kind) report.Column {
	return report.Column{Name: name, Type: kind}
}

func key(parts ...string) string {
	return strings.Join(parts, "|")
}

func jarNames(jars []*graph.Jar) []string {
	result := make([]string, 0, len(jars))
	for _, jar := range jars {
		result = append(result, jar.DisplayName())
	}
	return result
}
