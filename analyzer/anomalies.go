package analyzer

import (
	"context"

	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/report"
)

// Anomalies lists archives and entries that could not be fully analyzed
type Anomalies struct{}

func (a *Anomalies) Name() string { return "anomalies" }

func (a *Anomalies) Analyze(ctx context.Context, c *Context) (*report.Section, error) {
	section := report.NewSection(a.Name(), "Anomalies", "Archives and entries skipped or only partially analyzed.",
		column("JAR file", report.StringKind),
		column("Entry", report.StringKind),
		column("Code", report.StringKind),
		column("Message", report.StringKind))
	for _, jar := range c.Classpath.Jars() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, anomaly := range jar.Anomalies {
			severity := report.Warning
			if anomaly.Code == jerrors.UnreadableArchive {
				severity = report.Error
			}
			section.Add(severity, key(jar.DisplayName(), anomaly.Entry, string(anomaly.Code)),
				report.String(jar.DisplayName()),
				report.String(anomaly.Entry),
				report.String(string(anomaly.Code)),
				report.String(anomaly.Message))
		}
	}
	return section, nil
}
