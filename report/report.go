// Package report defines the analysis report model, its diff and its serialization.
package report

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity ranks findings
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Rank orders severities; unknown severities rank as info
func (s Severity) Rank() int {
	switch s {
	case Warning:
		return 1
	case Error:
		return 2
	}
	return 0
}

// ParseSeverity converts a name to a Severity, defaulting to info
func ParseSeverity(value string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(value))) {
	case Warning, "warn":
		return Warning
	case Error:
		return Error
	}
	return Info
}

// Column describes a section column
type Column struct {
	Name string `yaml:"name" json:"name"`
	Type Kind   `yaml:"type" json:"type"`
}

// Finding is a section row. Key identifies the row across reports; empty keys are matched by position.
type Finding struct {
	Key      string   `yaml:"key,omitempty" json:"key,omitempty"`
	Severity Severity `yaml:"severity" json:"severity"`
	Cells    []Value  `yaml:"cells" json:"cells"`
}

// Cell returns the cell at column idx, or an empty string value
func (f *Finding) Cell(idx int) Value {
	if f == nil || idx < 0 || idx >= len(f.Cells) {
		return String("")
	}
	return f.Cells[idx]
}

// Section is the table produced by one analyzer
type Section struct {
	Name        string     `yaml:"name" json:"name"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Columns     []Column   `yaml:"columns" json:"columns"`
	Rows        []*Finding `yaml:"rows" json:"rows"`
}

// NewSection creates an empty section
func NewSection(name, title, description string, columns ...Column) *Section {
	return &Section{Name: name, Title: title, Description: description, Columns: columns, Rows: []*Finding{}}
}

// Add appends a finding
func (s *Section) Add(severity Severity, key string, cells ...Value) *Finding {
	finding := &Finding{Key: key, Severity: severity, Cells: cells}
	s.Rows = append(s.Rows, finding)
	return finding
}

// Filter drops findings below threshold
func (s *Section) Filter(threshold Severity) {
	if threshold.Rank() == 0 {
		return
	}
	rows := s.Rows[:0]
	for _, row := range s.Rows {
		if row.Severity.Rank() >= threshold.Rank() {
			rows = append(rows, row)
		}
	}
	s.Rows = rows
}

// Summary describes the analyzed classpath
type Summary struct {
	Jars        int       `yaml:"jars" json:"jars"`
	Classes     int       `yaml:"classes" json:"classes"`
	Release     int       `yaml:"release" json:"release"`
	GeneratedAt time.Time `yaml:"generatedAt" json:"generatedAt"`
}

// Report is the result of one analysis run
type Report struct {
	ID       string     `yaml:"id" json:"id"`
	Title    string     `yaml:"title" json:"title"`
	Label    string     `yaml:"label,omitempty" json:"label,omitempty"`
	Summary  Summary    `yaml:"summary" json:"summary"`
	Sections []*Section `yaml:"sections" json:"sections"`
}

// New creates an empty report with a fresh ID
func New(title string, summary Summary) *Report {
	return &Report{ID: uuid.NewString(), Title: title, Summary: summary, Sections: []*Section{}}
}

// Section returns the section with the given name, or nil
func (r *Report) Section(name string) *Section {
	for _, section := range r.Sections {
		if section.Name == name {
			return section
		}
	}
	return nil
}

// Count returns the number of findings at or above severity
func (r *Report) Count(severity Severity) int {
	count := 0
	for _, section := range r.Sections {
		for _, row := range section.Rows {
			if row.Severity.Rank() >= severity.Rank() {
				count++
			}
		}
	}
	return count
}
