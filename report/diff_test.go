package report_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jarhc/report"
)

func duplicates(classes ...string) *report.Section {
	section := report.NewSection("duplicate_classes", "Duplicate Classes", "",
		report.Column{Name: "Class", Type: report.StringKind},
		report.Column{Name: "Sources", Type: report.ListKind})
	for _, class := range classes {
		section.Add(report.Warning, class, report.String(class), report.List("a.jar", "b.jar"))
	}
	return section
}

func newReport(sections ...*report.Section) *report.Report {
	result := report.New("test", report.Summary{Jars: 2})
	result.Sections = sections
	return result
}

func statuses(section *report.SectionDiff) map[string]report.Status {
	result := map[string]report.Status{}
	for _, row := range section.Rows {
		result[row.Key] = row.Status
	}
	return result
}

func TestDiff(t *testing.T) {
	changed := duplicates("Foo")
	changed.Rows[0].Cells[1] = report.List("a.jar", "c.jar")

	var testCases = []struct {
		description string
		old         *report.Report
		new         *report.Report
		expect      map[string]report.Status
		expectCount map[report.Status]int
	}{
		{
			description: "identical",
			old:         newReport(duplicates("Foo", "Bar")),
			new:         newReport(duplicates("Foo", "Bar")),
			expect:      map[string]report.Status{"Foo": report.Unchanged, "Bar": report.Unchanged},
			expectCount: map[report.Status]int{report.Unchanged: 2, report.Added: 0, report.Removed: 0, report.Changed: 0},
		},
		{
			description: "added row",
			old:         newReport(duplicates("Foo")),
			new:         newReport(duplicates("Foo", "Baz")),
			expect:      map[string]report.Status{"Foo": report.Unchanged, "Baz": report.Added},
			expectCount: map[report.Status]int{report.Unchanged: 1, report.Added: 1, report.Removed: 0, report.Changed: 0},
		},
		{
			description: "removed row",
			old:         newReport(duplicates("Foo", "Baz")),
			new:         newReport(duplicates("Baz")),
			expect:      map[string]report.Status{"Foo": report.Removed, "Baz": report.Unchanged},
			expectCount: map[report.Status]int{report.Unchanged: 1, report.Added: 0, report.Removed: 1, report.Changed: 0},
		},
		{
			description: "changed cell",
			old:         newReport(duplicates("Foo")),
			new:         newReport(changed),
			expect:      map[string]report.Status{"Foo": report.Changed},
			expectCount: map[report.Status]int{report.Unchanged: 0, report.Added: 0, report.Removed: 0, report.Changed: 1},
		},
	}

	for _, testCase := range testCases {
		diff := report.Diff(testCase.old, testCase.new)
		section := diff.Section("duplicate_classes")
		require.NotNil(t, section, testCase.description)
		assert.Equal(t, testCase.expect, statuses(section), testCase.description)
		assert.Equal(t, testCase.expectCount, diff.Counts(), testCase.description)
	}
}

func TestDiff_ChangedColumns(t *testing.T) {
	old := newReport(duplicates("Foo"))
	changed := duplicates("Foo")
	changed.Rows[0].Cells[1] = report.List("a.jar", "c.jar")
	diff := report.Diff(old, newReport(changed))

	row := diff.Section("duplicate_classes").Rows[0]
	assert.Equal(t, []int{1}, row.ChangedColumns)
	require.Len(t, row.CellDiffs, 1)
	assert.Equal(t, []report.Line{
		{Op: report.LineEqual, Text: "a.jar"},
		{Op: report.LineDelete, Text: "b.jar"},
		{Op: report.LineInsert, Text: "c.jar"},
	}, row.CellDiffs[0].Lines)

	inverse := diff.Inverse()
	inverted := inverse.Section("duplicate_classes").Rows[0]
	assert.Equal(t, report.Changed, inverted.Status)
	assert.Equal(t, report.LineInsert, inverted.CellDiffs[0].Lines[1].Op)
	assert.Equal(t, report.LineDelete, inverted.CellDiffs[0].Lines[2].Op)
}

func TestDiff_Inverse(t *testing.T) {
	a := newReport(duplicates("Foo", "Bar"))
	b := newReport(duplicates("Foo", "Baz", "Qux"))

	forward := report.Diff(a, b)
	backward := report.Diff(b, a)
	assert.Equal(t, forward.Counts()[report.Added], backward.Counts()[report.Removed])
	assert.Equal(t, forward.Counts()[report.Removed], backward.Counts()[report.Added])
	assert.Equal(t, statuses(backward.Section("duplicate_classes")), statuses(forward.Inverse().Section("duplicate_classes")))
	assert.Equal(t, a.ID, forward.Inverse().NewID)
}

func TestDiff_Sections(t *testing.T) {
	versions := report.NewSection("class_versions", "Class Versions", "", report.Column{Name: "JAR", Type: report.StringKind})
	versions.Add(report.Info, "a.jar", report.String("a.jar"))

	buffer := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buffer, nil))
	diff := report.Diff(newReport(versions), newReport(duplicates("Foo")), report.WithDiffLogger(logger))

	require.Len(t, diff.Sections, 2)
	assert.Equal(t, "duplicate_classes", diff.Sections[0].Name)
	assert.Equal(t, report.Added, diff.Sections[0].Status)
	assert.Equal(t, report.Added, diff.Sections[0].Rows[0].Status)
	assert.Equal(t, "class_versions", diff.Sections[1].Name)
	assert.Equal(t, report.Removed, diff.Sections[1].Status)
	assert.Equal(t, report.Removed, diff.Sections[1].Rows[0].Status)
	assert.Contains(t, buffer.String(), "section only present in new report")
	assert.Contains(t, buffer.String(), "section only present in old report")
}

func TestDiff_Positional(t *testing.T) {
	section := func(values ...string) *report.Section {
		result := report.NewSection("notes", "Notes", "", report.Column{Name: "Note", Type: report.StringKind})
		for _, value := range values {
			result.Add(report.Info, "", report.String(value))
		}
		return result
	}

	var testCases = []struct {
		description string
		old         []string
		new         []string
		expect      []report.Status
	}{
		{description: "same rows", old: []string{"x", "y"}, new: []string{"x", "y"}, expect: []report.Status{report.Unchanged, report.Unchanged}},
		{description: "reordered rows", old: []string{"x", "y"}, new: []string{"y", "x"}, expect: []report.Status{report.Changed, report.Changed}},
		{description: "extra row", old: []string{"x"}, new: []string{"x", "z"}, expect: []report.Status{report.Unchanged, report.Changed}},
		{description: "missing row", old: []string{"x", "y"}, new: []string{"x"}, expect: []report.Status{report.Unchanged, report.Changed}},
	}
	for _, testCase := range testCases {
		diff := report.Diff(newReport(section(testCase.old...)), newReport(section(testCase.new...)))
		var actual []report.Status
		for _, row := range diff.Section("notes").Rows {
			actual = append(actual, row.Status)
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestDiff_RemovedOrder(t *testing.T) {
	diff := report.Diff(newReport(duplicates("A", "B", "C")), newReport(duplicates("A", "C")))
	var keys []string
	for _, row := range diff.Section("duplicate_classes").Rows {
		keys = append(keys, row.Key)
	}
	assert.Equal(t, []string{"A", "B", "C"}, keys)
}

func TestDiff_PositionalUnpaired(t *testing.T) {
	notes := func(values ...string) *report.Section {
		result := report.NewSection("notes", "Notes", "", report.Column{Name: "Note", Type: report.StringKind})
		for _, value := range values {
			result.Add(report.Info, "", report.String(value))
		}
		return result
	}
	diff := report.Diff(newReport(notes("x")), newReport(notes("x", "z")))
	row := diff.Section("notes").Rows[1]
	assert.Equal(t, report.Changed, row.Status)
	assert.Equal(t, []int{0}, row.ChangedColumns)
	require.NotNil(t, row.Old)
	assert.Empty(t, row.Old.Cells)
	assert.Equal(t, "z", row.New.Cells[0].Str)
	assert.Equal(t, 0, diff.Counts()[report.Added])

	inverse := diff.Inverse().Section("notes").Rows[1]
	assert.Equal(t, report.Changed, inverse.Status)
	assert.Equal(t, "z", inverse.Old.Cells[0].Str)
}

func TestDiff_SeverityOnly(t *testing.T) {
	escalated := duplicates("Foo")
	escalated.Rows[0].Severity = report.Error

	var testCases = []struct {
		description           string
		old                   *report.Section
		new                   *report.Section
		expectStatus          report.Status
		expectSeverityChanged bool
	}{
		{description: "same cells, severity raised", old: duplicates("Foo"), new: escalated, expectStatus: report.Unchanged, expectSeverityChanged: true},
		{description: "same cells, same severity", old: duplicates("Foo"), new: duplicates("Foo"), expectStatus: report.Unchanged},
	}
	for _, testCase := range testCases {
		row := report.Diff(newReport(testCase.old), newReport(testCase.new)).Section("duplicate_classes").Rows[0]
		assert.Equal(t, testCase.expectStatus, row.Status, testCase.description)
		assert.Empty(t, row.ChangedColumns, testCase.description)
		assert.Equal(t, testCase.expectSeverityChanged, row.SeverityChanged, testCase.description)
	}
}
