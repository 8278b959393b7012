package report

import (
	"log/slog"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/jarhc/logging"
)

// Status represents a row (or section) diff outcome
type Status string

const (
	Unchanged Status = "unchanged"
	Added     Status = "added"
	Removed   Status = "removed"
	Changed   Status = "changed"
)

func (s Status) inverse() Status {
	switch s {
	case Added:
		return Removed
	case Removed:
		return Added
	}
	return s
}

// LineOp marks a line of a cell diff
type LineOp string

const (
	LineEqual  LineOp = " "
	LineInsert LineOp = "+"
	LineDelete LineOp = "-"
)

// Line is one line of a multi-line cell diff
type Line struct {
	Op   LineOp `yaml:"op" json:"op"`
	Text string `yaml:"text" json:"text"`
}

// CellDiff holds the line level diff of a changed multi-line cell
type CellDiff struct {
	Column int    `yaml:"column" json:"column"`
	Lines  []Line `yaml:"lines" json:"lines"`
}

// RowDiff represents a matched (or unmatched) pair of rows. Status follows the cells only;
// SeverityChanged marks a pair whose severity moved.
type RowDiff struct {
	Status          Status      `yaml:"status" json:"status"`
	Key             string      `yaml:"key,omitempty" json:"key,omitempty"`
	Old             *Finding    `yaml:"old,omitempty" json:"old,omitempty"`
	New             *Finding    `yaml:"new,omitempty" json:"new,omitempty"`
	ChangedColumns  []int       `yaml:"changedColumns,omitempty" json:"changedColumns,omitempty"`
	CellDiffs       []*CellDiff `yaml:"cellDiffs,omitempty" json:"cellDiffs,omitempty"`
	SeverityChanged bool        `yaml:"severityChanged,omitempty" json:"severityChanged,omitempty"`
}

// SectionDiff holds the row diffs of a section
type SectionDiff struct {
	Name    string     `yaml:"name" json:"name"`
	Title   string     `yaml:"title" json:"title"`
	Status  Status     `yaml:"status" json:"status"`
	Columns []Column   `yaml:"columns" json:"columns"`
	Rows    []*RowDiff `yaml:"rows" json:"rows"`
}

// DiffReport is the result of comparing two reports
type DiffReport struct {
	OldID    string         `yaml:"oldId" json:"oldId"`
	NewID    string         `yaml:"newId" json:"newId"`
	OldTitle string         `yaml:"oldTitle" json:"oldTitle"`
	NewTitle string         `yaml:"newTitle" json:"newTitle"`
	Sections []*SectionDiff `yaml:"sections" json:"sections"`
}

// Section returns the section diff with the given name, or nil
func (d *DiffReport) Section(name string) *SectionDiff {
	for _, section := range d.Sections {
		if section.Name == name {
			return section
		}
	}
	return nil
}

// Counts returns the number of rows per status
func (d *DiffReport) Counts() map[Status]int {
	result := map[Status]int{Unchanged: 0, Added: 0, Removed: 0, Changed: 0}
	for _, section := range d.Sections {
		for _, row := range section.Rows {
			result[row.Status]++
		}
	}
	return result
}

// HasChanges reports whether any row is not unchanged
func (d *DiffReport) HasChanges() bool {
	counts := d.Counts()
	return counts[Added]+counts[Removed]+counts[Changed] > 0
}

// Inverse returns the diff of new against old
func (d *DiffReport) Inverse() *DiffReport {
	result := &DiffReport{OldID: d.NewID, NewID: d.OldID, OldTitle: d.NewTitle, NewTitle: d.OldTitle}
	for _, section := range d.Sections {
		inverted := &SectionDiff{Name: section.Name, Title: section.Title, Status: section.Status.inverse(), Columns: section.Columns}
		for _, row := range section.Rows {
			inverted.Rows = append(inverted.Rows, row.inverse())
		}
		result.Sections = append(result.Sections, inverted)
	}
	return result
}

func (r *RowDiff) inverse() *RowDiff {
	result := &RowDiff{Status: r.Status.inverse(), Key: r.Key, Old: r.New, New: r.Old, ChangedColumns: r.ChangedColumns, SeverityChanged: r.SeverityChanged}
	for _, cell := range r.CellDiffs {
		lines := make([]Line, len(cell.Lines))
		for i, line := range cell.Lines {
			lines[i] = line
			switch line.Op {
			case LineInsert:
				lines[i].Op = LineDelete
			case LineDelete:
				lines[i].Op = LineInsert
			}
		}
		result.CellDiffs = append(result.CellDiffs, &CellDiff{Column: cell.Column, Lines: lines})
	}
	return result
}

// DiffOption customizes Diff
type DiffOption func(d *differ)

// WithDiffLogger sets the logger reporting sections present in one report only
func WithDiffLogger(logger *slog.Logger) DiffOption {
	return func(d *differ) {
		d.logger = logger
	}
}

type differ struct {
	logger *slog.Logger
}

// Diff compares two reports section by section. Sections follow the order of the new report,
// sections only present in the old report are appended in their original order.
func Diff(old, new *Report, options ...DiffOption) *DiffReport {
	d := &differ{}
	for _, option := range options {
		option(d)
	}
	d.logger = logging.OrDiscard(d.logger)

	result := &DiffReport{OldID: old.ID, NewID: new.ID, OldTitle: old.Title, NewTitle: new.Title}
	for _, section := range new.Sections {
		oldSection := old.Section(section.Name)
		if oldSection == nil {
			d.logger.Warn("section only present in new report", "section", section.Name)
			result.Sections = append(result.Sections, whole(section, Added))
			continue
		}
		result.Sections = append(result.Sections, d.section(oldSection, section))
	}
	for _, section := range old.Sections {
		if new.Section(section.Name) == nil {
			d.logger.Warn("section only present in old report", "section", section.Name)
			result.Sections = append(result.Sections, whole(section, Removed))
		}
	}
	return result
}

func whole(section *Section, status Status) *SectionDiff {
	result := &SectionDiff{Name: section.Name, Title: section.Title, Status: status, Columns: section.Columns}
	for _, row := range section.Rows {
		diff := &RowDiff{Status: status, Key: row.Key}
		if status == Added {
			diff.New = row
		} else {
			diff.Old = row
		}
		result.Rows = append(result.Rows, diff)
	}
	return result
}

// section matches keyed rows by key and key-less rows by position. Key-less rows past the
// shorter side are paired with an empty row and reported as changed. Removed rows are emitted
// before the first matched row that follows them in the old report.
func (d *differ) section(old, new *Section) *SectionDiff {
	result := &SectionDiff{Name: new.Name, Title: new.Title, Status: Unchanged, Columns: new.Columns}

	keyed := map[string][]int{}
	var positional []int
	for i, row := range old.Rows {
		if row.Key == "" {
			positional = append(positional, i)
			continue
		}
		keyed[row.Key] = append(keyed[row.Key], i)
	}

	pairs := make([]int, len(new.Rows))
	matched := make([]bool, len(old.Rows))
	for i, row := range new.Rows {
		pairs[i] = -1
		if row.Key == "" {
			if len(positional) > 0 {
				pairs[i], positional = positional[0], positional[1:]
			}
		} else if indexes := keyed[row.Key]; len(indexes) > 0 {
			pairs[i], keyed[row.Key] = indexes[0], indexes[1:]
		}
		if pairs[i] != -1 {
			matched[pairs[i]] = true
		}
	}

	next := 0
	flushRemoved := func(upTo int) {
		for ; next < upTo; next++ {
			if matched[next] {
				continue
			}
			if old.Rows[next].Key == "" {
				result.Rows = append(result.Rows, unpaired(old.Rows[next], &Finding{}, len(new.Columns)))
				continue
			}
			result.Rows = append(result.Rows, &RowDiff{Status: Removed, Key: old.Rows[next].Key, Old: old.Rows[next]})
		}
	}
	for i, row := range new.Rows {
		idx := pairs[i]
		if idx == -1 {
			if row.Key == "" {
				result.Rows = append(result.Rows, unpaired(&Finding{}, row, len(new.Columns)))
				continue
			}
			result.Rows = append(result.Rows, &RowDiff{Status: Added, Key: row.Key, New: row})
			continue
		}
		flushRemoved(idx)
		result.Rows = append(result.Rows, compare(old.Rows[idx], row, len(new.Columns)))
	}
	flushRemoved(len(old.Rows))

	for _, row := range result.Rows {
		if row.Status != Unchanged {
			result.Status = Changed
			break
		}
	}
	return result
}

func compare(old, new *Finding, columns int) *RowDiff {
	result := &RowDiff{Status: Unchanged, Key: new.Key, Old: old, New: new}
	width := columns
	if len(old.Cells) > width {
		width = len(old.Cells)
	}
	if len(new.Cells) > width {
		width = len(new.Cells)
	}
	for i := 0; i < width; i++ {
		before, after := old.Cell(i), new.Cell(i)
		if before.Equal(after) {
			continue
		}
		result.ChangedColumns = append(result.ChangedColumns, i)
		beforeText, afterText := before.Text(), after.Text()
		if strings.Contains(beforeText, "\n") || strings.Contains(afterText, "\n") {
			result.CellDiffs = append(result.CellDiffs, &CellDiff{Column: i, Lines: lineDiff(beforeText, afterText)})
		}
	}
	if len(result.ChangedColumns) > 0 {
		result.Status = Changed
	}
	result.SeverityChanged = old.Severity != new.Severity
	return result
}

// unpaired compares a key-less row with the empty row standing in for its missing counterpart
func unpaired(old, new *Finding, columns int) *RowDiff {
	result := compare(old, new, columns)
	result.Status = Changed
	result.SeverityChanged = false
	return result
}

func lineDiff(before, after string) []Line {
	a := strings.Split(before, "\n")
	b := strings.Split(after, "\n")
	var result []Line
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'e':
			for _, text := range a[op.I1:op.I2] {
				result = append(result, Line{Op: LineEqual, Text: text})
			}
		case 'd':
			for _, text := range a[op.I1:op.I2] {
				result = append(result, Line{Op: LineDelete, Text: text})
			}
		case 'i':
			for _, text := range b[op.J1:op.J2] {
				result = append(result, Line{Op: LineInsert, Text: text})
			}
		case 'r':
			for _, text := range a[op.I1:op.I2] {
				result = append(result, Line{Op: LineDelete, Text: text})
			}
			for _, text := range b[op.J1:op.J2] {
				result = append(result, Line{Op: LineInsert, Text: text})
			}
		}
	}
	return result
}
