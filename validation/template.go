// Package validation checks career matrix templates and rendered tables.
package validation

import (
	"fmt"
	"slices"
	"strings"

	"careermatrix/core"
	"careermatrix/matrix"

	"github.com/rivo/uniseg"
)

// Severity ranks a finding.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Finding codes.
const (
	CodeEmptyAxes       = "empty-axes"
	CodeDuplicateLabel  = "duplicate-label"
	CodeCellOutOfBounds = "cell-out-of-bounds"
	CodeInvalidColor    = "invalid-color"
	CodeTextTooLong     = "text-too-long"
	CodeMissingArrowID  = "missing-arrow-id"
	CodeDuplicateArrow  = "duplicate-arrow-id"
	CodeArrowOutOfRange = "arrow-out-of-bounds"
	CodeSelfLoop        = "self-loop"
	CodeParallelArrows  = "parallel-arrows"
)

// DefaultMaxTextLength is the longest cell text, in user-perceived
// characters, that fits a column.
const DefaultMaxTextLength = 48

// Finding is one problem in a template.
type Finding struct {
	Severity Severity    `json:"severity"`
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Cell     *core.Coord `json:"cell,omitempty"`
	ArrowID  string      `json:"arrow_id,omitempty"`
}

func (f Finding) String() string {
	var where string
	switch {
	case f.Cell != nil:
		where = " at " + f.Cell.String()
	case f.ArrowID != "":
		where = " on arrow " + f.ArrowID
	}
	return fmt.Sprintf("%s [%s]%s: %s", f.Severity, f.Code, where, f.Message)
}

// Report is the result of validating one template.
type Report struct {
	TemplateID string    `json:"template_id"`
	Findings   []Finding `json:"findings"`
}

// HasErrors reports whether any finding is an error.
func (r Report) HasErrors() bool {
	return slices.ContainsFunc(r.Findings, func(f Finding) bool { return f.Severity == Error })
}

// Count returns the number of findings of the given severity.
func (r Report) Count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// TemplateValidator checks the data of a template. Errors make a template
// unusable; warnings flag data the editor tolerates, such as cells left
// outside the axes after they shrank, or self-loops from older files.
type TemplateValidator struct {
	MaxTextLength int
}

// NewTemplateValidator creates a validator with default limits.
func NewTemplateValidator() *TemplateValidator {
	return &TemplateValidator{MaxTextLength: DefaultMaxTextLength}
}

// Validate checks axes, cells and arrows. Findings are ordered axes first,
// then cells in row-major order, then arrows in stored order.
func (v *TemplateValidator) Validate(t *matrix.Template) Report {
	r := Report{TemplateID: t.ID, Findings: []Finding{}}
	add := func(f Finding) { r.Findings = append(r.Findings, f) }

	if t.Axes.Empty() {
		add(Finding{Severity: Error, Code: CodeEmptyAxes, Message: "matrix needs at least one position and one level"})
	}
	for _, dup := range duplicates(t.Axes.Positions) {
		add(Finding{Severity: Warning, Code: CodeDuplicateLabel, Message: fmt.Sprintf("position %q appears more than once", dup)})
	}
	for _, dup := range duplicates(t.Axes.Levels) {
		add(Finding{Severity: Warning, Code: CodeDuplicateLabel, Message: fmt.Sprintf("level %q appears more than once", dup)})
	}

	for _, coord := range t.Snapshot.SortedCoords() {
		cell := t.Snapshot.Cells[coord]
		at := coord
		if !t.Axes.Contains(coord) {
			add(Finding{Severity: Warning, Code: CodeCellOutOfBounds, Cell: &at,
				Message: fmt.Sprintf("cell lies outside the %dx%d matrix", t.Axes.Rows(), t.Axes.Cols())})
		}
		for _, c := range []struct{ name, value string }{{"text color", cell.Color}, {"background", cell.Background}} {
			if c.value == "" {
				continue
			}
			if _, err := matrix.NormalizeColor(c.value); err != nil {
				add(Finding{Severity: Error, Code: CodeInvalidColor, Cell: &at,
					Message: fmt.Sprintf("%s %q is not a hex color", c.name, c.value)})
			}
		}
		if v.MaxTextLength > 0 {
			if n := uniseg.GraphemeClusterCount(cell.Text); n > v.MaxTextLength {
				add(Finding{Severity: Warning, Code: CodeTextTooLong, Cell: &at,
					Message: fmt.Sprintf("text has %d characters, limit is %d", n, v.MaxTextLength)})
			}
		}
	}

	seen := make(map[string]bool, len(t.Snapshot.Arrows))
	pairs := make(map[[2]core.Coord]string)
	for _, a := range t.Snapshot.Arrows {
		switch {
		case a.ID == "":
			add(Finding{Severity: Error, Code: CodeMissingArrowID,
				Message: fmt.Sprintf("arrow %s -> %s has no id", a.From, a.To)})
		case seen[a.ID]:
			add(Finding{Severity: Error, Code: CodeDuplicateArrow, ArrowID: a.ID,
				Message: "id is used by more than one arrow"})
		}
		seen[a.ID] = true

		if !t.Axes.Contains(a.From) || !t.Axes.Contains(a.To) {
			add(Finding{Severity: Warning, Code: CodeArrowOutOfRange, ArrowID: a.ID,
				Message: fmt.Sprintf("arrow %s -> %s has an endpoint outside the matrix", a.From, a.To)})
		}
		if a.IsSelfLoop() {
			add(Finding{Severity: Warning, Code: CodeSelfLoop, ArrowID: a.ID,
				Message: fmt.Sprintf("arrow starts and ends at %s", a.From)})
		}
		if a.Color != "" {
			if _, err := matrix.NormalizeColor(a.Color); err != nil {
				add(Finding{Severity: Error, Code: CodeInvalidColor, ArrowID: a.ID,
					Message: fmt.Sprintf("color %q is not a hex color", a.Color)})
			}
		}

		key := [2]core.Coord{a.From, a.To}
		if first, ok := pairs[key]; ok {
			add(Finding{Severity: Warning, Code: CodeParallelArrows, ArrowID: a.ID,
				Message: fmt.Sprintf("same endpoints as arrow %s", first)})
		} else {
			pairs[key] = a.ID
		}
	}
	return r
}

// duplicates returns labels that occur more than once, ignoring case and
// surrounding space, in first-seen order.
func duplicates(labels []string) []string {
	count := make(map[string]int, len(labels))
	var out []string
	for _, l := range labels {
		k := strings.ToLower(strings.TrimSpace(l))
		count[k]++
		if count[k] == 2 {
			out = append(out, l)
		}
	}
	return out
}
