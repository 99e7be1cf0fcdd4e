// Package pipeline implements the CSV match-record import/export pipeline:
// structure validation, conversion between CSV text and typed records,
// preprocessing (timestamp normalization and default filling), and
// business-rule validation against the card catalog.
//
// The pipeline is synchronous and pure over its inputs: every stage
// operates on its own copies, holds no shared state between calls, and
// never panics on malformed input. Expected problems come back as
// structured Issue values split into errors (blocking) and warnings
// (auto-corrected or advisory).
package pipeline

import (
	"fmt"
	"strings"
)

// Severity classifies an issue. Errors block an import; warnings describe
// auto-corrections and advisory findings that never block.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding. Row is 1-based: CSV parse issues
// count physical lines including the header (the first data row is row 2),
// while record-level stages count records (the first record is row 1).
// Row 0 marks a file-level or collection-level issue. Field and Value are
// set when the finding concerns a specific cell.
type Issue struct {
	Row      int      `json:"row,omitempty"`
	Field    string   `json:"field,omitempty"`
	Value    string   `json:"value,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// String renders the issue in the display form consumed by the UI layer:
//
//	Row N: <message> - Field: <field>, Value: <value>
//
// Collection-level issues (Row 0) render as the bare message, and issues
// without a field omit the field/value suffix.
func (i Issue) String() string {
	var b strings.Builder
	if i.Row > 0 {
		fmt.Fprintf(&b, "Row %d: ", i.Row)
	}
	b.WriteString(i.Message)
	if i.Field != "" {
		fmt.Fprintf(&b, " - Field: %s, Value: %s", i.Field, displayValue(i.Value))
	}
	return b.String()
}

// displayValue quotes non-null values for display; an empty value renders
// as the literal null.
func displayValue(v string) string {
	if v == "" || v == "null" {
		return "null"
	}
	return fmt.Sprintf("%q", v)
}

// errorf builds an error-severity issue for a row and field.
func errorf(row int, field, value, message string) Issue {
	return Issue{Row: row, Field: field, Value: value, Message: message, Severity: SeverityError}
}

// warnf builds a warning-severity issue for a row.
func warnf(row int, field, message string) Issue {
	return Issue{Row: row, Field: field, Message: message, Severity: SeverityWarning}
}

// Render converts a list of issues to their display strings.
func Render(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.String()
	}
	return out
}
