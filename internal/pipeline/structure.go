package pipeline

// structure.go provides shape-only validation, run before (or independent
// of) any business-rule checks. The CSV variant inspects only the header
// row, so it stays cheap even for large files; the record variant guards
// hand-edited JSON against schema drift.

import (
	"fmt"
	"strings"
)

// StructureStats are the counting statistics from a header-only scan.
type StructureStats struct {
	RowCount                    int `json:"rowCount"`
	HeaderCount                 int `json:"headerCount"`
	MissingRequiredHeadersCount int `json:"missingRequiredHeadersCount"`
	MissingOptionalHeadersCount int `json:"missingOptionalHeadersCount"`
	UnexpectedHeadersCount      int `json:"unexpectedHeadersCount"`
}

// StructureResult is the outcome of a structure validation pass.
type StructureResult struct {
	Valid    bool           `json:"valid"`
	Fatal    bool           `json:"fatal"`
	Errors   []Issue        `json:"errors"`
	Warnings []Issue        `json:"warnings"`
	Stats    StructureStats `json:"stats"`
}

// ValidateCSVStructure checks the shape of raw CSV text without parsing
// any data rows: content filtering, a minimum of header plus one data row,
// and the header set against the required/optional/expected taxonomy.
// Missing required headers are errors; missing optional headers and
// unknown headers are warnings only. Fatal is set when the file is too
// short to contain any data, which precludes all further processing.
func ValidateCSVStructure(csvText string) StructureResult {
	filtered := FilterContent(csvText)
	if len(filtered) < 2 {
		return StructureResult{
			Fatal: true,
			Errors: []Issue{{
				Message:  "CSV file must contain at least a header row and one data row",
				Severity: SeverityError,
			}},
			Stats: StructureStats{RowCount: len(filtered)},
		}
	}

	headers := splitHeader(filtered[0])

	var missingRequired, missingOptional, unexpected []string
	for _, h := range RequiredHeaders {
		if !contains(headers, h) {
			missingRequired = append(missingRequired, h)
		}
	}
	for _, h := range OptionalHeaders {
		if !contains(headers, h) {
			missingOptional = append(missingOptional, h)
		}
	}
	for _, h := range headers {
		if !contains(ExpectedHeaders, h) {
			unexpected = append(unexpected, h)
		}
	}

	result := StructureResult{
		Stats: StructureStats{
			RowCount:                    len(filtered) - 1,
			HeaderCount:                 len(headers),
			MissingRequiredHeadersCount: len(missingRequired),
			MissingOptionalHeadersCount: len(missingOptional),
			UnexpectedHeadersCount:      len(unexpected),
		},
	}

	if len(missingRequired) > 0 {
		result.Errors = append(result.Errors, Issue{
			Message:  fmt.Sprintf("Missing required headers: %s", strings.Join(missingRequired, ", ")),
			Severity: SeverityError,
		})
	}
	if len(missingOptional) > 0 {
		result.Warnings = append(result.Warnings, Issue{
			Message:  fmt.Sprintf("Missing optional headers that will be auto-created: %s", strings.Join(missingOptional, ", ")),
			Severity: SeverityWarning,
		})
	}
	if len(unexpected) > 0 {
		result.Warnings = append(result.Warnings, Issue{
			Message:  fmt.Sprintf("Unexpected headers: %s", strings.Join(unexpected, ", ")),
			Severity: SeverityWarning,
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateRecordShape checks already-parsed records (raw JSON objects) for
// structural soundness: both deck objects present, and no top-level or
// nested field outside the known field set. It catches schema drift from
// hand-edited exports before the records are bound to typed values.
func ValidateRecordShape(records []map[string]any) StructureResult {
	result := StructureResult{Valid: true}

	if len(records) == 0 {
		result.Warnings = append(result.Warnings, Issue{
			Message:  "No records to validate",
			Severity: SeverityWarning,
		})
		return result
	}

	for i, rec := range records {
		rowNum := i + 1

		for _, deckField := range []string{"yourDeck", "opponentDeck"} {
			deck, present := rec[deckField]
			if !present || deck == nil {
				result.Errors = append(result.Errors,
					errorf(rowNum, deckField, "", fmt.Sprintf("Missing or invalid '%s' object", deckField)))
				continue
			}
			deckMap, ok := deck.(map[string]any)
			if !ok {
				result.Errors = append(result.Errors,
					errorf(rowNum, deckField, fmt.Sprintf("%v", deck), fmt.Sprintf("Missing or invalid '%s' object", deckField)))
				continue
			}
			for key := range deckMap {
				if !contains(DeckFields, key) {
					result.Errors = append(result.Errors,
						errorf(rowNum, deckField+"."+key, "", fmt.Sprintf("Unexpected field '%s.%s'", deckField, key)))
				}
			}
		}

		for key := range rec {
			if !contains(RecordFields, key) {
				result.Errors = append(result.Errors,
					errorf(rowNum, key, "", fmt.Sprintf("Unexpected field '%s'", key)))
			}
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
