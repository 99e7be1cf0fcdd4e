package pipeline

// pipeline.go wires the stages into the two end-to-end operations:
// ProcessImport (CSV or JSON text in, validated and repaired records out)
// and Export (records out to writer, with the metadata comment block).

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"matchtracker/internal/catalog"
	"matchtracker/internal/match"
)

// Result is the outcome of a full import run. When conversion succeeds,
// Data holds the preprocessed records whether or not the business rules
// passed, so a caller can show what was recovered alongside the errors.
// Structural and conversion failures leave Data empty. Valid means no
// blocking errors.
type Result struct {
	Data     []match.Record `json:"data"`
	Valid    bool           `json:"valid"`
	Errors   []Issue        `json:"errors"`
	Warnings []Issue        `json:"warnings"`
	Stats    StructureStats `json:"stats"`
}

// ProcessImport runs the full CSV import pipeline: structure validation,
// conversion, preprocessing, then business-rule validation. A fatal
// structure failure (empty or header-only file), missing required
// headers, or any conversion error (a row with the wrong column count)
// short-circuits with no data. Business-rule errors flip Valid to false
// but the repaired records are still returned so the caller can show
// what was recovered.
func ProcessImport(csvText string, cards *catalog.Catalog) Result {
	structure := ValidateCSVStructure(csvText)
	if structure.Fatal || !structure.Valid {
		return Result{
			Errors:   structure.Errors,
			Warnings: structure.Warnings,
			Stats:    structure.Stats,
		}
	}

	records, convErrors, convWarnings := CSVToRecords(csvText)
	if len(convErrors) > 0 {
		return Result{
			Errors:   convErrors,
			Warnings: concat(structure.Warnings, convWarnings),
			Stats:    structure.Stats,
		}
	}

	processed, prepWarnings := Preprocess(records)
	ruleErrors, ruleWarnings := ValidateCollection(processed, cards)

	return Result{
		Data:     processed,
		Valid:    len(ruleErrors) == 0,
		Errors:   ruleErrors,
		Warnings: concat(structure.Warnings, convWarnings, prepWarnings, ruleWarnings),
		Stats:    structure.Stats,
	}
}

// ProcessImportJSON runs the import pipeline over a JSON array of records,
// the format produced by a backup export. The raw objects are shape-checked
// for unknown fields and absent nested deck fields before being bound to
// typed records; the remaining stages are shared with the CSV path.
func ProcessImportJSON(jsonText []byte, cards *catalog.Catalog) Result {
	var raw []map[string]any
	if err := json.Unmarshal(jsonText, &raw); err != nil {
		return Result{
			Errors: []Issue{{
				Message:  "Invalid JSON format: expected an array of match records",
				Severity: SeverityError,
			}},
		}
	}

	shape := ValidateRecordShape(raw)
	deckWarnings := DeckFieldWarnings(raw)

	var records []match.Record
	if bound, err := bindRecords(raw); err != nil {
		shape.Errors = append(shape.Errors, Issue{
			Message:  fmt.Sprintf("Invalid record values: %v", err),
			Severity: SeverityError,
		})
	} else {
		records = bound
	}

	processed, prepWarnings := Preprocess(records)
	ruleErrors, ruleWarnings := ValidateCollection(processed, cards)

	errors := concat(shape.Errors, ruleErrors)
	warnings := concat(shape.Warnings, deckWarnings, prepWarnings, ruleWarnings)

	return Result{
		Data:     processed,
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
		Stats:    StructureStats{RowCount: len(raw)},
	}
}

// bindRecords converts raw JSON objects to typed records, normalizing
// result and turn-order synonyms the same way the CSV converter does.
func bindRecords(raw []map[string]any) ([]match.Record, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var records []match.Record
	if err := json.Unmarshal(encoded, &records); err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Result = match.NormalizeResult(string(records[i].Result))
		if records[i].TurnOrder != "" {
			records[i].TurnOrder = string(match.NormalizeTurnOrder(records[i].TurnOrder))
		}
	}
	return records, nil
}

// ExportMeta is the header information written into an exported file.
type ExportMeta struct {
	User         string
	DownloadedAt time.Time
}

// Export writes records to w as CSV with the leading metadata comment
// block. The block is comment-only, so re-importing an exported file
// passes the content filter untouched. Exporting an empty collection is
// an error.
func Export(w io.Writer, records []match.Record, meta ExportMeta) error {
	if len(records) == 0 {
		return fmt.Errorf("no match data to export")
	}

	at := meta.DownloadedAt
	if at.IsZero() {
		at = time.Now()
	}

	header := fmt.Sprintf(
		"# PTCGP Meta Match Data\n"+
			"# Downloaded on: %s\n"+
			"# User: %s\n"+
			"# Total Records: %d\n"+
			"# Format: CSV with headers\n"+
			"# Notes: This file contains your match history data. You can edit and re-upload it.\n"+
			"#        - The 'notes' column can be used for your personal match notes\n"+
			"#        - All dates should be in ISO format (YYYY-MM-DDTHH:MM:SS.mmmZ)\n"+
			"#        - Do not modify the ID column values\n\n",
		at.Format("1/2/2006, 3:04:05 PM"), meta.User, len(records))

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err := io.WriteString(w, RecordsToCSV(records))
	return err
}

// ExportFileName builds the download name for an export at the given time.
func ExportFileName(at time.Time) string {
	return fmt.Sprintf("ptcgp_match_data_%s.csv", at.UTC().Format("2006-01-02"))
}

// concat merges issue slices into one, skipping empties.
func concat(lists ...[]Issue) []Issue {
	var out []Issue
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
