package pipeline

// convert.go provides the pure bidirectional transforms between the CSV
// text representation and typed match records. CSVToRecords and
// RecordsToCSV round-trip: parsing the output of RecordsToCSV yields
// equivalent records, modulo null/empty-string normalization.

import (
	"fmt"
	"strconv"
	"strings"

	"matchtracker/internal/match"
)

// CSVToRecords parses CSV text into match records. Comment lines and blank
// lines are ignored; the first remaining line is the header. Missing
// required headers fail the whole conversion (no records returned). A row
// whose column count does not match the header produces a per-row error
// and is skipped without aborting the rest of the file.
//
// Optional columns absent from the header are left unset (nil) for the
// preprocessor to fill; both deck objects are always fully shaped.
func CSVToRecords(csvText string) ([]match.Record, []Issue, []Issue) {
	filtered := FilterContent(csvText)
	if len(filtered) < 2 {
		return nil, []Issue{{
			Message:  "CSV file must contain at least a header row and one data row",
			Severity: SeverityError,
		}}, nil
	}

	headers := splitHeader(filtered[0])

	var missing []string
	for _, h := range RequiredHeaders {
		if !contains(headers, h) {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, []Issue{{
			Message:  fmt.Sprintf("Missing required headers: %s", strings.Join(missing, ", ")),
			Severity: SeverityError,
		}}, nil
	}

	var (
		records  []match.Record
		errors   []Issue
		warnings []Issue
	)

	for i := 1; i < len(filtered); i++ {
		rowNum := i + 1 // 1-based counting the header row
		values := ParseRow(filtered[i])
		if len(values) != len(headers) {
			errors = append(errors, Issue{
				Row:      rowNum,
				Message:  fmt.Sprintf("Column count mismatch. Expected %d, got %d", len(headers), len(values)),
				Severity: SeverityError,
			})
			continue
		}

		rec := match.Record{}
		for col, header := range headers {
			setField(&rec, header, strings.TrimSpace(values[col]))
		}

		// Decks are guaranteed fully shaped on output.
		if rec.YourDeck == nil {
			rec.YourDeck = &match.DeckSelection{}
		}
		if rec.OpponentDeck == nil {
			rec.OpponentDeck = &match.DeckSelection{}
		}

		records = append(records, rec)
	}

	return records, errors, warnings
}

// setField assigns one CSV cell to its record field, applying the typed
// coercions. The literal "null" and the empty string both mean null.
// Unknown headers are ignored; the structure validator reports them.
func setField(rec *match.Record, header, value string) {
	isNull := value == "" || value == "null"

	if parent, child, ok := strings.Cut(header, "."); ok {
		var deck **match.DeckSelection
		switch parent {
		case "yourDeck":
			deck = &rec.YourDeck
		case "opponentDeck":
			deck = &rec.OpponentDeck
		default:
			return
		}
		if *deck == nil {
			*deck = &match.DeckSelection{}
		}
		var key *string
		if !isNull {
			key = match.Key(value)
		}
		switch child {
		case "primary":
			(*deck).Primary = key
		case "secondary":
			(*deck).Secondary = key
		case "variant":
			(*deck).Variant = key
		}
		return
	}

	switch header {
	case "id":
		if !isNull {
			rec.ID = value
		}
	case "timestamp":
		if !isNull {
			rec.Timestamp = value
		}
	case "turnOrder":
		if !isNull {
			rec.TurnOrder = string(match.NormalizeTurnOrder(value))
		}
	case "result":
		if !isNull {
			rec.Result = match.NormalizeResult(value)
		}
	case "isLocked":
		rec.IsLocked = match.BoolPtr(strings.EqualFold(value, "true"))
	case "notes":
		if isNull {
			rec.Notes = match.StringPtr("")
		} else {
			rec.Notes = match.StringPtr(value)
		}
	case "points":
		n, err := strconv.Atoi(value)
		if err != nil {
			n = 0
		}
		rec.Points = match.IntPtr(n)
	case "auto":
		rec.Auto = match.BoolPtr(!strings.EqualFold(value, "false"))
	}
}

// RecordsToCSV serializes records to CSV text: the full fixed header row
// followed by one row per record in fixed column order. Scalars are
// double-quoted with internal quotes doubled, booleans are emitted
// unquoted, and null values become empty quoted fields.
func RecordsToCSV(records []match.Record) string {
	if len(records) == 0 {
		return ""
	}

	rows := make([]string, 0, len(records)+1)
	rows = append(rows, strings.Join(ExpectedHeaders, ","))

	for _, rec := range records {
		cells := make([]string, 0, len(ExpectedHeaders))
		for _, header := range ExpectedHeaders {
			cells = append(cells, formatField(rec, header))
		}
		rows = append(rows, strings.Join(cells, ","))
	}

	return strings.Join(rows, "\n")
}

// formatField renders one record field for its CSV column.
func formatField(rec match.Record, header string) string {
	if parent, child, ok := strings.Cut(header, "."); ok {
		var deck *match.DeckSelection
		switch parent {
		case "yourDeck":
			deck = rec.YourDeck
		case "opponentDeck":
			deck = rec.OpponentDeck
		}
		if deck == nil {
			return `""`
		}
		switch child {
		case "primary":
			return quoteKey(deck.Primary)
		case "secondary":
			return quoteKey(deck.Secondary)
		case "variant":
			return quoteKey(deck.Variant)
		}
		return `""`
	}

	switch header {
	case "id":
		return quoteCell(rec.ID)
	case "timestamp":
		return quoteCell(rec.Timestamp)
	case "turnOrder":
		return quoteCell(rec.TurnOrder)
	case "result":
		return quoteCell(string(rec.Result))
	case "isLocked":
		return formatBool(rec.IsLocked)
	case "notes":
		if rec.Notes == nil {
			return `""`
		}
		return quoteCell(*rec.Notes)
	case "points":
		if rec.Points == nil {
			return `""`
		}
		return quoteCell(strconv.Itoa(*rec.Points))
	case "auto":
		return formatBool(rec.Auto)
	}
	return `""`
}

// quoteCell double-quotes a scalar, doubling internal quotes. Null-ish
// values ("" and the literal "null") become an empty quoted field.
func quoteCell(s string) string {
	if s == "" || s == "null" {
		return `""`
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteKey renders an optional card key.
func quoteKey(key *string) string {
	if key == nil {
		return `""`
	}
	return quoteCell(*key)
}

// formatBool renders booleans unquoted; nil becomes an empty field.
func formatBool(b *bool) string {
	if b == nil {
		return `""`
	}
	return strconv.FormatBool(*b)
}
