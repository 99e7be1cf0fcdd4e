package pipeline

// preprocess.go repairs importable-but-incomplete records before the
// business rules run: bare dates become full timestamps and absent
// optional fields receive their defaults. Every repair is reported as a
// warning. Both passes are idempotent, so re-importing an exported file
// produces no new warnings.

import (
	"fmt"
	"regexp"
	"time"

	"matchtracker/internal/match"
)

// bareDatePattern matches MM/DD/YYYY (and M/D/YYYY) date-only timestamps.
var bareDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// NormalizeTimestamps converts bare-date timestamps to full instants at
// noon UTC. Multiple records sharing one date are offset by one minute
// each, in input order, so every record keeps a distinct timestamp and
// their relative order survives a chronological sort. Records whose
// timestamps are already full instants (or unparsable) pass through
// untouched. Returns copies; the input is never mutated.
func NormalizeTimestamps(records []match.Record) ([]match.Record, []Issue) {
	out := match.CloneAll(records)
	var warnings []Issue

	counts := make(map[string]int)
	for i := range out {
		m := bareDatePattern.FindStringSubmatch(out[i].Timestamp)
		if m == nil {
			continue
		}

		t, err := time.Parse("1/2/2006", fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3]))
		if err != nil {
			continue
		}

		key := t.Format("2006-01-02")
		minutes := counts[key]
		counts[key]++

		original := out[i].Timestamp
		converted := match.FormatTimestamp(t.Add(12*time.Hour + time.Duration(minutes)*time.Minute))
		out[i].Timestamp = converted

		warnings = append(warnings, warnf(i+1, "timestamp",
			fmt.Sprintf("Converted date '%s' to timestamp '%s'", original, converted)))
	}

	return out, warnings
}

// AddDefaultValues fills absent optional fields. A record with no ID gets
// a freshly generated one; nil isLocked, notes, points and auto become
// their defaults; a missing deck object is replaced with an empty one so
// downstream stages can rely on the shape. Each fill emits a warning.
// Returns copies; the input is never mutated.
func AddDefaultValues(records []match.Record) ([]match.Record, []Issue) {
	out := match.CloneAll(records)
	var warnings []Issue

	for i := range out {
		rec := &out[i]
		rowNum := i + 1

		if rec.ID == "" {
			rec.ID = match.NewID()
			warnings = append(warnings, warnf(rowNum, "id",
				fmt.Sprintf("Missing id field - automatically assigned: %s", rec.ID)))
		}
		if rec.YourDeck == nil {
			rec.YourDeck = &match.DeckSelection{}
			warnings = append(warnings, warnf(rowNum, "yourDeck",
				"Missing 'yourDeck' information - created empty object"))
		}
		if rec.OpponentDeck == nil {
			rec.OpponentDeck = &match.DeckSelection{}
			warnings = append(warnings, warnf(rowNum, "opponentDeck",
				"Missing 'opponentDeck' information - created empty object"))
		}
		if rec.IsLocked == nil {
			rec.IsLocked = match.BoolPtr(match.DefaultIsLocked)
			warnings = append(warnings, warnf(rowNum, "isLocked",
				fmt.Sprintf("Missing isLocked field - automatically set: %t", match.DefaultIsLocked)))
		}
		if rec.Notes == nil {
			rec.Notes = match.StringPtr(match.DefaultNotes)
			warnings = append(warnings, warnf(rowNum, "notes",
				"Missing notes field - automatically set: empty"))
		}
		if rec.Points == nil {
			rec.Points = match.IntPtr(match.DefaultPoints)
			warnings = append(warnings, warnf(rowNum, "points",
				fmt.Sprintf("Missing points field - automatically set: %d", match.DefaultPoints)))
		}
		if rec.Auto == nil {
			rec.Auto = match.BoolPtr(match.DefaultAuto)
			warnings = append(warnings, warnf(rowNum, "auto",
				fmt.Sprintf("Missing auto field - automatically set: %t", match.DefaultAuto)))
		}
	}

	return out, warnings
}

// DeckFieldWarnings reports nested deck fields that are absent from raw
// record objects. Binding already leaves an absent field null, so only
// the warning is emitted here; this runs on the raw objects because the
// typed form cannot tell absence from an explicit null.
func DeckFieldWarnings(records []map[string]any) []Issue {
	var warnings []Issue
	for i, rec := range records {
		for _, deckField := range []string{"yourDeck", "opponentDeck"} {
			deck, ok := rec[deckField].(map[string]any)
			if !ok {
				continue
			}
			for _, key := range DeckFields {
				if _, present := deck[key]; !present {
					warnings = append(warnings, warnf(i+1, deckField+"."+key,
						fmt.Sprintf("Missing '%s.%s' field - set to null", deckField, key)))
				}
			}
		}
	}
	return warnings
}

// Preprocess runs both repair passes in order (timestamps, then defaults)
// and concatenates their warnings.
func Preprocess(records []match.Record) ([]match.Record, []Issue) {
	normalized, tsWarnings := NormalizeTimestamps(records)
	filled, defWarnings := AddDefaultValues(normalized)
	return filled, append(tsWarnings, defWarnings...)
}
