package pipeline

// rules.go holds the business-rule validation applied after preprocessing:
// per-record field checks against the card catalog, plus collection-level
// checks (duplicate IDs, future timestamps).

import (
	"fmt"
	"strings"
	"time"

	"matchtracker/internal/catalog"
	"matchtracker/internal/match"
)

// ValidateRecord checks one record against the field rules and the card
// catalog. rowNum is the 1-based record position used in the reported
// issues. Deck secondary and variant cards are optional; when present they
// must exist in the catalog.
func ValidateRecord(rec match.Record, rowNum int, cards *catalog.Catalog) []Issue {
	var issues []Issue

	if rec.ID != "" && !match.ValidID(rec.ID) {
		issues = append(issues, errorf(rowNum, "id", rec.ID, "Invalid ID format"))
	}

	if rec.Timestamp == "" {
		issues = append(issues, errorf(rowNum, "timestamp", "", "Missing required field"))
	} else if _, err := match.ParseTimestamp(rec.Timestamp); err != nil {
		issues = append(issues, errorf(rowNum, "timestamp", rec.Timestamp, "Invalid timestamp format"))
	}

	issues = append(issues, validateDeck(rec.YourDeck, "yourDeck", rowNum, cards)...)
	issues = append(issues, validateDeck(rec.OpponentDeck, "opponentDeck", rowNum, cards)...)

	if rec.TurnOrder == "" {
		issues = append(issues, errorf(rowNum, "turnOrder", "", "Missing required field"))
	} else if !match.ValidTurnOrder(rec.TurnOrder) {
		issues = append(issues, errorf(rowNum, "turnOrder", rec.TurnOrder,
			`Invalid value (must be "first", "second", 1, or 2)`))
	}

	if rec.Result == "" {
		issues = append(issues, errorf(rowNum, "result", "", "Missing required field"))
	} else if !match.ValidResult(string(rec.Result)) {
		issues = append(issues, errorf(rowNum, "result", string(rec.Result),
			`Invalid value (must be "victory", "defeat", "win", "loss", or "tie")`))
	}

	return issues
}

// validateDeck checks one deck selection: the object must exist, the
// primary card is mandatory, and every referenced card must be in the
// catalog.
func validateDeck(deck *match.DeckSelection, field string, rowNum int, cards *catalog.Catalog) []Issue {
	if deck == nil {
		return []Issue{errorf(rowNum, field, "", fmt.Sprintf("Missing %s information", field))}
	}

	var issues []Issue

	if deck.Primary == nil || *deck.Primary == "" {
		issues = append(issues, errorf(rowNum, field+".primary", "", "Missing primary deck value"))
	} else if !cards.Has(*deck.Primary) {
		issues = append(issues, errorf(rowNum, field+".primary", *deck.Primary,
			"Card does not exist in card database"))
	}

	for _, opt := range []struct {
		key  *string
		name string
	}{
		{deck.Secondary, field + ".secondary"},
		{deck.Variant, field + ".variant"},
	} {
		if opt.key != nil && *opt.key != "" && !cards.Has(*opt.key) {
			issues = append(issues, errorf(rowNum, opt.name, *opt.key,
				"Card does not exist in card database"))
		}
	}

	return issues
}

// ValidateCollection runs per-record validation over the whole set and
// adds the cross-record checks: duplicate IDs are a single collection-level
// error naming each offender once, and future timestamps are advisory
// warnings. Returns blocking errors and non-blocking warnings separately.
func ValidateCollection(records []match.Record, cards *catalog.Catalog) ([]Issue, []Issue) {
	var (
		errors   []Issue
		warnings []Issue
	)

	now := time.Now()
	seen := make(map[string]int)
	var duplicates []string

	for i, rec := range records {
		rowNum := i + 1
		errors = append(errors, ValidateRecord(rec, rowNum, cards)...)

		if rec.ID != "" {
			seen[rec.ID]++
			if seen[rec.ID] == 2 {
				duplicates = append(duplicates, rec.ID)
			}
		}

		if t, err := match.ParseTimestamp(rec.Timestamp); err == nil && t.After(now) {
			warnings = append(warnings, warnf(rowNum, "timestamp",
				fmt.Sprintf("Match timestamp is in the future: %s", rec.Timestamp)))
		}
	}

	if len(duplicates) > 0 {
		errors = append(errors, Issue{
			Message:  fmt.Sprintf("Found duplicate match IDs: %s", strings.Join(duplicates, ", ")),
			Severity: SeverityError,
		})
	}

	return errors, warnings
}
