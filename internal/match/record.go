// Package match defines the match-record domain model shared by the
// import/export pipeline, the statistics calculator, and the web layer.
// This package has no transport or storage dependencies.
package match

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of a single match. Canonical values are
// ResultVictory, ResultDefeat and ResultDraw; ResultNone marks a record
// that is still being drafted. Imported files may carry the synonyms
// win/loss/tie, which NormalizeResult maps to the canonical values.
type Result string

const (
	ResultVictory Result = "victory"
	ResultDefeat  Result = "defeat"
	ResultDraw    Result = "draw"
	ResultNone    Result = "none"
)

// TurnOrder records who went first. Canonical values are TurnFirst and
// TurnSecond; the numeric synonyms "1" and "2" are accepted on import.
type TurnOrder string

const (
	TurnFirst  TurnOrder = "first"
	TurnSecond TurnOrder = "second"
)

// resultSynonyms maps case-folded import synonyms to canonical results.
var resultSynonyms = map[string]Result{
	"victory": ResultVictory,
	"defeat":  ResultDefeat,
	"draw":    ResultDraw,
	"win":     ResultVictory,
	"loss":    ResultDefeat,
	"tie":     ResultDraw,
	"none":    ResultNone,
}

// turnOrderSynonyms maps case-folded import synonyms to canonical turn orders.
var turnOrderSynonyms = map[string]TurnOrder{
	"first":  TurnFirst,
	"second": TurnSecond,
	"1":      TurnFirst,
	"2":      TurnSecond,
}

// NormalizeResult maps a raw result value (case-insensitive, including the
// win/loss/tie synonyms) to its canonical form. Unrecognized values are
// returned unchanged so the business-rule validator can report them.
func NormalizeResult(raw string) Result {
	if r, ok := resultSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return r
	}
	return Result(raw)
}

// ValidResult reports whether raw is an accepted result value, canonical or
// synonym, case-insensitively.
func ValidResult(raw string) bool {
	r, ok := resultSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return ok && r != ResultNone
}

// NormalizeTurnOrder maps a raw turn-order value to its canonical form.
// Unrecognized values are returned unchanged for the validator to flag.
func NormalizeTurnOrder(raw string) TurnOrder {
	if t, ok := turnOrderSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return TurnOrder(raw)
}

// ValidTurnOrder reports whether raw is an accepted turn-order value.
func ValidTurnOrder(raw string) bool {
	_, ok := turnOrderSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// DeckSelection identifies the cards a deck was built around. Primary is
// mandatory for a complete record; Secondary and Variant are optional.
// A nil key means "no selection".
type DeckSelection struct {
	Primary   *string `json:"primary"`
	Secondary *string `json:"secondary"`
	Variant   *string `json:"variant"`
}

// Record is one played game. Optional fields are pointers so the
// preprocessor can distinguish "not provided" (nil) from an explicit value;
// the pipeline guarantees every field is populated after preprocessing.
type Record struct {
	// ID is unique within a collection. Empty means "assign on import".
	ID string `json:"id"`

	// Timestamp is an ISO-8601 instant. Bare MM/DD/YYYY dates are
	// accepted on import and normalized by the preprocessor.
	Timestamp string `json:"timestamp"`

	YourDeck     *DeckSelection `json:"yourDeck"`
	OpponentDeck *DeckSelection `json:"opponentDeck"`

	// TurnOrder is empty while unset.
	TurnOrder string `json:"turnOrder"`

	// Result is empty while unset.
	Result Result `json:"result"`

	IsLocked *bool   `json:"isLocked"`
	Notes    *string `json:"notes"`
	Points   *int    `json:"points"`
	Auto     *bool   `json:"auto"`
}

// Default values applied by the preprocessor for absent optional fields.
const (
	DefaultIsLocked = true
	DefaultNotes    = ""
	DefaultPoints   = 0
	DefaultAuto     = true
)

// idPatterns are the two accepted generated-ID shapes. Records created in
// the entry UI use the match- prefix; drafts use new-.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^match-\d+-[a-z0-9]+$`),
	regexp.MustCompile(`^new-\d+-[a-z0-9]+$`),
}

// NewID generates a fresh record identifier of the form
// match-<unix millis>-<random suffix>. The suffix is the first twelve hex
// characters of a UUID, which keeps the ID within the accepted pattern.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("match-%d-%s", time.Now().UnixMilli(), suffix)
}

// ValidID reports whether id matches one of the accepted generated shapes.
func ValidID(id string) bool {
	for _, p := range idPatterns {
		if p.MatchString(id) {
			return true
		}
	}
	return false
}

// timestampLayouts are the accepted instant formats, tried in order.
// RFC3339Nano covers exporter output (millisecond precision, Z suffix).
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
}

// ParseTimestamp parses a record timestamp. It accepts full ISO-8601
// instants as well as the bare date forms tolerated on import.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatTimestamp renders an instant the way the exporter writes it:
// millisecond precision, UTC, Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Locked reports the effective isLocked value (default true).
func (r *Record) Locked() bool {
	if r.IsLocked == nil {
		return DefaultIsLocked
	}
	return *r.IsLocked
}

// AutoPoints reports the effective auto flag (default true).
func (r *Record) AutoPoints() bool {
	if r.Auto == nil {
		return DefaultAuto
	}
	return *r.Auto
}

// PointsValue reports the effective points value (default 0).
func (r *Record) PointsValue() int {
	if r.Points == nil {
		return DefaultPoints
	}
	return *r.Points
}

// Clone returns a deep copy of the record. The pipeline operates on copies
// so callers never observe partial mutation of their input.
func (r Record) Clone() Record {
	out := r
	out.YourDeck = cloneDeck(r.YourDeck)
	out.OpponentDeck = cloneDeck(r.OpponentDeck)
	out.IsLocked = cloneBool(r.IsLocked)
	out.Notes = cloneString(r.Notes)
	out.Points = cloneInt(r.Points)
	out.Auto = cloneBool(r.Auto)
	return out
}

func cloneDeck(d *DeckSelection) *DeckSelection {
	if d == nil {
		return nil
	}
	return &DeckSelection{
		Primary:   cloneString(d.Primary),
		Secondary: cloneString(d.Secondary),
		Variant:   cloneString(d.Variant),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// CloneAll deep-copies a slice of records.
func CloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// Key returns a pointer to s, for building deck selections in literals.
func Key(s string) *string { return &s }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// IntPtr returns a pointer to i.
func IntPtr(i int) *int { return &i }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
