package pipeline

// fields.go defines the fixed CSV column set and the field taxonomy used
// by the structure validator, the converters, and the preprocessor.
// Nested deck fields are flattened with dot notation in the CSV form.

// ExpectedHeaders is the full fixed column set, in export order.
var ExpectedHeaders = []string{
	"id",
	"timestamp",
	"yourDeck.primary",
	"yourDeck.secondary",
	"yourDeck.variant",
	"opponentDeck.primary",
	"opponentDeck.secondary",
	"opponentDeck.variant",
	"turnOrder",
	"result",
	"isLocked",
	"notes",
	"points",
	"auto",
}

// OptionalHeaders are auto-populated by the preprocessor when absent.
var OptionalHeaders = []string{"id", "isLocked", "notes", "points", "auto"}

// VariantHeaders are the optional variant card columns.
var VariantHeaders = []string{"yourDeck.variant", "opponentDeck.variant"}

// RequiredHeaders is the expected set minus the optional and variant
// columns. A file missing any of these cannot be imported.
var RequiredHeaders = requiredHeaders()

func requiredHeaders() []string {
	var required []string
	for _, h := range ExpectedHeaders {
		if contains(OptionalHeaders, h) || contains(VariantHeaders, h) {
			continue
		}
		required = append(required, h)
	}
	return required
}

// RecordFields are the known top-level fields of a match record. Anything
// else in hand-edited input is schema drift and rejected by the shape
// validator.
var RecordFields = []string{
	"id",
	"timestamp",
	"yourDeck",
	"opponentDeck",
	"turnOrder",
	"result",
	"isLocked",
	"notes",
	"points",
	"auto",
}

// DeckFields are the known fields of a deck selection object.
var DeckFields = []string{"primary", "secondary", "variant"}
