package match

import (
	"testing"
	"time"
)

func TestNormalizeResult(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Result
	}{
		{"canonical victory", "victory", ResultVictory},
		{"win synonym", "win", ResultVictory},
		{"loss synonym", "loss", ResultDefeat},
		{"tie synonym", "tie", ResultDraw},
		{"case insensitive", "WIN", ResultVictory},
		{"surrounding whitespace", "  draw  ", ResultDraw},
		{"none passes through", "none", ResultNone},
		{"unknown value unchanged", "banana", Result("banana")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeResult(tt.input); got != tt.want {
				t.Errorf("NormalizeResult(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidResult(t *testing.T) {
	for _, valid := range []string{"victory", "defeat", "draw", "win", "loss", "tie", "Victory"} {
		if !ValidResult(valid) {
			t.Errorf("ValidResult(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "none", "banana", "victory!"} {
		if ValidResult(invalid) {
			t.Errorf("ValidResult(%q) = true, want false", invalid)
		}
	}
}

func TestNormalizeTurnOrder(t *testing.T) {
	tests := []struct {
		input string
		want  TurnOrder
	}{
		{"first", TurnFirst},
		{"second", TurnSecond},
		{"1", TurnFirst},
		{"2", TurnSecond},
		{"FIRST", TurnFirst},
		{"third", TurnOrder("third")},
	}

	for _, tt := range tests {
		if got := NormalizeTurnOrder(tt.input); got != tt.want {
			t.Errorf("NormalizeTurnOrder(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	if a == b {
		t.Errorf("consecutive IDs collide: %q", a)
	}
	if !ValidID(a) {
		t.Errorf("NewID() = %q does not match the accepted pattern", a)
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"match-1700000000000-abc123def456", true},
		{"new-1700000000000-abc123", true},
		{"match-1-a", true},
		{"match--abc", false},
		{"match-123-", false},
		{"match-123-ABC", false},
		{"other-123-abc", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %t, want %t", tt.id, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"exporter format", "2025-01-15T12:00:00.000Z", false},
		{"rfc3339", "2025-01-15T12:00:00Z", false},
		{"no zone", "2025-01-15T12:00:00", false},
		{"bare iso date", "2025-01-15", false},
		{"us date", "1/15/2025", false},
		{"zero padded us date", "01/15/2025", false},
		{"empty", "", true},
		{"garbage", "not-a-date", true},
		{"month out of range", "13/45/2025", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimestamp(%q) error = %v, wantErr %t", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2025, 3, 15, 12, 1, 0, 0, time.UTC)
	if got, want := FormatTimestamp(at), "2025-03-15T12:01:00.000Z"; got != want {
		t.Errorf("FormatTimestamp = %q, want %q", got, want)
	}
}

func TestRecordClone(t *testing.T) {
	orig := Record{
		ID:        "match-1-a",
		YourDeck:  &DeckSelection{Primary: Key("pikachu")},
		IsLocked:  BoolPtr(true),
		Notes:     StringPtr("note"),
		Points:    IntPtr(5),
		Auto:      BoolPtr(true),
		Result:    ResultVictory,
		TurnOrder: "first",
	}

	clone := orig.Clone()
	*clone.YourDeck.Primary = "charizard"
	*clone.IsLocked = false
	*clone.Points = 99

	if *orig.YourDeck.Primary != "pikachu" {
		t.Error("Clone shares deck card pointer with original")
	}
	if !*orig.IsLocked {
		t.Error("Clone shares IsLocked pointer with original")
	}
	if *orig.Points != 5 {
		t.Error("Clone shares Points pointer with original")
	}
}

func TestEffectiveValueAccessors(t *testing.T) {
	var rec Record
	if !rec.Locked() {
		t.Error("Locked() default should be true")
	}
	if !rec.AutoPoints() {
		t.Error("AutoPoints() default should be true")
	}
	if rec.PointsValue() != 0 {
		t.Error("PointsValue() default should be 0")
	}

	rec.IsLocked = BoolPtr(false)
	rec.Auto = BoolPtr(false)
	rec.Points = IntPtr(42)
	if rec.Locked() || rec.AutoPoints() || rec.PointsValue() != 42 {
		t.Errorf("explicit values not honored: %+v", rec)
	}
}
