package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const jsonFixture = `[
	{"key": "pikachu", "displayName": "Pikachu ex", "name": "Pikachu", "element": "electric", "iconPath": "/icons/pikachu.png"},
	{"key": "charizard", "displayName": "Charizard ex", "name": "Charizard", "element": "fire", "iconPath": "/icons/charizard.png"}
]`

const yamlFixture = `- key: pikachu
  displayName: Pikachu ex
  name: Pikachu
  element: electric
  iconPath: /icons/pikachu.png
- key: charizard
  displayName: Charizard ex
  name: Charizard
  element: fire
  iconPath: /icons/charizard.png
`

func TestLoadJSONAndYAMLEquivalent(t *testing.T) {
	jsonCat, err := Load(writeFixture(t, "cards.json", jsonFixture))
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	yamlCat, err := Load(writeFixture(t, "cards.yaml", yamlFixture))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}

	if jsonCat.Len() != 2 || yamlCat.Len() != 2 {
		t.Fatalf("lens = %d, %d, want 2", jsonCat.Len(), yamlCat.Len())
	}
	for _, key := range []string{"pikachu", "charizard"} {
		je, _ := jsonCat.Get(key)
		ye, _ := yamlCat.Get(key)
		if je != ye {
			t.Errorf("entry %q differs between formats: %+v vs %+v", key, je, ye)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "cards.txt", "whatever"},
		{"empty list", "cards.json", "[]"},
		{"entry without key", "cards.json", `[{"name": "Pikachu"}]`},
		{"malformed json", "cards.json", "{not json"},
		{"malformed yaml", "cards.yaml", ": not yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFixture(t, tt.file, tt.content)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewDeduplicatesAndSorts(t *testing.T) {
	c := New([]Entry{
		{Key: "zeb", Name: "Zebstrika"},
		{Key: "pika", Name: "Pikachu"},
		{Key: "pika", Name: "Shadow Pikachu"},
	})

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if e, _ := c.Get("pika"); e.Name != "Pikachu" {
		t.Errorf("duplicate key should keep first occurrence, got %q", e.Name)
	}
	entries := c.Entries()
	if entries[0].Name != "Pikachu" || entries[1].Name != "Zebstrika" {
		t.Errorf("entries not sorted by name: %+v", entries)
	}
}

func TestLookups(t *testing.T) {
	c := New([]Entry{
		{Key: "pika", Name: "Pikachu", DisplayName: "Pikachu ex", Element: "electric"},
		{Key: "zard", Name: "Charizard", DisplayName: "Charizard ex", Element: "fire"},
		{Key: "zeb", Name: "Zebstrika", DisplayName: "Zebstrika", Element: "electric"},
	})

	if !c.Has("pika") || c.Has("missingno") {
		t.Error("Has lookup wrong")
	}
	if got := c.DisplayName("zard"); got != "Charizard ex" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := c.DisplayName("missingno"); got != "missingno" {
		t.Errorf("DisplayName fallback = %q", got)
	}
	if got := len(c.ByElement()["electric"]); got != 2 {
		t.Errorf("ByElement electric = %d entries, want 2", got)
	}
}
