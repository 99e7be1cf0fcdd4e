// Package catalog loads the static card catalog used to validate deck
// selections. The catalog is read once at startup into an immutable keyed
// lookup and passed explicitly to the validators, so tests can substitute
// small fixture catalogs.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one card in the catalog. The pipeline only tests key
// membership; the display fields exist for the API surface.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Name        string `json:"name" yaml:"name"`
	Element     string `json:"element" yaml:"element"`
	IconPath    string `json:"iconPath" yaml:"iconPath"`
}

// Catalog is an immutable card lookup keyed by card key.
type Catalog struct {
	entries []Entry
	byKey   map[string]Entry
}

// New builds a catalog from a list of entries. Entries with duplicate keys
// keep the first occurrence. Primarily used by tests; production code loads
// from a data file via Load.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byKey:   make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if _, exists := c.byKey[e.Key]; exists {
			continue
		}
		c.byKey[e.Key] = e
		c.entries = append(c.entries, e)
	}
	sort.Slice(c.entries, func(i, j int) bool {
		return c.entries[i].Name < c.entries[j].Name
	})
	return c
}

// Load reads a catalog data file. JSON and YAML are supported, selected by
// file extension (.json, .yaml, .yml). The file holds a flat list of entries.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s contains no entries", path)
	}

	for i, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("catalog %s: entry %d has no key", path, i)
		}
	}

	return New(entries), nil
}

// Has reports whether a card key exists in the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// Get returns the entry for a key, or false if absent.
func (c *Catalog) Get(key string) (Entry, bool) {
	e, ok := c.byKey[key]
	return e, ok
}

// DisplayName returns the display name for a key, falling back to the key
// itself for unknown cards.
func (c *Catalog) DisplayName(key string) string {
	if e, ok := c.byKey[key]; ok {
		return e.DisplayName
	}
	return key
}

// Entries returns all entries sorted by card name. The returned slice is a
// copy; the catalog itself is never mutated after construction.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ByElement groups entries by card element, for selection dropdowns.
func (c *Catalog) ByElement() map[string][]Entry {
	groups := make(map[string][]Entry)
	for _, e := range c.entries {
		groups[e.Element] = append(groups[e.Element], e)
	}
	return groups
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
