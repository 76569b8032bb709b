// Package vocab holds the cross-script domain vocabulary: an immutable table
// mapping Latin spellings of Islamic terms to their canonical Cyrillic forms
// and related terms, with generic transliteration as the fallback for
// anything unmapped.
package vocab

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed terms.yaml
var defaultTermsYAML []byte

type entry struct {
	Canonical string   `yaml:"canonical"`
	Latin     []string `yaml:"latin"`
	Related   []string `yaml:"related"`
}

type termsFile struct {
	Terms []entry `yaml:"terms"`
}

// Table is an immutable vocabulary lookup. Build one with Default, Load or
// LoadFile; lookups never mutate it, so it is safe for concurrent use.
type Table struct {
	byVariant map[string]entry
	entries   []entry
}

// Default loads the embedded vocabulary.
func Default() (*Table, error) {
	return Load(defaultTermsYAML)
}

// Load parses a YAML vocabulary document into a Table.
func Load(data []byte) (*Table, error) {
	var file termsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse vocabulary yaml: %w", err)
	}
	if len(file.Terms) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}

	byVariant := make(map[string]entry, len(file.Terms)*3)
	for _, e := range file.Terms {
		if e.Canonical == "" {
			return nil, fmt.Errorf("vocabulary entry without canonical form")
		}
		byVariant[normalizeKey(e.Canonical)] = e
		for _, variant := range e.Latin {
			byVariant[normalizeKey(variant)] = e
		}
	}
	return &Table{byVariant: byVariant, entries: file.Terms}, nil
}

// LoadFile reads a vocabulary YAML from disk, for per-locale overrides.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}
	return Load(data)
}

// Normalize maps a token or short phrase to its canonical-script form plus
// related terms. Unmapped Latin input degrades to generic transliteration;
// unmapped Cyrillic input passes through. Never fails.
func (t *Table) Normalize(term string) (string, []string) {
	key := normalizeKey(term)
	if key == "" {
		return term, nil
	}
	if e, ok := t.byVariant[key]; ok {
		related := make([]string, len(e.Related))
		copy(related, e.Related)
		return e.Canonical, related
	}
	if IsLatin(term) {
		return LatinToCyrillic(strings.ToLower(NormalizeApostrophes(strings.TrimSpace(term)))), nil
	}
	return strings.TrimSpace(term), nil
}

// NormalizePhrase normalizes a phrase word by word, keeping mapped words on
// their canonical form and transliterating the rest.
func (t *Table) NormalizePhrase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		trimmed := strings.Trim(word, ".,!?;:()\"")
		if trimmed == "" {
			continue
		}
		canonical, _ := t.Normalize(trimmed)
		words[i] = strings.Replace(word, trimmed, canonical, 1)
	}
	return strings.Join(words, " ")
}

// Len reports the number of canonical entries.
func (t *Table) Len() int { return len(t.entries) }

// PromptLines renders the mapping as "latin variants -> canonical" lines for
// embedding into generation instructions, sorted for determinism.
func (t *Table) PromptLines() string {
	lines := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		if len(e.Latin) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s -> %s", strings.Join(e.Latin, ", "), e.Canonical))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func normalizeKey(term string) string {
	return strings.ToLower(NormalizeApostrophes(strings.TrimSpace(term)))
}
