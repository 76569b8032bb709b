package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/askai-uz/askai/internal/core/domain"
	"github.com/askai-uz/askai/internal/vocab"
)

type extractionPayload struct {
	PrimaryKeywords []string `json:"primary_keywords"`
	RelatedKeywords []string `json:"related_keywords"`
	RewrittenQuery  string   `json:"rewritten_query"`
}

// parseExtraction decodes the extraction response and runs every term through
// the vocabulary table. The model is told to emit Cyrillic, but the table is
// the safety net when a Latin term slips through.
func parseExtraction(raw string, table *vocab.Table, question string) (domain.ExtractedKeywords, error) {
	body, err := extractJSONObject(raw)
	if err != nil {
		return domain.ExtractedKeywords{}, fmt.Errorf("extraction response: %w", err)
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return domain.ExtractedKeywords{}, fmt.Errorf("decode extraction response: %w", err)
	}

	seen := make(map[string]struct{})
	var primary, related []string

	addRelated := func(term string) {
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok || len(related) >= 5 {
			return
		}
		seen[key] = struct{}{}
		related = append(related, term)
	}

	// Primaries claim their canonical forms first so a vocabulary-related
	// term never shadows a later primary keyword.
	var pendingRelated []string
	for _, term := range payload.PrimaryKeywords {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		canonical, vocabRelated := table.Normalize(term)
		key := strings.ToLower(canonical)
		if _, ok := seen[key]; !ok && len(primary) < 5 {
			seen[key] = struct{}{}
			primary = append(primary, canonical)
		}
		pendingRelated = append(pendingRelated, vocabRelated...)
	}
	for _, rel := range pendingRelated {
		addRelated(rel)
	}
	for _, term := range payload.RelatedKeywords {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		canonical, vocabRelated := table.Normalize(term)
		addRelated(canonical)
		for _, rel := range vocabRelated {
			addRelated(rel)
		}
	}

	if len(primary) == 0 {
		return domain.ExtractedKeywords{}, fmt.Errorf("extraction response: no primary keywords")
	}

	rewritten := strings.TrimSpace(payload.RewrittenQuery)
	if rewritten == "" {
		rewritten = question
	}
	if vocab.IsLatin(rewritten) {
		rewritten = table.NormalizePhrase(rewritten)
	}

	return domain.ExtractedKeywords{
		Primary:   primary,
		Related:   related,
		Rewritten: rewritten,
	}, nil
}

// extractJSONObject returns the first balanced {...} block, tolerating
// markdown fences and prose around the payload.
func extractJSONObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found")
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object")
}
