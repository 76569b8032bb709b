package usecase

import (
	"strings"

	"github.com/askai-uz/askai/internal/vocab"
)

// InsufficiencyDetector decides whether a synthesized answer admits that the
// sources held no answer. It is a case-insensitive substring test over an
// injected phrase set; an answer quoting one of the phrases from a cited
// source is a known false positive.
type InsufficiencyDetector struct {
	phrases []string
}

func NewInsufficiencyDetector(phrases []string) *InsufficiencyDetector {
	normalized := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		phrase = strings.ToLower(vocab.NormalizeApostrophes(strings.TrimSpace(phrase)))
		if phrase != "" {
			normalized = append(normalized, phrase)
		}
	}
	return &InsufficiencyDetector{phrases: normalized}
}

func (d *InsufficiencyDetector) Insufficient(answer string) bool {
	haystack := strings.ToLower(vocab.NormalizeApostrophes(answer))
	for _, phrase := range d.phrases {
		if strings.Contains(haystack, phrase) {
			return true
		}
	}
	return false
}
