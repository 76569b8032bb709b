package usecase

import (
	"strings"
	"unicode"

	"github.com/askai-uz/askai/internal/vocab"
)

// Uzbek function words that never make useful search terms.
var stopWords = map[string]struct{}{
	"va": {}, "ham": {}, "bilan": {}, "uchun": {}, "lekin": {}, "yoki": {},
	"agar": {}, "esa": {}, "deb": {}, "bu": {}, "shu": {}, "u": {},
	"men": {}, "sen": {}, "biz": {}, "siz": {}, "nima": {}, "qanday": {},
	"qachon": {}, "nega": {}, "qayerda": {}, "haqida": {}, "kerak": {},
	"mumkin": {}, "mumkinmi": {}, "bo'ladi": {}, "bo'ladimi": {},
	"bo'lsa": {}, "qilsa": {}, "qilish": {}, "edi": {}, "emas": {},
}

// naiveKeywords is the degraded extraction path: lowercase the query, split
// on non-letters (apostrophes stay inside words), drop stop words and
// single-rune fragments, keep the first max distinct tokens.
func naiveKeywords(query string, max int) []string {
	lowered := strings.ToLower(vocab.NormalizeApostrophes(query))

	tokens := make([]string, 0, 8)
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		token := strings.Trim(b.String(), "'")
		b.Reset()
		if len([]rune(token)) < 2 {
			return
		}
		if _, ok := stopWords[token]; ok {
			return
		}
		tokens = append(tokens, token)
	}

	for _, r := range lowered {
		if unicode.IsLetter(r) || r == '\'' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, max)
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
		if len(out) == max {
			break
		}
	}
	return out
}
