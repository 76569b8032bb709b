package vocab

import (
	"strings"
	"unicode"
)

// digraphs must be tried before single characters; "ng" keeps both letters.
var digraphs = []struct {
	latin    string
	cyrillic string
}{
	{"sh", "ш"},
	{"ch", "ч"},
	{"g'", "ғ"},
	{"o'", "ў"},
	{"ng", "нг"},
}

var singleChars = map[rune]rune{
	'a': 'а', 'b': 'б', 'd': 'д', 'e': 'е', 'f': 'ф',
	'g': 'г', 'h': 'ҳ', 'i': 'и', 'j': 'ж', 'k': 'к',
	'l': 'л', 'm': 'м', 'n': 'н', 'o': 'о', 'p': 'п',
	'q': 'қ', 'r': 'р', 's': 'с', 't': 'т', 'u': 'у',
	'v': 'в', 'x': 'х', 'y': 'й', 'z': 'з', '\'': 'ъ',
}

var apostropheReplacer = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"ʻ", "'", // modifier letter turned comma (official Uzbek oʻ/gʻ)
	"ʼ", "'", // modifier letter apostrophe
	"`", "'",
)

// NormalizeApostrophes folds the apostrophe variants seen in user input into
// the plain ASCII apostrophe the mapping tables use.
func NormalizeApostrophes(text string) string {
	return apostropheReplacer.Replace(text)
}

// LatinToCyrillic converts Uzbek Latin text to Cyrillic script. Digraphs are
// consumed first, case of the leading letter is preserved, and non-Latin
// runes pass through unchanged.
func LatinToCyrillic(text string) string {
	runes := []rune(NormalizeApostrophes(text))

	var b strings.Builder
	b.Grow(len(runes))

	for i := 0; i < len(runes); {
		if mapped, consumed := matchDigraph(runes[i:]); consumed > 0 {
			b.WriteString(mapped)
			i += consumed
			continue
		}

		r := runes[i]
		lower := unicode.ToLower(r)
		mapped, ok := singleChars[lower]
		if !ok {
			b.WriteRune(r)
			i++
			continue
		}
		if unicode.IsUpper(r) {
			mapped = unicode.ToUpper(mapped)
		}
		b.WriteRune(mapped)
		i++
	}
	return b.String()
}

func matchDigraph(runes []rune) (string, int) {
	for _, d := range digraphs {
		pattern := []rune(d.latin)
		if len(runes) < len(pattern) {
			continue
		}
		match := true
		for i, p := range pattern {
			if unicode.ToLower(runes[i]) != p {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		out := []rune(d.cyrillic)
		if unicode.IsUpper(runes[0]) {
			out[0] = unicode.ToUpper(out[0])
		}
		return string(out), len(pattern)
	}
	return "", 0
}

// IsLatin reports whether the text looks like Latin-script Uzbek: more than
// 30% of its runes are ASCII letters or apostrophes.
func IsLatin(text string) bool {
	if text == "" {
		return false
	}
	total := 0
	latin := 0
	for _, r := range strings.ToLower(NormalizeApostrophes(text)) {
		total++
		if (r >= 'a' && r <= 'z') || r == '\'' {
			latin++
		}
	}
	return float64(latin) > float64(total)*0.3
}
