package vocab

import "testing"

func TestLatinToCyrillic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"namoz", "намоз"},
		{"o'qish", "ўқиш"},
		{"oʻqish", "ўқиш"},
		{"g'usl", "ғусл"},
		{"shukr", "шукр"},
		{"chiroyli", "чиройли"},
		{"keng", "кенг"},
		{"Qibla", "Қибла"},
		{"Shahar", "Шаҳар"},
		{"mash", "маш"},
		{"salom, do'stim!", "салом, дўстим!"},
	}
	for _, tc := range cases {
		if got := LatinToCyrillic(tc.in); got != tc.want {
			t.Errorf("LatinToCyrillic(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLatinToCyrillicPassesCyrillicThrough(t *testing.T) {
	const in = "намоз вақтлари"
	if got := LatinToCyrillic(in); got != in {
		t.Fatalf("LatinToCyrillic(%q) = %q, want unchanged", in, got)
	}
}

func TestIsLatin(t *testing.T) {
	if !IsLatin("namoz o'qish") {
		t.Fatalf("expected latin text to be detected")
	}
	if IsLatin("намоз ўқиш") {
		t.Fatalf("expected cyrillic text not to be detected as latin")
	}
	if IsLatin("") {
		t.Fatalf("empty text is not latin")
	}
}

func TestNormalizeApostrophes(t *testing.T) {
	if got := NormalizeApostrophes("g‘usl gʻusl g’usl"); got != "g'usl g'usl g'usl" {
		t.Fatalf("NormalizeApostrophes folded to %q", got)
	}
}
