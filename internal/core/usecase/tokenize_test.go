package usecase

import "testing"

func TestNaiveKeywordsDropsStopWords(t *testing.T) {
	got := naiveKeywords("mahsiga mash tortsa bo'ladimi?", 5)
	want := []string{"mahsiga", "mash", "tortsa"}
	if len(got) != len(want) {
		t.Fatalf("naiveKeywords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("naiveKeywords[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNaiveKeywordsCapsAndDeduplicates(t *testing.T) {
	got := naiveKeywords("namoz namoz ro'za zakot haj nikoh qibla juma", 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 keywords, got %v", got)
	}
	if got[0] != "namoz" || got[1] != "ro'za" {
		t.Fatalf("unexpected ordering: %v", got)
	}
}

func TestNaiveKeywordsHandlesCyrillic(t *testing.T) {
	got := naiveKeywords("Марсда намоз ўқиш", 5)
	want := []string{"марсда", "намоз", "ўқиш"}
	if len(got) != len(want) {
		t.Fatalf("naiveKeywords = %v, want %v", got, want)
	}
}
