package vocab

import "testing"

func TestDefaultTableMapsLossyTransliterations(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if table.Len() < 30 {
		t.Fatalf("expected at least 30 vocabulary entries, got %d", table.Len())
	}

	canonical, related := table.Normalize("mash")
	if canonical != "масҳ" {
		t.Fatalf("Normalize(mash) = %q, want масҳ", canonical)
	}
	if len(related) == 0 {
		t.Fatalf("expected related terms for масҳ")
	}

	// Lookup is case- and apostrophe-insensitive.
	if canonical, _ := table.Normalize("G‘usl"); canonical != "ғусл" {
		t.Fatalf("Normalize(G‘usl) = %q, want ғусл", canonical)
	}
}

func TestNormalizeUnknownLatinFallsBackToTransliteration(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	canonical, related := table.Normalize("kitob")
	if canonical != "китоб" {
		t.Fatalf("Normalize(kitob) = %q, want китоб", canonical)
	}
	if related != nil {
		t.Fatalf("unmapped term must not produce related terms, got %v", related)
	}
}

func TestNormalizeCyrillicPassesThrough(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if canonical, _ := table.Normalize("витр"); canonical != "витр" {
		t.Fatalf("Normalize(витр) = %q, want passthrough", canonical)
	}
}

func TestLoadSwapsTablePerDomain(t *testing.T) {
	custom := []byte(`
terms:
  - canonical: сервер
    latin: [server]
    related: [хост]
`)
	table, err := Load(custom)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	canonical, related := table.Normalize("server")
	if canonical != "сервер" || len(related) != 1 || related[0] != "хост" {
		t.Fatalf("custom table lookup = %q %v", canonical, related)
	}
}

func TestLoadRejectsEmptyVocabulary(t *testing.T) {
	if _, err := Load([]byte("terms: []")); err == nil {
		t.Fatalf("expected error for empty vocabulary")
	}
}

func TestNormalizePhrase(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	got := table.NormalizePhrase("mahsiga mash tortsa boladimi?")
	want := "маҳсига масҳ тортса боладими?"
	if got != want {
		t.Fatalf("NormalizePhrase = %q, want %q", got, want)
	}
}
