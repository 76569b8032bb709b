package domain

import "testing"

func TestNewDatabaseAnswerRequiresSources(t *testing.T) {
	if _, err := NewDatabaseAnswer("text", nil, TierLexical); err == nil {
		t.Fatalf("expected error for database answer without sources")
	}

	sources := []RetrievedSource{{Question: Question{ID: 1}, Relevance: 0.8}}
	answer, err := NewDatabaseAnswer("text", sources, TierLexical)
	if err != nil {
		t.Fatalf("NewDatabaseAnswer() error = %v", err)
	}
	if answer.SourceType() != SourceDatabase {
		t.Fatalf("expected database source type, got %s", answer.SourceType())
	}
	if _, ok := answer.Disclaimer(); ok {
		t.Fatalf("database answer must not carry a disclaimer")
	}
	if len(answer.Sources()) != 1 {
		t.Fatalf("expected 1 source, got %d", len(answer.Sources()))
	}
}

func TestNewKnowledgeAnswerRequiresDisclaimer(t *testing.T) {
	if _, err := NewKnowledgeAnswer("text", ""); err == nil {
		t.Fatalf("expected error for ai_knowledge answer without disclaimer")
	}

	answer, err := NewKnowledgeAnswer("text", "caveat")
	if err != nil {
		t.Fatalf("NewKnowledgeAnswer() error = %v", err)
	}
	disclaimer, ok := answer.Disclaimer()
	if !ok || disclaimer != "caveat" {
		t.Fatalf("expected disclaimer caveat, got %q ok=%v", disclaimer, ok)
	}
	if len(answer.Sources()) != 0 {
		t.Fatalf("knowledge answer must not carry sources")
	}
}

func TestNewConversationalAnswerCarriesNothing(t *testing.T) {
	answer := NewConversationalAnswer("salom")
	if answer.SourceType() != SourceConversational {
		t.Fatalf("expected conversational source type, got %s", answer.SourceType())
	}
	if len(answer.Sources()) != 0 {
		t.Fatalf("conversational answer must not carry sources")
	}
	if _, ok := answer.Disclaimer(); ok {
		t.Fatalf("conversational answer must not carry a disclaimer")
	}
}

func TestAllTermsDeduplicatesPreservingOrder(t *testing.T) {
	kw := ExtractedKeywords{
		Primary: []string{"масҳ", "таҳорат", "масҳ"},
		Related: []string{"таҳорат", "ювиш", ""},
	}
	terms := kw.AllTerms()
	want := []string{"масҳ", "таҳорат", "ювиш"}
	if len(terms) != len(want) {
		t.Fatalf("expected %d terms, got %v", len(want), terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Fatalf("terms[%d] = %q, want %q", i, terms[i], want[i])
		}
	}
}
