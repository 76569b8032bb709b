package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/askai-uz/askai/internal/core/domain"
	"github.com/askai-uz/askai/internal/core/ports"
)

type classifierStub struct {
	question bool
	err      error
}

func (s *classifierStub) IsQuestion(context.Context, string, []domain.ChatTurn) (bool, error) {
	return s.question, s.err
}

type extractorStub struct {
	keywords domain.ExtractedKeywords
	err      error
}

func (s *extractorStub) Extract(context.Context, string) (domain.ExtractedKeywords, error) {
	return s.keywords, s.err
}

type synthesizerStub struct {
	answer       string
	answerErr    error
	fallbackText string
	disclaimer   string
	fallbackErr  error
	reply        string

	synthSources  []domain.RetrievedSource
	fallbackCalls int
}

func (s *synthesizerStub) Synthesize(_ context.Context, _ string, _ []domain.ChatTurn, sources []domain.RetrievedSource) (string, error) {
	s.synthSources = sources
	return s.answer, s.answerErr
}

func (s *synthesizerStub) Fallback(context.Context, string, []domain.ChatTurn) (string, string, error) {
	s.fallbackCalls++
	return s.fallbackText, s.disclaimer, s.fallbackErr
}

func (s *synthesizerStub) ConversationalReply(context.Context, string) (string, error) {
	return s.reply, nil
}

type eventsStub struct {
	events []domain.ChatAnsweredEvent
}

func (s *eventsStub) PublishChatAnswered(_ context.Context, event domain.ChatAnsweredEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newChatUseCase(
	classifier *classifierStub,
	extractor *extractorStub,
	lexical *lexicalFake,
	vector *vectorFake,
	synthesizer *synthesizerStub,
	events *eventsStub,
) *ChatUseCase {
	coordinator := newCoordinator(lexical, vector, &embedderFake{})
	detector := NewInsufficiencyDetector(defaultPhrases())
	var publisher ports.EventPublisher
	if events != nil {
		publisher = events
	}
	return NewChatUseCase(classifier, extractor, coordinator, synthesizer, detector, publisher, 5, nil)
}

func keywordsFor(term string) domain.ExtractedKeywords {
	return domain.ExtractedKeywords{Primary: []string{term}, Rewritten: term}
}

func TestChatDatabaseAnswerFromLexicalHits(t *testing.T) {
	// Scenario: "mahsiga mash tortsa bo'ladimi?" — extraction canonicalizes
	// "mash" and lexical search returns enough hits to skip the vector tier.
	classifier := &classifierStub{question: true}
	extractor := &extractorStub{keywords: keywordsFor("масҳ")}
	lexical := &lexicalFake{hits: lexicalHits(1, 2, 3)}
	vector := &vectorFake{}
	synthesizer := &synthesizerStub{answer: "Масҳ тортиш жоиз."}
	events := &eventsStub{}
	uc := newChatUseCase(classifier, extractor, lexical, vector, synthesizer, events)

	answer, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "mahsiga mash tortsa bo'ladimi?"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if answer.SourceType() != domain.SourceDatabase {
		t.Fatalf("expected database answer, got %s", answer.SourceType())
	}
	if len(answer.Sources()) != 3 {
		t.Fatalf("expected 3 cited sources, got %d", len(answer.Sources()))
	}
	if _, ok := answer.Disclaimer(); ok {
		t.Fatalf("database answer must not carry a disclaimer")
	}
	if vector.calls != 0 {
		t.Fatalf("vector tier must be skipped")
	}
	if lexical.terms[0] != "масҳ" {
		t.Fatalf("lexical search must receive canonical terms, got %v", lexical.terms)
	}
	if len(events.events) != 1 || events.events[0].SourceType != "database" {
		t.Fatalf("expected one database analytics event, got %+v", events.events)
	}
}

func TestChatEmptyRetrievalFallsBackWithDisclaimer(t *testing.T) {
	// Scenario: a question the corpus cannot answer; synthesis over the
	// empty context echoes a not-found signal and the fallback path runs.
	classifier := &classifierStub{question: true}
	extractor := &extractorStub{keywords: keywordsFor("қибла")}
	synthesizer := &synthesizerStub{
		answer:       "Bu savol bo'yicha ma'lumot topilmadi.",
		fallbackText: "Олимларнинг фикрича...",
		disclaimer:   "Диққат: бу жавоб базадан эмас.",
	}
	uc := newChatUseCase(classifier, extractor, &lexicalFake{}, &vectorFake{}, synthesizer, nil)

	answer, err := uc.Chat(context.Background(), domain.ChatRequest{
		Message: "Marsda namoz o'qisa qibla qaysi tomonda bo'ladi?",
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if answer.SourceType() != domain.SourceAIKnowledge {
		t.Fatalf("expected ai_knowledge answer, got %s", answer.SourceType())
	}
	disclaimer, ok := answer.Disclaimer()
	if !ok || disclaimer == "" {
		t.Fatalf("ai_knowledge answer must carry a non-empty disclaimer")
	}
	if len(answer.Sources()) != 0 {
		t.Fatalf("fallback answer must not cite sources")
	}
	if synthesizer.fallbackCalls != 1 {
		t.Fatalf("expected one fallback synthesis, got %d", synthesizer.fallbackCalls)
	}
}

func TestChatConversationalShortCircuit(t *testing.T) {
	classifier := &classifierStub{question: false}
	extractor := &extractorStub{err: errors.New("must not be called")}
	lexical := &lexicalFake{}
	synthesizer := &synthesizerStub{reply: "Va alaykum assalom!"}
	uc := newChatUseCase(classifier, extractor, lexical, &vectorFake{}, synthesizer, nil)

	answer, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "Assalomu alaykum"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if answer.SourceType() != domain.SourceConversational {
		t.Fatalf("expected conversational answer, got %s", answer.SourceType())
	}
	if len(answer.Sources()) != 0 {
		t.Fatalf("conversational answer must not cite sources")
	}
	if _, ok := answer.Disclaimer(); ok {
		t.Fatalf("conversational answer must not carry a disclaimer")
	}
	if lexical.calls != 0 {
		t.Fatalf("retrieval must not run for conversational input")
	}
}

func TestChatNonQuestionWithHistoryIsFollowUp(t *testing.T) {
	classifier := &classifierStub{question: false}
	synthesizer := &synthesizerStub{fallbackText: "Qisqa javob.", disclaimer: "Диққат."}
	uc := newChatUseCase(classifier, &extractorStub{}, &lexicalFake{}, &vectorFake{}, synthesizer, nil)

	answer, err := uc.Chat(context.Background(), domain.ChatRequest{
		Message: "qisqaroq qilib ber",
		History: []domain.ChatTurn{{Role: domain.RoleUser, Content: "масҳ ҳақида"}},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if answer.SourceType() != domain.SourceAIKnowledge {
		t.Fatalf("expected ai_knowledge for follow-up, got %s", answer.SourceType())
	}
}

func TestChatClassifierFailureFailsOpenToRetrieval(t *testing.T) {
	classifier := &classifierStub{err: errors.New("backend down")}
	extractor := &extractorStub{keywords: keywordsFor("намоз")}
	lexical := &lexicalFake{hits: lexicalHits(1, 2, 3)}
	synthesizer := &synthesizerStub{answer: "Жавоб."}
	uc := newChatUseCase(classifier, extractor, lexical, &vectorFake{}, synthesizer, nil)

	answer, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "namoz vaqtlari qanday?"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if answer.SourceType() != domain.SourceDatabase {
		t.Fatalf("classifier failure must default to the question path, got %s", answer.SourceType())
	}
}

func TestChatExtractionFailureDegradesToNaiveTokens(t *testing.T) {
	classifier := &classifierStub{question: true}
	extractor := &extractorStub{err: errors.New("malformed json")}
	lexical := &lexicalFake{hits: lexicalHits(1, 2, 3)}
	synthesizer := &synthesizerStub{answer: "Жавоб."}
	uc := newChatUseCase(classifier, extractor, lexical, &vectorFake{}, synthesizer, nil)

	_, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "mahsiga mash tortsa bo'ladimi?"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	want := []string{"mahsiga", "mash", "tortsa"}
	if strings.Join(lexical.terms, " ") != strings.Join(want, " ") {
		t.Fatalf("degraded extraction terms = %v, want %v", lexical.terms, want)
	}
}

func TestChatSynthesisFailureIsFatal(t *testing.T) {
	classifier := &classifierStub{question: true}
	extractor := &extractorStub{keywords: keywordsFor("закот")}
	lexical := &lexicalFake{hits: lexicalHits(1, 2, 3)}
	synthesizer := &synthesizerStub{answerErr: errors.New("timeout")}
	uc := newChatUseCase(classifier, extractor, lexical, &vectorFake{}, synthesizer, nil)

	_, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "zakot qancha?"})
	if !domain.IsKind(err, domain.ErrSynthesisFailed) {
		t.Fatalf("expected synthesis failure, got %v", err)
	}
}

func TestChatEmptyMessageRejected(t *testing.T) {
	uc := newChatUseCase(&classifierStub{}, &extractorStub{}, &lexicalFake{}, &vectorFake{}, &synthesizerStub{}, nil)
	_, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "   "})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestChatCitesAtMostAnswerSourceLimit(t *testing.T) {
	classifier := &classifierStub{question: true}
	extractor := &extractorStub{keywords: keywordsFor("рўза")}
	lexical := &lexicalFake{hits: lexicalHits(1, 2, 3, 4, 5, 6, 7)}
	synthesizer := &synthesizerStub{answer: "Жавоб."}
	uc := newChatUseCase(classifier, extractor, lexical, &vectorFake{}, synthesizer, nil)

	answer, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "ro'za haqida"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(answer.Sources()) != 5 {
		t.Fatalf("expected 5 cited sources, got %d", len(answer.Sources()))
	}
	if len(synthesizer.synthSources) != 5 {
		t.Fatalf("synthesizer must see the trimmed source list, got %d", len(synthesizer.synthSources))
	}
}

func TestChatIsDeterministicAcrossRuns(t *testing.T) {
	build := func() *ChatUseCase {
		return newChatUseCase(
			&classifierStub{question: true},
			&extractorStub{keywords: keywordsFor("масҳ")},
			&lexicalFake{hits: lexicalHits(3, 1, 2)},
			&vectorFake{},
			&synthesizerStub{answer: "Жавоб."},
			nil,
		)
	}

	req := domain.ChatRequest{Message: "mahsiga mash tortsa bo'ladimi?"}
	first, err := build().Chat(context.Background(), req)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	second, err := build().Chat(context.Background(), req)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if first.SourceType() != second.SourceType() {
		t.Fatalf("source type differs across runs: %s vs %s", first.SourceType(), second.SourceType())
	}
	if len(first.Sources()) != len(second.Sources()) {
		t.Fatalf("cited source count differs across runs")
	}
	for i := range first.Sources() {
		if first.Sources()[i].Question.ID != second.Sources()[i].Question.ID {
			t.Fatalf("cited ids differ at %d: %d vs %d", i, first.Sources()[i].Question.ID, second.Sources()[i].Question.ID)
		}
	}
}
