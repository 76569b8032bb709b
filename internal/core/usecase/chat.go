package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/askai-uz/askai/internal/core/domain"
	"github.com/askai-uz/askai/internal/core/ports"
)

var errEmptyMessage = errors.New("message is empty")

// ungroundedDisclaimer marks answers produced without corpus sources.
const ungroundedDisclaimer = "Диққат: бу жавоб маълумотлар базасидаги манбалардан эмас, сунъий интеллект билимларидан олинди. Аниқ диний масалаларда уламоларга мурожаат қилинг."

// ChatUseCase sequences the answer pipeline: classify the utterance, extract
// canonical keywords, run tiered retrieval, synthesize a source-constrained
// answer and fall back to unconstrained generation when the sources were
// insufficient. Stage-local failures degrade; only synthesis failures abort
// the request.
type ChatUseCase struct {
	classifier  ports.UtteranceClassifier
	extractor   ports.KeywordExtractor
	coordinator *RetrievalCoordinator
	synthesizer ports.AnswerSynthesizer
	detector    *InsufficiencyDetector
	events      ports.EventPublisher
	logger      *slog.Logger

	answerSourceLimit int
}

func NewChatUseCase(
	classifier ports.UtteranceClassifier,
	extractor ports.KeywordExtractor,
	coordinator *RetrievalCoordinator,
	synthesizer ports.AnswerSynthesizer,
	detector *InsufficiencyDetector,
	events ports.EventPublisher,
	answerSourceLimit int,
	logger *slog.Logger,
) *ChatUseCase {
	if answerSourceLimit <= 0 {
		answerSourceLimit = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatUseCase{
		classifier:        classifier,
		extractor:         extractor,
		coordinator:       coordinator,
		synthesizer:       synthesizer,
		detector:          detector,
		events:            events,
		logger:            logger,
		answerSourceLimit: answerSourceLimit,
	}
}

func (uc *ChatUseCase) Chat(ctx context.Context, req domain.ChatRequest) (domain.Answer, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return domain.Answer{}, domain.WrapError(domain.ErrInvalidInput, "chat", errEmptyMessage)
	}

	started := time.Now()
	answer, err := uc.run(ctx, message, req.History)
	if err != nil {
		return domain.Answer{}, err
	}
	uc.publish(ctx, answer, time.Since(started))
	return answer, nil
}

func (uc *ChatUseCase) run(ctx context.Context, message string, history []domain.ChatTurn) (domain.Answer, error) {
	isQuestion, err := uc.classifier.IsQuestion(ctx, message, history)
	if err != nil {
		// Fail open toward retrieval rather than dropping the query.
		uc.logger.Warn("classification_degraded", "error", err)
		isQuestion = true
	}

	if !isQuestion {
		if len(history) == 0 {
			reply, err := uc.synthesizer.ConversationalReply(ctx, message)
			if err != nil {
				return domain.Answer{}, domain.WrapError(domain.ErrSynthesisFailed, "conversational reply", err)
			}
			return domain.NewConversationalAnswer(reply), nil
		}
		// A non-question with history is a follow-up ("make it shorter"):
		// answer from model knowledge with the conversation as context.
		return uc.fallback(ctx, message, history)
	}

	keywords := uc.extractKeywords(ctx, message)
	result := uc.coordinator.Retrieve(ctx, keywords)

	cited := result.Sources
	if len(cited) > uc.answerSourceLimit {
		cited = cited[:uc.answerSourceLimit]
	}

	text, err := uc.synthesizer.Synthesize(ctx, message, history, cited)
	if err != nil {
		return domain.Answer{}, domain.WrapError(domain.ErrSynthesisFailed, "synthesize answer", err)
	}

	if uc.detector.Insufficient(text) {
		return uc.fallback(ctx, message, history)
	}

	if result.Empty() {
		// The synthesizer produced a substantive answer with no sources to
		// cite; it cannot be presented as corpus-grounded.
		return uc.knowledgeAnswer(text)
	}

	answer, err := domain.NewDatabaseAnswer(text, cited, result.Tier)
	if err != nil {
		return domain.Answer{}, domain.WrapError(domain.ErrSynthesisFailed, "assemble answer", err)
	}
	return answer, nil
}

func (uc *ChatUseCase) extractKeywords(ctx context.Context, message string) domain.ExtractedKeywords {
	keywords, err := uc.extractor.Extract(ctx, message)
	if err == nil && len(keywords.Primary) > 0 {
		if keywords.Rewritten == "" {
			keywords.Rewritten = message
		}
		return keywords
	}
	if err != nil {
		uc.logger.Warn("extraction_degraded", "error", err)
	}
	return domain.ExtractedKeywords{
		Primary:   naiveKeywords(message, 5),
		Rewritten: message,
	}
}

func (uc *ChatUseCase) fallback(ctx context.Context, message string, history []domain.ChatTurn) (domain.Answer, error) {
	text, disclaimer, err := uc.synthesizer.Fallback(ctx, message, history)
	if err != nil {
		return domain.Answer{}, domain.WrapError(domain.ErrSynthesisFailed, "fallback synthesis", err)
	}
	answer, err := domain.NewKnowledgeAnswer(text, disclaimer)
	if err != nil {
		return domain.Answer{}, domain.WrapError(domain.ErrSynthesisFailed, "assemble fallback answer", err)
	}
	return answer, nil
}

func (uc *ChatUseCase) knowledgeAnswer(text string) (domain.Answer, error) {
	answer, err := domain.NewKnowledgeAnswer(text, ungroundedDisclaimer)
	if err != nil {
		return domain.Answer{}, domain.WrapError(domain.ErrSynthesisFailed, "assemble answer", err)
	}
	return answer, nil
}

func (uc *ChatUseCase) publish(ctx context.Context, answer domain.Answer, elapsed time.Duration) {
	if uc.events == nil {
		return
	}
	event := domain.ChatAnsweredEvent{
		SourceType:  string(answer.SourceType()),
		Tier:        string(answer.Tier()),
		SourceCount: len(answer.Sources()),
		DurationMS:  elapsed.Milliseconds(),
	}
	if err := uc.events.PublishChatAnswered(ctx, event); err != nil {
		uc.logger.Warn("chat_event_publish_failed", "error", err)
	}
}
