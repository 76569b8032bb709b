package ports

import (
	"context"

	"github.com/askai-uz/askai/internal/core/domain"
)

// UtteranceClassifier labels an utterance as a question or plain conversation.
type UtteranceClassifier interface {
	IsQuestion(ctx context.Context, message string, history []domain.ChatTurn) (bool, error)
}

// KeywordExtractor derives canonical search terms and a canonical-script
// rewrite from a raw question.
type KeywordExtractor interface {
	Extract(ctx context.Context, question string) (domain.ExtractedKeywords, error)
}

// QueryEmbedder builds the embedding vector for a search query.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// LexicalSearcher runs OR-combined multi-keyword substring search over the
// corpus, ranked by distinct matched terms, then popularity, then id.
type LexicalSearcher interface {
	SearchTerms(ctx context.Context, terms []string, limit int) ([]domain.RetrievedSource, error)
}

// VectorSearcher runs cosine nearest-neighbor search over corpus embeddings;
// hits below threshold are excluded by the collaborator.
type VectorSearcher interface {
	SearchSimilar(ctx context.Context, queryVector []float32, threshold float64, limit int) ([]domain.RetrievedSource, error)
}

// AnswerSynthesizer creates user-facing answers. Synthesize is constrained to
// the supplied sources; Fallback is unconstrained and must return a non-empty
// disclaimer; ConversationalReply serves non-question utterances.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, question string, history []domain.ChatTurn, sources []domain.RetrievedSource) (string, error)
	Fallback(ctx context.Context, question string, history []domain.ChatTurn) (answer string, disclaimer string, err error)
	ConversationalReply(ctx context.Context, message string) (string, error)
}

// EventPublisher emits analytics events. Publish failures must never fail the
// originating request.
type EventPublisher interface {
	PublishChatAnswered(ctx context.Context, event domain.ChatAnsweredEvent) error
}

// QuestionReader is the read model behind the browse/search endpoints.
type QuestionReader interface {
	GetByID(ctx context.Context, id int64) (*domain.QuestionDetail, error)
	Search(ctx context.Context, query string, limit, offset int) (domain.SearchPage, error)
	Popular(ctx context.Context, limit int) ([]domain.QuestionPreview, error)
}
