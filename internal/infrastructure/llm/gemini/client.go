package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/askai-uz/askai/internal/core/domain"
	"github.com/askai-uz/askai/internal/infrastructure/resilience"
	"github.com/askai-uz/askai/internal/vocab"
)

type Config struct {
	APIKey     string
	ChatModel  string
	EmbedModel string
	Timeout    time.Duration
	Executor   *resilience.Executor
}

// Client wraps the Gemini API for the four generation roles of the pipeline
// (classification, extraction, synthesis, fallback) and query embeddings.
type Client struct {
	api        *genai.Client
	chatModel  string
	embedModel string
	timeout    time.Duration
	executor   *resilience.Executor
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		api:        api,
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbedModel,
		timeout:    timeout,
		executor:   cfg.Executor,
	}, nil
}

// generate runs a single bounded generation call. Generation is never
// retried: repeated calls are costed and may return materially different
// text, so the classifier only feeds the circuit breaker.
func (c *Client) generate(
	ctx context.Context,
	operation string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (string, error) {
	var out string
	call := func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.Models.GenerateContent(callCtx, c.chatModel, contents, config)
		if err != nil {
			return fmt.Errorf("%s: %w", operation, err)
		}
		out = strings.TrimSpace(resp.Text())
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyGenerateError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return out, nil
}

func textContents(text string) []*genai.Content {
	return []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
}

func systemContent(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

func historyContents(history []domain.ChatTurn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(turn.Content, role))
	}
	return out
}

// Classifier labels an utterance as question or conversation with one
// temperature-0 call.
type Classifier struct {
	client *Client
}

func NewClassifier(client *Client) *Classifier {
	return &Classifier{client: client}
}

func (c *Classifier) IsQuestion(ctx context.Context, message string, _ []domain.ChatTurn) (bool, error) {
	resp, err := c.client.generate(ctx, "gemini.classify",
		textContents(buildClassificationPrompt(message)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)},
	)
	if err != nil {
		return false, err
	}
	return parseClassification(resp), nil
}

func parseClassification(raw string) bool {
	return strings.Contains(strings.ToUpper(raw), "SAVOL")
}

// KeywordExtractor derives canonical search terms via a JSON-constrained
// call, with the vocabulary table as a post-process safety net for terms the
// model leaves in Latin script.
type KeywordExtractor struct {
	client *Client
	vocab  *vocab.Table
}

func NewKeywordExtractor(client *Client, table *vocab.Table) *KeywordExtractor {
	return &KeywordExtractor{client: client, vocab: table}
}

func (e *KeywordExtractor) Extract(ctx context.Context, question string) (domain.ExtractedKeywords, error) {
	raw, err := e.client.generate(ctx, "gemini.extract",
		textContents(buildExtractionPrompt(question, e.vocab.PromptLines())),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return domain.ExtractedKeywords{}, err
	}
	return parseExtraction(raw, e.vocab, question)
}

// Synthesizer generates the user-facing answers.
type Synthesizer struct {
	client *Client
}

func NewSynthesizer(client *Client) *Synthesizer {
	return &Synthesizer{client: client}
}

func (s *Synthesizer) Synthesize(
	ctx context.Context,
	question string,
	history []domain.ChatTurn,
	sources []domain.RetrievedSource,
) (string, error) {
	contents := historyContents(history)
	contents = append(contents, textContents(buildSourcesMessage(question, sources))...)
	return s.client.generate(ctx, "gemini.answer", contents, &genai.GenerateContentConfig{
		SystemInstruction: systemContent(answerSystemPrompt),
	})
}

func (s *Synthesizer) Fallback(
	ctx context.Context,
	question string,
	history []domain.ChatTurn,
) (string, string, error) {
	contents := historyContents(history)
	contents = append(contents, textContents(question)...)
	text, err := s.client.generate(ctx, "gemini.fallback", contents, &genai.GenerateContentConfig{
		SystemInstruction: systemContent(fallbackSystemPrompt),
	})
	if err != nil {
		return "", "", err
	}
	return text, fallbackDisclaimer, nil
}

func (s *Synthesizer) ConversationalReply(ctx context.Context, message string) (string, error) {
	return s.client.generate(ctx, "gemini.conversational",
		textContents(buildConversationalPrompt(message)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.7)},
	)
}

// Embedder builds query embeddings. Embedding reads are idempotent, so
// transient failures are retried.
type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	call := func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, e.client.timeout)
		defer cancel()

		resp, err := e.client.api.Models.EmbedContent(callCtx, e.client.embedModel,
			[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
			&genai.EmbedContentConfig{TaskType: "RETRIEVAL_QUERY"},
		)
		if err != nil {
			return fmt.Errorf("gemini.embed: %w", err)
		}
		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			return fmt.Errorf("gemini.embed: empty embedding result")
		}
		out = resp.Embeddings[0].Values
		return nil
	}

	var err error
	if e.client.executor != nil {
		err = e.client.executor.Execute(ctx, "gemini.embed", call, classifyEmbedError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("gemini.embed", err)
	}
	return out, nil
}
