package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/askai-uz/askai/internal/config"
	"github.com/askai-uz/askai/internal/core/ports"
	"github.com/askai-uz/askai/internal/core/usecase"
	"github.com/askai-uz/askai/internal/infrastructure/llm/gemini"
	"github.com/askai-uz/askai/internal/infrastructure/queue/nats"
	"github.com/askai-uz/askai/internal/infrastructure/repository/postgres"
	"github.com/askai-uz/askai/internal/infrastructure/resilience"
	pgvectorstore "github.com/askai-uz/askai/internal/infrastructure/vector/pgvector"
	"github.com/askai-uz/askai/internal/observability/metrics"
	"github.com/askai-uz/askai/internal/vocab"
)

type App struct {
	Config config.Config

	ChatUC    ports.ChatService
	Questions ports.QuestionReader
	Metrics   *metrics.ServerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	questionRepo := postgres.NewQuestionRepository(db)
	vectorStore := pgvectorstore.NewStore(db)

	table, err := loadVocab(cfg.VocabPath)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	executorCfg := resilience.DefaultConfig()
	executorCfg.BreakerEnabled = cfg.GeminiBreakerEnable
	executor := resilience.NewExecutor(executorCfg)

	geminiClient, err := gemini.New(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		ChatModel:  cfg.GeminiChatModel,
		EmbedModel: cfg.GeminiEmbedModel,
		Timeout:    time.Duration(cfg.GeminiTimeoutSecs) * time.Second,
		Executor:   executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	classifier := gemini.NewClassifier(geminiClient)
	extractor := gemini.NewKeywordExtractor(geminiClient, table)
	synthesizer := gemini.NewSynthesizer(geminiClient)
	embedder := gemini.NewEmbedder(geminiClient)

	var publisher ports.EventPublisher
	var publisherClose func()
	if cfg.NATSURL != "" {
		natsPublisher, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		})
		if err != nil {
			return nil, fmt.Errorf("init nats publisher: %w", err)
		}
		publisher = natsPublisher
		publisherClose = natsPublisher.Close
	}

	coordinator := usecase.NewRetrievalCoordinator(questionRepo, vectorStore, embedder, usecase.RetrieveConfig{
		LexicalSufficientCount: cfg.LexicalSufficientCount,
		SimilarityThreshold:    cfg.VectorSimilarityThreshold,
		TierLimit:              cfg.RetrievalTierLimit,
	}, logger)
	detector := usecase.NewInsufficiencyDetector(cfg.NotFoundPhraseList())

	chatUC := usecase.NewChatUseCase(
		classifier,
		extractor,
		coordinator,
		synthesizer,
		detector,
		publisher,
		cfg.AnswerSourceLimit,
		logger,
	)

	return &App{
		Config:    cfg,
		ChatUC:    chatUC,
		Questions: questionRepo,
		Metrics:   metrics.NewServerMetrics("askai-api"),

		closeFn: func() {
			if publisherClose != nil {
				publisherClose()
			}
			_ = db.Close()
		},
	}, nil
}

func loadVocab(path string) (*vocab.Table, error) {
	if path == "" {
		return vocab.Default()
	}
	return vocab.LoadFile(path)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
