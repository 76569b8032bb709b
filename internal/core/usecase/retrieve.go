package usecase

import (
	"context"
	"log/slog"

	"github.com/askai-uz/askai/internal/core/domain"
	"github.com/askai-uz/askai/internal/core/ports"
)

// RetrieveConfig carries the tier policy. The thresholds come from the
// original system and are deliberately configuration, not adaptive.
type RetrieveConfig struct {
	// LexicalSufficientCount is the inclusive hit count at which lexical
	// results are used as-is and the vector tier is skipped.
	LexicalSufficientCount int
	// SimilarityThreshold is the minimum cosine similarity for vector hits.
	SimilarityThreshold float64
	// TierLimit caps the hits requested from each tier.
	TierLimit int
}

func (c RetrieveConfig) normalize() RetrieveConfig {
	out := c
	if out.LexicalSufficientCount <= 0 {
		out.LexicalSufficientCount = 3
	}
	if out.SimilarityThreshold <= 0 {
		out.SimilarityThreshold = 0.55
	}
	if out.TierLimit <= 0 {
		out.TierLimit = 10
	}
	return out
}

// RetrievalCoordinator runs the tiered lexical-then-vector search. A failing
// tier degrades to zero results from that tier; Retrieve itself never fails.
type RetrievalCoordinator struct {
	lexical  ports.LexicalSearcher
	vector   ports.VectorSearcher
	embedder ports.QueryEmbedder
	cfg      RetrieveConfig
	logger   *slog.Logger
}

func NewRetrievalCoordinator(
	lexical ports.LexicalSearcher,
	vector ports.VectorSearcher,
	embedder ports.QueryEmbedder,
	cfg RetrieveConfig,
	logger *slog.Logger,
) *RetrievalCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrievalCoordinator{
		lexical:  lexical,
		vector:   vector,
		embedder: embedder,
		cfg:      cfg.normalize(),
		logger:   logger,
	}
}

func (c *RetrievalCoordinator) Retrieve(ctx context.Context, keywords domain.ExtractedKeywords) domain.RetrievalResult {
	lexicalHits := c.searchLexical(ctx, keywords.AllTerms())
	if len(lexicalHits) >= c.cfg.LexicalSufficientCount {
		return domain.RetrievalResult{Sources: lexicalHits, Tier: domain.TierLexical}
	}

	vectorHits := c.searchVector(ctx, keywords.Rewritten)

	// Lexical hits rank first; vector hits are appended, deduplicated by
	// question id.
	seen := make(map[int64]struct{}, len(lexicalHits))
	for _, hit := range lexicalHits {
		seen[hit.Question.ID] = struct{}{}
	}
	merged := lexicalHits
	appended := 0
	for _, hit := range vectorHits {
		if _, ok := seen[hit.Question.ID]; ok {
			continue
		}
		seen[hit.Question.ID] = struct{}{}
		merged = append(merged, hit)
		appended++
	}

	tier := domain.TierNone
	switch {
	case len(lexicalHits) > 0 && appended > 0:
		tier = domain.TierHybrid
	case len(lexicalHits) > 0:
		tier = domain.TierLexical
	case appended > 0:
		tier = domain.TierVector
	}
	return domain.RetrievalResult{Sources: merged, Tier: tier}
}

func (c *RetrievalCoordinator) searchLexical(ctx context.Context, terms []string) []domain.RetrievedSource {
	if len(terms) == 0 {
		return nil
	}
	hits, err := c.lexical.SearchTerms(ctx, terms, c.cfg.TierLimit)
	if err != nil {
		c.logger.Warn("lexical_tier_degraded", "error", err)
		return nil
	}
	return hits
}

func (c *RetrievalCoordinator) searchVector(ctx context.Context, query string) []domain.RetrievedSource {
	if query == "" {
		return nil
	}
	queryVector, err := c.embedder.EmbedQuery(ctx, query)
	if err != nil {
		c.logger.Warn("vector_tier_degraded", "stage", "embed", "error", err)
		return nil
	}
	hits, err := c.vector.SearchSimilar(ctx, queryVector, c.cfg.SimilarityThreshold, c.cfg.TierLimit)
	if err != nil {
		c.logger.Warn("vector_tier_degraded", "stage", "search", "error", err)
		return nil
	}
	return hits
}
