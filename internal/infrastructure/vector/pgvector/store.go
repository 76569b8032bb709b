// Package pgvector implements the semantic retrieval tier on the questions
// table's embedding column, so lexical and vector search share one store.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/askai-uz/askai/internal/core/domain"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SearchSimilar returns rows whose cosine similarity to the query vector
// meets the threshold, best match first. Rows without an embedding are
// invisible to this tier.
func (s *Store) SearchSimilar(ctx context.Context, queryVector []float32, threshold float64, limit int) ([]domain.RetrievedSource, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("vector search: empty query vector")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, url, title, question_text, answer, author, category, view_count, published_at,
	1 - (embedding <=> $1) AS relevance
FROM questions
WHERE embedding IS NOT NULL AND 1 - (embedding <=> $1) >= $2
ORDER BY embedding <=> $1, id ASC
LIMIT $3
`, pgvector.NewVector(queryVector), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var out []domain.RetrievedSource
	for rows.Next() {
		var q domain.Question
		var publishedAt sql.NullTime
		var relevance float64
		err := rows.Scan(
			&q.ID, &q.URL, &q.Title, &q.Question, &q.Answer,
			&q.Author, &q.Category, &q.ViewCount, &publishedAt,
			&relevance,
		)
		if err != nil {
			return nil, fmt.Errorf("scan vector hit: %w", err)
		}
		if publishedAt.Valid {
			q.PublishedAt = publishedAt.Time
		}
		out = append(out, domain.RetrievedSource{
			Question:  q,
			Relevance: relevance,
			Tier:      domain.TierVector,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vector hits: %w", err)
	}
	return out, nil
}
