package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/askai-uz/askai/internal/core/domain"
)

const questionColumns = "id, url, title, question_text, answer, author, category, view_count, published_at"

// QuestionRepository serves both the lexical retrieval tier and the plain
// corpus read endpoints from the questions table.
type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// SearchTerms ranks rows by how many of the given terms they match across
// title, question and answer text. Relevance is the matched fraction.
func (r *QuestionRepository) SearchTerms(ctx context.Context, terms []string, limit int) ([]domain.RetrievedSource, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	matchExprs := make([]string, 0, len(terms))
	whereExprs := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms)+1)
	for i, term := range terms {
		placeholder := fmt.Sprintf("$%d", i+1)
		matchExprs = append(matchExprs,
			fmt.Sprintf("(title ILIKE %s OR question_text ILIKE %s OR answer ILIKE %s)::int", placeholder, placeholder, placeholder))
		whereExprs = append(whereExprs,
			fmt.Sprintf("title ILIKE %s OR question_text ILIKE %s OR answer ILIKE %s", placeholder, placeholder, placeholder))
		args = append(args, "%"+term+"%")
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
SELECT %s, (%s) AS matched_terms
FROM questions
WHERE %s
ORDER BY matched_terms DESC, view_count DESC, id ASC
LIMIT $%d
`, questionColumns, strings.Join(matchExprs, " + "), strings.Join(whereExprs, " OR "), len(terms)+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search terms: %w", err)
	}
	defer rows.Close()

	var out []domain.RetrievedSource
	for rows.Next() {
		var q domain.Question
		var matched int
		if err := scanQuestion(rows, &q, &matched); err != nil {
			return nil, fmt.Errorf("scan lexical hit: %w", err)
		}
		out = append(out, domain.RetrievedSource{
			Question:     q,
			Relevance:    float64(matched) / float64(len(terms)),
			MatchedTerms: matched,
			Tier:         domain.TierLexical,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lexical hits: %w", err)
	}
	return out, nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*domain.QuestionDetail, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
SELECT %s
FROM questions
WHERE id = $1
`, questionColumns), id)

	var detail domain.QuestionDetail
	if err := scanQuestion(row, &detail.Question, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrQuestionNotFound, "get question", err)
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT q.id, q.title, q.url
FROM question_relationships rel
JOIN questions q ON q.id = rel.related_id
WHERE rel.question_id = $1
ORDER BY rel.position ASC, q.id ASC
`, id)
	if err != nil {
		return nil, fmt.Errorf("query related questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rq domain.RelatedQuestion
		if err := rows.Scan(&rq.ID, &rq.Title, &rq.URL); err != nil {
			return nil, fmt.Errorf("scan related question: %w", err)
		}
		detail.Related = append(detail.Related, rq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate related questions: %w", err)
	}
	return &detail, nil
}

func (r *QuestionRepository) Search(ctx context.Context, query string, limit, offset int) (domain.SearchPage, error) {
	page := domain.SearchPage{Query: query, Limit: limit, Offset: offset}
	pattern := "%" + query + "%"

	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM questions
WHERE title ILIKE $1 OR question_text ILIKE $1 OR answer ILIKE $1
`, pattern).Scan(&page.Total)
	if err != nil {
		return domain.SearchPage{}, fmt.Errorf("count search results: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, url, title, category, view_count, LEFT(answer, 150) AS answer_preview
FROM questions
WHERE title ILIKE $1 OR question_text ILIKE $1 OR answer ILIKE $1
ORDER BY view_count DESC, id ASC
LIMIT $2 OFFSET $3
`, pattern, limit, offset)
	if err != nil {
		return domain.SearchPage{}, fmt.Errorf("search questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.QuestionPreview
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.Category, &p.ViewCount, &p.AnswerPreview); err != nil {
			return domain.SearchPage{}, fmt.Errorf("scan search result: %w", err)
		}
		page.Results = append(page.Results, p)
	}
	if err := rows.Err(); err != nil {
		return domain.SearchPage{}, fmt.Errorf("iterate search results: %w", err)
	}
	return page, nil
}

func (r *QuestionRepository) Popular(ctx context.Context, limit int) ([]domain.QuestionPreview, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, url, title, category, view_count, LEFT(answer, 150) AS answer_preview
FROM questions
ORDER BY view_count DESC, id ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular questions: %w", err)
	}
	defer rows.Close()

	var out []domain.QuestionPreview
	for rows.Next() {
		var p domain.QuestionPreview
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.Category, &p.ViewCount, &p.AnswerPreview); err != nil {
			return nil, fmt.Errorf("scan popular question: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular questions: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner, q *domain.Question, matched *int) error {
	var publishedAt sql.NullTime
	dest := []any{
		&q.ID, &q.URL, &q.Title, &q.Question, &q.Answer,
		&q.Author, &q.Category, &q.ViewCount, &publishedAt,
	}
	if matched != nil {
		dest = append(dest, matched)
	}
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if publishedAt.Valid {
		q.PublishedAt = publishedAt.Time
	}
	return nil
}
