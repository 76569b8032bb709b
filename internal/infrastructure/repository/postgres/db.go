package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the corpus tables. Ingestion runs as a separate batch
// job against the same schema; the API only reads.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent API startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS questions (
	id BIGINT PRIMARY KEY,
	url TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	question_text TEXT NOT NULL,
	answer TEXT NOT NULL,
	author TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	view_count BIGINT NOT NULL DEFAULT 0,
	published_at TIMESTAMPTZ,
	embedding vector(768)
);

CREATE TABLE IF NOT EXISTS question_relationships (
	question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	related_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	position INT NOT NULL DEFAULT 0,
	PRIMARY KEY (question_id, related_id)
);

CREATE INDEX IF NOT EXISTS idx_questions_view_count ON questions(view_count DESC);
CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category);
CREATE INDEX IF NOT EXISTS idx_questions_embedding ON questions USING hnsw (embedding vector_cosine_ops);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
