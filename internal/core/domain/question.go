package domain

import "time"

// Question is one corpus record: a published fatwa-style Q&A. The pipeline
// reads it, never mutates it; ingestion lives outside this service.
type Question struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url,omitempty"`
	Title       string    `json:"title"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Author      string    `json:"author,omitempty"`
	Category    string    `json:"category,omitempty"`
	ViewCount   int64     `json:"view_count"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// QuestionPreview is the listing shape for search and popular endpoints.
type QuestionPreview struct {
	ID            int64  `json:"id"`
	URL           string `json:"url,omitempty"`
	Title         string `json:"title"`
	Category      string `json:"category,omitempty"`
	ViewCount     int64  `json:"view_count"`
	AnswerPreview string `json:"answer_preview"`
}

type RelatedQuestion struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// QuestionDetail is a full record plus its ordered related questions.
type QuestionDetail struct {
	Question
	Related []RelatedQuestion `json:"related_questions"`
}

type SearchPage struct {
	Results []QuestionPreview `json:"results"`
	Total   int               `json:"total"`
	Query   string            `json:"query"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}
