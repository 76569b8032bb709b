package httpadapter

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/askai-uz/askai/internal/core/domain"
	"github.com/askai-uz/askai/internal/core/ports"
	"github.com/askai-uz/askai/internal/observability/metrics"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	maxMessageLength   = 2000
	maxHistoryTurns    = 20
)

type RouterConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
}

type Router struct {
	chat      ports.ChatService
	questions ports.QuestionReader
	metrics   *metrics.ServerMetrics
	cfg       RouterConfig
}

func NewRouter(chat ports.ChatService, questions ports.QuestionReader, m *metrics.ServerMetrics, cfg RouterConfig) *Router {
	return &Router{
		chat:      chat,
		questions: questions,
		metrics:   m,
		cfg:       cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/chat", rt.postChat)
	mux.HandleFunc("GET /v1/search", rt.search)
	mux.HandleFunc("GET /v1/questions/popular", rt.popularQuestions)
	mux.HandleFunc("GET /v1/questions/{id}", rt.getQuestionByID)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.cfg.MaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.MaxInFlight, 50*time.Millisecond)
	}
	if rt.cfg.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	}
	handler = metricsMiddleware(handler, rt.metrics)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatTurnPayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequestPayload struct {
	Message string            `json:"message"`
	History []chatTurnPayload `json:"history"`
}

type sourceRef struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	URL       string  `json:"url,omitempty"`
	Relevance float64 `json:"relevance"`
}

type chatResponse struct {
	Answer     string      `json:"answer"`
	SourceType string      `json:"source_type"`
	Sources    []sourceRef `json:"sources,omitempty"`
	Disclaimer string      `json:"disclaimer,omitempty"`
	Tier       string      `json:"tier,omitempty"`
}

func (rt *Router) postChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var payload chatRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	if len([]rune(payload.Message)) > maxMessageLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is too long"})
		return
	}
	if len(payload.History) > maxHistoryTurns {
		payload.History = payload.History[len(payload.History)-maxHistoryTurns:]
	}

	history := make([]domain.ChatTurn, 0, len(payload.History))
	for _, turn := range payload.History {
		role := domain.ChatRole(turn.Role)
		if role != domain.RoleUser && role != domain.RoleAssistant {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "history role must be user or assistant"})
			return
		}
		history = append(history, domain.ChatTurn{Role: role, Content: turn.Content})
	}

	answer, err := rt.chat.Chat(r.Context(), domain.ChatRequest{
		Message: payload.Message,
		History: history,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.ObserveChat(string(answer.SourceType()), string(answer.Tier()), len(answer.Sources()), time.Since(start))
	}

	resp := chatResponse{
		Answer:     answer.Text(),
		SourceType: string(answer.SourceType()),
		Tier:       string(answer.Tier()),
	}
	for _, src := range answer.Sources() {
		resp.Sources = append(resp.Sources, sourceRef{
			ID:        src.Question.ID,
			Title:     src.Question.Title,
			URL:       src.Question.URL,
			Relevance: math.Round(src.Relevance*100) / 100,
		})
	}
	if disclaimer, ok := answer.Disclaimer(); ok {
		resp.Disclaimer = disclaimer
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'q' is required"})
		return
	}

	limit := queryInt(r, "limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	page, err := rt.questions.Search(r.Context(), query, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if page.Results == nil {
		page.Results = []domain.QuestionPreview{}
	}
	writeJSON(w, http.StatusOK, page)
}

func (rt *Router) popularQuestions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	previews, err := rt.questions.Popular(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if previews == nil {
		previews = []domain.QuestionPreview{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": previews})
}

func (rt *Router) getQuestionByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question id must be a positive integer"})
		return
	}

	detail, err := rt.questions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
