package domain

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatRequest is one user utterance plus the ordered prior turns. Transient,
// built per request; history is not persisted by this service.
type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history,omitempty"`
}

// ExtractedKeywords holds the canonical search terms derived from a question.
// Primary terms are ordered and non-empty when extraction succeeded; Rewritten
// is the canonical-script version of the query used for embedding.
type ExtractedKeywords struct {
	Primary   []string
	Related   []string
	Rewritten string
}

// AllTerms returns primary then related terms, deduplicated, order preserved.
func (k ExtractedKeywords) AllTerms() []string {
	seen := make(map[string]struct{}, len(k.Primary)+len(k.Related))
	out := make([]string, 0, len(k.Primary)+len(k.Related))
	for _, term := range append(append([]string{}, k.Primary...), k.Related...) {
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

type RetrievalTier string

const (
	TierNone    RetrievalTier = "none"
	TierLexical RetrievalTier = "lexical"
	TierVector  RetrievalTier = "vector"
	TierHybrid  RetrievalTier = "lexical+vector"
)

// RetrievedSource is one corpus hit from a retrieval tier. Relevance is match
// density for lexical hits and cosine similarity for vector hits; the two are
// not comparable across tiers.
type RetrievedSource struct {
	Question     Question
	Relevance    float64
	MatchedTerms int
	Tier         RetrievalTier
}

// RetrievalResult is the ordered merged output of the tiered retrieval,
// tagged with the tier(s) that contributed.
type RetrievalResult struct {
	Sources []RetrievedSource
	Tier    RetrievalTier
}

func (r RetrievalResult) Empty() bool {
	return len(r.Sources) == 0
}

// ChatAnsweredEvent is the analytics payload published after each answered
// chat request.
type ChatAnsweredEvent struct {
	SourceType  string `json:"source_type"`
	Tier        string `json:"tier,omitempty"`
	SourceCount int    `json:"source_count"`
	DurationMS  int64  `json:"duration_ms"`
}
