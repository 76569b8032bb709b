package domain

import "errors"

type SourceType string

const (
	SourceDatabase       SourceType = "database"
	SourceAIKnowledge    SourceType = "ai_knowledge"
	SourceConversational SourceType = "conversational"
)

var (
	errAnswerNoSources    = errors.New("database answer requires at least one source")
	errAnswerNoDisclaimer = errors.New("ai_knowledge answer requires a disclaimer")
	errAnswerEmptyText    = errors.New("answer text is empty")
)

// Answer is a closed variant over the three provenance tags. Construction is
// the only way to obtain one, so a database answer always carries sources, an
// ai_knowledge answer always carries a disclaimer, and a conversational
// answer carries neither.
type Answer struct {
	sourceType SourceType
	text       string
	sources    []RetrievedSource
	disclaimer string
	tier       RetrievalTier
}

func NewDatabaseAnswer(text string, sources []RetrievedSource, tier RetrievalTier) (Answer, error) {
	if text == "" {
		return Answer{}, errAnswerEmptyText
	}
	if len(sources) == 0 {
		return Answer{}, errAnswerNoSources
	}
	return Answer{
		sourceType: SourceDatabase,
		text:       text,
		sources:    sources,
		tier:       tier,
	}, nil
}

func NewKnowledgeAnswer(text, disclaimer string) (Answer, error) {
	if text == "" {
		return Answer{}, errAnswerEmptyText
	}
	if disclaimer == "" {
		return Answer{}, errAnswerNoDisclaimer
	}
	return Answer{
		sourceType: SourceAIKnowledge,
		text:       text,
		disclaimer: disclaimer,
	}, nil
}

func NewConversationalAnswer(text string) Answer {
	return Answer{
		sourceType: SourceConversational,
		text:       text,
	}
}

func (a Answer) SourceType() SourceType { return a.sourceType }

func (a Answer) Text() string { return a.text }

// Sources returns the ordered citations backing a database answer. Empty for
// the other variants.
func (a Answer) Sources() []RetrievedSource { return a.sources }

// Disclaimer reports the mandatory caveat of an ai_knowledge answer.
func (a Answer) Disclaimer() (string, bool) {
	return a.disclaimer, a.sourceType == SourceAIKnowledge
}

// Tier reports which retrieval tier(s) produced the cited sources. Empty for
// non-database answers.
func (a Answer) Tier() RetrievalTier { return a.tier }
