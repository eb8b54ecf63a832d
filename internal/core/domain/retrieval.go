package domain

// RetrievedSource is one knowledge-base hit echoed back to the caller as
// provenance.
type RetrievedSource struct {
	Text   string  `json:"text"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

// RetrievedContext carries both the prompt-ready assembled text and the
// structured hit list for provenance. Empty on retrieval failure: retrieval
// is an enhancement, not a correctness requirement.
type RetrievedContext struct {
	Sources       []RetrievedSource
	AssembledText string
}

func (c RetrievedContext) Empty() bool {
	return c.AssembledText == "" && len(c.Sources) == 0
}

// GenerationRequest is the assembled payload for one generation call. Built
// fresh per request, never cached.
type GenerationRequest struct {
	SystemKnowledge  string
	RetrievedContext string
	History          []PromptTurn
	Query            string
}

type AssistantRequest struct {
	Query   string             `json:"query"`
	History []ConversationTurn `json:"chatHistory,omitempty"`
}

// Answer is the terminal artifact of the legal-assistant flow.
// RetrievedContextSources is omitted entirely, not emitted empty, when
// retrieval produced no hits.
type Answer struct {
	Explanation             string            `json:"explanation"`
	RetrievedContextSources []RetrievedSource `json:"retrievedContextSources,omitempty"`
}
