package domain

const (
	RoleUser  = "user"
	RoleModel = "model"
)

type MessagePart struct {
	Text string `json:"text"`
}

// ConversationTurn mirrors the wire shape of caller-supplied chat history.
// The service keeps no session state; callers replay the full history on
// every request.
type ConversationTurn struct {
	Role  string        `json:"role"`
	Parts []MessagePart `json:"parts"`
}

func (t ConversationTurn) Text() string {
	if len(t.Parts) == 0 {
		return ""
	}
	return t.Parts[0].Text
}

// PromptTurn is a ConversationTurn with pre-derived role flags for template
// rendering. Deriving them is a pure data-shaping step, never stored.
type PromptTurn struct {
	ConversationTurn
	IsUser  bool
	IsModel bool
}

func TagTurns(history []ConversationTurn) []PromptTurn {
	if len(history) == 0 {
		return nil
	}
	out := make([]PromptTurn, 0, len(history))
	for _, turn := range history {
		out = append(out, PromptTurn{
			ConversationTurn: turn,
			IsUser:           turn.Role == RoleUser,
			IsModel:          turn.Role == RoleModel,
		})
	}
	return out
}
