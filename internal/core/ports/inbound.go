package ports

import (
	"context"
	"io"

	"github.com/droitbot/droitbot-server/internal/core/domain"
)

// LegalAssistant is the inbound contract for the retrieval-augmented legal
// conversation flow. Generation failures propagate; retrieval failures do not.
type LegalAssistant interface {
	Answer(ctx context.Context, req domain.AssistantRequest) (*domain.Answer, error)
}

// MessageAnalyzer screens incoming messages for scams.
type MessageAnalyzer interface {
	Analyze(ctx context.Context, req domain.MessageAnalysisRequest) (*domain.MessageAnalysis, error)
}

// FraudChecker assesses an image or PDF document for signs of forgery.
type FraudChecker interface {
	Check(ctx context.Context, req domain.FraudCheckRequest) (*domain.FraudCheckResult, error)
}

// AudioChecker screens an audio recording for suspicious or harmful content.
type AudioChecker interface {
	Check(ctx context.Context, req domain.AudioCheckRequest) (*domain.AudioCheckResult, error)
}

// Debunker cross-checks a news claim against the injected search capability.
// Degrades to a deterministic fallback instead of failing.
type Debunker interface {
	Debunk(ctx context.Context, req domain.DebunkRequest) (*domain.DebunkResult, error)
}

// EmergencyAdvisor produces immediate guidance during an active scam
// situation. Degrades to canned locale-aware copy instead of failing.
type EmergencyAdvisor interface {
	Advise(ctx context.Context, req domain.EmergencyRequest) (*domain.EmergencyAdvice, error)
}

// CustomsHelper produces a checklist and official links for a bureaucratic
// procedure. Degrades to a localized fallback instead of failing.
type CustomsHelper interface {
	Help(ctx context.Context, req domain.CustomsHelpRequest) (*domain.CustomsHelp, error)
}

// RightsSummarizer summarizes legal rights on a topic in a requested language.
type RightsSummarizer interface {
	Summarize(ctx context.Context, req domain.RightsSummaryRequest) (*domain.RightsSummary, error)
}

// KnowledgeIngestor is the inbound contract for knowledge-base uploads.
type KnowledgeIngestor interface {
	Upload(ctx context.Context, filename, mimeType, source string, body io.Reader) (*domain.KnowledgeDocument, error)
}

// KnowledgeProcessor is the inbound contract for asynchronous indexing.
type KnowledgeProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for registry rows.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.KnowledgeDocument, error)
}
