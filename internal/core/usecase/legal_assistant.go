package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
)

// LegalAssistantUseCase answers legal questions with retrieval-augmented
// generation. Retrieval is best-effort; generation failures propagate to the
// caller.
type LegalAssistantUseCase struct {
	retriever  ports.ContextRetriever
	generator  ports.StructuredGenerator
	collection string
	topK       int
}

func NewLegalAssistantUseCase(
	retriever ports.ContextRetriever,
	generator ports.StructuredGenerator,
	collection string,
	topK int,
) *LegalAssistantUseCase {
	if topK <= 0 {
		topK = defaultRetrievalLimit
	}
	return &LegalAssistantUseCase{
		retriever:  retriever,
		generator:  generator,
		collection: collection,
		topK:       topK,
	}
}

func (uc *LegalAssistantUseCase) Answer(ctx context.Context, req domain.AssistantRequest) (*domain.Answer, error) {
	if req.Query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "legal assistant", errors.New("empty query"))
	}

	retrieved := uc.retriever.Retrieve(ctx, uc.collection, req.Query, uc.topK)

	prompt := buildAssistantPrompt(domain.GenerationRequest{
		SystemKnowledge:  dataProtectionKnowledge,
		RetrievedContext: retrieved.AssembledText,
		History:          domain.TagTurns(req.History),
		Query:            req.Query,
	})

	var out struct {
		Explanation string `json:"explanation"`
	}
	if err := uc.generator.GenerateStructured(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("generate legal answer: %w", err)
	}

	answer := &domain.Answer{Explanation: out.Explanation}
	if len(retrieved.Sources) > 0 {
		answer.RetrievedContextSources = retrieved.Sources
	}
	return answer, nil
}
