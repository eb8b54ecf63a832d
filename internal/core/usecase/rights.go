package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
)

// RightsSummaryUseCase summarizes legal rights on a topic in the requested
// language. Generation failures propagate.
type RightsSummaryUseCase struct {
	generator ports.StructuredGenerator
}

func NewRightsSummaryUseCase(generator ports.StructuredGenerator) *RightsSummaryUseCase {
	return &RightsSummaryUseCase{generator: generator}
}

func (uc *RightsSummaryUseCase) Summarize(ctx context.Context, req domain.RightsSummaryRequest) (*domain.RightsSummary, error) {
	if req.Topic == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "rights summary", errors.New("empty topic"))
	}

	var out domain.RightsSummary
	if err := uc.generator.GenerateStructured(ctx, buildRightsSummaryPrompt(req), &out); err != nil {
		return nil, fmt.Errorf("rights summary: %w", err)
	}
	return &out, nil
}
