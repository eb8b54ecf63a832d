package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
)

// DebunkUseCase cross-checks a news claim against the injected search
// capability. Generation failures degrade to a deterministic fallback
// instead of erroring: a fact-check that crashes teaches the user nothing.
type DebunkUseCase struct {
	generator ports.StructuredGenerator
	searcher  ports.WebSearcher
	localizer ports.Localizer
	logger    *slog.Logger
}

func NewDebunkUseCase(
	generator ports.StructuredGenerator,
	searcher ports.WebSearcher,
	localizer ports.Localizer,
	logger *slog.Logger,
) *DebunkUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebunkUseCase{
		generator: generator,
		searcher:  searcher,
		localizer: localizer,
		logger:    logger,
	}
}

func (uc *DebunkUseCase) Debunk(ctx context.Context, req domain.DebunkRequest) (*domain.DebunkResult, error) {
	if req.NewsContent == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "debunk", errors.New("empty news content"))
	}

	results, err := uc.searcher.Search(ctx, req.NewsContent)
	if err != nil {
		uc.logger.Warn("debunk_search_failed", "error", err)
		results = nil
	}

	var out domain.DebunkResult
	if err := uc.generator.GenerateStructured(ctx, buildDebunkPrompt(req.NewsContent, results), &out); err != nil {
		uc.logger.Warn("debunk_generation_failed", "error", err)
		return uc.fallback(), nil
	}

	if out.Explanation == "" {
		out.Explanation = uc.localizer.Resolve("debunk.inconclusive", "", nil)
	}
	if out.TrustedSources == nil {
		out.TrustedSources = []string{}
	}
	return &out, nil
}

func (uc *DebunkUseCase) fallback() *domain.DebunkResult {
	return &domain.DebunkResult{
		IsMisinformation: false,
		Explanation:      uc.localizer.Resolve("debunk.fallback_explanation", "", nil),
		TrustedSources:   []string{},
	}
}
