package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
)

// CustomsHelpUseCase produces a checklist and official links for a
// bureaucratic procedure. Degrades to a localized fallback when generation
// fails.
type CustomsHelpUseCase struct {
	generator ports.StructuredGenerator
	links     ports.LinkDirectory
	localizer ports.Localizer
	logger    *slog.Logger
}

func NewCustomsHelpUseCase(
	generator ports.StructuredGenerator,
	links ports.LinkDirectory,
	localizer ports.Localizer,
	logger *slog.Logger,
) *CustomsHelpUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomsHelpUseCase{
		generator: generator,
		links:     links,
		localizer: localizer,
		logger:    logger,
	}
}

func (uc *CustomsHelpUseCase) Help(ctx context.Context, req domain.CustomsHelpRequest) (*domain.CustomsHelp, error) {
	if req.Procedure == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "customs help", errors.New("empty procedure"))
	}

	lang := domain.NormalizeLanguage(req.Language)

	links, err := uc.links.FindLinks(ctx, req.Procedure, lang)
	if err != nil {
		uc.logger.Warn("customs_link_lookup_failed", "error", err)
		links = domain.ProcedureLinks{}
	}

	var out domain.CustomsHelp
	if err := uc.generator.GenerateStructured(ctx, buildCustomsPrompt(req, links), &out); err != nil {
		uc.logger.Warn("customs_generation_failed", "error", err)
		return uc.fallback(lang), nil
	}

	if out.OfficialLinks == nil {
		out.OfficialLinks = []string{}
	}
	if len(out.OfficialLinks) == 0 && len(links.Links) > 0 {
		out.OfficialLinks = links.Links
	}
	if out.ToolResponseMessage == "" && links.Message != "" {
		out.ToolResponseMessage = links.Message
	}
	return &out, nil
}

func (uc *CustomsHelpUseCase) fallback(lang string) *domain.CustomsHelp {
	msg := uc.localizer.Resolve("customs.fallback_message", lang, nil)
	return &domain.CustomsHelp{
		Checklist:           []string{msg},
		OfficialLinks:       []string{},
		ToolResponseMessage: msg,
	}
}
