package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
)

// baseLegalPrompts are the pre-written assertive responses the emergency
// advisor offers the user, per language. Arabic entries use Tunisian dialect.
var baseLegalPrompts = map[string][]string{
	domain.LangEnglish: {
		"I need to verify this information with official sources before proceeding.",
		"I am not authorized to share that information over the phone/message.",
		"I will consult with a legal advisor before taking any action.",
		"Please provide official documentation that I can verify independently.",
		"I do not make financial decisions under pressure.",
		"This request may be inconsistent with Tunisian law. I need to verify its legality.",
		"I will report any suspicious activity to the relevant authorities.",
	},
	domain.LangFrench: {
		"Je dois vérifier ces informations auprès de sources officielles avant de continuer.",
		"Je ne suis pas autorisé(e) à partager ces informations par téléphone/message.",
		"Je consulterai un conseiller juridique avant de prendre toute mesure.",
		"Veuillez fournir une documentation officielle que je peux vérifier indépendamment.",
		"Je ne prends pas de décisions financières sous pression.",
		"Cette demande pourrait être contraire à la loi tunisienne. Je dois vérifier sa légalité.",
		"Je signalerai toute activité suspecte aux autorités compétentes.",
	},
	domain.LangArabic: {
		"نحتاج نثبت من المعلومات هذي من مصادر رسمية قبل ما نعمل أي حاجة.",
		"مانيش مسموحلي باش نبارطاجي المعلومات هاذي بالتليفون/ميساج.",
		"بش نستشير مستشار قانوني قبل ما نعمل أي خطوة.",
		"يرجى تقديم وثائق رسمية نجم نثبت منها وحدي.",
		"ما ناخذش قرارات مالية تحت الضغط.",
		"الطلب هذا يمكن يكون مخالف للقانون التونسي. لازمني نثبت من شرعيته.",
		"بش نبلّغ السلطات المعنية على أي نشاط مشبوه.",
	},
}

func legalPromptsFor(lang string) []string {
	if prompts, ok := baseLegalPrompts[lang]; ok {
		return prompts
	}
	return baseLegalPrompts[domain.LangEnglish]
}

// EmergencyUseCase produces immediate guidance during an active scam
// situation. Degrades to canned locale-aware copy when generation fails:
// a user mid-scam must always get an answer.
type EmergencyUseCase struct {
	generator ports.StructuredGenerator
	localizer ports.Localizer
	logger    *slog.Logger
}

func NewEmergencyUseCase(generator ports.StructuredGenerator, localizer ports.Localizer, logger *slog.Logger) *EmergencyUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmergencyUseCase{
		generator: generator,
		localizer: localizer,
		logger:    logger,
	}
}

func (uc *EmergencyUseCase) Advise(ctx context.Context, req domain.EmergencyRequest) (*domain.EmergencyAdvice, error) {
	if req.SituationDescription == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "emergency advise", errors.New("empty situation description"))
	}

	lang := domain.NormalizeLanguage(req.Language)
	prompts := legalPromptsFor(lang)

	var out domain.EmergencyAdvice
	err := uc.generator.GenerateStructured(ctx, buildEmergencyPrompt(req, prompts), &out)
	if err != nil || out.Advice == "" {
		if err != nil {
			uc.logger.Warn("emergency_generation_failed", "error", err)
		}
		return uc.fallback(lang, prompts), nil
	}
	return &out, nil
}

func (uc *EmergencyUseCase) fallback(lang string, prompts []string) *domain.EmergencyAdvice {
	return &domain.EmergencyAdvice{
		Advice:          uc.localizer.Resolve("emergency.fallback_advice", lang, nil),
		RelevantPrompts: prompts[:2],
		ImmediateActions: []string{
			uc.localizer.Resolve("emergency.fallback_action_no_money", lang, nil),
			uc.localizer.Resolve("emergency.fallback_action_end_call", lang, nil),
		},
	}
}
