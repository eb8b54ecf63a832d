package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/infrastructure/i18n"
)

func testLocalizer() *i18n.Catalog {
	return i18n.FromTables("en", map[string]map[string]any{
		"en": {
			"customs": map[string]any{
				"fallback_message": "Could not retrieve information for this procedure.",
			},
			"emergency": map[string]any{
				"fallback_advice":          "Stay calm and do not send any money or personal information. Try to safely end the call or chat.",
				"fallback_action_no_money": "Do not send any money.",
				"fallback_action_end_call": "End the call immediately.",
			},
			"debunk": map[string]any{
				"fallback_explanation": "The assistant was unable to analyze the provided news content.",
				"inconclusive":         "Analysis inconclusive.",
			},
		},
		"fr": {
			"customs": map[string]any{
				"fallback_message": "Impossible de récupérer les informations pour cette procédure.",
			},
		},
	})
}

type linksFake struct {
	result domain.ProcedureLinks
	err    error
}

func (f *linksFake) FindLinks(context.Context, string, string) (domain.ProcedureLinks, error) {
	return f.result, f.err
}

type searcherFake struct {
	results []domain.SearchResult
	err     error
}

func (f *searcherFake) Search(context.Context, string) ([]domain.SearchResult, error) {
	return f.results, f.err
}

func TestMessageAnalysisRejectsUnknownSource(t *testing.T) {
	uc := NewMessageAnalysisUseCase(&generatorFake{})

	_, err := uc.Analyze(context.Background(), domain.MessageAnalysisRequest{Message: "hi", Source: "EMAIL"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMessageAnalysisPropagatesGenerationError(t *testing.T) {
	gen := &generatorFake{err: domain.WrapError(domain.ErrGenerationFailed, "generate", errors.New("down"))}
	uc := NewMessageAnalysisUseCase(gen)

	_, err := uc.Analyze(context.Background(), domain.MessageAnalysisRequest{
		Message: "you won a prize, send fees",
		Source:  domain.MessageSourceWhatsApp,
	})
	if !domain.IsKind(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestMessageAnalysisIncludesSourceInPrompt(t *testing.T) {
	gen := &generatorFake{response: `{"isScam":true,"scamType":"advance fee","confidence":0.9,"explanation":"classic"}`}
	uc := NewMessageAnalysisUseCase(gen)

	got, err := uc.Analyze(context.Background(), domain.MessageAnalysisRequest{
		Message: "urgent transfer needed",
		Source:  domain.MessageSourceSMS,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !got.IsScam || got.ScamType != "advance fee" {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if !strings.Contains(gen.prompts[0], "Message Source: SMS") {
		t.Fatalf("prompt missing source:\n%s", gen.prompts[0])
	}
}

func TestFraudCheckRequiresDataURI(t *testing.T) {
	uc := NewFraudCheckUseCase(&generatorFake{})

	_, err := uc.Check(context.Background(), domain.FraudCheckRequest{})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFraudCheckPassesMediaToGenerator(t *testing.T) {
	gen := &generatorFake{response: `{"isFraudulent":true,"confidence":0.8,"reason":"forged seal"}`}
	uc := NewFraudCheckUseCase(gen)

	got, err := uc.Check(context.Background(), domain.FraudCheckRequest{
		FileDataURI: "data:image/png;base64,aGVsbG8=",
		Description: "court order",
	})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !got.IsFraudulent || got.Reason != "forged seal" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(gen.media) != 1 || gen.media[0] != "data:image/png;base64,aGVsbG8=" {
		t.Fatalf("expected media to reach generator, got %v", gen.media)
	}
	if !strings.Contains(gen.prompts[0], "Description: court order") {
		t.Fatalf("prompt missing description")
	}
}

func TestAudioCheckPropagatesGenerationError(t *testing.T) {
	gen := &generatorFake{err: domain.WrapError(domain.ErrGenerationFailed, "generate", errors.New("down"))}
	uc := NewAudioCheckUseCase(gen)

	_, err := uc.Check(context.Background(), domain.AudioCheckRequest{AudioDataURI: "data:audio/mpeg;base64,aGk="})
	if !domain.IsKind(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestDebunkFallsBackOnGenerationFailure(t *testing.T) {
	gen := &generatorFake{err: errors.New("model down")}
	uc := NewDebunkUseCase(gen, &searcherFake{}, testLocalizer(), nil)

	got, err := uc.Debunk(context.Background(), domain.DebunkRequest{NewsContent: "the moon is gone"})
	if err != nil {
		t.Fatalf("Debunk() must not fail, got %v", err)
	}
	if got.IsMisinformation {
		t.Fatalf("fallback must not accuse content")
	}
	if got.TrustedSources == nil || len(got.TrustedSources) != 0 {
		t.Fatalf("fallback trustedSources must be empty non-nil slice")
	}
	if !strings.Contains(got.Explanation, "unable to analyze") {
		t.Fatalf("unexpected fallback explanation: %s", got.Explanation)
	}
}

func TestDebunkSurvivesSearchFailure(t *testing.T) {
	gen := &generatorFake{response: `{"isMisinformation":true,"explanation":"no corroboration","trustedSources":["https://www.tap.info.tn/latest-news"]}`}
	uc := NewDebunkUseCase(gen, &searcherFake{err: errors.New("search down")}, testLocalizer(), nil)

	got, err := uc.Debunk(context.Background(), domain.DebunkRequest{NewsContent: "claim"})
	if err != nil {
		t.Fatalf("Debunk() error = %v", err)
	}
	if !got.IsMisinformation {
		t.Fatalf("expected generation result despite search failure")
	}
}

func TestDebunkEmbedsSearchResultsInPrompt(t *testing.T) {
	gen := &generatorFake{response: `{"isMisinformation":false,"explanation":"supported","trustedSources":[]}`}
	searcher := &searcherFake{results: []domain.SearchResult{
		{Title: "Ministry of Health Tunisia", Link: "https://www.santetunisie.tn/advisories", Snippet: "guidelines"},
	}}
	uc := NewDebunkUseCase(gen, searcher, testLocalizer(), nil)

	if _, err := uc.Debunk(context.Background(), domain.DebunkRequest{NewsContent: "health claim"}); err != nil {
		t.Fatalf("Debunk() error = %v", err)
	}
	if !strings.Contains(gen.prompts[0], "https://www.santetunisie.tn/advisories") {
		t.Fatalf("prompt missing search result link:\n%s", gen.prompts[0])
	}
}

func TestEmergencyFallsBackWithLocalizedCopy(t *testing.T) {
	gen := &generatorFake{err: errors.New("model down")}
	uc := NewEmergencyUseCase(gen, testLocalizer(), nil)

	got, err := uc.Advise(context.Background(), domain.EmergencyRequest{
		SituationDescription: "caller demands money now",
		Language:             "en",
	})
	if err != nil {
		t.Fatalf("Advise() must not fail, got %v", err)
	}
	if got.Advice == "" {
		t.Fatalf("fallback advice must not be empty")
	}
	if len(got.RelevantPrompts) != 2 {
		t.Fatalf("expected 2 fallback prompts, got %d", len(got.RelevantPrompts))
	}
	if len(got.ImmediateActions) != 2 {
		t.Fatalf("expected 2 fallback actions, got %d", len(got.ImmediateActions))
	}
}

func TestEmergencyUsesArabicPromptsForArabic(t *testing.T) {
	gen := &generatorFake{response: `{"advice":"اهدأ","relevantPrompts":["ما ناخذش قرارات مالية تحت الضغط."],"immediateActions":["أنهِ الاتصال فورًا."]}`}
	uc := NewEmergencyUseCase(gen, testLocalizer(), nil)

	if _, err := uc.Advise(context.Background(), domain.EmergencyRequest{
		SituationDescription: "تهديد",
		Language:             "ar",
	}); err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	if !strings.Contains(gen.prompts[0], baseLegalPrompts[domain.LangArabic][0]) {
		t.Fatalf("prompt missing Arabic canned responses")
	}
}

func TestEmergencyUnknownLanguageDefaultsToEnglish(t *testing.T) {
	gen := &generatorFake{err: errors.New("down")}
	uc := NewEmergencyUseCase(gen, testLocalizer(), nil)

	got, err := uc.Advise(context.Background(), domain.EmergencyRequest{
		SituationDescription: "threat",
		Language:             "de",
	})
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	if got.RelevantPrompts[0] != baseLegalPrompts[domain.LangEnglish][0] {
		t.Fatalf("expected English prompts for unknown language")
	}
}

func TestCustomsFallsBackLocalized(t *testing.T) {
	gen := &generatorFake{err: errors.New("model down")}
	uc := NewCustomsHelpUseCase(gen, &linksFake{}, testLocalizer(), nil)

	got, err := uc.Help(context.Background(), domain.CustomsHelpRequest{Procedure: "passport renewal", Language: "fr"})
	if err != nil {
		t.Fatalf("Help() must not fail, got %v", err)
	}
	if len(got.Checklist) != 1 || !strings.Contains(got.Checklist[0], "Impossible") {
		t.Fatalf("expected French fallback checklist, got %+v", got.Checklist)
	}
	if got.OfficialLinks == nil {
		t.Fatalf("officialLinks must never be nil")
	}
}

func TestCustomsBackfillsLinksAndToolMessage(t *testing.T) {
	gen := &generatorFake{response: `{"checklist":["step 1"],"officialLinks":[]}`}
	links := &linksFake{result: domain.ProcedureLinks{
		Links:   []string{"https://www.interieur.gov.tn/procedures/passeports"},
		Message: "",
	}}
	uc := NewCustomsHelpUseCase(gen, links, testLocalizer(), nil)

	got, err := uc.Help(context.Background(), domain.CustomsHelpRequest{Procedure: "passport renewal", Language: "en"})
	if err != nil {
		t.Fatalf("Help() error = %v", err)
	}
	if len(got.OfficialLinks) != 1 {
		t.Fatalf("expected directory links backfilled, got %+v", got.OfficialLinks)
	}
}

func TestRightsSummaryDefaultsCountryAndLanguage(t *testing.T) {
	gen := &generatorFake{response: `{"summary":"your rights"}`}
	uc := NewRightsSummaryUseCase(gen)

	got, err := uc.Summarize(context.Background(), domain.RightsSummaryRequest{Topic: "data protection"})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got.Summary != "your rights" {
		t.Fatalf("unexpected summary %q", got.Summary)
	}

	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "in Tunisia") {
		t.Fatalf("prompt missing default country:\n%s", prompt)
	}
	if !strings.Contains(prompt, "language: en") {
		t.Fatalf("prompt missing default language:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Organic Act No. 2004-63") {
		t.Fatalf("prompt missing data protection knowledge")
	}
}

func TestRightsSummaryPropagatesGenerationError(t *testing.T) {
	gen := &generatorFake{err: domain.WrapError(domain.ErrGenerationFailed, "generate", errors.New("down"))}
	uc := NewRightsSummaryUseCase(gen)

	_, err := uc.Summarize(context.Background(), domain.RightsSummaryRequest{Topic: "housing"})
	if !domain.IsKind(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}
