package domain

import "strings"

// Language codes supported by the language-parameterized flows.
const (
	LangEnglish = "en"
	LangFrench  = "fr"
	LangArabic  = "ar"
)

// NormalizeLanguage falls back to English for unknown or empty codes.
func NormalizeLanguage(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case LangFrench:
		return LangFrench
	case LangArabic:
		return LangArabic
	default:
		return LangEnglish
	}
}

const (
	MessageSourceWhatsApp = "WHATSAPP"
	MessageSourceSMS      = "SMS"
	MessageSourceTelegram = "TELEGRAM"
)

func ValidMessageSource(source string) bool {
	switch source {
	case MessageSourceWhatsApp, MessageSourceSMS, MessageSourceTelegram:
		return true
	}
	return false
}

type MessageAnalysisRequest struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

type MessageAnalysis struct {
	IsScam      bool    `json:"isScam"`
	ScamType    string  `json:"scamType,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	Explanation string  `json:"explanation,omitempty"`
}

type FraudCheckRequest struct {
	FileDataURI string `json:"fileDataUri"`
	Description string `json:"description,omitempty"`
}

type FraudCheckResult struct {
	IsFraudulent bool    `json:"isFraudulent"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}

type AudioCheckRequest struct {
	AudioDataURI string `json:"audioDataUri"`
}

type AudioCheckResult struct {
	IsScam bool   `json:"isScam"`
	Reason string `json:"reason"`
}

type DebunkRequest struct {
	NewsContent string `json:"newsContent"`
}

type DebunkResult struct {
	IsMisinformation bool     `json:"isMisinformation"`
	Explanation      string   `json:"explanation"`
	TrustedSources   []string `json:"trustedSources"`
}

type EmergencyRequest struct {
	SituationDescription string `json:"situationDescription"`
	Language             string `json:"language,omitempty"`
}

type EmergencyAdvice struct {
	Advice           string   `json:"advice"`
	RelevantPrompts  []string `json:"relevantPrompts"`
	ImmediateActions []string `json:"immediateActions"`
}

type CustomsHelpRequest struct {
	Procedure string `json:"procedure"`
	Language  string `json:"language"`
}

type CustomsHelp struct {
	Checklist           []string `json:"checklist"`
	OfficialLinks       []string `json:"officialLinks"`
	CostEstimate        string   `json:"costEstimate,omitempty"`
	TimelineEstimate    string   `json:"timelineEstimate,omitempty"`
	ToolResponseMessage string   `json:"toolResponseMessage,omitempty"`
}

type RightsSummaryRequest struct {
	Topic    string `json:"topic"`
	Country  string `json:"country,omitempty"`
	Language string `json:"language,omitempty"`
}

type RightsSummary struct {
	Summary string `json:"summary"`
}

// SearchResult is one entry returned by the injected web-search capability.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// ProcedureLinks is the result of the injected official-links directory.
type ProcedureLinks struct {
	Links   []string `json:"links"`
	Message string   `json:"message,omitempty"`
}

type SpeechRequest struct {
	Text            string  `json:"text"`
	VoiceID         string  `json:"voiceId,omitempty"`
	ModelID         string  `json:"modelId,omitempty"`
	Stability       float64 `json:"stability,omitempty"`
	SimilarityBoost float64 `json:"similarityBoost,omitempty"`
}

type SpeechResult struct {
	AudioDataURI string `json:"audioDataUri"`
}
