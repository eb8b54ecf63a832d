// Package httpadapter exposes the assistant, protection, and knowledge-base
// flows over HTTP.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
	"github.com/droitbot/droitbot-server/internal/observability/metrics"
)

const serviceName = "droitbot-api"

type Router struct {
	assistant ports.LegalAssistant
	messages  ports.MessageAnalyzer
	fraud     ports.FraudChecker
	audio     ports.AudioChecker
	debunker  ports.Debunker
	emergency ports.EmergencyAdvisor
	customs   ports.CustomsHelper
	rights    ports.RightsSummarizer
	speech    ports.SpeechSynthesizer
	ingestor  ports.KnowledgeIngestor
	documents ports.DocumentReader

	metrics *metrics.HTTPServerMetrics

	rateLimitRPS   float64
	rateLimitBurst int
	maxInFlight    int
}

type RouterConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
}

func NewRouter(
	assistant ports.LegalAssistant,
	messages ports.MessageAnalyzer,
	fraud ports.FraudChecker,
	audio ports.AudioChecker,
	debunker ports.Debunker,
	emergency ports.EmergencyAdvisor,
	customs ports.CustomsHelper,
	rights ports.RightsSummarizer,
	speech ports.SpeechSynthesizer,
	ingestor ports.KnowledgeIngestor,
	documents ports.DocumentReader,
	m *metrics.HTTPServerMetrics,
	cfg RouterConfig,
) *Router {
	return &Router{
		assistant:      assistant,
		messages:       messages,
		fraud:          fraud,
		audio:          audio,
		debunker:       debunker,
		emergency:      emergency,
		customs:        customs,
		rights:         rights,
		speech:         speech,
		ingestor:       ingestor,
		documents:      documents,
		metrics:        m,
		rateLimitRPS:   cfg.RateLimitRPS,
		rateLimitBurst: cfg.RateLimitBurst,
		maxInFlight:    cfg.MaxInFlight,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("/v1/assistant/legal", rt.legalAssistant)
	mux.HandleFunc("/v1/protection/message", rt.analyzeMessage)
	mux.HandleFunc("/v1/protection/document", rt.checkFraud)
	mux.HandleFunc("/v1/protection/audio", rt.checkAudio)
	mux.HandleFunc("/v1/misinformation/check", rt.debunk)
	mux.HandleFunc("/v1/emergency/advise", rt.advise)
	mux.HandleFunc("/v1/customs/help", rt.customsHelp)
	mux.HandleFunc("/v1/legal/rights", rt.rightsSummary)
	mux.HandleFunc("/v1/speech", rt.synthesizeSpeech)
	mux.HandleFunc("/v1/knowledge/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/knowledge/documents/", rt.getDocumentByID)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxInFlight, 5*time.Second)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) legalAssistant(w http.ResponseWriter, r *http.Request) {
	var req domain.AssistantRequest
	if !decodePost(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	start := time.Now()
	answer, err := rt.assistant.Answer(r.Context(), req)
	if err != nil {
		rt.recordFlow("legal_assistant", "error", start)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	rt.recordFlow("legal_assistant", "success", start)
	if rt.metrics != nil {
		rt.metrics.RecordRetrieval(serviceName, len(answer.RetrievedContextSources))
	}
	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) analyzeMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.MessageAnalysisRequest
	if !decodePost(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := rt.messages.Analyze(r.Context(), req)
	if err != nil {
		rt.recordFlow("message_analysis", "error", start)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	rt.recordFlow("message_analysis", "success", start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) checkFraud(w http.ResponseWriter, r *http.Request) {
	var req domain.FraudCheckRequest
	if !decodePost(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := rt.fraud.Check(r.Context(), req)
	if err != nil {
		rt.recordFlow("fraud_check", "error", start)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	rt.recordFlow("fraud_check", "success", start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) checkAudio(w http.ResponseWriter, r *http.Request) {
	var req domain.AudioCheckRequest
	if !decodePost(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := rt.audio.Check(r.Context(), req)
	if err != nil {
		rt.recordFlow("audio_check", "error", start)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	rt.recordFlow("audio_check", "success", start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) debunk(w http.ResponseWriter, r *http.Request) {
	var req domain.DebunkRequest
	if !decodePost(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := rt.debunker.Debunk(r.Context(), req)
	if err != nil {
		rt.recordFlow("debunk", "error", start)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	rt.recordFlow("debunk", "success", start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) advise(w http.ResponseWriter, r *http.Request) {
	var req domain.EmergencyRequest
	if !decodePost(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := rt.emergency.Advise(r.Context(), req)
	if err != nil {
		rt.recordFlow("emergency", "error", start)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	rt.recordFlow("emergency", "success", start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) customsHelp(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomsHelpRequest
	if !decodePost(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := rt.customs.Help(r.Context(), req)
	if err != nil {
		rt.recordFlow("customs", "error", start)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	rt.recordFlow("customs", "success", start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) rightsSummary(w http.ResponseWriter, r *http.Request) {
	var req domain.RightsSummaryRequest
	if !decodePost(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := rt.rights.Summarize(r.Context(), req)
	if err != nil {
		rt.recordFlow("rights_summary", "error", start)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	rt.recordFlow("rights_summary", "success", start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) synthesizeSpeech(w http.ResponseWriter, r *http.Request) {
	var req domain.SpeechRequest
	if !decodePost(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := rt.speech.Synthesize(r.Context(), req)
	if err != nil {
		rt.recordFlow("speech", "error", start)
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	rt.recordFlow("speech", "success", start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		r.FormValue("source"),
		file,
	)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/knowledge/documents/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	doc, err := rt.documents.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) recordFlow(flow, outcome string, start time.Time) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordFlow(serviceName, flow, outcome, time.Since(start))
}

func decodePost(w http.ResponseWriter, r *http.Request, out any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
