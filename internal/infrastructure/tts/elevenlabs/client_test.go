package elevenlabs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/droitbot/droitbot-server/internal/core/domain"
)

func TestSynthesizeRequiresAPIKey(t *testing.T) {
	client := NewWithBaseURL("http://127.0.0.1:1", "", "voice", "model")
	_, err := client.Synthesize(context.Background(), domain.SpeechRequest{Text: "hello"})
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestSynthesizeRequiresText(t *testing.T) {
	client := NewWithBaseURL("http://127.0.0.1:1", "key", "voice", "model")
	_, err := client.Synthesize(context.Background(), domain.SpeechRequest{Text: "   "})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSynthesizeReturnsAudioDataURI(t *testing.T) {
	audio := []byte("mp3-bytes")
	var gotPath, gotKey string
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	client := NewWithBaseURL(server.URL, "secret", "default-voice", "eleven_multilingual_v2")
	result, err := client.Synthesize(context.Background(), domain.SpeechRequest{Text: "bonjour"})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if gotPath != "/v1/text-to-speech/default-voice" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("expected xi-api-key header, got %q", gotKey)
	}
	if body["model_id"] != "eleven_multilingual_v2" || body["text"] != "bonjour" {
		t.Fatalf("unexpected request body: %v", body)
	}
	settings := body["voice_settings"].(map[string]any)
	if settings["stability"].(float64) != 0.5 || settings["similarity_boost"].(float64) != 0.75 {
		t.Fatalf("expected default voice settings, got %v", settings)
	}

	want := "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio)
	if result.AudioDataURI != want {
		t.Fatalf("unexpected data URI %q", result.AudioDataURI)
	}
}

func TestSynthesizeOverridesVoiceAndSettings(t *testing.T) {
	var gotPath string
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte("audio"))
	}))
	defer server.Close()

	client := NewWithBaseURL(server.URL, "secret", "default-voice", "default-model")
	_, err := client.Synthesize(context.Background(), domain.SpeechRequest{
		Text:            "text",
		VoiceID:         "custom-voice",
		ModelID:         "custom-model",
		Stability:       0.9,
		SimilarityBoost: 0.2,
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if gotPath != "/v1/text-to-speech/custom-voice" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if body["model_id"] != "custom-model" {
		t.Fatalf("expected model override, got %v", body["model_id"])
	}
	settings := body["voice_settings"].(map[string]any)
	if settings["stability"].(float64) != 0.9 || settings["similarity_boost"].(float64) != 0.2 {
		t.Fatalf("expected overridden settings, got %v", settings)
	}
}

func TestSynthesizeUpstreamErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewWithBaseURL(server.URL, "secret", "voice", "model")
	_, err := client.Synthesize(context.Background(), domain.SpeechRequest{Text: "text"})
	if err == nil {
		t.Fatalf("expected error on upstream failure")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error should carry upstream detail, got %v", err)
	}
}
