package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/droitbot/droitbot-server/internal/core/domain"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Client synthesizes speech through the ElevenLabs REST API. The API key is
// mandatory for this capability: a missing key is a configuration error
// surfaced at call time, not a silent skip.
type Client struct {
	baseURL        string
	apiKey         string
	defaultVoiceID string
	defaultModelID string
	httpClient     *http.Client
}

func New(apiKey, voiceID, modelID string) *Client {
	return &Client{
		baseURL:        defaultBaseURL,
		apiKey:         apiKey,
		defaultVoiceID: voiceID,
		defaultModelID: modelID,
		httpClient:     &http.Client{Timeout: 60 * time.Second},
	}
}

// NewWithBaseURL exists for tests against a local server.
func NewWithBaseURL(baseURL, apiKey, voiceID, modelID string) *Client {
	c := New(apiKey, voiceID, modelID)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) Synthesize(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResult, error) {
	if c.apiKey == "" {
		return nil, domain.WrapError(domain.ErrConfiguration, "synthesize speech", fmt.Errorf("ELEVENLABS_API_KEY is not set"))
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "synthesize speech", fmt.Errorf("text is required"))
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = c.defaultVoiceID
	}
	modelID := req.ModelID
	if modelID == "" {
		modelID = c.defaultModelID
	}
	stability := req.Stability
	if stability <= 0 {
		stability = 0.5
	}
	similarityBoost := req.SimilarityBoost
	if similarityBoost <= 0 {
		similarityBoost = 0.75
	}

	body, err := json.Marshal(map[string]any{
		"text":     req.Text,
		"model_id": modelID,
		"voice_settings": map[string]any{
			"stability":        stability,
			"similarity_boost": similarityBoost,
			"speaker_boost":    true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal speech request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create speech request: %w", err)
	}
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("elevenlabs status: %s: %s", resp.Status, strings.TrimSpace(string(errBody)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio body: %w", err)
	}

	return &domain.SpeechResult{
		AudioDataURI: "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio),
	}, nil
}
