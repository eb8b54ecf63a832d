package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	runner     *resilience.Runner
}

func New(baseURL, genModel, embedModel string, runner *resilience.Runner) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		runner:     runner,
	}
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := e.client.call(ctx, "/api/embed", request, &response, "embed"); err != nil {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed", err)
	}
	if len(response.Embeddings) == 0 {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed", fmt.Errorf("no embeddings returned"))
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed query", fmt.Errorf("empty embedding result"))
	}
	return vectors[0], nil
}

// Generator produces structured output constrained by the JSON schema
// reflected from the destination type.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateStructured(ctx context.Context, prompt string, out any) error {
	return g.generate(ctx, prompt, nil, out)
}

func (g *Generator) GenerateStructuredWithMedia(ctx context.Context, prompt, mediaDataURI string, out any) error {
	payload, err := decodeDataURI(mediaDataURI)
	if err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "decode media", err)
	}
	return g.generate(ctx, prompt, []string{payload}, out)
}

func (g *Generator) generate(ctx context.Context, prompt string, images []string, out any) error {
	schema, err := schemaFor(out)
	if err != nil {
		return domain.WrapError(domain.ErrGenerationFailed, "reflect output schema", err)
	}

	request := map[string]any{
		"model":  g.client.genModel,
		"prompt": prompt,
		"stream": false,
		"format": schema,
	}
	if len(images) > 0 {
		request["images"] = images
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := g.client.call(ctx, "/api/generate", request, &response, "generate"); err != nil {
		return domain.WrapError(domain.ErrGenerationFailed, "generate", err)
	}

	raw := strings.TrimSpace(response.Response)
	if raw == "" {
		// An empty model response is a failure, not an empty-string success.
		return domain.WrapError(domain.ErrGenerationFailed, "generate", fmt.Errorf("empty model response"))
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), out); err != nil {
		return domain.WrapError(domain.ErrGenerationFailed, "decode structured response", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, path string, payload, out any, operation string) error {
	fn := func(callCtx context.Context) error {
		return c.postJSON(callCtx, path, payload, out, operation)
	}
	if c.runner == nil {
		return fn(ctx)
	}
	return c.runner.Do(ctx, "ollama."+operation, classifyOllamaError, fn)
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
