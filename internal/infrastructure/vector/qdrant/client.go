package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/infrastructure/resilience"
)

// Client is a REST adapter for a Qdrant deployment. Collections hold
// fixed-dimension cosine-distance vectors; the dimension must match the
// embedding model's output size, which is a deployment concern.
type Client struct {
	baseURL    string
	apiKey     string
	vectorSize int
	httpClient *http.Client
	runner     *resilience.Runner
}

func New(baseURL, apiKey string, vectorSize int, runner *resilience.Runner) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		vectorSize: vectorSize,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		runner:     runner,
	}
}

// EnsureCollection lists existing collections and creates the named one only
// when absent. Concurrent creators may race; a conflict from the backend is
// treated as success.
func (c *Client) EnsureCollection(ctx context.Context, name string) error {
	err := c.do(ctx, "ensure_collection", func(callCtx context.Context) error {
		exists, err := c.collectionExists(callCtx, name)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		return c.createCollection(callCtx, name)
	})
	if err != nil {
		return domain.WrapError(domain.ErrStoreUnavailable, "ensure collection", err)
	}
	return nil
}

func (c *Client) collectionExists(ctx context.Context, name string) (bool, error) {
	var listResp struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, "/collections", &listResp, "list collections"); err != nil {
		return false, err
	}
	for _, collection := range listResp.Result.Collections {
		if collection.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) createCollection(ctx context.Context, name string) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     c.vectorSize,
			"distance": "Cosine",
		},
	}

	resp, err := c.send(ctx, http.MethodPut, "/collections/"+name, body, "create collection")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Another process may have created it between list and create.
	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	if resp.StatusCode >= 300 {
		return statusError("create collection", resp)
	}
	return nil
}

func (c *Client) Upsert(ctx context.Context, collection string, points []domain.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}
	upsert := make([]point, 0, len(points))
	for _, p := range points {
		upsert = append(upsert, point{ID: p.ID, Vector: p.Vector, Payload: p.Payload})
	}

	err := c.do(ctx, "upsert", func(callCtx context.Context) error {
		path := fmt.Sprintf("/collections/%s/points?wait=true", collection)
		resp, err := c.send(callCtx, http.MethodPut, path, map[string]any{"points": upsert}, "upsert")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return statusError("upsert", resp)
		}
		return nil
	})
	if err != nil {
		return domain.WrapError(domain.ErrStoreUnavailable, "upsert points", err)
	}
	return nil
}

// Search returns the limit nearest points by cosine similarity, descending by
// score, payload included. An empty collection yields an empty slice.
func (c *Client) Search(ctx context.Context, collection string, queryVector []float32, limit int) ([]domain.SearchHit, error) {
	body := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}

	var searchResp struct {
		Result []struct {
			ID      json.RawMessage `json:"id"`
			Score   float64         `json:"score"`
			Payload map[string]any  `json:"payload"`
		} `json:"result"`
	}
	err := c.do(ctx, "search", func(callCtx context.Context) error {
		path := fmt.Sprintf("/collections/%s/points/search", collection)
		resp, err := c.send(callCtx, http.MethodPost, path, body, "search")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return statusError("search", resp)
		}
		if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
			return fmt.Errorf("decode search response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "search points", err)
	}

	out := make([]domain.SearchHit, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		out = append(out, domain.SearchHit{
			ID:      strings.Trim(string(r.ID), `"`),
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.runner == nil {
		return fn(ctx)
	}
	return c.runner.Do(ctx, "qdrant."+operation, classifyQdrantError, fn)
}

func (c *Client) send(ctx context.Context, method, path string, payload any, operation string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s body: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant %s request: %w", operation, err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any, operation string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(operation, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func statusError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Errorf("qdrant %s status: %s: %s", operation, resp.Status, msg)
	}
	return fmt.Errorf("qdrant %s status: %s", operation, resp.Status)
}

func StringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
