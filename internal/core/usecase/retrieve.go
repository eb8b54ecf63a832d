package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
)

const defaultRetrievalLimit = 3

// DocumentRetriever composes the embedder and vector store into best-effort
// context retrieval. Any failure degrades to an empty context: the assistant
// answers from general knowledge instead of failing the request.
type DocumentRetriever struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
	logger   *slog.Logger
}

func NewDocumentRetriever(embedder ports.Embedder, vectorDB ports.VectorStore, logger *slog.Logger) *DocumentRetriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentRetriever{
		embedder: embedder,
		vectorDB: vectorDB,
		logger:   logger,
	}
}

func (r *DocumentRetriever) Retrieve(ctx context.Context, collection, query string, limit int) domain.RetrievedContext {
	if strings.TrimSpace(query) == "" || collection == "" {
		return domain.RetrievedContext{}
	}
	if limit <= 0 {
		limit = defaultRetrievalLimit
	}

	if err := r.vectorDB.EnsureCollection(ctx, collection); err != nil {
		r.logger.Warn("retrieval_skipped", "stage", "ensure_collection", "error", err)
		return domain.RetrievedContext{}
	}

	queryVector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		r.logger.Warn("retrieval_skipped", "stage", "embed_query", "error", err)
		return domain.RetrievedContext{}
	}

	hits, err := r.vectorDB.Search(ctx, collection, queryVector, limit)
	if err != nil {
		r.logger.Warn("retrieval_skipped", "stage", "search", "error", err)
		return domain.RetrievedContext{}
	}
	if len(hits) == 0 {
		return domain.RetrievedContext{}
	}

	return assembleContext(hits)
}

// assembleContext turns search hits into the numbered source blocks the
// prompt embeds, plus the structured provenance list echoed to the caller.
func assembleContext(hits []domain.SearchHit) domain.RetrievedContext {
	sources := make([]domain.RetrievedSource, 0, len(hits))
	blocks := make([]string, 0, len(hits))

	for i, hit := range hits {
		text := payloadString(hit.Payload, "text")
		source := payloadString(hit.Payload, "source")

		block := fmt.Sprintf("Source %d (Similarity: %.2f)", i+1, hit.Score)
		if source != "" {
			block += fmt.Sprintf(" [%s]", source)
		}
		block += ":\n" + text
		blocks = append(blocks, block)

		sources = append(sources, domain.RetrievedSource{
			Text:   text,
			Source: source,
			Score:  hit.Score,
		})
	}

	return domain.RetrievedContext{
		Sources:       sources,
		AssembledText: strings.Join(blocks, "\n\n---\n\n"),
	}
}

func payloadString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
