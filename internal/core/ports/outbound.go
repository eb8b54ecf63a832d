package ports

import (
	"context"
	"io"

	"github.com/droitbot/droitbot-server/internal/core/domain"
)

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore is the collection-oriented nearest-neighbor backend.
type VectorStore interface {
	// EnsureCollection lists existing collections and creates the named one
	// only if absent. Idempotent; concurrent creators are tolerated.
	EnsureCollection(ctx context.Context, name string) error
	Upsert(ctx context.Context, collection string, points []domain.VectorPoint) error
	// Search returns at most limit hits by cosine similarity, descending by
	// score, payload included. Empty collection yields an empty slice.
	Search(ctx context.Context, collection string, queryVector []float32, limit int) ([]domain.SearchHit, error)
}

// ContextRetriever composes Embedder and VectorStore into best-effort
// retrieval. Never returns an error: failures degrade to an empty context.
type ContextRetriever interface {
	Retrieve(ctx context.Context, collection, query string, limit int) domain.RetrievedContext
}

// StructuredGenerator executes a prompt against the output schema reflected
// from out's Go type and decodes the model response into out.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt string, out any) error
	// GenerateStructuredWithMedia attaches one base64 media attachment
	// (image, PDF page render, or audio) supplied as a data URI.
	GenerateStructuredWithMedia(ctx context.Context, prompt, mediaDataURI string, out any) error
}

// LinkDirectory resolves official government links for a procedure.
type LinkDirectory interface {
	FindLinks(ctx context.Context, procedure, language string) (domain.ProcedureLinks, error)
}

// WebSearcher is the injected search capability used by the debunker.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// SpeechSynthesizer converts text into an audio data URI.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResult, error)
}

// Localizer resolves canned copy by key and locale, falling back to the
// default locale on missing entries.
type Localizer interface {
	Resolve(key, locale string, substitutions map[string]string) string
}

// DocumentRepository persists knowledge-document registry state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.KnowledgeDocument) error
	GetByID(ctx context.Context, id string) (*domain.KnowledgeDocument, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetChunkCount(ctx context.Context, id string, chunks int) error
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes knowledge ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.KnowledgeDocument) (string, error)
}

// Chunker splits extracted text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}
