package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/droitbot/droitbot-server/internal/core/domain"
)

type embedderFake struct {
	queries   []string
	vector    []float32
	err       error
	batchErr  error
	batchSize int
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	size := f.batchSize
	if size == 0 {
		size = len(texts)
	}
	out := make([][]float32, size)
	for i := range out {
		out[i] = []float32{0.1}
	}
	return out, nil
}

func (f *embedderFake) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	if f.vector == nil {
		return []float32{0.1, 0.2}, nil
	}
	return f.vector, nil
}

type vectorStoreFake struct {
	ensured     []string
	upserted    [][]domain.VectorPoint
	searchLimit int
	hits        []domain.SearchHit
	ensureErr   error
	upsertErr   error
	searchErr   error
}

func (f *vectorStoreFake) EnsureCollection(_ context.Context, name string) error {
	f.ensured = append(f.ensured, name)
	return f.ensureErr
}

func (f *vectorStoreFake) Upsert(_ context.Context, _ string, points []domain.VectorPoint) error {
	f.upserted = append(f.upserted, points)
	return f.upsertErr
}

func (f *vectorStoreFake) Search(_ context.Context, _ string, _ []float32, limit int) ([]domain.SearchHit, error) {
	f.searchLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func TestRetrieveEmptyQueryShortCircuits(t *testing.T) {
	embedder := &embedderFake{}
	store := &vectorStoreFake{}
	retriever := NewDocumentRetriever(embedder, store, nil)

	got := retriever.Retrieve(context.Background(), "legal_documents", "   ", 3)
	if !got.Empty() {
		t.Fatalf("expected empty context for blank query")
	}
	if len(embedder.queries) != 0 || len(store.ensured) != 0 {
		t.Fatalf("expected no backend calls for blank query")
	}
}

func TestRetrieveSwallowsEmbedError(t *testing.T) {
	retriever := NewDocumentRetriever(
		&embedderFake{err: errors.New("embed down")},
		&vectorStoreFake{},
		nil,
	)

	got := retriever.Retrieve(context.Background(), "legal_documents", "question", 3)
	if !got.Empty() {
		t.Fatalf("expected empty context when embedding fails")
	}
}

func TestRetrieveSwallowsSearchError(t *testing.T) {
	retriever := NewDocumentRetriever(
		&embedderFake{},
		&vectorStoreFake{searchErr: errors.New("qdrant down")},
		nil,
	)

	got := retriever.Retrieve(context.Background(), "legal_documents", "question", 3)
	if !got.Empty() {
		t.Fatalf("expected empty context when search fails")
	}
}

func TestRetrieveDefaultLimit(t *testing.T) {
	store := &vectorStoreFake{}
	retriever := NewDocumentRetriever(&embedderFake{}, store, nil)

	retriever.Retrieve(context.Background(), "legal_documents", "question", 0)
	if store.searchLimit != 3 {
		t.Fatalf("expected default limit=3, got %d", store.searchLimit)
	}
}

func TestRetrieveAssemblesNumberedSourceBlocks(t *testing.T) {
	store := &vectorStoreFake{
		hits: []domain.SearchHit{
			{ID: "a", Score: 0.91, Payload: map[string]any{"text": "first chunk", "source": "code.pdf"}},
			{ID: "b", Score: 0.42, Payload: map[string]any{"text": "second chunk"}},
		},
	}
	retriever := NewDocumentRetriever(&embedderFake{}, store, nil)

	got := retriever.Retrieve(context.Background(), "legal_documents", "question", 3)

	if len(got.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(got.Sources))
	}
	if got.Sources[0].Source != "code.pdf" || got.Sources[0].Score != 0.91 {
		t.Fatalf("unexpected first source: %+v", got.Sources[0])
	}
	if got.Sources[1].Source != "" {
		t.Fatalf("expected empty source on second hit")
	}

	wantFirst := "Source 1 (Similarity: 0.91) [code.pdf]:\nfirst chunk"
	wantSecond := "Source 2 (Similarity: 0.42):\nsecond chunk"
	if !strings.Contains(got.AssembledText, wantFirst) {
		t.Fatalf("assembled text missing first block:\n%s", got.AssembledText)
	}
	if !strings.Contains(got.AssembledText, wantSecond) {
		t.Fatalf("assembled text missing second block:\n%s", got.AssembledText)
	}
	if !strings.Contains(got.AssembledText, "\n\n---\n\n") {
		t.Fatalf("expected block separator in assembled text")
	}
}

func TestRetrieveNoHitsYieldsEmptyContext(t *testing.T) {
	retriever := NewDocumentRetriever(&embedderFake{}, &vectorStoreFake{}, nil)

	got := retriever.Retrieve(context.Background(), "legal_documents", "question", 3)
	if !got.Empty() {
		t.Fatalf("expected empty context with no hits")
	}
}
