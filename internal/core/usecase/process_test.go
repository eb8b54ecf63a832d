package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/droitbot/droitbot-server/internal/core/domain"
)

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.KnowledgeDocument) (string, error) {
	return f.text, f.err
}

type chunkerFake struct {
	chunks []string
}

func (f *chunkerFake) Split(string) []string { return f.chunks }

func TestProcessByIDHappyPath(t *testing.T) {
	repo := &repoFake{doc: &domain.KnowledgeDocument{ID: "doc-1", Filename: "law.txt", StoragePath: "doc-1_law.txt"}}
	store := &vectorStoreFake{}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: "article 1\n\narticle 2"},
		&chunkerFake{chunks: []string{"article 1", "article 2"}},
		&embedderFake{},
		store,
		"legal_documents",
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	if len(repo.statuses) != 2 || repo.statuses[0] != domain.StatusProcessing || repo.statuses[1] != domain.StatusReady {
		t.Fatalf("unexpected status transitions: %v", repo.statuses)
	}
	if repo.chunks["doc-1"] != 2 {
		t.Fatalf("expected chunk count recorded, got %v", repo.chunks)
	}
	if len(store.upserted) != 1 || len(store.upserted[0]) != 2 {
		t.Fatalf("expected 2 points upserted")
	}

	point := store.upserted[0][0]
	if point.Payload["text"] != "article 1" || point.Payload["source"] != "law.txt" || point.Payload["doc_id"] != "doc-1" {
		t.Fatalf("unexpected point payload: %+v", point.Payload)
	}
	if point.ID == "" {
		t.Fatalf("expected generated point id")
	}
}

func TestProcessByIDMarksFailedOnExtractError(t *testing.T) {
	repo := &repoFake{}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{err: errors.New("binary file")},
		&chunkerFake{chunks: []string{"x"}},
		&embedderFake{},
		&vectorStoreFake{},
		"legal_documents",
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
	if repo.statuses[len(repo.statuses)-1] != domain.StatusFailed {
		t.Fatalf("expected final status=failed, got %v", repo.statuses)
	}
	if repo.errors[len(repo.errors)-1] == "" {
		t.Fatalf("expected failure message recorded")
	}
}

func TestProcessByIDRejectsEmptyExtraction(t *testing.T) {
	repo := &repoFake{}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: ""},
		&chunkerFake{chunks: []string{"x"}},
		&embedderFake{},
		&vectorStoreFake{},
		"legal_documents",
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProcessByIDVectorMismatchFails(t *testing.T) {
	repo := &repoFake{}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: "text"},
		&chunkerFake{chunks: []string{"a", "b", "c"}},
		&embedderFake{batchSize: 2},
		&vectorStoreFake{},
		"legal_documents",
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on mismatch, got %v", err)
	}
	if repo.statuses[len(repo.statuses)-1] != domain.StatusFailed {
		t.Fatalf("expected final status=failed")
	}
}

func TestProcessByIDUpsertErrorMarksFailed(t *testing.T) {
	repo := &repoFake{}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: "text"},
		&chunkerFake{chunks: []string{"a"}},
		&embedderFake{},
		&vectorStoreFake{upsertErr: errors.New("qdrant down")},
		"legal_documents",
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
	if repo.statuses[len(repo.statuses)-1] != domain.StatusFailed {
		t.Fatalf("expected final status=failed")
	}
}
