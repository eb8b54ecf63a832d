package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// KnowledgeDocument is a registry row for a source document ingested into the
// legal knowledge base. The indexed chunks themselves live in the vector
// store; this row only tracks processing state.
type KnowledgeDocument struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Source      string         `json:"source,omitempty"`
	ChunkCount  int            `json:"chunk_count,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// VectorPoint is one upsert unit for the vector store: an opaque id, the
// embedding, and the payload echoed back by search.
type VectorPoint struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// SearchHit is one nearest-neighbor result, descending by cosine score.
type SearchHit struct {
	ID      string
	Score   float64
	Payload map[string]any
}
