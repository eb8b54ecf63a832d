package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Fatalf("unexpected default api port %q", cfg.APIPort)
	}
	if cfg.LegalDocsCollection != "legal_documents" {
		t.Fatalf("unexpected default collection %q", cfg.LegalDocsCollection)
	}
	if cfg.EmbeddingDimensions != 768 || cfg.RetrievalTopK != 3 {
		t.Fatalf("unexpected retrieval defaults: %+v", cfg)
	}
	if cfg.ChunkSize != 900 || cfg.ChunkOverlap != 150 {
		t.Fatalf("unexpected chunking defaults: %+v", cfg)
	}
	if cfg.APIRateLimitRPS != 20 || cfg.APIRateLimitBurst != 40 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("QDRANT_URL", "http://qdrant.internal:6333")
	t.Setenv("EMBEDDING_DIMENSIONS", "1024")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("DEFAULT_LOCALE", "fr")

	cfg := Load()

	if cfg.APIPort != "9999" {
		t.Fatalf("expected api port override, got %q", cfg.APIPort)
	}
	if cfg.QdrantURL != "http://qdrant.internal:6333" {
		t.Fatalf("expected qdrant url override, got %q", cfg.QdrantURL)
	}
	if cfg.EmbeddingDimensions != 1024 {
		t.Fatalf("expected dimensions override, got %d", cfg.EmbeddingDimensions)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rps override, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.DefaultLocale != "fr" {
		t.Fatalf("expected locale override, got %q", cfg.DefaultLocale)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("EMBEDDING_DIMENSIONS", "not-a-number")
	t.Setenv("API_RATE_LIMIT_RPS", "fast")

	cfg := Load()

	if cfg.EmbeddingDimensions != 768 {
		t.Fatalf("malformed int must fall back to default, got %d", cfg.EmbeddingDimensions)
	}
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("malformed float must fall back to default, got %v", cfg.APIRateLimitRPS)
	}
}
