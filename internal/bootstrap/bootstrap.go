// Package bootstrap wires configuration, infrastructure, and use cases into
// a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/droitbot/droitbot-server/internal/config"
	"github.com/droitbot/droitbot-server/internal/core/ports"
	"github.com/droitbot/droitbot-server/internal/core/usecase"
	"github.com/droitbot/droitbot-server/internal/infrastructure/chunking"
	"github.com/droitbot/droitbot-server/internal/infrastructure/extractor"
	"github.com/droitbot/droitbot-server/internal/infrastructure/i18n"
	"github.com/droitbot/droitbot-server/internal/infrastructure/llm/ollama"
	"github.com/droitbot/droitbot-server/internal/infrastructure/queue/nats"
	"github.com/droitbot/droitbot-server/internal/infrastructure/repository/postgres"
	"github.com/droitbot/droitbot-server/internal/infrastructure/resilience"
	"github.com/droitbot/droitbot-server/internal/infrastructure/storage/localfs"
	"github.com/droitbot/droitbot-server/internal/infrastructure/tools/links"
	"github.com/droitbot/droitbot-server/internal/infrastructure/tools/websearch"
	"github.com/droitbot/droitbot-server/internal/infrastructure/tts/elevenlabs"
	"github.com/droitbot/droitbot-server/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository

	Assistant ports.LegalAssistant
	Messages  ports.MessageAnalyzer
	Fraud     ports.FraudChecker
	Audio     ports.AudioChecker
	Debunker  ports.Debunker
	Emergency ports.EmergencyAdvisor
	Customs   ports.CustomsHelper
	Rights    ports.RightsSummarizer
	Speech    ports.SpeechSynthesizer

	Ingestor  ports.KnowledgeIngestor
	Processor ports.KnowledgeProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	runner := resilience.NewRunner(resilience.DefaultBudget())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		Runner: runner,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, runner)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.EmbeddingDimensions, runner)

	// Startup collection bootstrap is best-effort: Qdrant may come up
	// after us, and retrieval re-ensures per request.
	if err := vectorDB.EnsureCollection(ctx, cfg.LegalDocsCollection); err != nil {
		logger.Warn("collection_bootstrap_failed", "collection", cfg.LegalDocsCollection, "error", err)
	}

	localizer, err := i18n.Load(cfg.LocalesPath, cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}

	retriever := usecase.NewDocumentRetriever(embedder, vectorDB, logger)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	textExtractor := extractor.New(storage)
	linkDirectory := links.NewDirectory(localizer)
	searcher := websearch.New()
	speech := elevenlabs.New(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID, cfg.ElevenLabsModelID)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		Assistant: usecase.NewLegalAssistantUseCase(retriever, generator, cfg.LegalDocsCollection, cfg.RetrievalTopK),
		Messages:  usecase.NewMessageAnalysisUseCase(generator),
		Fraud:     usecase.NewFraudCheckUseCase(generator),
		Audio:     usecase.NewAudioCheckUseCase(generator),
		Debunker:  usecase.NewDebunkUseCase(generator, searcher, localizer, logger),
		Emergency: usecase.NewEmergencyUseCase(generator, localizer, logger),
		Customs:   usecase.NewCustomsHelpUseCase(generator, linkDirectory, localizer, logger),
		Rights:    usecase.NewRightsSummaryUseCase(generator),
		Speech:    speech,

		Ingestor:  usecase.NewIngestDocumentUseCase(repo, storage, queue),
		Processor: usecase.NewProcessDocumentUseCase(repo, textExtractor, chunker, embedder, vectorDB, cfg.LegalDocsCollection),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
