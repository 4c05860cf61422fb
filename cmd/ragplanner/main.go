package main

import (
	"flag"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"ragplanner/internal/agents"
	"ragplanner/internal/chunker"
	"ragplanner/internal/config"
	"ragplanner/internal/corpus"
	"ragplanner/internal/embedding"
	"ragplanner/internal/embedding/openai"
	"ragplanner/internal/embedding/tfidf"
	"ragplanner/internal/index"
	"ragplanner/internal/llm/openrouter"
	"ragplanner/internal/retriever"
	"ragplanner/internal/router"
	"ragplanner/internal/service"
	"ragplanner/internal/summarizer"
	"ragplanner/internal/tui"
	"ragplanner/internal/vectorstore"
	"ragplanner/internal/vectorstore/memory"
	"ragplanner/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragplanner/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	// Assemble components
	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			logger.Fatal("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Fatal("openai embedder init failed", "err", err)
		}
		emb = client
	default:
		logger.Fatal("unknown embedder", "type", cfg.Embedder.Type)
	}

	var st vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory", "":
		st = memory.NewStorage()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			logger.Fatal("qdrant config missing")
		}
		st = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		logger.Fatal("unknown vector store", "type", cfg.VectorStore.Type)
	}

	manager := index.NewManager(index.Config{
		DataDir:             cfg.Corpus.DataDir,
		IndexDir:            cfg.Corpus.IndexDir,
		Loader:              corpus.NewLoader(cfg.Corpus.DataDir, logger),
		Chunker:             chunker.NewWindowChunker(cfg.Chunker.WindowChars, cfg.Chunker.OverlapChars),
		Embedder:            emb,
		Store:               st,
		Summarizer:          summarizer.NewFrequencySummarizer(),
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
		Logger:              logger,
	})

	completer := openrouter.NewClient(openrouter.Config{
		BaseURL:      cfg.LLM.BaseURL,
		APIKeyEnv:    cfg.LLM.APIKeyEnv,
		ModelEnv:     cfg.LLM.ModelEnv,
		DefaultModel: cfg.LLM.DefaultModel,
		Timeout:      time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})

	orchestrator := service.NewOrchestrator(
		retriever.New(manager),
		router.New(cfg.Router.QuestionKeywords, cfg.Router.PlanningKeywords),
		agents.NewPipeline(completer, logger),
		completer,
		cfg.Retrieval.TopK,
		logger,
	)

	m := tui.New(orchestrator, manager)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		logger.Fatal("tui exited with error", "err", err)
	}
}
