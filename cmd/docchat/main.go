package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docchat/internal/chat"
	"docchat/internal/classifier"
	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/embedding/openai"
	"docchat/internal/embedding/tfidf"
	"docchat/internal/extractor"
	"docchat/internal/retriever"
	"docchat/internal/session"
	"docchat/internal/splitter"
	"docchat/internal/tui"
	"docchat/internal/vectorstore"
	"docchat/internal/vectorstore/memory"
	"docchat/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var persona string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docchat/config.yaml if not provided)")
	flag.StringVar(&persona, "persona", "", "Persona text for the assistant (overrides config)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: docchat [--config=config.yaml] [--persona=...] file1.pdf [file2.txt ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if persona == "" {
		persona = cfg.Persona
	}

	// Assemble components
	var embedder domain.Embedder
	switch cfg.Embedder.Type {
	case "openai", "":
		embedder, err = openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
		})
		if err != nil {
			log.Fatalf("embedder init failed: %v", err)
		}
	case "tfidf":
		embedder = tfidf.NewEmbedder()
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var split domain.Splitter
	switch cfg.Splitter.Type {
	case "character", "":
		split = splitter.NewCharacter(cfg.Splitter.Separator, cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap)
	case "recursive":
		split = splitter.NewRecursive(cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap)
	default:
		log.Fatalf("unknown splitter: %s", cfg.Splitter.Type)
	}

	var store vectorstore.Store
	switch cfg.VectorStore.Type {
	case "memory", "":
		store = memory.NewStore()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			log.Fatalf("qdrant config missing")
		}
		store = qdrant.NewStore(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	chatModel, err := chat.NewClient(chat.Config{
		BaseURL:     cfg.Chat.BaseURL,
		APIKeyEnv:   cfg.Chat.APIKeyEnv,
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		Timeout:     time.Duration(cfg.Chat.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("chat model init failed: %v", err)
	}

	sess := session.New(session.Deps{
		Extractor: extractor.NewRegistry(),
		Splitter:  split,
		Embedder:  embedder,
		Store:     store,
		Retriever: retriever.New(embedder, store, retriever.Config{
			LookupTopK:          cfg.Retriever.LookupTopK,
			SummaryTopK:         cfg.Retriever.SummaryTopK,
			FetchK:              cfg.Retriever.FetchK,
			UseMMR:              cfg.Retriever.UseMMR,
			SummaryFullDocument: cfg.Retriever.SummaryFullDocument,
		}),
		Classifier: classifier.NewSummaryDetector(cfg.SummaryKeywords...),
		Chat:       chatModel,
		Greeting:   cfg.Greeting,
	})

	docs := make([]domain.RawDocument, 0, len(inputs))
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read %s: %v", path, err)
		}
		docs = append(docs, domain.RawDocument{Name: filepath.Base(path), Data: data})
	}

	if err := sess.Ingest(context.Background(), docs, persona); err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	if _, err := tea.NewProgram(tui.New(sess)).Run(); err != nil {
		log.Fatal(err)
	}
}
