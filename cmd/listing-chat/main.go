package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/andrew/listing-rag/pkg/config"
	"github.com/andrew/listing-rag/pkg/embedding"
	"github.com/andrew/listing-rag/pkg/llm"
	"github.com/andrew/listing-rag/pkg/retrieval"
	"github.com/andrew/listing-rag/pkg/session"
	"github.com/andrew/listing-rag/pkg/vector"
)

var debug = flag.Bool("debug", false, "Enable debug logging")

func main() {
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync()

	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nShutting down...")
		cancel()
		os.Exit(0)
	}()

	// Missing connection parameters are fatal here, before any turn runs.
	cfg, err := config.New()
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	llmClient, err := llm.NewOllamaClient(cfg.Ollama.URL, cfg.Ollama.ChatModel)
	if err != nil {
		logger.Fatal("failed to create LLM client", zap.Error(err))
	}
	defer llmClient.Close()

	embedder, err := embedding.NewOllamaEmbedder(cfg.Ollama.URL, cfg.Ollama.EmbedModel, logger)
	if err != nil {
		logger.Fatal("failed to create embedder", zap.Error(err))
	}

	store, err := vector.NewQdrantStore(cfg.Qdrant.Addr, cfg.Qdrant.Collection, logger)
	if err != nil {
		logger.Fatal("failed to connect to Qdrant", zap.Error(err))
	}
	defer store.Close()

	svc := retrieval.NewService(embedder, store, llmClient, retrieval.Config{
		Search: vector.SearchOptions{
			Limit:      cfg.Retrieval.Limit,
			Candidates: cfg.Retrieval.Candidates,
			MinScore:   float32(cfg.Retrieval.MinScore),
		},
		ContextWindow: cfg.Retrieval.ContextWindow,
		Generation: llm.ModelConfig{
			Temperature: float32(cfg.Retrieval.Temperature),
			MaxTokens:   cfg.Retrieval.MaxTokens,
		},
	}, logger)

	sess := session.New()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Println(boldGreen("🏠 Listing Search Chat"))
	fmt.Printf("Using model: %s, collection: %s\n", boldCyan(cfg.Ollama.ChatModel), boldCyan(cfg.Qdrant.Collection))
	fmt.Println("Commands:")
	fmt.Println("  ask <question> - Direct LLM query without vector search")
	fmt.Println("  <question>     - Full query with vector search + LLM (classic RAG)")
	fmt.Println("  clear          - Clear conversation history")
	fmt.Println("Type 'exit' or press Ctrl+C to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(boldGreen("Question: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		if input == "" {
			fmt.Println("Answer: Not a valid question")
			continue
		}

		lower := strings.ToLower(input)
		if lower == "exit" || lower == "quit" {
			break
		}

		var answer string
		switch {
		case strings.HasPrefix(lower, "ask "):
			question := strings.TrimSpace(input[len("ask "):])
			answer, _ = svc.Ask(ctx, question, sess)
		case lower == "clear":
			svc.Clear(sess)
			answer = "history cleared..."
		default:
			answer, _ = svc.Answer(ctx, input, sess)
		}

		fmt.Printf("%s %s\n\n", boldCyan("Answer:"), answer)
	}
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
