package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	httpadapter "github.com/PabloGalante/timeplanner-api/internal/adapters/http"
	"github.com/PabloGalante/timeplanner-api/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/timeplanner-api/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/timeplanner-api/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/timeplanner-api/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/timeplanner-api/internal/app/assistant"
	"github.com/PabloGalante/timeplanner-api/internal/config"
	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	// LLM: Gemini or the scripted mock (useful for dev without GCP creds)
	var (
		chatClient domain.ChatClient
		err        error
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK chat client")
		chatClient = llm.NewMockLLM()
	} else {
		log.Println("[LLM] Using Gemini chat client")
		chatClient, err = llm.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini chat client: %v", err)
		}
	}

	// Storage: memory, sqlite or firestore
	var taskStore domain.TaskStore
	var eventStore domain.EventStore

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}

		// 1 store, implements 2 interfaces
		taskStore = fsStore
		eventStore = fsStore

	case "sqlite":
		log.Printf("[STORE] Using SQLite storage (path=%s)", cfg.SQLitePath)
		sqlStore, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("error initializing SQLite store: %v", err)
		}

		taskStore = sqlStore
		eventStore = sqlStore

	default:
		log.Println("[STORE] Using in-memory storage")
		taskStore = memstore.NewTaskStore()
		eventStore = memstore.NewEventStore()
	}

	// Orchestrator
	svc := assistant.NewService(chatClient, taskStore, eventStore)

	// HTTP server
	handler := httpadapter.NewServer(
		svc,
		taskStore,
		eventStore,
		domain.UserID(cfg.DefaultUserID),
		cfg.ChatTimeout,
	)

	port := ":" + cfg.Port
	log.Println("Timeplanner API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}
