package main

import (
	"log"

	"assembly-guide-be/internal/bootstrap"
	"assembly-guide-be/internal/config"
	"assembly-guide-be/internal/server"
	"assembly-guide-be/pkg/catalog"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.SharedPassword == "" {
		log.Fatal("SESSION_PASSWORD is not set")
	}
	if cfg.Ai.APIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}

	// 2. Load the subtask catalog (read-only after this point)
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Unable to load subtask catalog: %v", err)
	}
	log.Printf("Loaded %d subtasks for teams %v", cat.Len(), cat.Teams())

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cat, cfg)
	defer container.Logger.Sync()

	// 4. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
