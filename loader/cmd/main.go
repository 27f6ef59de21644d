// Ingest builds the knowledge-base index from a directory of *.txt files.
// Builds are offline one-shot operations: an existing persisted index is
// reused, never overwritten. Run a single ingest process at a time.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"supportagent/config"
	"supportagent/index"
	"supportagent/loader"
	"supportagent/model"
	"supportagent/store"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	storer, err := store.FromConfig(ctx, cfg)
	if err != nil {
		log.Fatal("error creating vector store: ", err)
	}
	defer storer.Close()

	exists, err := storer.Exists(ctx)
	if err != nil {
		log.Fatal("error checking for existing index: ", err)
	}
	if exists {
		n, _ := storer.Count(ctx)
		log.Printf("index already exists (%d chunks), reusing; remove %s to rebuild", n, cfg.PersistDir)
		return
	}

	docs, err := loader.LoadDocuments(cfg.DocsPath)
	if err != nil {
		log.Fatal("error loading documents: ", err)
	}
	if len(docs) == 0 {
		log.Fatalf("no .txt documents found in %s", cfg.DocsPath)
	}

	chunks := loader.Split(docs, cfg.ChunkSize, cfg.ChunkOverlap)
	log.Printf("loaded %d documents, %d chunks", len(docs), len(chunks))

	embedder := model.NewOpenAIEmbedder(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.RequestTimeout)

	idx := index.New(embedder, storer)
	if err := idx.Build(ctx, chunks); err != nil {
		log.Fatal("error building index: ", err)
	}

	log.Printf("index built at %s", cfg.PersistDir)
}
