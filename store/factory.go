package store

import (
	"context"
	"fmt"

	"supportagent/config"
)

// FromConfig selects the vector store backend. The file store is the
// default; Postgres needs a reachable database with the vector extension.
func FromConfig(ctx context.Context, cfg config.Config) (VectorStorer, error) {
	switch cfg.Store {
	case "file", "":
		return NewFileStore(cfg.PersistDir, cfg.EmbeddingDim), nil
	case "postgres":
		return NewPostgresStore(ctx, cfg.PostgresDSN(), cfg.EmbeddingDim)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
