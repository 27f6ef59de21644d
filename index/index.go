// Package index ties the embedder and the vector store together into the
// knowledge-base index: build once from a chunked corpus, load read-only
// on later runs, answer k-NN searches.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"supportagent/model"
	"supportagent/store"
	"supportagent/types"
)

type Index struct {
	embedder model.Embedder
	store    store.VectorStorer
	logger   *slog.Logger

	mu    sync.Mutex
	ready bool
}

func New(embedder model.Embedder, storer store.VectorStorer) *Index {
	return &Index{
		embedder: embedder,
		store:    storer,
		logger:   slog.Default(),
	}
}

// Build embeds every chunk and persists the result. Building over an
// existing index is refused; reuse or remove the persisted index first.
func (i *Index) Build(ctx context.Context, chunks []types.Chunk) error {
	exists, err := i.store.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check index existence: %w", err)
	}
	if exists {
		return types.ErrIndexExists
	}

	if err := i.store.Init(ctx); err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}

	for idx := range chunks {
		vec, err := i.embedder.Embed(ctx, chunks[idx].Content)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", idx, err)
		}
		chunks[idx].Embedding = vec
	}

	if err := i.store.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("persist chunks: %w", err)
	}

	i.mu.Lock()
	i.ready = true
	i.mu.Unlock()

	i.logger.Info("vector index built", "chunks", len(chunks))
	return nil
}

// Load attaches to a previously built index without recomputation.
func (i *Index) Load(ctx context.Context) error {
	if err := i.store.Load(ctx); err != nil {
		return err
	}
	i.mu.Lock()
	i.ready = true
	i.mu.Unlock()
	return nil
}

// Search embeds query and returns the k nearest chunks, nearest first.
// If the index has not been built or loaded yet, a load is attempted
// transparently; a missing persisted index surfaces as ErrIndexNotFound.
// k larger than the corpus returns every chunk without error.
func (i *Index) Search(ctx context.Context, query string, k int) ([]types.Chunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", types.ErrInvalidArgument, k)
	}

	if err := i.ensureReady(ctx); err != nil {
		return nil, err
	}

	vec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return i.store.Search(ctx, vec, k)
}

func (i *Index) ensureReady(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ready {
		return nil
	}
	if err := i.store.Load(ctx); err != nil {
		return err
	}
	i.ready = true
	return nil
}
