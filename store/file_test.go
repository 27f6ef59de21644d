package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportagent/types"
)

func testChunk(content string, idx int, vec []float32) types.Chunk {
	return types.Chunk{
		ID:        uuid.New(),
		DocID:     uuid.New(),
		Index:     idx,
		Content:   content,
		Metadata:  map[string]string{"source": "test.txt"},
		Embedding: vec,
	}
}

func TestFileStoreExistsBeforeBuild(t *testing.T) {
	s := NewFileStore(t.TempDir(), 3)

	ok, err := s.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreLoadMissing(t *testing.T) {
	s := NewFileStore(t.TempDir(), 3)

	err := s.Load(context.Background())
	require.ErrorIs(t, err, types.ErrIndexNotFound)
}

func TestFileStoreSearchBeforeLoad(t *testing.T) {
	s := NewFileStore(t.TempDir(), 3)

	_, err := s.Search(context.Background(), []float32{1, 0, 0}, 1)
	require.ErrorIs(t, err, types.ErrIndexNotFound)
}

func TestFileStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	chunks := []types.Chunk{
		testChunk("cancel plan", 0, []float32{1, 0, 0}),
		testChunk("reset password", 1, []float32{0, 1, 0}),
		testChunk("refund policy", 2, []float32{0.6, 0.8, 0}),
	}

	s := NewFileStore(dir, 3)
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.SaveChunks(ctx, chunks))

	ok, err := s.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// a second store over the same directory sees the same data
	reloaded := NewFileStore(dir, 3)
	require.NoError(t, reloaded.Load(ctx))

	n, err := reloaded.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := reloaded.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	want, err := s.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range got {
		assert.Equal(t, want[i].ID, got[i].ID)
	}
}

func TestFileStoreSearchRanking(t *testing.T) {
	ctx := context.Background()

	s := NewFileStore(t.TempDir(), 3)
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{
		testChunk("far", 0, []float32{0, 1, 0}),
		testChunk("close", 1, []float32{0.6, 0.8, 0}),
		testChunk("exact", 2, []float32{1, 0, 0}),
	}))

	got, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "exact", got[0].Content)
	assert.Equal(t, "close", got[1].Content)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestFileStoreSearchTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()

	s := NewFileStore(t.TempDir(), 2)
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{
		testChunk("first", 0, []float32{1, 0}),
		testChunk("second", 1, []float32{1, 0}),
		testChunk("third", 2, []float32{1, 0}),
	}))

	got, err := s.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
	assert.Equal(t, "third", got[2].Content)
}

func TestFileStoreSearchKLargerThanCorpus(t *testing.T) {
	ctx := context.Background()

	s := NewFileStore(t.TempDir(), 2)
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{
		testChunk("only", 0, []float32{1, 0}),
	}))

	got, err := s.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFileStoreLoadDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := NewFileStore(dir, 3)
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{
		testChunk("doc", 0, []float32{1, 0, 0}),
	}))

	// the embedding model changed: stored vectors are stale
	other := NewFileStore(dir, 384)
	err := other.Load(ctx)
	require.ErrorIs(t, err, types.ErrIndexNotFound)
}

func TestFileStoreSaveRejectsMixedDimensions(t *testing.T) {
	s := NewFileStore(t.TempDir(), 0)

	err := s.SaveChunks(context.Background(), []types.Chunk{
		testChunk("a", 0, []float32{1, 0}),
		testChunk("b", 1, []float32{1, 0, 0}),
	})
	require.Error(t, err)
}
