package index

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportagent/store"
	"supportagent/types"
)

// fakeEmbedder maps exact texts to fixed unit vectors, standing in for a
// real embedding model with designed semantic neighborhoods.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no fake vector for %q", text)
	}
	return v, nil
}

const (
	cancelDoc   = "To cancel your subscription, go to Settings > Billing > Cancel Plan."
	passwordDoc = "To reset your password, click Forgot Password on the login page."
	uploadDoc   = "Uploads fail when the file exceeds the 100 MB limit."
	stopQuery   = "How do I stop my plan?"
)

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		cancelDoc:   {1, 0, 0},
		passwordDoc: {0, 1, 0},
		uploadDoc:   {0, 0, 1},
		// no word overlap with the cancel doc, but a nearby vector:
		// that is the whole point of semantic search
		stopQuery: {0.95, 0.05, 0},
	}}
}

func corpusChunks() []types.Chunk {
	texts := []string{cancelDoc, passwordDoc, uploadDoc}
	chunks := make([]types.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = types.Chunk{
			ID:       uuid.New(),
			DocID:    uuid.New(),
			Index:    0,
			Content:  text,
			Metadata: map[string]string{"source": fmt.Sprintf("doc%d.txt", i)},
		}
	}
	return chunks
}

func builtIndex(t *testing.T, dir string) *Index {
	t.Helper()
	idx := New(newFakeEmbedder(), store.NewFileStore(dir, 3))
	require.NoError(t, idx.Build(context.Background(), corpusChunks()))
	return idx
}

func TestSearchSemanticMatch(t *testing.T) {
	idx := builtIndex(t, t.TempDir())

	got, err := idx.Search(context.Background(), stopQuery, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cancelDoc, got[0].Content)
}

func TestSearchInvalidK(t *testing.T) {
	idx := builtIndex(t, t.TempDir())

	_, err := idx.Search(context.Background(), stopQuery, 0)
	require.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = idx.Search(context.Background(), stopQuery, -3)
	require.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestSearchWithoutPersistedIndex(t *testing.T) {
	idx := New(newFakeEmbedder(), store.NewFileStore(t.TempDir(), 3))

	_, err := idx.Search(context.Background(), stopQuery, 3)
	require.ErrorIs(t, err, types.ErrIndexNotFound)
}

func TestSearchLazyLoads(t *testing.T) {
	dir := t.TempDir()
	builtIndex(t, dir)

	// fresh index over the same directory, no explicit Load
	idx := New(newFakeEmbedder(), store.NewFileStore(dir, 3))
	got, err := idx.Search(context.Background(), stopQuery, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cancelDoc, got[0].Content)
}

func TestBuildThenLoadReturnSameRanking(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	built := builtIndex(t, dir)
	fromBuild, err := built.Search(ctx, stopQuery, 3)
	require.NoError(t, err)

	loaded := New(newFakeEmbedder(), store.NewFileStore(dir, 3))
	require.NoError(t, loaded.Load(ctx))
	fromLoad, err := loaded.Search(ctx, stopQuery, 3)
	require.NoError(t, err)

	require.Len(t, fromLoad, len(fromBuild))
	for i := range fromBuild {
		assert.Equal(t, fromBuild[i].ID, fromLoad[i].ID)
		assert.Equal(t, fromBuild[i].Content, fromLoad[i].Content)
	}
}

func TestBuildRefusesExistingIndex(t *testing.T) {
	dir := t.TempDir()
	builtIndex(t, dir)

	idx := New(newFakeEmbedder(), store.NewFileStore(dir, 3))
	err := idx.Build(context.Background(), corpusChunks())
	require.ErrorIs(t, err, types.ErrIndexExists)
}

func TestSearchTopKIsPrefixOfTopKPlusOne(t *testing.T) {
	ctx := context.Background()
	idx := builtIndex(t, t.TempDir())

	for k := 1; k < 3; k++ {
		smaller, err := idx.Search(ctx, stopQuery, k)
		require.NoError(t, err)
		larger, err := idx.Search(ctx, stopQuery, k+1)
		require.NoError(t, err)

		require.Len(t, smaller, k)
		require.Len(t, larger, k+1)
		for i := range smaller {
			assert.Equal(t, smaller[i].ID, larger[i].ID)
		}
	}
}

func TestSearchKLargerThanCorpus(t *testing.T) {
	idx := builtIndex(t, t.TempDir())

	got, err := idx.Search(context.Background(), stopQuery, 50)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
