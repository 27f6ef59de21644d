package store

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"supportagent/types"
)

const snapshotFile = "index.gob"

// FileStore persists the index as a gob snapshot inside a configured
// directory and serves searches by brute-force cosine scan. Vectors are
// stored normalized, so similarity is a plain dot product. After Load the
// data is immutable and safe for concurrent readers.
type FileStore struct {
	dir       string
	dimension int

	mu     sync.RWMutex
	chunks []types.Chunk
	loaded bool
}

type snapshot struct {
	Dimension int
	Chunks    []types.Chunk
}

func NewFileStore(dir string, dimension int) *FileStore {
	return &FileStore{dir: dir, dimension: dimension}
}

func (s *FileStore) Init(ctx context.Context) error {
	return os.MkdirAll(s.dir, 0o755)
}

func (s *FileStore) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.path())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Load reads the snapshot from disk. A missing or structurally invalid
// snapshot surfaces as ErrIndexNotFound.
func (s *FileStore) Load(ctx context.Context) error {
	f, err := os.Open(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: no snapshot at %s", types.ErrIndexNotFound, s.path())
		}
		return err
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("%w: corrupt snapshot at %s: %v", types.ErrIndexNotFound, s.path(), err)
	}
	if snap.Dimension <= 0 {
		return fmt.Errorf("%w: snapshot has no dimension", types.ErrIndexNotFound)
	}
	// A dimension mismatch means the index was built with a different
	// embedding model. Refuse to serve stale vectors.
	if s.dimension != 0 && snap.Dimension != s.dimension {
		return fmt.Errorf("%w: snapshot dimension %d, configured %d",
			types.ErrIndexNotFound, snap.Dimension, s.dimension)
	}
	for _, c := range snap.Chunks {
		if len(c.Embedding) != snap.Dimension {
			return fmt.Errorf("%w: chunk %s has dimension %d, want %d",
				types.ErrIndexNotFound, c.ID, len(c.Embedding), snap.Dimension)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = snap.Chunks
	s.loaded = true
	return nil
}

func (s *FileStore) SaveChunks(ctx context.Context, chunks []types.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dimension
	for _, c := range chunks {
		if dim == 0 {
			dim = len(c.Embedding)
		}
		if len(c.Embedding) != dim {
			return fmt.Errorf("chunk %s: embedding dimension %d, want %d", c.ID, len(c.Embedding), dim)
		}
	}

	s.chunks = append(s.chunks, chunks...)
	s.loaded = true

	return s.persist(snapshot{Dimension: dim, Chunks: s.chunks})
}

func (s *FileStore) persist(snap snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp := s.path() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path())
}

// Search ranks every stored chunk by dot product with vec and returns the
// top k, similarity descending. Equal scores keep insertion order.
func (s *FileStore) Search(ctx context.Context, vec []float32, k int) ([]types.Chunk, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", types.ErrInvalidArgument)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, fmt.Errorf("%w: file store not loaded", types.ErrIndexNotFound)
	}

	scored := make([]types.Chunk, len(s.chunks))
	copy(scored, s.chunks)
	for i := range scored {
		scored[i].Score = dot(scored[i].Embedding, vec)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

func (s *FileStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path() string {
	return filepath.Join(s.dir, snapshotFile)
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
