package loader

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"supportagent/types"
)

// LoadDocuments reads every *.txt file in path into a Document. One
// Document per file, source identifier = filename. A missing or unreadable
// directory is a ConfigurationError; a single bad file is logged and
// skipped so it cannot abort the batch. Order follows the directory
// listing, which os.ReadDir returns sorted by filename.
func LoadDocuments(path string) ([]types.Document, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, types.NewConfigurationError(path, err)
	}

	var docs []types.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".txt") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(path, name))
		if err != nil {
			log.Printf("[LOADER] skipping %s: %v", name, err)
			continue
		}
		if !utf8.Valid(data) {
			log.Printf("[LOADER] skipping %s: not valid UTF-8 text", name)
			continue
		}

		docs = append(docs, types.Document{
			ID:      uuid.New(),
			Source:  name,
			Content: string(data),
			Metadata: map[string]string{
				"source": name,
			},
		})
	}
	return docs, nil
}

// Split runs the recursive splitter over all documents, preserving
// per-document chunk order and copying each parent's metadata onto its
// chunks.
func Split(docs []types.Document, chunkSize, overlap int) []types.Chunk {
	splitter := NewSplitter(chunkSize, overlap)

	var chunks []types.Chunk
	for _, doc := range docs {
		pieces := splitter.SplitText(doc.Content)
		for i, piece := range pieces {
			meta := make(map[string]string, len(doc.Metadata))
			for k, v := range doc.Metadata {
				meta[k] = v
			}
			chunks = append(chunks, types.Chunk{
				ID:       uuid.New(),
				DocID:    doc.ID,
				Index:    i,
				Content:  piece,
				Metadata: meta,
			})
		}
	}
	return chunks
}
