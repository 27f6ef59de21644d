package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"supportagent/types"
)

// VectorStorer persists (chunk, embedding) pairs and answers k-NN queries.
// Stores are built once, loaded read-only afterwards; concurrent reads
// need no coordination, concurrent builds are serialized by running a
// single ingestion process.
type VectorStorer interface {
	Init(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
	Load(ctx context.Context) error
	SaveChunks(ctx context.Context, chunks []types.Chunk) error
	Search(ctx context.Context, vec []float32, k int) ([]types.Chunk, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// PostgresStore keeps chunks in a pgvector table with an ivfflat cosine
// index.
type PostgresStore struct {
	pool      *pgxpool.Pool
	dimension int
}

func NewPostgresStore(ctx context.Context, connStr string, dimension int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool:      pool,
		dimension: dimension,
	}, nil
}

func (p *PostgresStore) Init(ctx context.Context) error {
	query := fmt.Sprintf(`
    CREATE EXTENSION IF NOT EXISTS vector;

    CREATE TABLE IF NOT EXISTS kb_chunks (
        id UUID PRIMARY KEY,
        doc_id UUID NOT NULL,
        position INT NOT NULL,
        source TEXT NOT NULL,
        content TEXT NOT NULL,
        embedding vector(%d)
    );

	CREATE INDEX IF NOT EXISTS idx_kb_chunks_embedding ON kb_chunks USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_kb_chunks_doc_id ON kb_chunks(doc_id);
    `, p.dimension)
	_, err := p.pool.Exec(ctx, query)
	return err
}

// Exists reports whether a built index is present: the table exists and
// holds at least one chunk.
func (p *PostgresStore) Exists(ctx context.Context) (bool, error) {
	var reg *string
	if err := p.pool.QueryRow(ctx, "SELECT to_regclass('kb_chunks')::text").Scan(&reg); err != nil {
		return false, err
	}
	if reg == nil {
		return false, nil
	}
	n, err := p.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Load verifies a built index is attachable. The data itself stays in
// Postgres, so there is nothing to read into memory.
func (p *PostgresStore) Load(ctx context.Context) error {
	ok, err := p.Exists(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no kb_chunks rows in database", types.ErrIndexNotFound)
	}
	return nil
}

func (p *PostgresStore) SaveChunks(ctx context.Context, chunks []types.Chunk) error {
	query := `
    INSERT INTO kb_chunks (id, doc_id, position, source, content, embedding)
    VALUES ($1, $2, $3, $4, $5, $6)
    `
	for _, c := range chunks {
		_, err := p.pool.Exec(ctx, query,
			c.ID, c.DocID, c.Index, c.SourceID(), c.Content, pgvector.NewVector(c.Embedding),
		)
		if err != nil {
			return fmt.Errorf("save chunk %s: %w", c.ID, err)
		}
	}
	return nil
}

// Search returns the k nearest chunks by cosine distance, nearest first.
// Ties resolve by insertion position for stable ordering.
func (p *PostgresStore) Search(ctx context.Context, vec []float32, k int) ([]types.Chunk, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", types.ErrInvalidArgument)
	}

	vector := pgvector.NewVector(vec)

	query := `
		SELECT id, doc_id, position, source, content,
		       1-(embedding <=> $1) AS score
		FROM kb_chunks
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1, position, id
		LIMIT $2
	`
	rows, err := p.pool.Query(ctx, query, vector, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []types.Chunk
	for rows.Next() {
		var chunk types.Chunk
		var source string
		if err := rows.Scan(
			&chunk.ID,
			&chunk.DocID,
			&chunk.Index,
			&source,
			&chunk.Content,
			&chunk.Score); err != nil {
			return nil, err
		}
		chunk.Metadata = map[string]string{"source": source}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (p *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, "SELECT count(*) FROM kb_chunks").Scan(&n)
	return n, err
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
