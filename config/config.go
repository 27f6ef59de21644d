package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every knob of the orchestration core. All fields have
// defaults so that overriding one never requires touching the others.
type Config struct {
	ServerAddr string

	// knowledge corpus and index persistence
	DocsPath   string
	PersistDir string
	Store      string // "file" or "postgres"

	// chunking
	ChunkSize    int
	ChunkOverlap int

	// retrieval
	RetrievalK int

	// model endpoints
	LLMBaseURL       string
	LLMAPIKey        string
	EmbeddingBaseURL string
	EmbeddingAPIKey  string

	EmbeddingModel string
	EmbeddingDim   int
	GenerationModel string

	ClassifierTemperature float32
	GenerationTemperature float32

	RequestTimeout time.Duration

	// postgres backend
	PGHost   string
	PGPort   int
	PGUser   string
	PGPass   string
	PGDBName string
}

// Load reads configuration from the environment, applying defaults.
// Secrets come from the same process-wide environment, initialized once
// at startup (godotenv in the mains) and read-only afterwards.
func Load() Config {
	return Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8000"),

		DocsPath:   getEnv("DOCS_PATH", "./support_docs"),
		PersistDir: getEnv("PERSIST_DIR", "./index_db"),
		Store:      getEnv("STORE", "file"),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 800),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 100),

		RetrievalK: getEnvInt("RETRIEVAL_K", 5),

		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMAPIKey:        os.Getenv("LLM_API_KEY"),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "http://localhost:8080/v1"),
		EmbeddingAPIKey:  os.Getenv("EMBEDDING_API_KEY"),

		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "sentence-transformers/all-MiniLM-L6-v2"),
		EmbeddingDim:    getEnvInt("EMBEDDING_DIM", 384),
		GenerationModel: getEnv("GENERATION_MODEL", "llama-3.3-70b-versatile"),

		ClassifierTemperature: getEnvFloat32("CLASSIFIER_TEMPERATURE", 0.1),
		GenerationTemperature: getEnvFloat32("GENERATION_TEMPERATURE", 0.3),

		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

		PGHost:   getEnv("PG_HOST", "localhost"),
		PGPort:   getEnvInt("PG_PORT", 5432),
		PGUser:   getEnv("PG_USER", "postgres"),
		PGPass:   os.Getenv("PG_PASS"),
		PGDBName: getEnv("PG_DB_NAME", "support"),
	}
}

// PostgresDSN assembles the connection string for the pgvector store.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PGHost, c.PGPort, c.PGUser, c.PGPass, c.PGDBName)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat32(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
