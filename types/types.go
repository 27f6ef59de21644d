package types

import (
	"github.com/google/uuid"
)

// Document is an immutable unit of raw knowledge-base text plus metadata.
// Created at ingestion, never mutated, consumed by the splitter.
type Document struct {
	ID       uuid.UUID
	Source   string // filename the document was loaded from
	Content  string
	Metadata map[string]string
}

// Chunk is a bounded piece of a Document stored in the vector index.
// Consecutive chunks of the same document share a configured overlap.
type Chunk struct {
	ID        uuid.UUID
	DocID     uuid.UUID
	Index     int
	Content   string
	Metadata  map[string]string
	Embedding []float32
	Score     float64 // cosine similarity to the query, set by search
}

// SourceID returns the chunk's source identifier from its metadata,
// or "unknown" if the chunk carries none.
func (c Chunk) SourceID() string {
	if s, ok := c.Metadata["source"]; ok && s != "" {
		return s
	}
	return "unknown"
}

// Category is the support-ticket topic bucket.
type Category string

const (
	CategoryBilling   Category = "billing"
	CategoryTechnical Category = "technical"
	CategoryAccount   Category = "account"
	CategoryGeneral   Category = "general"
)

// Priority is the handling urgency of a ticket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Sentiment is the customer's tone as judged by the classifier.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Classification is the structured classifier output for one ticket.
// Transient: produced per request and consumed by the response step.
type Classification struct {
	Category   Category  `json:"category"`
	Priority   Priority  `json:"priority"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
}

// TicketResult is the terminal artifact returned to the caller.
// Sources holds one entry per retrieved chunk, in rank order.
type TicketResult struct {
	Response       string         `json:"response"`
	Classification Classification `json:"classification"`
	Sources        []string       `json:"sources"`
}
