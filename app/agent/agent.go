package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/errgroup"

	"supportagent/model"
	"supportagent/types"
)

// Searcher is the retrieval half of the pipeline.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]types.Chunk, error)
}

// TicketClassifier is the classification half.
type TicketClassifier interface {
	Classify(ctx context.Context, ticketText string) (types.Classification, error)
}

const responseSystemPrompt = `You are a customer support agent. Use ONLY the provided context to answer.

Rules:
- Be empathetic and professional
- If billing issue, be extra careful with specifics
- If urgent, acknowledge immediately
- If the context doesn't contain the answer, say you don't know and offer to escalate`

// Orchestrator merges classification and retrieved context into a single
// grounded generation call. Classification and retrieval have no data
// dependency on each other and run concurrently; the generation call
// strictly waits for both.
type Orchestrator struct {
	classifier  TicketClassifier
	searcher    Searcher
	llm         model.ChatModel
	temperature float32
	retrievalK  int
	logger      *slog.Logger
}

func New(classifier TicketClassifier, searcher Searcher, llm model.ChatModel, temperature float32, retrievalK int) *Orchestrator {
	if retrievalK <= 0 {
		retrievalK = 5
	}
	return &Orchestrator{
		classifier:  classifier,
		searcher:    searcher,
		llm:         llm,
		temperature: temperature,
		retrievalK:  retrievalK,
		logger:      slog.Default(),
	}
}

// Generate produces a grounded reply for one ticket. Zero retrieved chunks
// is not an error: the context goes out empty and the system prompt's
// escalation rule is expected to kick in within the model's own text.
func (o *Orchestrator) Generate(ctx context.Context, ticketText string) (*types.TicketResult, error) {
	var (
		classification types.Classification
		chunks         []types.Chunk
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		classification, err = o.classifier.Classify(gctx, ticketText)
		return err
	})
	g.Go(func() error {
		var err error
		chunks, err = o.searcher.Search(gctx, ticketText, o.retrievalK)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	contextText := buildContext(chunks)

	clsJSON, err := json.Marshal(classification)
	if err != nil {
		return nil, types.NewGenerationError(err)
	}

	user := fmt.Sprintf("Context:\n%s\n\nClassification: %s\n\nCustomer: %s",
		contextText, clsJSON, ticketText)

	if n, err := countTokens(responseSystemPrompt + user); err == nil {
		o.logger.Info("generation prompt assembled", "tokens", n, "chunks", len(chunks))
	}

	// Single outstanding generation call per ticket; retries, if any,
	// belong to the transport.
	response, err := o.llm.Complete(ctx, responseSystemPrompt, user, o.temperature)
	if err != nil {
		return nil, types.NewGenerationError(err)
	}

	sources := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		sources = append(sources, ch.SourceID())
	}

	return &types.TicketResult{
		Response:       response,
		Classification: classification,
		Sources:        sources,
	}, nil
}

// buildContext joins chunk texts in rank order, separated by a blank line.
func buildContext(chunks []types.Chunk) string {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	return strings.Join(texts, "\n\n")
}

func countTokens(text string) (int, error) {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
