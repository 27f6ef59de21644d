package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"supportagent/types"
)

const classifierSystemPrompt = `You are a customer support ticket classifier.
Analyze tickets and categorize them:

Categories:
- billing: Payment, refunds, charges, invoices
- technical: Bugs, features not working, errors
- account: Login, password, profile issues
- general: Questions, feedback, other

Priority levels:
- urgent: Service down, billing errors, security issues
- high: Features broken, important account issues
- medium: Minor bugs, general questions
- low: Feature requests, general feedback

Respond with a SINGLE valid JSON object and nothing else:
{"category": "...", "priority": "...", "sentiment": "positive|neutral|negative", "confidence": 0.0-1.0}`

// classificationSchema is the contract the classifier output must satisfy.
// Out-of-range confidence counts as a schema failure, same as a bad enum.
const classificationSchema = `{
  "type": "object",
  "required": ["category", "priority", "sentiment", "confidence"],
  "properties": {
    "category":   {"type": "string", "enum": ["billing", "technical", "account", "general"]},
    "priority":   {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
    "sentiment":  {"type": "string", "enum": ["positive", "neutral", "negative"]},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  }
}`

// Classifier turns free-form ticket text into a Classification through a
// structured-output chat call. One retry on schema-invalid output, then
// the failure surfaces as a ClassificationError with the raw text attached.
type Classifier struct {
	llm         ChatModel
	temperature float32
	schema      *jsonschema.Schema
}

func NewClassifier(llm ChatModel, temperature float32) *Classifier {
	return &Classifier{
		llm:         llm,
		temperature: temperature,
		schema:      jsonschema.MustCompileString("classification.schema.json", classificationSchema),
	}
}

func (c *Classifier) Classify(ctx context.Context, ticketText string) (types.Classification, error) {
	var zero types.Classification

	user := "Ticket: " + ticketText

	raw, err := c.llm.Complete(ctx, classifierSystemPrompt, user, c.temperature)
	if err != nil {
		return zero, types.NewClassificationError("", err)
	}

	cls, parseErr := c.parse(raw)
	if parseErr == nil {
		return cls, nil
	}

	// one retry with the same input
	raw2, err := c.llm.Complete(ctx, classifierSystemPrompt, user, c.temperature)
	if err != nil {
		return zero, types.NewClassificationError(raw, err)
	}
	cls, parseErr = c.parse(raw2)
	if parseErr != nil {
		return zero, types.NewClassificationError(raw2, parseErr)
	}
	return cls, nil
}

// parse extracts the JSON object from the raw completion and validates it
// against the classification schema before decoding.
func (c *Classifier) parse(raw string) (types.Classification, error) {
	var zero types.Classification

	jsonStr, err := ExtractJSON(raw)
	if err != nil {
		return zero, err
	}

	var decoded any
	if err := json.Unmarshal([]byte(jsonStr), &decoded); err != nil {
		return zero, fmt.Errorf("decode classification: %w", err)
	}
	if err := c.schema.Validate(decoded); err != nil {
		return zero, fmt.Errorf("classification schema: %w", err)
	}

	var cls types.Classification
	if err := json.Unmarshal([]byte(jsonStr), &cls); err != nil {
		return zero, fmt.Errorf("decode classification: %w", err)
	}
	return cls, nil
}
