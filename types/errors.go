package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrIndexNotFound means search or load ran before any index was built
	// at the configured location.
	ErrIndexNotFound = errors.New("vector index not found")

	// ErrInvalidArgument covers caller mistakes such as a non-positive k.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexExists guards against rebuilding over a persisted index.
	ErrIndexExists = errors.New("vector index already exists")
)

// ConfigurationError reports a bad path or missing corpus.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %q: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func NewConfigurationError(path string, err error) *ConfigurationError {
	return &ConfigurationError{Path: path, Err: err}
}

// ClassificationError means the classifier produced schema-invalid output
// after its retry budget was exhausted. RawOutput keeps the offending
// model text for diagnostics.
type ClassificationError struct {
	RawOutput string
	Err       error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("ticket classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

func NewClassificationError(raw string, err error) *ClassificationError {
	return &ClassificationError{RawOutput: raw, Err: err}
}

// GenerationError wraps a transport or provider failure during the main
// response call. No retry happens at this layer.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("response generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func NewGenerationError(err error) *GenerationError {
	return &GenerationError{Err: err}
}
