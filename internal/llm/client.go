// Package llm provides provider-agnostic interfaces over the generative backends
// namesmith talks to: text models (business ideas, SVG source) and image models
// (raster logos). Gemini, OpenAI and Anthropic implement them.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a backend answers without any usable payload.
var ErrEmptyResponse = errors.New("empty response from model")

// TextClient generates free text or schema-constrained JSON.
//
// Go interface design tip: keep interfaces small. Callers depend on these two
// methods only, which makes fakes in tests trivial to write.
type TextClient interface {
	// GenerateText returns the model's raw text answer.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateStructured returns a JSON document shaped by out.Schema.
	// Each provider enforces the shape its own way (response schema, forced
	// function call, tool use): the caller always receives plain JSON text.
	GenerateStructured(ctx context.Context, prompt string, out StructuredOutput) (string, error)

	ProviderName() string
	ModelName() string
}

// ImageClient generates one square PNG image per call.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	ProviderName() string
	ModelName() string
}

// StructuredOutput names and describes the JSON document a model must return.
// Name doubles as the tool/function name for providers that use tool calling.
type StructuredOutput struct {
	Name        string
	Description string
	Schema      *Schema
}
