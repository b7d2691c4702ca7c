package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/llm"
	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/provider"
)

// IdeaGenerator asks the text model for business names, each with a short
// visual description to seed its logo.
type IdeaGenerator struct {
	text   llm.TextClient
	count  int
	logger *zap.Logger
}

// NewIdeaGenerator creates a generator requesting count ideas per batch.
func NewIdeaGenerator(text llm.TextClient, count int, logger *zap.Logger) *IdeaGenerator {
	return &IdeaGenerator{text: text, count: count, logger: logger}
}

// ideasResponse mirrors the requested JSON shape: {"ideas": [{name, description}]}.
type ideasResponse struct {
	Ideas []model.NameIdea `json:"ideas"`
}

// Generate issues exactly one request. Any failure comes back as an
// *AIGenerationError; nothing is retried.
func (g *IdeaGenerator) Generate(ctx context.Context, input model.UserInput) ([]model.NameIdea, error) {
	ctx = provider.WithSubject(ctx, input.Industry)

	raw, err := g.text.GenerateStructured(ctx, ideasPrompt(input, g.count), g.output())
	if errors.Is(err, llm.ErrEmptyResponse) {
		// The model answered, just with nothing in it.
		return nil, &AIGenerationError{Err: fmt.Errorf("%w: %w", ErrNoIdeas, err)}
	}
	if err != nil {
		return nil, &AIGenerationError{Err: err}
	}

	var resp ideasResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		g.logger.Warn("idea response is not valid JSON",
			zap.String("industry", input.Industry),
			zap.Error(err),
		)
		return nil, &AIGenerationError{Err: fmt.Errorf("%w: parsing response: %v", ErrNoIdeas, err)}
	}

	if len(resp.Ideas) == 0 {
		return nil, &AIGenerationError{Err: ErrNoIdeas}
	}

	g.logger.Info("generated business ideas",
		zap.String("industry", input.Industry),
		zap.Int("count", len(resp.Ideas)),
	)
	return resp.Ideas, nil
}

// output describes the structured answer. The count is requested, not enforced.
func (g *IdeaGenerator) output() llm.StructuredOutput {
	return llm.StructuredOutput{
		Name:        "submit_ideas",
		Description: "Submit the generated business name ideas.",
		Schema: &llm.Schema{
			Type: "object",
			Properties: map[string]*llm.Schema{
				"ideas": {
					Type:        "array",
					Description: fmt.Sprintf("An array of %d business name ideas.", g.count),
					Items: &llm.Schema{
						Type: "object",
						Properties: map[string]*llm.Schema{
							"name": {
								Type:        "string",
								Description: "The business name.",
							},
							"description": {
								Type:        "string",
								Description: "A short, one-sentence visual description for a logo that fits this name and the user's preferences.",
							},
						},
						Required:         []string{"name", "description"},
						PropertyOrdering: []string{"name", "description"},
					},
				},
			},
			Required: []string{"ideas"},
		},
	}
}

func ideasPrompt(input model.UserInput, count int) string {
	return fmt.Sprintf(
		"Generate %d creative business names for an industry: '%s' with these preferences: '%s'. "+
			"For each name, provide a short, one-sentence visual description for a logo.",
		count, input.Industry, input.Preferences)
}
