package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/llm"
	"github.com/fleveque/namesmith/internal/model"
)

func TestIdeaGenerator_Generate(t *testing.T) {
	text := &fakeText{structured: `{"ideas":[
		{"name":"Bean There","description":"a coffee bean with a map pin"},
		{"name":"Grind House","description":"a grinder silhouette"}
	]}`}
	gen := NewIdeaGenerator(text, 4, zap.NewNop())

	ideas, err := gen.Generate(context.Background(), model.UserInput{Industry: "coffee shop", Preferences: "earthy"})
	require.NoError(t, err)
	require.Len(t, ideas, 2, "the requested count is not enforced")
	assert.Equal(t, "Bean There", ideas[0].Name)
	assert.Equal(t, "a grinder silhouette", ideas[1].Description)

	require.Len(t, text.prompts, 1, "exactly one request")
	assert.Contains(t, text.prompts[0], "'coffee shop'")
	assert.Contains(t, text.prompts[0], "'earthy'")
	assert.Contains(t, text.prompts[0], "Generate 4 creative business names")
}

func TestIdeaGenerator_Failures(t *testing.T) {
	tests := []struct {
		name       string
		structured string
		err        error
		wantNoIdea bool
	}{
		{name: "malformed JSON", structured: `{"ideas": [`, wantNoIdea: true},
		{name: "prose instead of JSON", structured: "Here are some names!", wantNoIdea: true},
		{name: "missing ideas", structured: `{"names": []}`, wantNoIdea: true},
		{name: "empty ideas", structured: `{"ideas": []}`, wantNoIdea: true},
		{name: "blank answer", err: llm.ErrEmptyResponse, wantNoIdea: true},
		{name: "no choices", err: fmt.Errorf("openai returned no choices: %w", llm.ErrEmptyResponse), wantNoIdea: true},
		{name: "transport error", err: errBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := &fakeText{structured: tt.structured, structuredErr: tt.err}
			gen := NewIdeaGenerator(text, 4, zap.NewNop())

			ideas, err := gen.Generate(context.Background(), model.UserInput{Industry: "bakery"})
			assert.Nil(t, ideas)

			var genErr *AIGenerationError
			require.True(t, errors.As(err, &genErr), "expected *AIGenerationError, got %T", err)
			assert.Equal(t, tt.wantNoIdea, errors.Is(err, ErrNoIdeas))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
			if tt.wantNoIdea {
				assert.Contains(t, UserMessage(err), "could not generate any business names")
			} else {
				assert.Contains(t, UserMessage(err), "could not be reached")
			}
			assert.Len(t, text.prompts, 1, "no retry")
		})
	}
}

func TestAIGenerationError_UserMessage(t *testing.T) {
	noIdeas := &AIGenerationError{Err: ErrNoIdeas}
	assert.Contains(t, noIdeas.UserMessage(), "could not generate any business names")
	assert.Equal(t, noIdeas.UserMessage(), UserMessage(noIdeas))

	transport := &AIGenerationError{Err: errBackend}
	assert.Contains(t, transport.UserMessage(), "could not be reached")

	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.NotEmpty(t, UserMessage(nil))
}
