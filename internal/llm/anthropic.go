package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// AnthropicClient implements TextClient using Claude. It has no image model,
// so it can only serve as the text provider.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Claude-powered text client.
// SDK-level retries are disabled: every logo step gets exactly one attempt.
func NewAnthropicClient(apiKey, model, baseURL string) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client: &client,
		model:  model,
	}
}

func (a *AnthropicClient) ProviderName() string { return "anthropic" }
func (a *AnthropicClient) ModelName() string    { return a.model }

func (a *AnthropicClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	text := joinText(message.Content)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GenerateStructured defines a custom tool so Claude returns structured data
// instead of free-form text, and forces Claude to call it the same way the
// OpenAI client forces its function. The tool input is the JSON document.
func (a *AnthropicClient) GenerateStructured(ctx context.Context, prompt string, out StructuredOutput) (string, error) {
	submitTool := anthropic.ToolParam{
		Name:        out.Name,
		Description: param.NewOpt(out.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: out.Schema.PropertiesMap(),
			Required:   out.Schema.Required,
		},
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				prompt + "\n\nCall the " + out.Name + " tool with your answer.")),
		},
		Tools: []anthropic.ToolUnionParam{{OfTool: &submitTool}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: out.Name},
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	for _, block := range message.Content {
		toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok || toolUse.Name != out.Name {
			continue
		}
		inputBytes, err := json.Marshal(toolUse.Input)
		if err != nil {
			return "", fmt.Errorf("marshaling tool input: %w", err)
		}
		return string(inputBytes), nil
	}

	// No tool call despite the forced choice: hand back any text and let the caller try to parse it.
	text := joinText(message.Content)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func joinText(blocks []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range blocks {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	return sb.String()
}
