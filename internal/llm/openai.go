package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// NewOpenAIAPI creates the shared go-openai client. An empty baseURL uses the
// public endpoint; set it to target a compatible proxy.
func NewOpenAIAPI(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// OpenAIClient implements TextClient using OpenAI chat completions.
// Structured output uses function calling: the model is forced to call a
// function whose arguments are the JSON document we want.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates an OpenAI text client.
func NewOpenAIClient(client *openai.Client, model string) *OpenAIClient {
	return &OpenAIClient{client: client, model: model}
}

func (o *OpenAIClient) ProviderName() string { return "openai" }
func (o *OpenAIClient) ModelName() string    { return o.model }

func (o *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices: %w", ErrEmptyResponse)
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (o *OpenAIClient) GenerateStructured(ctx context.Context, prompt string, out StructuredOutput) (string, error) {
	// OpenAI's Parameters field accepts `any`: we pass a raw JSON schema map.
	tools := []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        out.Name,
				Description: out.Description,
				Parameters:  out.Schema.Map(),
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Tools: tools,
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: out.Name},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices: %w", ErrEmptyResponse)
	}

	msg := resp.Choices[0].Message
	for _, call := range msg.ToolCalls {
		if call.Function.Name == out.Name {
			return call.Function.Arguments, nil
		}
	}

	// Some models answer in plain content despite the forced tool choice.
	if strings.TrimSpace(msg.Content) != "" {
		return msg.Content, nil
	}
	return "", ErrEmptyResponse
}

// OpenAIImageClient implements ImageClient with the OpenAI images endpoint.
type OpenAIImageClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIImageClient creates an OpenAI image client.
func NewOpenAIImageClient(client *openai.Client, model string) *OpenAIImageClient {
	return &OpenAIImageClient{client: client, model: model}
}

func (o *OpenAIImageClient) ProviderName() string { return "openai" }
func (o *OpenAIImageClient) ModelName() string    { return o.model }

// GenerateImage asks for one 1024x1024 image returned inline as base64 PNG.
func (o *OpenAIImageClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          o.model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image API call: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyResponse
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return data, nil
}
