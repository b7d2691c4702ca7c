package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// NewGenAIClient opens a Gemini API client. The same *genai.Client backs both
// the text and the image client.
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return client, nil
}

// GeminiClient implements TextClient with Gemini models.
// Structured output uses Gemini's native response schema, so the answer is
// JSON text with no tool-calling round trip.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini text client for the given model.
func NewGeminiClient(client *genai.Client, model string) *GeminiClient {
	return &GeminiClient{client: client, model: model}
}

func (g *GeminiClient) ProviderName() string { return "gemini" }
func (g *GeminiClient) ModelName() string    { return g.model }

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, nil)
}

func (g *GeminiClient) GenerateStructured(ctx context.Context, prompt string, out StructuredOutput) (string, error) {
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGeminiSchema(out.Schema),
	})
}

func (g *GeminiClient) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini API call: %w", err)
	}
	if result == nil {
		return "", ErrEmptyResponse
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// ImagenClient implements ImageClient with Google's Imagen models.
type ImagenClient struct {
	client *genai.Client
	model  string
}

// NewImagenClient creates an Imagen client for the given model.
func NewImagenClient(client *genai.Client, model string) *ImagenClient {
	return &ImagenClient{client: client, model: model}
}

func (i *ImagenClient) ProviderName() string { return "gemini" }
func (i *ImagenClient) ModelName() string    { return i.model }

// GenerateImage requests a single square PNG.
func (i *ImagenClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := i.client.Models.GenerateImages(ctx, i.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, fmt.Errorf("imagen API call: %w", err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, ErrEmptyResponse
	}
	img := resp.GeneratedImages[0].Image
	if img == nil || len(img.ImageBytes) == 0 {
		return nil, ErrEmptyResponse
	}
	return img.ImageBytes, nil
}

// toGeminiSchema converts our schema into Gemini's typed schema.
// genai.Type values are the upper-case JSON-schema names ("OBJECT", "STRING").
func toGeminiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:             genai.Type(strings.ToUpper(s.Type)),
		Description:      s.Description,
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrdering,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	if s.Items != nil {
		out.Items = toGeminiSchema(s.Items)
	}
	return out
}
