package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fleveque/namesmith/internal/llm"
	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/provider"
)

// Normalizer reshapes raw PNG bytes. *ImageProcessor implements it.
type Normalizer interface {
	NormalizePNG(data []byte, pixels int) ([]byte, error)
}

// LogoGenerator produces the raster and vector logo for one idea.
type LogoGenerator struct {
	images     llm.ImageClient
	text       llm.TextClient
	normalizer Normalizer // nil skips normalization
	size       int
	logger     *zap.Logger
}

// NewLogoGenerator wires the two backends. size is the PNG edge length to
// normalize to; 0 (or a nil normalizer) keeps the backend's bytes as-is.
func NewLogoGenerator(images llm.ImageClient, text llm.TextClient, normalizer Normalizer, size int, logger *zap.Logger) *LogoGenerator {
	return &LogoGenerator{
		images:     images,
		text:       text,
		normalizer: normalizer,
		size:       size,
		logger:     logger,
	}
}

// Generate fires the image request and the SVG request together and waits
// for both. If either leg fails the whole step fails with ErrLogoUnavailable.
//
// errgroup.Group without WithContext: a failing leg does not cancel the other,
// both are always awaited.
func (g *LogoGenerator) Generate(ctx context.Context, idea model.NameIdea, preferences string) (model.Logo, error) {
	ctx = provider.WithSubject(ctx, idea.Name)

	var (
		png []byte
		svg string
		eg  errgroup.Group
	)

	eg.Go(safely(func() error {
		data, err := g.images.GenerateImage(ctx, rasterPrompt(idea))
		if err != nil {
			return fmt.Errorf("raster logo: %w", err)
		}
		if len(data) == 0 {
			return fmt.Errorf("raster logo: %w", llm.ErrEmptyResponse)
		}
		png = g.normalize(idea, data)
		return nil
	}))

	eg.Go(safely(func() error {
		raw, err := g.text.GenerateText(ctx, svgPrompt(idea, preferences))
		if err != nil {
			return fmt.Errorf("vector logo: %w", err)
		}
		svg = ExtractSVG(raw)
		if svg == "" {
			return fmt.Errorf("vector logo: %w", llm.ErrEmptyResponse)
		}
		return nil
	}))

	if err := eg.Wait(); err != nil {
		return model.Logo{}, fmt.Errorf("%w for %q: %w", ErrLogoUnavailable, idea.Name, err)
	}
	return model.Logo{PNG: png, SVG: svg}, nil
}

// Result turns a successful logo into the card payload.
func Result(idea model.NameIdea, logo model.Logo) model.GeneratedResult {
	return model.GeneratedResult{
		Name:        idea.Name,
		Description: idea.Description,
		PNGBase64:   base64.StdEncoding.EncodeToString(logo.PNG),
		SVGCode:     logo.SVG,
	}
}

// normalize never fails the step: on error the original bytes are kept.
func (g *LogoGenerator) normalize(idea model.NameIdea, data []byte) []byte {
	if g.normalizer == nil || g.size <= 0 {
		return data
	}
	out, err := g.normalizer.NormalizePNG(data, g.size)
	if err != nil {
		g.logger.Warn("keeping raster logo as generated",
			zap.String("name", idea.Name),
			zap.Error(err),
		)
		return data
	}
	return out
}

// safely converts a panic in one leg into an error, so a misbehaving client
// cannot take down the whole batch.
func safely(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}
}

func rasterPrompt(idea model.NameIdea) string {
	return fmt.Sprintf(
		"A simple, modern, vector logo for a company named '%s'. The logo must be: %s. "+
			"Minimalist, on a clean solid background, high quality, suitable for a brand.",
		idea.Name, idea.Description)
}

func svgPrompt(idea model.NameIdea, preferences string) string {
	return fmt.Sprintf(
		"Generate ONLY the raw SVG code for a simple, modern, vector logo for a business named %q. "+
			"The logo should visually represent: %q. The SVG must be square, use a viewBox=\"0 0 100 100\", "+
			"have a transparent background (or easily removable one), and use a professional and clean "+
			"color palette based on these preferences: %s. Do not include any XML declaration, comments, "+
			"markdown fences, or any text other than the SVG code itself. "+
			"Start the response directly with <svg ...> and end with </svg>.",
		idea.Name, idea.Description, preferences)
}
