package service

import (
	"fmt"
	"strings"

	"github.com/h2non/bimg"
)

// ImageProcessor reshapes generated logos. It uses bimg (Go bindings for
// libvips): a C library that's extremely fast at image manipulation.
// The trade-off: requires libvips as a system dependency.
type ImageProcessor struct{}

// NewImageProcessor creates a new ImageProcessor.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// NormalizePNG re-encodes any image bimg understands (PNG, JPEG, WebP) as a
// square PNG of the given edge length. Image models don't always honour the
// requested aspect ratio, and the result cards assume a square, so a
// rectangular image is centred on a white canvas rather than cropped.
func (p *ImageProcessor) NormalizePNG(imageData []byte, pixels int) ([]byte, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("invalid size: %d", pixels)
	}

	// bimg.Options is a struct with many fields: this is Go's alternative to
	// builder patterns or method chaining. You set only the fields you need.
	out, err := process(imageData, bimg.Options{
		Width:   pixels,
		Height:  pixels,
		Embed:   true, // fit inside the square, padding the short side
		Enlarge: true, // Imagen at 1:1 is 1024px, but other models may return less
		Extend:  bimg.ExtendWhite,
	})
	if err != nil {
		return nil, fmt.Errorf("normalizing to %dpx: %w", pixels, err)
	}
	return out, nil
}

// ApplyBackground flattens a PNG's alpha channel onto a solid colour. The PNG
// download uses it when a `bg` query param is given, for logos that will sit
// on a coloured surface.
//
// Go note: hex color parsing is done manually here. In Go, you often write
// small utility functions instead of pulling in a library for simple tasks.
func ApplyBackground(imageData []byte, hexColor string) ([]byte, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return nil, err
	}
	return process(imageData, bimg.Options{Background: bimg.Color{R: r, G: g, B: b}})
}

// process runs one libvips pass and always emits sRGB PNG.
// bimg.NewImage wraps raw bytes: it doesn't copy them, just references them.
func process(imageData []byte, opts bimg.Options) ([]byte, error) {
	opts.Type = bimg.PNG
	opts.Interpretation = bimg.InterpretationSRGB
	return bimg.NewImage(imageData).Process(opts)
}

// parseHexColor converts a hex color string (with or without #) to RGB values.
// Go's fmt.Sscanf is like C's scanf: it parses formatted strings.
func parseHexColor(hex string) (uint8, uint8, uint8, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %q (expected 6 characters)", hex)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("parsing hex color %q: %w", hex, err)
	}
	return r, g, b, nil
}
