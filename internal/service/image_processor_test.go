package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/h2non/bimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solidPNG generates a solid-color PNG in memory with the standard library's
// image packages. image.NRGBA is non-premultiplied, so partial alpha survives
// encoding as-is.
func solidPNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func requirePNGSize(t *testing.T, data []byte, width, height int) {
	t.Helper()
	img := bimg.NewImage(data)
	assert.Equal(t, "png", img.Type())
	size, err := img.Size()
	require.NoError(t, err)
	assert.Equal(t, width, size.Width)
	assert.Equal(t, height, size.Height)
}

func TestNormalizePNG(t *testing.T) {
	processor := NewImageProcessor()
	red := color.RGBA{R: 255, A: 255}

	tests := []struct {
		name          string
		width, height int
		pixels        int
	}{
		{"downscale square", 256, 256, 64},
		{"upscale square", 256, 256, 512},
		{"landscape is embedded", 400, 200, 128},
		{"portrait is embedded", 120, 300, 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := processor.NormalizePNG(solidPNG(t, tt.width, tt.height, red), tt.pixels)
			require.NoError(t, err)
			requirePNGSize(t, out, tt.pixels, tt.pixels)
		})
	}
}

func TestNormalizePNG_Invalid(t *testing.T) {
	processor := NewImageProcessor()

	_, err := processor.NormalizePNG([]byte("not an image"), 64)
	assert.Error(t, err)

	_, err = processor.NormalizePNG(solidPNG(t, 8, 8, color.White), 0)
	assert.Error(t, err)
}

func TestApplyBackground(t *testing.T) {
	translucent := solidPNG(t, 64, 64, color.NRGBA{R: 255, A: 128})

	for _, bg := range []string{"ffffff", "#1d2330"} {
		out, err := ApplyBackground(translucent, bg)
		require.NoError(t, err, bg)
		requirePNGSize(t, out, 64, 64)
	}

	_, err := ApplyBackground(translucent, "nope")
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		want    [3]uint8
		wantErr bool
	}{
		{hex: "ffffff", want: [3]uint8{255, 255, 255}},
		{hex: "000000", want: [3]uint8{0, 0, 0}},
		{hex: "#00ff00", want: [3]uint8{0, 255, 0}},
		{hex: "aaBBcc", want: [3]uint8{170, 187, 204}},
		{hex: "fff", wantErr: true},
		{hex: "fffffff", wantErr: true},
		{hex: "gggggg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			r, g, b, err := parseHexColor(tt.hex)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, [3]uint8{r, g, b})
		})
	}
}
