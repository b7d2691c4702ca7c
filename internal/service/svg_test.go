package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSVG(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "surrounded by prose",
			raw:  `garbage <svg viewBox="0 0 100 100"><circle/></svg> trailing`,
			want: `<svg viewBox="0 0 100 100"><circle/></svg>`,
		},
		{
			name: "fenced with complete element",
			raw:  "```svg\n<svg></svg>\n```",
			want: "<svg></svg>",
		},
		{
			name: "multiline element",
			raw:  "Here it is:\n<svg viewBox=\"0 0 100 100\">\n  <rect width=\"10\"/>\n</svg>\nEnjoy!",
			want: "<svg viewBox=\"0 0 100 100\">\n  <rect width=\"10\"/>\n</svg>",
		},
		{
			name: "first of two elements",
			raw:  "<svg id=\"a\"></svg><svg id=\"b\"></svg>",
			want: "<svg id=\"a\"></svg>",
		},
		{
			name: "fallback strips fences when no closing tag",
			raw:  "```svg\n<svg viewBox=\"0 0 100 100\"/>\n```",
			want: "<svg viewBox=\"0 0 100 100\"/>",
		},
		{
			name: "fallback trims whitespace",
			raw:  "   <rect/>  \n",
			want: "<rect/>",
		},
		{
			name: "empty",
			raw:  "  ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSVG(tt.raw))
		})
	}
}
