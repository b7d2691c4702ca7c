package service

import (
	"regexp"
	"strings"
)

// svgBlock matches the first <svg ...>...</svg> element, across newlines.
// The lazy .*? stops at the first closing tag.
var svgBlock = regexp.MustCompile(`(?s)<svg.*?</svg>`)

// ExtractSVG pulls SVG markup out of a model's free-text answer.
//
// Models often wrap the SVG in prose or markdown fences. If a complete
// <svg>...</svg> element is present it is returned verbatim. Otherwise the
// leading ```svg fence and a trailing ``` fence are stripped and the rest is
// trimmed: whatever is left is the best guess.
func ExtractSVG(raw string) string {
	if m := svgBlock.FindString(raw); m != "" {
		return m
	}

	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```svg")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
