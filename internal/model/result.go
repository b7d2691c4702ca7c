// Package model defines the core data types for namesmith.
// In Go, we use structs instead of classes. Struct tags (the `json:"..."` and
// `db:"..."` annotations) tell serialization libraries how to map fields.
package model

import (
	"errors"
	"regexp"
	"strings"
)

// FailedLogoDescription replaces an idea's description when its logo step failed.
const FailedLogoDescription = "Logo generation failed for this idea."

// ErrIndustryRequired is returned when a submission has no usable industry.
var ErrIndustryRequired = errors.New("industry is required")

// UserInput holds the two free-text fields the user supplies.
// It is passed by value so the orchestrator always works on its own copy.
type UserInput struct {
	Industry    string `json:"industry" form:"industry"`
	Preferences string `json:"preferences" form:"preferences"`
}

// Validate rejects an empty or whitespace-only industry.
func (u UserInput) Validate() error {
	if strings.TrimSpace(u.Industry) == "" {
		return ErrIndustryRequired
	}
	return nil
}

// NameIdea is one element of the idea-generation response.
// Field order matters: the model is asked for name first, then description.
type NameIdea struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Logo is the output of one successful logo step.
type Logo struct {
	PNG []byte
	SVG string
}

// GeneratedResult is the unit rendered per card.
type GeneratedResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PNGBase64   string `json:"pngBase64"`
	SVGCode     string `json:"svgCode"`
}

// FailedResult builds the placeholder used when an idea's logo step failed.
// The name is kept so the card still shows which idea it was.
func FailedResult(idea NameIdea) GeneratedResult {
	return GeneratedResult{
		Name:        idea.Name,
		Description: FailedLogoDescription,
	}
}

// Failed reports whether both payloads are missing.
func (r GeneratedResult) Failed() bool {
	return r.PNGBase64 == "" && r.SVGCode == ""
}

// HasPNG reports whether the raster download is available.
func (r GeneratedResult) HasPNG() bool { return r.PNGBase64 != "" }

// HasSVG reports whether the vector download is available.
func (r GeneratedResult) HasSVG() bool { return r.SVGCode != "" }

var whitespaceRun = regexp.MustCompile(`\s+`)

// DownloadFilename derives the saved filename for a result's logo.
// Whitespace runs collapse to a single underscore:
// "Blue Fox  Coffee" + "png" → "Blue_Fox_Coffee_logo.png".
func DownloadFilename(name, ext string) string {
	return whitespaceRun.ReplaceAllString(name, "_") + "_logo." + ext
}
