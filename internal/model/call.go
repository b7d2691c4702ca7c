package model

import "time"

// CallKind identifies which backend operation a model call served.
// Go doesn't have enums: we use typed constants with explicit values.
type CallKind string

const (
	CallIdeas CallKind = "ideas"
	CallImage CallKind = "image"
	CallSVG   CallKind = "svg"
)

// AllCallKinds is the ordered list of kinds for iteration.
var AllCallKinds = []CallKind{CallIdeas, CallImage, CallSVG}

// ModelCall records one call to a generative backend for cost monitoring.
// Only metadata is stored: never prompts or generated payloads.
type ModelCall struct {
	ID           int64     `db:"id" json:"id"`
	Kind         CallKind  `db:"kind" json:"kind"`
	Provider     string    `db:"provider" json:"provider"`
	Model        string    `db:"model" json:"model"`
	Subject      string    `db:"subject" json:"subject"`
	Success      bool      `db:"success" json:"success"`
	DurationMs   *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
